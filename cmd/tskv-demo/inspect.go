package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

func newInspectCmd(maxMemCacheSize *uint64, maxImMemCacheNum *int) *cobra.Command {
	var bundlePath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Dump the current SuperVersion/Version with kr/pretty",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := newDemoState(*maxMemCacheSize, *maxImMemCacheNum)
			sv := state.family.SuperVersion()

			dump := fmt.Sprintf("%# v\n", pretty.Formatter(sv))
			fmt.Print(dump)

			if bundlePath == "" {
				return nil
			}
			return writeCompressedBundle(bundlePath, []byte(dump))
		},
	}
	cmd.Flags().StringVar(&bundlePath, "bundle", "", "path to write a flate-compressed support bundle")
	return cmd
}

// writeCompressedBundle deflate-compresses data and writes it to path, for
// a support bundle a user can attach to a bug report without shipping the
// raw (potentially large) pretty-printed dump.
func writeCompressedBundle(path string, data []byte) error {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return fmt.Errorf("inspect: create flate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("inspect: compress bundle: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("inspect: finalize bundle: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
