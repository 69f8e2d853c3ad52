package vfs

import (
	"fmt"
	"path/filepath"
)

func joinPath(elem ...string) string {
	return filepath.Join(elem...)
}

func formatFamilyDir(tfID uint32) string {
	return fmt.Sprintf("%d", tfID)
}

func formatFileName(fileID uint64, ext string) string {
	return fmt.Sprintf("_%06d.%s", fileID, ext)
}
