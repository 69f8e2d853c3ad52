// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package cloud is an optional remote tier for flushed column files,
// adapted from a cloud-storage vfs.FS wrapper into a narrower best-effort
// upload hook: an upload failure is logged rather than returned, and a
// failed or unconfigured uploader simply means the file stays local-only.
// The hook runs synchronously; its caller waits for the upload to finish.
package cloud

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/cockroachdb/errors"

	"github.com/cnosdb/tskv/internal/base"
)

// Uploader ships a flushed column file's bytes to a remote store, keyed by
// the family and file id that produced it. Implementations must not block
// the caller beyond what the underlying transport requires; callers treat
// upload failures as best-effort and log rather than fail the flush.
type Uploader interface {
	Upload(ctx context.Context, tfID base.TseriesFamilyID, fileID base.ColumnFileID, r io.Reader) error
}

// NopUploader discards every upload; it is the default when no remote tier
// is configured.
type NopUploader struct{}

func (NopUploader) Upload(context.Context, base.TseriesFamilyID, base.ColumnFileID, io.Reader) error {
	return nil
}

// S3Uploader uploads column files to a single S3 bucket under
// {prefix}/{tfID}/{fileID}, using the manager package's multipart-aware
// uploader so large on-disk segments do not need to be buffered whole.
type S3Uploader struct {
	bucket   string
	prefix   string
	uploader *s3manager.Uploader
	client   *s3.S3
}

// Config names the bucket, key prefix, and AWS region an S3Uploader uploads
// into.
type Config struct {
	Bucket string
	Prefix string
	Region string
}

// NewS3Uploader builds an S3Uploader from cfg, establishing an AWS session
// the way a cloud-backed vfs.FS would at construction time.
func NewS3Uploader(cfg Config) (*S3Uploader, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		return nil, errors.Wrap(err, "cloud: create aws session")
	}
	return &S3Uploader{
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
	}, nil
}

// Upload streams r to s3://{bucket}/{prefix}/{tfID}/{fileID}.
func (u *S3Uploader) Upload(ctx context.Context, tfID base.TseriesFamilyID, fileID base.ColumnFileID, r io.Reader) error {
	key := fmt.Sprintf("%s/%d/%d", u.prefix, tfID, fileID)
	_, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return errors.Wrapf(err, "cloud: upload %s", key)
	}
	return nil
}

// Delete removes a previously uploaded column file from the remote tier,
// used when a ColumnFile is marked deleted and its last reference is
// released.
func (u *S3Uploader) Delete(ctx context.Context, tfID base.TseriesFamilyID, fileID base.ColumnFileID) error {
	key := fmt.Sprintf("%s/%d/%d", u.prefix, tfID, fileID)
	_, err := u.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrapf(err, "cloud: delete %s", key)
	}
	return nil
}

// BestEffortUpload calls Upload synchronously and swallows the error after
// logging it via logf, so a remote-tier failure never fails the flush that
// produced the file.
func BestEffortUpload(ctx context.Context, u Uploader, tfID base.TseriesFamilyID, fileID base.ColumnFileID, data []byte, logf func(format string, args ...interface{})) {
	if u == nil {
		return
	}
	if err := u.Upload(ctx, tfID, fileID, bytes.NewReader(data)); err != nil && logf != nil {
		logf("cloud: best-effort upload of family %d file %d failed: %v", tfID, fileID, err)
	}
}
