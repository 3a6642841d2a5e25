/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ObjectStore uploads objects with the S3 upload manager
type S3ObjectStore struct {
	uploader Uploader
}

// NewS3ObjectStore creates an object store using the given uploader
func NewS3ObjectStore(uploader Uploader) *S3ObjectStore {
	return &S3ObjectStore{uploader: uploader}
}

// PutObject uploads body to bucket/key and returns the object's URL
func (s *S3ObjectStore) PutObject(ctx context.Context, bucket, key string, body io.Reader) (string, error) {
	output, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", newRemoteError(CodePutObjectFailed, fmt.Sprintf("upload s3://%s/%s", bucket, key), err)
	}

	if output.Location != "" {
		return output.Location, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key), nil
}
