/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestS3ObjectStore_PutObject(t *testing.T) {
	ctx := context.Background()
	uploader := &MockUploader{}
	store := NewS3ObjectStore(uploader)

	uploader.On("Upload", ctx, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return aws.ToString(input.Bucket) == "b" && aws.ToString(input.Key) == "builds/demo.template"
	})).Return(&manager.UploadOutput{Location: "https://b.s3.us-east-1.amazonaws.com/builds/demo.template"}, nil)

	url, err := store.PutObject(ctx, "b", "builds/demo.template", strings.NewReader("{}"))

	require.NoError(t, err)
	assert.Equal(t, "https://b.s3.us-east-1.amazonaws.com/builds/demo.template", url)
	uploader.AssertExpectations(t)
}

func TestS3ObjectStore_PutObject_FallbackURL(t *testing.T) {
	ctx := context.Background()
	uploader := &MockUploader{}
	store := NewS3ObjectStore(uploader)

	uploader.On("Upload", ctx, mock.Anything).Return(&manager.UploadOutput{}, nil)

	url, err := store.PutObject(ctx, "b", "demo.zip", strings.NewReader("zip"))

	require.NoError(t, err)
	assert.Equal(t, "https://b.s3.amazonaws.com/demo.zip", url)
}

func TestS3ObjectStore_PutObject_Failure(t *testing.T) {
	ctx := context.Background()
	uploader := &MockUploader{}
	store := NewS3ObjectStore(uploader)

	uploader.On("Upload", ctx, mock.Anything).Return(nil, errors.New("NoSuchBucket"))

	_, err := store.PutObject(ctx, "b", "demo.zip", strings.NewReader("zip"))

	var remoteErr *RemoteOperationError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, CodePutObjectFailed, remoteErr.Code)
	assert.Contains(t, err.Error(), "s3://b/demo.zip")
}
