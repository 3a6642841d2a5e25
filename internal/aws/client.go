/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client creates the provider operations a deployment needs
type Client interface {
	NewCloudFormationOperations() CloudFormationOperations
	NewObjectStore() ObjectStore
	Region() string
}

// DefaultClient provides a high-level interface for AWS operations
type DefaultClient struct {
	config aws.Config
	cfn    *cloudformation.Client
	s3     *s3.Client
}

var _ Client = (*DefaultClient)(nil)

// Config holds configuration for creating an AWS client
type Config struct {
	Region  string
	Profile string
	// AppID is added to the user agent of every request
	AppID string
}

// NewDefaultClient creates a new AWS client with the specified configuration
func NewDefaultClient(ctx context.Context, cfg Config) (*DefaultClient, error) {
	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	if cfg.AppID != "" {
		opts = append(opts, config.WithAppID(cfg.AppID))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	if awsCfg.Region == "" {
		return nil, fmt.Errorf("no AWS region configured; set --region, AWS_REGION or a profile region")
	}

	return &DefaultClient{
		config: awsCfg,
		cfn:    cloudformation.NewFromConfig(awsCfg),
		s3:     s3.NewFromConfig(awsCfg),
	}, nil
}

// NewCloudFormationOperations creates CloudFormation operations backed by this client
func (c *DefaultClient) NewCloudFormationOperations() CloudFormationOperations {
	return NewCloudFormationOperationsWithClient(c.cfn)
}

// NewObjectStore creates an S3 object store backed by this client
func (c *DefaultClient) NewObjectStore() ObjectStore {
	return NewS3ObjectStore(manager.NewUploader(c.s3))
}

// Region returns the configured AWS region
func (c *DefaultClient) Region() string {
	return c.config.Region
}
