/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/orien/lambdaroo/internal/aws"
	"github.com/orien/lambdaroo/internal/config"
	"github.com/orien/lambdaroo/internal/config/file"
	"github.com/orien/lambdaroo/internal/deploy"
)

var (
	// deployer can be injected for testing
	deployer deploy.Deployer

	// configProvider can be injected for testing
	configProvider config.ConfigProvider
)

// SetDeployer allows injection of a deployer (for testing)
func SetDeployer(d deploy.Deployer) {
	deployer = d
}

// SetConfigProvider allows injection of a config provider (for testing)
func SetConfigProvider(p config.ConfigProvider) {
	configProvider = p
}

// getConfigProvider returns the injected provider or one reading filename
func getConfigProvider(filename string) config.ConfigProvider {
	if configProvider != nil {
		return configProvider
	}
	return file.NewProvider(filename)
}

// getDeployer returns the injected deployer or one backed by a new AWS client
func getDeployer(ctx context.Context, clientConfig aws.Config, opts ...deploy.Option) (deploy.Deployer, error) {
	if deployer != nil {
		return deployer, nil
	}

	client, err := aws.NewDefaultClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}
	return deploy.NewDefaultDeployer(client, opts...), nil
}

// useColour reports whether styled output should be written to stdout
func useColour(noColour bool) bool {
	if noColour || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(os.Stdout.Fd())
}
