/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"

	"github.com/charmbracelet/fang"
	"github.com/orien/lambdaroo/internal/version"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	configFile string
	region     string
	profile    string
	verbose    bool
	noColour   bool
}

var globals globalOptions

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lambdaroo",
	Short: "Deploy AWS Lambda functions through CloudFormation change sets",
	Long: `Lambdaroo deploys a Lambda-based CloudFormation stack from a template and a
pre-built code package:

• Uploads the package and the template to S3
• Points function resources at the uploaded package
• Creates, reviews and executes a change set
• Recreates stacks left behind by a failed create
• Streams stack events until the deployment finishes

Defaults for each stack can be kept in lambdaroo.yaml; flags override them.`,
	SilenceUsage: true,
}

// RootCommand returns the lambdaroo command tree
func RootCommand() *cobra.Command {
	return rootCmd
}

// Execute runs the CLI with fang's styled help, errors and version output
func Execute(ctx context.Context) error {
	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.GitCommit),
	)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globals.configFile, "config", "c", "lambdaroo.yaml", "defaults file")
	rootCmd.PersistentFlags().StringVar(&globals.region, "region", "", "AWS region (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&globals.profile, "profile", "p", "", "AWS profile (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&globals.noColour, "no-colour", false, "disable coloured output")
}
