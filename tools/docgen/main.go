/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lambdacmd "github.com/orien/lambdaroo/cmd"
	"github.com/orien/lambdaroo/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

const (
	formatMarkdown = "markdown"
	formatMan      = "man"
)

func main() {
	var outputDir, format string

	docgen := &cobra.Command{
		Use:          "docgen",
		Short:        "Generate lambdaroo CLI reference documentation",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(lambdacmd.RootCommand(), outputDir, format)
		},
	}
	docgen.Flags().StringVarP(&outputDir, "out", "o", filepath.Join("docs", "reference", "cli"), "output directory")
	docgen.Flags().StringVarP(&format, "format", "f", formatMarkdown, "output format (markdown or man)")

	if err := docgen.Execute(); err != nil {
		os.Exit(1)
	}
}

// generate writes the reference pages for root and its subcommands into dir,
// replacing pages left over from a previous run
func generate(root *cobra.Command, dir, format string) error {
	var suffix string
	switch format {
	case formatMarkdown:
		suffix = ".md"
	case formatMan:
		suffix = ".1"
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := removeGenerated(dir, suffix); err != nil {
		return fmt.Errorf("clean output directory: %w", err)
	}

	disableAutoGenTag(root)

	if format == formatMan {
		header := &doc.GenManHeader{
			Title:   strings.ToUpper(version.Name),
			Section: "1",
			Source:  version.Name + " " + version.Short(),
		}
		if err := doc.GenManTree(root, header, dir); err != nil {
			return fmt.Errorf("generate man pages: %w", err)
		}
		return nil
	}

	if err := doc.GenMarkdownTreeCustom(root, dir, frontMatter, linkHandler); err != nil {
		return fmt.Errorf("generate markdown documentation: %w", err)
	}
	return nil
}

func removeGenerated(dir, suffix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func disableAutoGenTag(cmd *cobra.Command) {
	cmd.DisableAutoGenTag = true
	for _, child := range cmd.Commands() {
		disableAutoGenTag(child)
	}
}

// frontMatter titles each page after its command path
func frontMatter(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return fmt.Sprintf("---\ntitle: %q\n---\n\n", strings.ReplaceAll(base, "_", " "))
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ReplaceAll(base, " ", "-")
	return strings.ToLower(base)
}
