/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package events

import (
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"charm.land/lipgloss/v2"
)

// Styles renders event lines
type Styles struct {
	Timestamp  lipgloss.Style
	Resource   lipgloss.Style
	Complete   lipgloss.Style
	Failed     lipgloss.Style
	InProgress lipgloss.Style
	Reason     lipgloss.Style

	useColour bool
}

// NewStyles builds styles from fang's colour scheme so event output matches
// the rest of the CLI. Without colour every style renders text unchanged.
func NewStyles(useColour bool) *Styles {
	s := &Styles{useColour: useColour}
	if !useColour {
		plain := lipgloss.NewStyle()
		s.Timestamp, s.Resource, s.Complete, s.Failed, s.InProgress, s.Reason = plain, plain, plain, plain, plain, plain
		return s
	}

	hasDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	lightDark := lipgloss.LightDark(hasDark)
	scheme := fang.DefaultColorScheme(lightDark)

	s.Timestamp = lipgloss.NewStyle().Foreground(scheme.Comment)
	s.Resource = lipgloss.NewStyle().Foreground(scheme.Argument)
	s.Complete = lipgloss.NewStyle().Foreground(scheme.Flag).Bold(true)
	s.Failed = lipgloss.NewStyle().Foreground(scheme.ErrorDetails).Bold(true)
	s.InProgress = lipgloss.NewStyle().Foreground(lightDark(
		lipgloss.Color("130"), // amber on light backgrounds
		lipgloss.Color("214"), // amber on dark backgrounds
	))
	s.Reason = lipgloss.NewStyle().Foreground(scheme.Comment).Italic(true)
	return s
}

type tone int

const (
	toneComplete tone = iota
	toneFailed
	toneInProgress
)

func toneOf(status string) tone {
	switch {
	case strings.Contains(status, "FAILED"), strings.Contains(status, "ROLLBACK"):
		return toneFailed
	case strings.HasSuffix(status, "IN_PROGRESS"):
		return toneInProgress
	default:
		return toneComplete
	}
}

// Status picks the style for a raw resource or stack status
func (s *Styles) Status(status string) lipgloss.Style {
	switch toneOf(status) {
	case toneFailed:
		return s.Failed
	case toneInProgress:
		return s.InProgress
	default:
		return s.Complete
	}
}

// Render applies style to text when colour is enabled
func (s *Styles) Render(style lipgloss.Style, text string) string {
	if !s.useColour {
		return text
	}
	return style.Render(text)
}
