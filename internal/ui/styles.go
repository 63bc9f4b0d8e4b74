package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("39")  // Cyan
	ColorSecondary = lipgloss.Color("212") // Pink
	ColorSuccess   = lipgloss.Color("82")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorMuted     = lipgloss.Color("245") // Gray
	ColorHighlight = lipgloss.Color("226") // Yellow
)

// Styles for various UI elements
var (
	// Text styles
	Bold   = lipgloss.NewStyle().Bold(true)
	Dim    = lipgloss.NewStyle().Foreground(ColorMuted)
	Header = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	// Status styles
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)
	Error   = lipgloss.NewStyle().Foreground(ColorError)

	// Record styles
	RecordName = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	RecordID   = lipgloss.NewStyle().Foreground(ColorMuted)
	RecordType = lipgloss.NewStyle().Foreground(ColorSecondary)
	TagStyle   = lipgloss.NewStyle().Foreground(ColorHighlight)

	// Search result styles
	ResultScore   = lipgloss.NewStyle().Foreground(ColorSuccess)
	ResultDetails = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingLeft(2)

	// Section styles
	SectionTitle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true).
			MarginTop(1)
	Divider = lipgloss.NewStyle().
		Foreground(ColorMuted)
)

// relevanceStyles colors each relevance band.
var relevanceStyles = map[string]lipgloss.Style{
	"Excellent match": lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
	"Good match":      lipgloss.NewStyle().Foreground(ColorSuccess),
	"Fair match":      lipgloss.NewStyle().Foreground(ColorHighlight),
	"Possible match":  lipgloss.NewStyle().Foreground(ColorWarning),
	"Weak match":      lipgloss.NewStyle().Foreground(ColorMuted),
}

// HorizontalRule returns a styled horizontal divider.
func HorizontalRule(width int) string {
	return Divider.Render(strings.Repeat("─", width))
}

// FormatScore formats a similarity score with two decimals.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// FormatSize formats a byte count for humans.
func FormatSize(size int64) string {
	if size < 0 {
		return fmt.Sprintf("%d B", size)
	}
	return humanize.Bytes(uint64(size))
}

// FormatTags renders tags as a comma separated list.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return Dim.Render("no tags")
	}
	styled := make([]string, len(tags))
	for i, t := range tags {
		styled[i] = TagStyle.Render(t)
	}
	return strings.Join(styled, ", ")
}

// RenderRelevance colors a relevance label by band.
func RenderRelevance(label string) string {
	if style, ok := relevanceStyles[label]; ok {
		return style.Render(label)
	}
	return label
}
