package tui

import (
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

var (
	accent = lipgloss.Color("#667eea")
	muted  = lipgloss.Color("#6b7280")

	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(accent).Padding(0, 1)
	dateStyle       = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	navStyle        = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	navActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true).Padding(0, 1)
	chartTitleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(muted)
	negativeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	positiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	tileStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 2)
	tileLabelStyle  = lipgloss.NewStyle().Foreground(muted)
	tipStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#764ba2")).Padding(0, 1)
	modalStyle      = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(accent).Padding(1, 2)
	errorModalStyle = modalStyle.BorderForeground(lipgloss.Color("#ef4444"))
	selectedStyle   = lipgloss.NewStyle().Foreground(accent).Bold(true)
	helpStyle       = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
)
