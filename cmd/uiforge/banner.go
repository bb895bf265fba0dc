package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"uiforge/internal/pipeline"
)

var (
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().Faint(true)
)

// printRunBanner reports a finished run. A run that only hit recoverable
// errors still counts as a success, possibly with zero artifacts.
func printRunBanner(report *pipeline.RunReport) {
	fmt.Println(successStyle.Render(fmt.Sprintf("run complete: %d artifact(s) written", report.ArtifactsWritten)))
	for _, line := range report.Lines() {
		fmt.Println(dimStyle.Render(line))
	}
}

func printErrorBanner(err error) {
	banner := "error"
	if isFatal(err) {
		banner = "fatal"
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[%s] %v", banner, err)))
}
