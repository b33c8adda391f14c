package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	useColor = true

	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// printStyled prints a message to the console, styled unless colors are disabled.
func printStyled(style lipgloss.Style, message string) {
	if useColor {
		fmt.Println(style.Render(message))
	} else {
		fmt.Println(message)
	}
}

func printInfo(message string) {
	printStyled(infoStyle, message)
}

func printSuccess(message string) {
	printStyled(successStyle, message)
}

func printWarning(message string) {
	printStyled(warningStyle, message)
}

func printError(message string) {
	printStyled(errorStyle, message)
}
