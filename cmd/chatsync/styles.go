package main

import "github.com/charmbracelet/lipgloss"

var (
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ownMsgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	peerMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)
