// Package ui provides the terminal presentation helpers.
//
// ResultRenderer prints ActionResult values with fatih/color highlighting,
// FormPrompter and LinePrompter collect input for the interactive mode (huh
// forms on a terminal, plain lines otherwise), and ConsoleCommandEventLogger
// turns command lifecycle events into concise progress messages while
// detailed telemetry continues to flow through structured loggers.
package ui
