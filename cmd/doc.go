// Package cmd implements the CLI commands for ai-shell.
//
// # Architecture
//
//   - root.go: Main entry point, App struct, cobra command setup, and
//     flags. With no arguments it starts the interactive shell wrapper;
//     with arguments it runs a single one-shot query.
//   - login.go: Claude CLI authentication commands (login, logout,
//     status), thin wrappers over the CLI's own flows.
//
// # Key Components
//
// The App struct holds configuration and the active agent. It's created
// in Execute() and shared by the command handlers; setup() validates the
// config, wires diagnostic logging, and selects the agent binary (the
// real Claude CLI or a test double named by AI_SHELL_CLAUDE_BIN).
//
// # Usage
//
//	// Main entry point
//	func main() {
//	    cmd.Execute()
//	}
package cmd
