package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/ai-shell/internal/agent"
)

// NewLoginCmd creates the login command
func NewLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate the Claude CLI",
		Long: `Run the Claude CLI's interactive login flow.

ai-shell normally triggers login automatically when a query fails
authentication; this command runs it up front.

Examples:
  ai-shell login`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			claude, ok := app.agent.(*agent.ClaudeAgent)
			if !ok {
				return fmt.Errorf("agent does not support interactive login")
			}
			return claude.RunInteractive(cmd.Context(), "/login")
		},
	}
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the Claude CLI's stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			claude, ok := app.agent.(*agent.ClaudeAgent)
			if !ok {
				return fmt.Errorf("agent does not support interactive logout")
			}
			return claude.RunInteractive(cmd.Context(), "/logout")
		},
	}
}

// NewStatusCmd creates the status command
func NewStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the Claude CLI is installed and authenticated",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}

			fmt.Printf("Agent: %s\n", app.agent.Name())
			fmt.Printf("Binary: %s\n", app.cfg.ClaudeBinary)

			claude, ok := app.agent.(*agent.ClaudeAgent)
			if !ok {
				return nil
			}
			status := claude.Ready(context.Background())
			fmt.Printf("Status: %s\n", status)

			switch status {
			case agent.StatusNotInstalled:
				fmt.Println("Install the Claude CLI: https://docs.anthropic.com/en/docs/claude-code/getting-started")
			case agent.StatusNotLoggedIn:
				fmt.Println("Run 'ai-shell login' to authenticate")
			}
			return nil
		},
	}
}
