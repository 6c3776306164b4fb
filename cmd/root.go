package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/ai-shell/internal/agent"
	"github.com/quocvuong92/ai-shell/internal/config"
	"github.com/quocvuong92/ai-shell/internal/intercept"
	"github.com/quocvuong92/ai-shell/internal/logging"
	"github.com/quocvuong92/ai-shell/internal/shell"
)

// App holds the application state
type App struct {
	cfg      *config.Config
	agent    agent.Agent
	logClose io.Closer
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg: config.NewConfig(),
	}
}

// Execute runs the root command
func Execute() {
	app := NewApp()

	rootCmd := &cobra.Command{
		Use:   "ai-shell [query]",
		Short: "A shell wrapper that answers unresolved commands with AI",
		Long: `ai-shell wraps an interactive shell. Commands that resolve run
normally; anything the shell cannot resolve is routed to the Claude CLI
as a natural-language query and the streamed answer is rendered inline.

Examples:
  ai-shell                            # Interactive shell
  ai-shell how do I find large files  # One-shot query
  ai-shell -r what does awk do        # One-shot with markdown rendering`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.run(cmd, args)
		},
	}

	rootCmd.Flags().BoolVarP(&app.cfg.Render, "render", "r", false, "Render completed answers as styled markdown")
	rootCmd.Flags().StringVar(&app.cfg.ClaudeBinary, "claude-bin", "", "Claude CLI binary (default: claude, or AI_SHELL_CLAUDE_BIN)")
	rootCmd.Flags().StringVar(&app.cfg.DebugLevel, "debug", "", "Diagnostic log level (debug, info, warn, error)")

	rootCmd.AddCommand(NewLoginCmd(app))
	rootCmd.AddCommand(NewLogoutCmd(app))
	rootCmd.AddCommand(NewStatusCmd(app))

	err := rootCmd.Execute()
	app.shutdown()
	if err != nil {
		os.Exit(1)
	}
}

// shutdown releases process-lifetime resources, the debug log file among
// them.
func (app *App) shutdown() {
	if app.logClose != nil {
		_ = app.logClose.Close()
	}
}

// setup validates config and wires logging and the agent. Shared by the
// root command and subcommands.
func (app *App) setup() error {
	if err := app.cfg.Validate(); err != nil {
		return err
	}

	if app.cfg.DebugLevel != "" {
		if dir, err := config.StateDir(); err == nil {
			if closer, err := logging.DefaultLogger.EnableFileOutput(dir, logging.ParseLevel(app.cfg.DebugLevel)); err == nil {
				app.logClose = closer
			}
		}
	}

	app.agent = agent.New(app.cfg)
	return nil
}

func (app *App) run(cmd *cobra.Command, args []string) {
	if err := app.setup(); err != nil {
		cmd.PrintErrln(err)
		os.Exit(1)
	}

	interceptor := intercept.New(app.cfg, app.agent)

	// One-shot mode: the arguments are the query.
	if len(args) > 0 {
		interceptor.Ask(context.Background(), strings.Join(args, " "))
		return
	}

	shell.New(app.cfg, interceptor).Run()
}
