// Package shell implements the interactive shell wrapper. Resolvable
// commands run normally through the system shell; unresolved ones go to
// the interception hook and come back as AI answers.
package shell

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/elk-language/go-prompt"

	"github.com/quocvuong92/ai-shell/internal/config"
	"github.com/quocvuong92/ai-shell/internal/intercept"
)

// Shell is the interactive REPL session.
type Shell struct {
	cfg         *config.Config
	interceptor *intercept.Interceptor
	exitFlag    bool
}

// New creates a Shell around the given interceptor.
func New(cfg *config.Config, interceptor *intercept.Interceptor) *Shell {
	return &Shell{
		cfg:         cfg,
		interceptor: interceptor,
	}
}

// Run starts the REPL and blocks until the user exits.
func (s *Shell) Run() {
	fmt.Println("ai-shell - unresolved commands are answered by AI")
	fmt.Println("Type exit or Ctrl+D to quit")
	fmt.Println()

	p := prompt.New(
		s.execute,
		prompt.WithPrefix("$ "),
		prompt.WithTitle("ai-shell"),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return s.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Println("exit")
					s.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()
}

// execute handles one input line: builtins first, then the system shell,
// then the AI fallback for anything unresolvable.
func (s *Shell) execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	tokens := strings.Fields(line)
	switch tokens[0] {
	case "exit", "quit":
		s.exitFlag = true
		return
	case "cd":
		s.changeDir(tokens)
		return
	}

	if !Resolvable(tokens[0]) {
		result := s.interceptor.OnCommandNotFound(context.Background(), tokens)
		if !result.Handled {
			fmt.Fprintf(os.Stderr, "ai-shell: command not found: %s\n", tokens[0])
		}
		return
	}

	s.runCommand(line)
}

// runCommand executes a resolvable line through the system shell so
// pipes, globs and quoting behave as expected.
func (s *Shell) runCommand(line string) {
	sh := os.Getenv("SHELL")
	if sh == "" {
		sh = "/bin/sh"
	}
	cmd := exec.Command(sh, "-c", line)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	_ = cmd.Run()
}

func (s *Shell) changeDir(tokens []string) {
	dir := ""
	if len(tokens) > 1 {
		dir = tokens[1]
	}
	if dir == "" || dir == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cd: %v\n", err)
			return
		}
		dir = home
	}
	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "cd: %v\n", err)
	}
}

// Resolvable reports whether the first token names something the system
// shell could run: an executable on PATH, a path, or a shell keyword.
func Resolvable(first string) bool {
	if strings.ContainsAny(first, "/=") {
		// Paths and VAR=value prefixes go to the shell as-is.
		return true
	}
	if shellBuiltins[first] {
		return true
	}
	_, err := exec.LookPath(first)
	return err == nil
}

// shellBuiltins are keywords LookPath cannot see but the shell handles.
var shellBuiltins = map[string]bool{
	"alias": true, "bg": true, "command": true, "echo": true,
	"eval": true, "export": true, "fg": true, "jobs": true,
	"kill": true, "printf": true, "pwd": true, "read": true,
	"set": true, "source": true, "test": true, "true": true,
	"type": true, "ulimit": true, "umask": true, "unset": true,
	"wait": true, "which": true, "for": true, "while": true,
	"if": true, "case": true, "time": true,
}
