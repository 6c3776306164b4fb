// Package display renders the agent's response stream incrementally to
// the terminal. It owns the output stream for the duration of a query; no
// other component writes to it.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/quocvuong92/ai-shell/internal/protocol"
)

// Formatter consumes the ordered response sequence for one query and
// mutates its display state as it goes. Create a fresh Formatter per
// query.
type Formatter struct {
	out   io.Writer
	width int

	// render buffers assistant prose and prints it styled on completion
	// instead of streaming it raw
	render bool

	lastWasNewline bool
	messageBuf     strings.Builder
	errorCount     int
	totalTokens    int
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithOutput directs output somewhere other than stdout.
func WithOutput(w io.Writer) Option {
	return func(f *Formatter) { f.out = w }
}

// WithWidth fixes the terminal width instead of probing it.
func WithWidth(w int) Option {
	return func(f *Formatter) { f.width = w }
}

// WithMarkdown buffers prose and prints it through the markdown renderer
// when the answer completes, trading streaming for styling.
func WithMarkdown() Option {
	return func(f *Formatter) { f.render = true }
}

// NewFormatter creates a Formatter writing to stdout at the current
// terminal width.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		out:            os.Stdout,
		lastWasNewline: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.width == 0 {
		f.width = terminalWidth()
	}
	return f
}

// Format renders one response. Errors produce no output; they are only
// counted.
func (f *Formatter) Format(resp protocol.Response) {
	switch r := resp.(type) {
	case protocol.Init:
		f.breakLine()
		f.println(formatInit(r))
	case protocol.Message:
		if f.render {
			f.messageBuf.WriteString(r.Content)
			return
		}
		fmt.Fprint(f.out, r.Content)
		f.lastWasNewline = strings.HasSuffix(r.Content, "\n")
	case protocol.ToolUse:
		f.flushMessage()
		f.breakLine()
		f.println(formatToolUse(r.Tool, r.Content, f.width))
	case protocol.ToolResult:
		f.flushMessage()
		if line := formatToolResult(r.Tool, r.Content, f.width); line != "" {
			f.breakLine()
			f.println(line)
		}
	case protocol.Error:
		// Never rendered; recovery and diagnostics handle these.
		f.errorCount++
	case protocol.Result:
		f.flushMessage()
		f.totalTokens += r.Tokens()
		f.breakLine()
		f.println("")
		f.println(formatResult(r))
	}
}

// ErrorCount returns how many Error responses went by unrendered.
func (f *Formatter) ErrorCount() int {
	return f.errorCount
}

// TotalTokens returns the cumulative token count across results.
func (f *Formatter) TotalTokens() int {
	return f.totalTokens
}

func formatInit(r protocol.Init) string {
	if r.SessionID != "" {
		return fmt.Sprintf("🚀 %s: model=%s, id=%s", r.Agent, r.Model, r.SessionID)
	}
	return fmt.Sprintf("🚀 %s: model=%s", r.Agent, r.Model)
}

func formatResult(r protocol.Result) string {
	return fmt.Sprintf("📊 %s, next_session_tokens=%d", r.Content, r.Tokens())
}

// flushMessage prints buffered prose through the markdown renderer. No-op
// unless WithMarkdown is active and prose is pending.
func (f *Formatter) flushMessage() {
	if !f.render || f.messageBuf.Len() == 0 {
		return
	}
	text := f.messageBuf.String()
	f.messageBuf.Reset()
	rendered, err := renderMarkdown(text, f.width)
	if err != nil {
		rendered = text
	}
	fmt.Fprint(f.out, rendered)
	f.lastWasNewline = strings.HasSuffix(rendered, "\n")
}

// breakLine completes a pending partial line before block output.
func (f *Formatter) breakLine() {
	if !f.lastWasNewline {
		fmt.Fprintln(f.out)
		f.lastWasNewline = true
	}
}

func (f *Formatter) println(s string) {
	fmt.Fprintln(f.out, s)
	f.lastWasNewline = true
}

// truncateWidth trims s to fit the terminal, counting display columns so
// wide scripts and symbols truncate correctly.
func truncateWidth(s string, width int) string {
	if width <= 3 {
		return s
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-3, "") + "..."
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// ShowError prints a single diagnostic line. This is the only path that
// ever surfaces an error to the user.
func ShowError(msg string) {
	fmt.Fprintf(os.Stderr, "ai-shell: %s\n", msg)
}
