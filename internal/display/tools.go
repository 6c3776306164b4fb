package display

import (
	"encoding/json"
	"fmt"
	"strings"
)

// toolGlyph maps every tool the CLI is known to emit to its display glyph
// and summary verb. Unknown tools fall back to the wrench.
type toolGlyph struct {
	glyph string
	verb  string
}

var toolGlyphs = map[string]toolGlyph{
	"Bash":         {"🔧", ""},
	"Read":         {"📖", "Reading"},
	"NotebookRead": {"📖", "Reading"},
	"Edit":         {"✏️", "Editing"},
	"MultiEdit":    {"✏️", "Editing"},
	"Write":        {"✏️", "Editing"},
	"NotebookEdit": {"✏️", "Editing"},
	"LS":           {"📁", "ls"},
	"Glob":         {"🔍", "Searching for:"},
	"Grep":         {"🔍", "Searching for:"},
	"TodoRead":     {"📋", "Reading todos"},
	"TodoWrite":    {"📝", "Updating todos"},
	"WebSearch":    {"🔍", "Searching:"},
	"WebFetch":     {"🌐", "Fetching:"},
	"Task":         {"🤖", "Task:"},
}

var genericGlyph = toolGlyph{"🔧", ""}

// formatToolUse renders a one-line summary of a tool invocation.
func formatToolUse(tool, content string, width int) string {
	g, ok := toolGlyphs[tool]
	if !ok {
		g = genericGlyph
		if content == "" || content == tool {
			return fmt.Sprintf("%s %s", g.glyph, tool)
		}
		return truncateWidth(fmt.Sprintf("%s %s: %s", g.glyph, tool, content), width)
	}

	switch tool {
	case "TodoRead", "TodoWrite":
		// Input carries the whole todo list; the verb says it all.
		return fmt.Sprintf("%s %s", g.glyph, g.verb)
	case "Bash":
		return truncateWidth(fmt.Sprintf("%s %s", g.glyph, content), width)
	case "Glob", "Grep":
		// Drop the path part, the pattern is the interesting bit.
		pattern := content
		if i := strings.Index(content, " in "); i >= 0 {
			pattern = content[:i]
		}
		return truncateWidth(fmt.Sprintf("%s %s %s", g.glyph, g.verb, pattern), width)
	default:
		return truncateWidth(fmt.Sprintf("%s %s %s", g.glyph, g.verb, content), width)
	}
}

// formatToolResult renders the indented one-line result summary. Raw tool
// output never hits the terminal; only counts or a short excerpt do.
func formatToolResult(tool, content string, width int) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")

	switch tool {
	case "Read", "NotebookRead":
		return fmt.Sprintf("  → Read %d lines", len(lines))
	case "LS":
		return fmt.Sprintf("  → Found %d items", len(lines))
	case "Edit", "MultiEdit", "NotebookEdit":
		return "  → File updated"
	case "Write":
		return "  → File written"
	case "Bash":
		if len(lines) == 1 {
			return truncateWidth("  → "+lines[0], width)
		}
		return fmt.Sprintf("  → Output: %d lines", len(lines))
	case "Glob", "Grep":
		return fmt.Sprintf("  → Found %d matches", len(lines))
	case "TodoRead":
		var todos []any
		if err := json.Unmarshal([]byte(trimmed), &todos); err == nil {
			return fmt.Sprintf("  → %d todos", len(todos))
		}
		return "  → Todos listed"
	case "TodoWrite":
		return "  → Todos updated"
	default:
		if len(lines) == 1 {
			return truncateWidth("  → "+lines[0], width)
		}
		return "  → Completed"
	}
}
