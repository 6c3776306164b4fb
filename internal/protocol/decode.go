package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quocvuong92/ai-shell/internal/constants"
	"github.com/quocvuong92/ai-shell/internal/logging"
)

// wireMessage mirrors the subset of the CLI's stream-json envelope this
// decoder cares about. Field names belong to the CLI's documented format.
type wireMessage struct {
	Type      string      `json:"type"`
	Subtype   string      `json:"subtype"`
	SessionID string      `json:"session_id"`
	Model     string      `json:"model"`
	Delta     wireDelta   `json:"delta"`
	Message   wirePayload `json:"message"`
	Error     wireError   `json:"error"`
	Result    string      `json:"result"`
	IsError   bool        `json:"is_error"`
	Duration  int64       `json:"duration_ms"`
	CostUSD   float64     `json:"cost_usd"`
	Usage     wireUsage   `json:"usage"`
}

type wireDelta struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type wirePayload struct {
	Content []wireContent `json:"content"`
}

type wireContent struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Name    string          `json:"name"`
	Input   map[string]any  `json:"input"`
	Content json.RawMessage `json:"content"`
}

type wireError struct {
	Message string `json:"message"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Decoder turns wire lines into Responses. It is stateful: tool results
// arrive without a tool name, so the decoder remembers the last tool it
// saw a use event for.
type Decoder struct {
	lastTool string
	log      *logging.Logger
}

// NewDecoder creates a Decoder that logs dropped lines to the default
// logger.
func NewDecoder() *Decoder {
	return &Decoder{log: logging.DefaultLogger}
}

// Decode parses one stdout line. It returns the decoded Response and true,
// or nil and false when the line carries nothing renderable. Malformed
// lines never produce an error; they are logged and dropped.
func (d *Decoder) Decode(line string) (Response, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}

	var msg wireMessage
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		d.log.Debug("dropping malformed line", logging.Fields{"line": truncateForLog(line)})
		return nil, false
	}

	switch msg.Type {
	case "system":
		if msg.Subtype != "init" {
			return nil, false
		}
		model := msg.Model
		if model == "" {
			model = "unknown"
		}
		return Init{
			Agent:     constants.DefaultAgentName,
			SessionID: msg.SessionID,
			Model:     model,
		}, true

	case "content_block_delta":
		if msg.Delta.Text == "" {
			return nil, false
		}
		return Message{Content: msg.Delta.Text, ContentType: ContentMarkdown}, true

	case "assistant":
		return d.decodeAssistant(msg)

	case "user":
		return d.decodeToolResult(msg)

	case "error":
		text := msg.Error.Message
		if text == "" {
			text = "Unknown error"
		}
		return Error{Content: text, Type: ClassifyError(text)}, true

	case "result":
		if msg.IsError && ClassifyError(msg.Result) == ErrorNotLoggedIn {
			return Error{Content: msg.Result, Type: ErrorNotLoggedIn}, true
		}
		content := fmt.Sprintf(
			"duration_ms=%d, cost_usd=%.6f, input_tokens=%d, output_tokens=%d",
			msg.Duration, msg.CostUSD, msg.Usage.InputTokens, msg.Usage.OutputTokens,
		)
		return Result{
			Content:      content,
			DurationMS:   msg.Duration,
			CostUSD:      msg.CostUSD,
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		}, true
	}

	d.log.Debug("dropping unknown message type", logging.Fields{"type": msg.Type})
	return nil, false
}

// decodeAssistant handles assistant messages, which carry either prose or
// tool-use blocks. The first meaningful block wins; deltas carry the
// streaming text, so full messages only matter when deltas were absent.
func (d *Decoder) decodeAssistant(msg wireMessage) (Response, bool) {
	for _, item := range msg.Message.Content {
		switch item.Type {
		case "text":
			text := strings.TrimSpace(item.Text)
			if text == "" {
				continue
			}
			// The CLI reports auth failures as assistant prose rather
			// than a dedicated error event.
			if t := ClassifyError(text); t == ErrorNotLoggedIn {
				return Error{Content: text, Type: t}, true
			}
			return Message{Content: "\n" + text, ContentType: ContentMarkdown}, true
		case "tool_use":
			name := item.Name
			if name == "" {
				name = "unknown"
			}
			d.lastTool = name
			return ToolUse{Tool: name, Content: summarizeToolInput(name, item.Input)}, true
		}
	}
	return nil, false
}

func (d *Decoder) decodeToolResult(msg wireMessage) (Response, bool) {
	for _, item := range msg.Message.Content {
		if item.Type != "tool_result" {
			continue
		}
		return ToolResult{Tool: d.lastTool, Content: flattenResultContent(item.Content)}, true
	}
	return nil, false
}

// summarizeToolInput extracts the interesting part of a tool's input for
// one-line display.
func summarizeToolInput(tool string, input map[string]any) string {
	str := func(key string) string {
		s, _ := input[key].(string)
		return s
	}

	switch tool {
	case "Bash":
		return str("command")
	case "Read", "NotebookRead":
		if p := str("file_path"); p != "" {
			return p
		}
		return str("notebook_path")
	case "Edit", "Write", "MultiEdit", "NotebookEdit":
		if p := str("file_path"); p != "" {
			return p
		}
		return str("notebook_path")
	case "WebSearch":
		return str("query")
	case "WebFetch":
		return str("url")
	case "Glob", "Grep":
		pattern := str("pattern")
		if path := str("path"); path != "" {
			return pattern + " in " + path
		}
		return pattern
	case "Task":
		return str("description")
	case "LS":
		return str("path")
	default:
		return tool
	}
}

// flattenResultContent handles tool_result content, which the CLI encodes
// either as a bare string or as a list of text blocks.
func flattenResultContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []wireContent
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var parts []string
		for _, b := range blocks {
			if b.Type == "text" && b.Text != "" {
				parts = append(parts, b.Text)
			}
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

// Auth-failure sentinels the CLI is known to emit. Matching is
// case-insensitive.
var authSentinels = []string{
	"invalid api key",
	"not logged in",
}

// ClassifyError maps an error message to an ErrorType by signature.
func ClassifyError(text string) ErrorType {
	lower := strings.ToLower(text)
	for _, s := range authSentinels {
		if strings.Contains(lower, s) {
			return ErrorNotLoggedIn
		}
	}
	if strings.Contains(lower, "network") || strings.Contains(lower, "connection") {
		return ErrorNetwork
	}
	return ErrorUnknown
}

func truncateForLog(line string) string {
	const max = 200
	if len(line) <= max {
		return line
	}
	return line[:max] + "..."
}
