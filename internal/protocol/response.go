// Package protocol decodes the Claude CLI's stream-json wire format into
// typed responses.
//
// The CLI emits one JSON object per line on stdout. Each object carries a
// "type" discriminant; this package classifies every line into exactly one
// Response variant or drops it. Lines that fail to parse, or whose
// discriminant is unknown, produce no Response and are diagnostic-logged
// only.
package protocol

// ContentType describes how response content should be rendered.
type ContentType int

const (
	// ContentText is plain text
	ContentText ContentType = iota
	// ContentMarkdown is markdown prose (assistant messages)
	ContentMarkdown
)

// ErrorType classifies Error responses.
type ErrorType int

const (
	// ErrorUnknown is any error without a recognized signature
	ErrorUnknown ErrorType = iota
	// ErrorNotLoggedIn is an authentication failure; the recovery flow
	// keys off this value
	ErrorNotLoggedIn
	// ErrorCLINotFound means the Claude CLI binary is missing
	ErrorCLINotFound
	// ErrorNetwork is a connectivity failure
	ErrorNetwork
)

// String returns a short name for the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrorNotLoggedIn:
		return "not_logged_in"
	case ErrorCLINotFound:
		return "cli_not_found"
	case ErrorNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Response is one typed event in the agent's output stream. A stream for
// one query starts with Init or Error and ends with Result or Error.
type Response interface {
	response()
}

// Init carries session information from the first system message.
type Init struct {
	Agent     string
	SessionID string
	Model     string
}

// Message is a chunk of assistant prose. Deltas arrive as separate
// Messages; joining them into continuous text is the renderer's job.
type Message struct {
	Content     string
	ContentType ContentType
}

// ToolUse announces a tool invocation. Content is a short summary of the
// tool's input, extracted per tool.
type ToolUse struct {
	Tool    string
	Content string
}

// ToolResult carries the output of the most recent tool invocation.
type ToolResult struct {
	Tool    string
	Content string
}

// Error is decoded but never rendered; the recovery flow inspects Type.
type Error struct {
	Content string
	Type    ErrorType
}

// Result is the terminal message of a successful stream.
type Result struct {
	Content      string
	DurationMS   int64
	CostUSD      float64
	InputTokens  int
	OutputTokens int
}

// Tokens returns the total token count for the query.
func (r Result) Tokens() int {
	return r.InputTokens + r.OutputTokens
}

func (Init) response()       {}
func (Message) response()    {}
func (ToolUse) response()    {}
func (ToolResult) response() {}
func (Error) response()      {}
func (Result) response()     {}

// Terminal reports whether a response ends its stream.
func Terminal(r Response) bool {
	switch r.(type) {
	case Result, Error:
		return true
	default:
		return false
	}
}
