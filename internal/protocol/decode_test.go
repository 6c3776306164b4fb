package protocol

import (
	"strings"
	"testing"
)

func TestDecodeInit(t *testing.T) {
	d := NewDecoder()
	line := `{"type":"system","subtype":"init","session_id":"abc-123","model":"claude-sonnet-4","tools":["Bash","Read"]}`

	resp, ok := d.Decode(line)
	if !ok {
		t.Fatal("expected a response for init line")
	}
	init, ok := resp.(Init)
	if !ok {
		t.Fatalf("expected Init, got %T", resp)
	}
	if init.SessionID != "abc-123" {
		t.Errorf("SessionID = %q, want abc-123", init.SessionID)
	}
	if init.Model != "claude-sonnet-4" {
		t.Errorf("Model = %q, want claude-sonnet-4", init.Model)
	}
	if init.Agent == "" {
		t.Error("Agent name should not be empty")
	}
}

func TestDecodeDelta(t *testing.T) {
	d := NewDecoder()
	line := `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Use find "}}`

	resp, ok := d.Decode(line)
	if !ok {
		t.Fatal("expected a response for delta line")
	}
	msg, ok := resp.(Message)
	if !ok {
		t.Fatalf("expected Message, got %T", resp)
	}
	if msg.Content != "Use find " {
		t.Errorf("Content = %q, want %q", msg.Content, "Use find ")
	}
	if msg.ContentType != ContentMarkdown {
		t.Errorf("ContentType = %v, want markdown", msg.ContentType)
	}
}

func TestDecodeAssistantText(t *testing.T) {
	d := NewDecoder()
	line := `{"type":"assistant","message":{"content":[{"type":"text","text":"Use find -size"}]}}`

	resp, ok := d.Decode(line)
	if !ok {
		t.Fatal("expected a response for assistant line")
	}
	msg, ok := resp.(Message)
	if !ok {
		t.Fatalf("expected Message, got %T", resp)
	}
	if !strings.Contains(msg.Content, "Use find -size") {
		t.Errorf("Content = %q, want text present", msg.Content)
	}
	if !strings.HasPrefix(msg.Content, "\n") {
		t.Errorf("full assistant text should start on a new line, got %q", msg.Content)
	}
}

func TestDecodeToolUse(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantTool    string
		wantContent string
	}{
		{
			name:        "bash command",
			line:        `{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash","input":{"command":"ls -la"}}]}}`,
			wantTool:    "Bash",
			wantContent: "ls -la",
		},
		{
			name:        "file read",
			line:        `{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Read","input":{"file_path":"/etc/hosts"}}]}}`,
			wantTool:    "Read",
			wantContent: "/etc/hosts",
		},
		{
			name:        "grep with path",
			line:        `{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Grep","input":{"pattern":"TODO","path":"src"}}]}}`,
			wantTool:    "Grep",
			wantContent: "TODO in src",
		},
		{
			name:        "web search",
			line:        `{"type":"assistant","message":{"content":[{"type":"tool_use","name":"WebSearch","input":{"query":"go generics"}}]}}`,
			wantTool:    "WebSearch",
			wantContent: "go generics",
		},
		{
			name:        "unknown tool falls back to name",
			line:        `{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Frobnicate","input":{"x":1}}]}}`,
			wantTool:    "Frobnicate",
			wantContent: "Frobnicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			resp, ok := d.Decode(tt.line)
			if !ok {
				t.Fatal("expected a response")
			}
			use, ok := resp.(ToolUse)
			if !ok {
				t.Fatalf("expected ToolUse, got %T", resp)
			}
			if use.Tool != tt.wantTool {
				t.Errorf("Tool = %q, want %q", use.Tool, tt.wantTool)
			}
			if use.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", use.Content, tt.wantContent)
			}
		})
	}
}

func TestDecodeToolResultTracksLastTool(t *testing.T) {
	d := NewDecoder()

	if _, ok := d.Decode(`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash","input":{"command":"uname"}}]}}`); !ok {
		t.Fatal("tool use should decode")
	}
	resp, ok := d.Decode(`{"type":"user","message":{"content":[{"type":"tool_result","content":"Linux"}]}}`)
	if !ok {
		t.Fatal("tool result should decode")
	}
	result, ok := resp.(ToolResult)
	if !ok {
		t.Fatalf("expected ToolResult, got %T", resp)
	}
	if result.Tool != "Bash" {
		t.Errorf("Tool = %q, want Bash (from preceding tool use)", result.Tool)
	}
	if result.Content != "Linux" {
		t.Errorf("Content = %q, want Linux", result.Content)
	}
}

func TestDecodeToolResultBlockContent(t *testing.T) {
	d := NewDecoder()
	line := `{"type":"user","message":{"content":[{"type":"tool_result","content":[{"type":"text","text":"line one"},{"type":"text","text":"line two"}]}]}}`

	resp, ok := d.Decode(line)
	if !ok {
		t.Fatal("tool result should decode")
	}
	result := resp.(ToolResult)
	if result.Content != "line one\nline two" {
		t.Errorf("Content = %q, want joined text blocks", result.Content)
	}
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantType ErrorType
	}{
		{
			name:     "auth failure",
			line:     `{"type":"error","error":{"message":"Invalid API key. Please run /login"}}`,
			wantType: ErrorNotLoggedIn,
		},
		{
			name:     "network failure",
			line:     `{"type":"error","error":{"message":"connection refused"}}`,
			wantType: ErrorNetwork,
		},
		{
			name:     "generic failure",
			line:     `{"type":"error","error":{"message":"something odd"}}`,
			wantType: ErrorUnknown,
		},
		{
			name:     "auth failure as assistant prose",
			line:     `{"type":"assistant","message":{"content":[{"type":"text","text":"Invalid API key. Please run /login"}]}}`,
			wantType: ErrorNotLoggedIn,
		},
		{
			name:     "auth failure as error result",
			line:     `{"type":"result","subtype":"error","is_error":true,"result":"Not logged in"}`,
			wantType: ErrorNotLoggedIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			resp, ok := d.Decode(tt.line)
			if !ok {
				t.Fatal("expected a response")
			}
			errResp, ok := resp.(Error)
			if !ok {
				t.Fatalf("expected Error, got %T", resp)
			}
			if errResp.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", errResp.Type, tt.wantType)
			}
		})
	}
}

func TestDecodeResult(t *testing.T) {
	d := NewDecoder()
	line := `{"type":"result","subtype":"success","duration_ms":500,"cost_usd":0.001,"usage":{"input_tokens":10,"output_tokens":32}}`

	resp, ok := d.Decode(line)
	if !ok {
		t.Fatal("expected a response for result line")
	}
	result, ok := resp.(Result)
	if !ok {
		t.Fatalf("expected Result, got %T", resp)
	}
	if result.Tokens() != 42 {
		t.Errorf("Tokens() = %d, want 42", result.Tokens())
	}
	if result.DurationMS != 500 {
		t.Errorf("DurationMS = %d, want 500", result.DurationMS)
	}
	if !strings.Contains(result.Content, "input_tokens=10") {
		t.Errorf("Content = %q, want stats summary", result.Content)
	}
	if !Terminal(result) {
		t.Error("Result must be terminal")
	}
}

func TestDecodeDropsGarbage(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not json", "this is not json"},
		{"empty line", ""},
		{"whitespace", "   \t "},
		{"unknown type", `{"type":"telemetry","data":1}`},
		{"system non-init", `{"type":"system","subtype":"heartbeat"}`},
		{"empty delta", `{"type":"content_block_delta","delta":{"type":"text_delta","text":""}}`},
		{"assistant empty text", `{"type":"assistant","message":{"content":[{"type":"text","text":"  "}]}}`},
		{"truncated json", `{"type":"result","usage":{`},
		{"json array", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			resp, ok := d.Decode(tt.line)
			if ok || resp != nil {
				t.Errorf("Decode(%q) = %v, want dropped", tt.line, resp)
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		text string
		want ErrorType
	}{
		{"Invalid API key", ErrorNotLoggedIn},
		{"you are NOT LOGGED IN", ErrorNotLoggedIn},
		{"network unreachable", ErrorNetwork},
		{"connection reset by peer", ErrorNetwork},
		{"quota exceeded", ErrorUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyError(tt.text); got != tt.want {
			t.Errorf("ClassifyError(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
