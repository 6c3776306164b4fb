// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Timeout constants used across the application
const (
	// DefaultQueryTimeout bounds a single Claude CLI invocation (streaming
	// answers with tool use can take a while)
	DefaultQueryTimeout = 300 * time.Second
	// DefaultLoginTimeout bounds the login-trigger invocation during
	// auth recovery
	DefaultLoginTimeout = 120 * time.Second
	// DefaultProbeTimeout bounds the readiness probe used by 'status'
	DefaultProbeTimeout = 5 * time.Second
	// DefaultGracePeriod is how long the reader waits after SIGTERM before
	// the child process group is force killed
	DefaultGracePeriod = 2 * time.Second
	// DoubleInterruptWindow is the window in which a second Ctrl+C
	// escalates to an immediate SIGKILL
	DoubleInterruptWindow = 2 * time.Second
)

// Application defaults
const (
	DefaultClaudeBinary = "claude"
	DefaultAgentName    = "Claude Code"
)

// DefaultSkipList holds first tokens that should fail with the shell's
// normal "command not found" error instead of being routed to the AI.
// These are common typos of real binaries; the user wants the error, not
// an answer.
var DefaultSkipList = []string{
	"lx",
	"sl",
	"gti",
	"got",
	"cd..",
	"pdw",
	"mroe",
	"gerp",
	"pyhton",
	"pirnt",
	"vmi",
	"claer",
	"exho",
	"suod",
	"mkae",
}
