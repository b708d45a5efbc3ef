// pkg/zfs/command/constants.go

package command

import (
	"regexp"
	"time"
)

const (
	// Base commands
	BinZFS   = "/sbin/zfs"
	BinZpool = "/sbin/zpool"

	maxCommandArgs = 64

	// Default timeout for command execution
	DefaultTimeout = 30 * time.Second
)

// Dangerous characters that could enable command injection
var dangerousChars = ";&|><$`\\"

// DefaultFieldPattern splits tabular command output on a single horizontal
// tab or a run of whitespace.
var DefaultFieldPattern = regexp.MustCompile(`\t|\s+`)

// WhitespacePattern splits on any run of whitespace. Used for free-text
// reports such as zpool status.
var WhitespacePattern = regexp.MustCompile(`\s+`)

// Commands that require sudo when privilege escalation is enabled. The
// collector only issues read-only commands, but zpool status and device
// listings are root-only on some distributions.
var SudoRequiredCommands = map[string]bool{
	"zfs list":     true,
	"zpool list":   true,
	"zpool status": true,
}
