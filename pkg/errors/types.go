// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

const (
	DomainConfig   Domain = "CONFIG"
	DomainCommand  Domain = "CMD"
	DomainKstat    Domain = "KSTAT"
	DomainZFS      Domain = "ZFS"
	DomainCollect  Domain = "COLLECT"
	DomainPipeline Domain = "PIPELINE"
	DomainMisc     Domain = "MISC"
)

// ErrorCode represents unique error identifiers
type ErrorCode int

// Domain represents the subsystem where the error originated
type Domain string

type VoleError struct {
	Code    ErrorCode `json:"code"`
	Domain  Domain    `json:"domain"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	// Metadata carries contextual information that doesn't fit the standard
	// error fields: command lines, exit codes, file paths, entity names.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Error code ranges:
// 1000-1099: Configuration errors
// 1300-1399: Command execution
// 1500-1599: Kernel stat files
// 1600-1699: Vole errors
// 2000-2099: ZFS listings and correlation
// 2100-2199: Snapshot collection
// 2200-2299: Pipeline delivery
const (
	// Configuration Errors (1000-1099)
	ConfigNotFound    = 1000 + iota // Config file not found
	ConfigInvalid                   // Invalid config format
	ConfigLoadFailed                // Failed to load config
	ConfigWriteFailed               // Failed to write config
	ConfigParseError                // Error parsing config
)

const (
	// Command Execution (1300-1399)
	CommandNotFound     = 1300 + iota // Command not found
	CommandExecution                  // Execution failed
	CommandTimeout                    // Command timed out
	CommandPermission                 // Permission denied
	CommandInvalidInput               // Invalid command input
	CommandOutputParse                // Output parsing failed
	CommandPipe                       // Command pipe error
)

const (
	// Kernel Stat Files (1500-1599)
	KstatFileNotFound = 1500 + iota // Stat pseudo-file not found
	KstatReadError                  // Stat pseudo-file unreadable
	KstatMalformed                  // Stat file contents malformed
	ArcKeyMissing                   // Required arcstats counter absent
)

const (
	// Vole Errors (1600-1699)
	VoleMisc    = 1600 + iota // Miscellaneous program error
	FSError                   // Filesystem error
	LoggerError               // Logger error
)

const (
	// ZFS Listings and Correlation (2000-2099)
	ZFSPoolList           = 2000 + iota // zpool list failed
	ZFSPoolStatus                       // zpool status failed
	ZFSVdevList                         // zpool device listing failed
	ZFSDatasetList                      // zfs list failed
	PoolScrubCorrelation                // Pool absent from status scrub map
	VdevErrorCorrelation                // Device absent from status error map
)

const (
	// Snapshot Collection (2100-2199)
	CollectFailed  = 2100 + iota // Snapshot collection failed
	SnapshotEncode               // Snapshot serialization failed
)

const (
	// Pipeline Delivery (2200-2299)
	PipelineNotConfigured  = 2200 + iota // No pipeline endpoint configured
	PipelineDeliveryFailed               // Snapshot delivery failed
)

var errorDefinitions = map[ErrorCode]struct {
	message string
	domain  Domain
}{
	// Configuration errors
	ConfigNotFound:    {"Configuration file not found", DomainConfig},
	ConfigInvalid:     {"Invalid configuration format", DomainConfig},
	ConfigLoadFailed:  {"Failed to load configuration", DomainConfig},
	ConfigWriteFailed: {"Failed to write configuration", DomainConfig},
	ConfigParseError:  {"Error parsing configuration", DomainConfig},

	// Command execution errors
	CommandNotFound:     {"Command not found", DomainCommand},
	CommandExecution:    {"Command execution failed", DomainCommand},
	CommandTimeout:      {"Command execution timed out", DomainCommand},
	CommandPermission:   {"Permission denied executing command", DomainCommand},
	CommandInvalidInput: {"Invalid command input", DomainCommand},
	CommandOutputParse:  {"Command output parsing failed", DomainCommand},
	CommandPipe:         {"Command pipe error", DomainCommand},

	// Kernel stat file errors
	KstatFileNotFound: {"Kernel stat file not found", DomainKstat},
	KstatReadError:    {"Failed to read kernel stat file", DomainKstat},
	KstatMalformed:    {"Malformed kernel stat file", DomainKstat},
	ArcKeyMissing:     {"Required ARC counter missing", DomainKstat},

	// Vole errors
	VoleMisc:    {"Miscellaneous program error", DomainMisc},
	FSError:     {"Filesystem error", DomainMisc},
	LoggerError: {"Logger error", DomainMisc},

	// ZFS listing and correlation errors
	ZFSPoolList:          {"Failed to list pools", DomainZFS},
	ZFSPoolStatus:        {"Failed to get pool status", DomainZFS},
	ZFSVdevList:          {"Failed to list pool devices", DomainZFS},
	ZFSDatasetList:       {"Failed to list datasets", DomainZFS},
	PoolScrubCorrelation: {"Pool missing from status scrub map", DomainZFS},
	VdevErrorCorrelation: {"Device missing from status error map", DomainZFS},

	// Collection errors
	CollectFailed:  {"Snapshot collection failed", DomainCollect},
	SnapshotEncode: {"Failed to serialize snapshot", DomainCollect},

	// Pipeline errors
	PipelineNotConfigured:  {"Monitoring pipeline endpoint not configured", DomainPipeline},
	PipelineDeliveryFailed: {"Failed to deliver snapshot to pipeline", DomainPipeline},
}
