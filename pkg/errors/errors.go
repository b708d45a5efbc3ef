// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import "fmt"

// New creates a VoleError from a registered error code.
func New(code ErrorCode, details string) *VoleError {
	def, ok := errorDefinitions[code]
	if !ok {
		def.message = "Unknown error"
		def.domain = DomainMisc
	}
	return &VoleError{
		Code:    code,
		Domain:  def.domain,
		Message: def.message,
		Details: details,
	}
}

// Wrap converts an arbitrary error into a VoleError with the given code,
// preserving the original error text as details. Metadata from an existing
// VoleError is carried over.
func Wrap(err error, code ErrorCode) *VoleError {
	if err == nil {
		return nil
	}
	ve := New(code, err.Error())
	if orig, ok := err.(*VoleError); ok && len(orig.Metadata) > 0 {
		for k, v := range orig.Metadata {
			ve = ve.WithMetadata(k, v)
		}
	}
	return ve
}

// NewCommandError creates an error for a failed external command invocation.
// exitCode is -1 when the command could not be started.
func NewCommandError(command string, exitCode int, details string) *VoleError {
	code := ErrorCode(CommandExecution)
	if exitCode == -1 {
		code = CommandNotFound
	}
	return New(code, details).
		WithMetadata("command", command).
		WithMetadata("exit_code", fmt.Sprintf("%d", exitCode))
}

// WithMetadata attaches a key-value pair to the error and returns it for chaining.
func (e *VoleError) WithMetadata(key, value string) *VoleError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

func (e *VoleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s-%d] %s: %s", e.Domain, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s-%d] %s", e.Domain, e.Code, e.Message)
}

// Is reports whether err is a VoleError carrying the given code.
func Is(err error, code ErrorCode) bool {
	ve, ok := err.(*VoleError)
	return ok && ve.Code == code
}

// IsVoleError reports whether err is a VoleError.
func IsVoleError(err error) bool {
	_, ok := err.(*VoleError)
	return ok
}
