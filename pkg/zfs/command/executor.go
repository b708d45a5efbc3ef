/*
 * Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
 * Copyright 2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package command

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/kballard/go-shellquote"
	"github.com/stratastor/logger"
	"github.com/stratastor/vole/pkg/errors"
)

// CommandExecutor provides safe execution of ZFS commands
type CommandExecutor struct {
	mu sync.RWMutex

	zfsPath   string
	zpoolPath string
	prefix    []string // Optional wrapper tokens, e.g. "sudo -n"

	useSudo bool          // Whether to use sudo for privileged commands
	timeout time.Duration // Default command timeout

	log logger.Logger
}

// Config configures a CommandExecutor.
type Config struct {
	UseSudo   bool
	Prefix    string // Wrapper command line prepended to every invocation
	ZFSPath   string
	ZpoolPath string
	Timeout   time.Duration
}

// CommandFlags represents supported command flags
type CommandFlags uint8

const (
	FlagParsable  CommandFlags = 1 << iota // -p for parsable output
	FlagNoHeaders                          // -H to disable output headers
	FlagVerbose                            // -v to expand pool listings to devices
	FlagFullPaths                          // -P to print full device paths
)

// CommandOptions configures command execution
type CommandOptions struct {
	Flags        CommandFlags   // Command flags to apply
	Timeout      time.Duration  // Command-specific timeout
	FieldPattern *regexp.Regexp // Field splitter for ExecuteFields
}

func NewCommandExecutor(cfg Config, logConfig logger.Config) (*CommandExecutor, error) {
	l, err := logger.NewTag(logConfig, "zfs-command")
	if err != nil {
		return nil, errors.Wrap(err, errors.LoggerError)
	}

	var prefix []string
	if cfg.Prefix != "" {
		prefix, err = shellquote.Split(cfg.Prefix)
		if err != nil {
			return nil, errors.Wrap(err, errors.CommandInvalidInput).
				WithMetadata("prefix", cfg.Prefix)
		}
	}

	e := &CommandExecutor{
		zfsPath:   cfg.ZFSPath,
		zpoolPath: cfg.ZpoolPath,
		prefix:    prefix,
		useSudo:   cfg.UseSudo,
		timeout:   cfg.Timeout,
		log:       l,
	}
	if e.zfsPath == "" {
		e.zfsPath = BinZFS
	}
	if e.zpoolPath == "" {
		e.zpoolPath = BinZpool
	}
	if e.timeout == 0 {
		e.timeout = DefaultTimeout
	}
	return e, nil
}

func (e *CommandExecutor) Execute(ctx context.Context, opts CommandOptions, cmd string, args ...string) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.validateCommand(cmd, args); err != nil {
		return nil, err
	}

	if opts.Timeout == 0 {
		opts.Timeout = e.timeout
	}

	// Apply timeout to context
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	// Build command with appropriate prefixes and flags
	cmdArgs := e.buildCommandArgs(cmd, opts, args...)

	e.log.Debug("Executing command", "cmd", strings.Join(cmdArgs, " "))

	// Create command
	execCmd := exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)

	// Set up pipes for output
	stdout, err := execCmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, errors.CommandPipe)
	}
	stderr, err := execCmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, errors.CommandPipe)
	}

	// Start command execution
	if err := execCmd.Start(); err != nil {
		return nil, errors.NewCommandError(
			strings.Join(cmdArgs, " "),
			-1,
			fmt.Sprintf("failed to start command: %v", err),
		)
	}

	// Read output in goroutine
	var outData []byte
	var outErr error
	done := make(chan struct{})

	go func() {
		defer close(done)
		data, err := io.ReadAll(stdout)
		if err != nil {
			outErr = errors.Wrap(err, errors.CommandOutputParse)
			return
		}
		outData = data
	}()

	// Wait for either:
	// 1. Command completion
	// 2. Context cancellation
	// 3. Timeout
	select {
	case <-ctx.Done():
		// Kill process on timeout/cancellation
		if err := execCmd.Process.Kill(); err != nil {
			return nil, errors.Wrap(err, errors.CommandTimeout)
		}
		return nil, errors.New(errors.CommandTimeout, "command execution timed out")

	case <-done:
		if outErr != nil {
			return nil, outErr
		}

		// Wait for command completion and check exit status
		if err := execCmd.Wait(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				errOut, _ := io.ReadAll(stderr)
				return nil, errors.NewCommandError(
					strings.Join(cmdArgs, " "),
					exitErr.ExitCode(),
					string(errOut),
				)
			}
			return nil, errors.Wrap(err, errors.CommandExecution)
		}

		return outData, nil
	}
}

// ExecuteFields runs the command and decodes its stdout as rows of fields:
// UTF-8 text, one row per line, blank lines dropped, each line trimmed of
// surrounding whitespace before splitting on the field pattern.
func (e *CommandExecutor) ExecuteFields(ctx context.Context, opts CommandOptions, cmd string, args ...string) ([][]string, error) {
	out, err := e.Execute(ctx, opts, cmd, args...)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(out) {
		return nil, errors.New(errors.CommandOutputParse, "command output is not valid UTF-8").
			WithMetadata("command", cmd)
	}

	pattern := opts.FieldPattern
	if pattern == nil {
		pattern = DefaultFieldPattern
	}

	return splitRows(string(out), pattern), nil
}

func splitRows(out string, pattern *regexp.Regexp) [][]string {
	var rows [][]string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, pattern.Split(line, -1))
	}
	return rows
}

func (e *CommandExecutor) buildCommandArgs(cmd string, opts CommandOptions, args ...string) []string {
	var cmdArgs []string

	cmdArgs = append(cmdArgs, e.prefix...)

	// Add sudo if required
	if e.useSudo && SudoRequiredCommands[cmd] {
		cmdArgs = append(cmdArgs, "sudo")
	}

	// Add base command
	switch {
	case strings.HasPrefix(cmd, "zfs"):
		cmdArgs = append(cmdArgs, e.zfsPath)
	case strings.HasPrefix(cmd, "zpool"):
		cmdArgs = append(cmdArgs, e.zpoolPath)
	}

	// Add subcommand
	parts := strings.SplitN(cmd, " ", 2)
	if len(parts) > 1 {
		cmdArgs = append(cmdArgs, parts[1])
	}

	// Add command flags based on options
	if opts.Flags&FlagNoHeaders != 0 {
		cmdArgs = append(cmdArgs, "-H")
	}
	if opts.Flags&FlagFullPaths != 0 {
		cmdArgs = append(cmdArgs, "-P")
	}
	if opts.Flags&FlagVerbose != 0 {
		cmdArgs = append(cmdArgs, "-v")
	}
	if opts.Flags&FlagParsable != 0 {
		cmdArgs = append(cmdArgs, "-p")
	}

	// Add command arguments
	cmdArgs = append(cmdArgs, args...)

	return cmdArgs
}

// validateCommand checks command and args for security
func (e *CommandExecutor) validateCommand(cmd string, args []string) error {
	// Only allow zfs/zpool commands
	name := strings.SplitN(cmd, " ", 2)[0]
	if name != "zfs" && name != "zpool" {
		return errors.New(errors.CommandNotFound,
			"only zfs and zpool commands are allowed")
	}

	if len(args) > maxCommandArgs {
		return errors.New(errors.CommandInvalidInput, "too many command arguments")
	}

	// Validate args don't contain dangerous characters
	for _, arg := range args {
		if strings.ContainsAny(arg, dangerousChars) {
			return errors.New(errors.CommandInvalidInput,
				"argument contains invalid characters").
				WithMetadata("argument", arg)
		}
	}

	return nil
}
