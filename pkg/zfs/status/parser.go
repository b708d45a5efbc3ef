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

// Package status parses the free-text multi-section zpool status report into
// the two correlation maps the listing builders consume: per-pool scrub
// flags and per-device error counters.
package status

import (
	"context"
	"strconv"
	"strings"

	"github.com/stratastor/logger"
	"github.com/stratastor/vole/pkg/errors"
	"github.com/stratastor/vole/pkg/zfs/command"
)

// ErrorCounts holds a device's error counters from the status report.
type ErrorCounts struct {
	Read  int64 `json:"read"`
	Write int64 `json:"write"`
	Cksum int64 `json:"cksum"`
}

// Report is the parsed status report. Both maps are ephemeral per-snapshot
// correlation inputs; they never appear in the output document directly.
type Report struct {
	// Scrubs maps pool name to scrub-in-progress, covering every pool that
	// appeared under a "pool:" marker.
	Scrubs map[string]bool

	// VdevErrors maps device path to error counters for every device row in
	// the report.
	VdevErrors map[string]ErrorCounts
}

// Manager runs zpool status and parses its report.
type Manager struct {
	executor *command.CommandExecutor
	log      logger.Logger
}

func NewManager(executor *command.CommandExecutor, logConfig logger.Config) (*Manager, error) {
	l, err := logger.NewTag(logConfig, "zpool-status")
	if err != nil {
		return nil, errors.Wrap(err, errors.LoggerError)
	}
	return &Manager{executor: executor, log: l}, nil
}

// Collect runs zpool status -Pp over all pools and parses the report.
func (m *Manager) Collect(ctx context.Context) (Report, error) {
	opts := command.CommandOptions{
		Flags:        command.FlagFullPaths | command.FlagParsable,
		FieldPattern: command.WhitespacePattern,
	}

	rows, err := m.executor.ExecuteFields(ctx, opts, "zpool status")
	if err != nil {
		return Report{}, errors.Wrap(err, errors.ZFSPoolStatus)
	}

	report := Parse(rows)
	m.log.Debug("Parsed pool status report",
		"pools", len(report.Scrubs), "devices", len(report.VdevErrors))
	return report, nil
}

// Parse folds over the whitespace-split report rows.
//
// A "pool:" marker row opens a pool scope that lasts until the next marker;
// a "scan:" row reading exactly "scrub in progress" marks the current pool
// as scrubbing. Device rows are recognized independently of pool scope: any
// row of at least 5 fields whose first field starts with a path separator,
// with fields 2-4 as read/write/checksum error counts.
func Parse(rows [][]string) Report {
	scrubs := make(map[string]bool)
	current := ""
	for _, row := range rows {
		switch {
		case len(row) >= 2 && row[0] == "pool:":
			current = row[1]
			scrubs[current] = false
		case len(row) >= 4 && row[0] == "scan:" && current != "":
			if row[1] == "scrub" && row[2] == "in" && row[3] == "progress" {
				scrubs[current] = true
			}
		}
	}

	vdevErrors := make(map[string]ErrorCounts)
	for _, row := range rows {
		if len(row) < 5 || !strings.HasPrefix(row[0], "/") {
			continue
		}
		vdevErrors[row[0]] = parseCounts(row[2], row[3], row[4])
	}

	return Report{Scrubs: scrubs, VdevErrors: vdevErrors}
}

// parseCounts parses the three error counters, defaulting the whole record
// to zeros when any of them fails to parse. Device paths are the correlation
// key into the device listing; a malformed record must never abort the
// snapshot.
func parseCounts(read, write, cksum string) ErrorCounts {
	r, err := strconv.ParseInt(read, 10, 64)
	if err != nil {
		return ErrorCounts{}
	}
	w, err := strconv.ParseInt(write, 10, 64)
	if err != nil {
		return ErrorCounts{}
	}
	c, err := strconv.ParseInt(cksum, 10, 64)
	if err != nil {
		return ErrorCounts{}
	}
	return ErrorCounts{Read: r, Write: w, Cksum: c}
}
