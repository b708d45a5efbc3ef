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

package vdev

import (
	"context"
	"strconv"
	"strings"

	"github.com/stratastor/logger"
	"github.com/stratastor/vole/pkg/errors"
	"github.com/stratastor/vole/pkg/zfs/command"
	"github.com/stratastor/vole/pkg/zfs/status"
)

const healthOnline = "ONLINE"

// Column positions in zpool list -PHvp device rows. Columns 4, 5 and 8
// (expandsize, checkpoint, dedup) are not collected.
const (
	colName  = 0
	colSize  = 1
	colAlloc = 2
	colFree  = 3
	colFrag  = 6
	colUsage = 7

	colHealth  = 9
	vdevFields = 10
)

// VDev is one device record in the snapshot, keyed by device path. Devices
// are kept flat; pool membership hierarchy is not modeled here.
type VDev struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	Alloc int64  `json:"alloc"`
	Free  int64  `json:"free"`
	Frag  int64  `json:"frag"`
	Usage int64  `json:"usage"`

	Online bool               `json:"online"`
	Errors status.ErrorCounts `json:"errors"`
}

// Manager builds per-device records from the expanded pool listing.
type Manager struct {
	executor *command.CommandExecutor
	log      logger.Logger
}

func NewManager(executor *command.CommandExecutor, logConfig logger.Config) (*Manager, error) {
	l, err := logger.NewTag(logConfig, "zpool-vdev")
	if err != nil {
		return nil, errors.Wrap(err, errors.LoggerError)
	}
	return &Manager{executor: executor, log: l}, nil
}

// List runs the expanded pool listing (zpool list -PHvp), retains only
// device rows and correlates each device path with its error counters from
// the status report. Every device must have a counter record; a miss means
// the two reports disagree about which devices exist and aborts the
// snapshot, since a device without error data would be misleading.
func (m *Manager) List(ctx context.Context, vdevErrors map[string]status.ErrorCounts) (map[string]VDev, error) {
	opts := command.CommandOptions{
		Flags: command.FlagFullPaths | command.FlagNoHeaders | command.FlagVerbose | command.FlagParsable,
	}

	rows, err := m.executor.ExecuteFields(ctx, opts, "zpool list")
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSVdevList)
	}

	return buildVDevs(rows, vdevErrors)
}

func buildVDevs(rows [][]string, vdevErrors map[string]status.ErrorCounts) (map[string]VDev, error) {
	vdevs := make(map[string]VDev)

	for _, row := range rows {
		// Device rows carry a full path; pool summary rows carry the bare
		// pool name and are skipped.
		if !strings.HasPrefix(row[colName], "/") {
			continue
		}
		if len(row) < vdevFields {
			return nil, errors.New(errors.CommandOutputParse, "short device listing row").
				WithMetadata("device", row[colName]).
				WithMetadata("fields", strconv.Itoa(len(row)))
		}

		path := row[colName]

		counts, ok := vdevErrors[path]
		if !ok {
			return nil, errors.New(errors.VdevErrorCorrelation, path)
		}

		vdevs[path] = VDev{
			Name:   path,
			Size:   coerceInt(row[colSize]),
			Alloc:  coerceInt(row[colAlloc]),
			Free:   coerceInt(row[colFree]),
			Frag:   coerceInt(row[colFrag]),
			Usage:  coerceInt(row[colUsage]),
			Online: row[colHealth] == healthOnline,
			Errors: counts,
		}
	}

	return vdevs, nil
}

// coerceInt parses a purely numeric field, coercing anything else (dash
// placeholders on parity and spare devices) to zero.
func coerceInt(s string) int64 {
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
