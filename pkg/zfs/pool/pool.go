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

package pool

import (
	"context"
	"strconv"

	"github.com/stratastor/logger"
	"github.com/stratastor/vole/pkg/errors"
	"github.com/stratastor/vole/pkg/zfs/command"
)

// listColumns are the zpool list output columns, in row order.
const listColumns = "name,size,allocated,free,fragmentation,capacity,dedupratio,health"

// healthOnline is the only health string that maps to online=true; DEGRADED,
// FAULTED and every other state collapse to false.
const healthOnline = "ONLINE"

// IOStatsFunc returns per-pool kernel I/O counters.
type IOStatsFunc func(pool string) (map[string]int64, error)

// Manager builds per-pool records from the structured pool listing.
type Manager struct {
	executor *command.CommandExecutor
	ioStats  IOStatsFunc
	log      logger.Logger
}

func NewManager(executor *command.CommandExecutor, ioStats IOStatsFunc, logConfig logger.Config) (*Manager, error) {
	l, err := logger.NewTag(logConfig, "zpool-list")
	if err != nil {
		return nil, errors.Wrap(err, errors.LoggerError)
	}
	return &Manager{executor: executor, ioStats: ioStats, log: l}, nil
}

// List runs the structured pool listing and correlates each pool with its
// scrub flag and kernel I/O counters. Every pool in the listing must have an
// entry in scrubs; a miss means the listing and the status report disagree
// about which pools exist and aborts the snapshot.
func (m *Manager) List(ctx context.Context, scrubs map[string]bool) (map[string]Pool, error) {
	opts := command.CommandOptions{
		Flags: command.FlagNoHeaders | command.FlagParsable,
	}

	rows, err := m.executor.ExecuteFields(ctx, opts, "zpool list", "-o", listColumns)
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSPoolList)
	}

	return buildPools(rows, scrubs, m.ioStats)
}

func buildPools(rows [][]string, scrubs map[string]bool, ioStats IOStatsFunc) (map[string]Pool, error) {
	pools := make(map[string]Pool, len(rows))

	for _, row := range rows {
		if len(row) < 8 {
			return nil, errors.New(errors.CommandOutputParse, "short pool listing row").
				WithMetadata("fields", strconv.Itoa(len(row)))
		}

		name := row[0]

		size, err := parseIntField(name, "size", row[1])
		if err != nil {
			return nil, err
		}
		alloc, err := parseIntField(name, "allocated", row[2])
		if err != nil {
			return nil, err
		}
		free, err := parseIntField(name, "free", row[3])
		if err != nil {
			return nil, err
		}
		frag, err := parseIntField(name, "fragmentation", row[4])
		if err != nil {
			return nil, err
		}
		usage, err := parseIntField(name, "capacity", row[5])
		if err != nil {
			return nil, err
		}
		dedup, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return nil, errors.New(errors.CommandOutputParse, "non-numeric dedup ratio").
				WithMetadata("pool", name).
				WithMetadata("value", row[6])
		}

		scrub, ok := scrubs[name]
		if !ok {
			return nil, errors.New(errors.PoolScrubCorrelation, name)
		}

		io, err := ioStats(name)
		if err != nil {
			return nil, err
		}

		pools[name] = Pool{
			Name:   name,
			Size:   size,
			Alloc:  alloc,
			Free:   free,
			Frag:   frag,
			Usage:  usage,
			Dedup:  dedup,
			Scrub:  scrub,
			Online: row[7] == healthOnline,
			IO:     io,
		}
	}

	return pools, nil
}

func parseIntField(pool, field, value string) (int64, error) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.New(errors.CommandOutputParse, "non-numeric pool field").
			WithMetadata("pool", pool).
			WithMetadata("field", field).
			WithMetadata("value", value)
	}
	return v, nil
}
