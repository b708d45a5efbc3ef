// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package kstat

import (
	"path/filepath"
	"strconv"

	"github.com/stratastor/vole/pkg/errors"
)

// PoolIOStats reads the per-pool I/O counter table. Newer kernel modules
// expose kstat/zfs/<pool>/iostats; older ones expose kstat/zfs/<pool>/io with
// a different column set. Any failure reading the first falls back to the
// legacy name; a failure there is final.
//
// The table is a single header row of counter names over a single row of
// values, zipped positionally. Pairs whose value is not purely numeric are
// dropped, which absorbs schema drift without a version check.
func (r *Reader) PoolIOStats(pool string) (map[string]int64, error) {
	rows, err := r.ReadTable(filepath.Join("kstat/zfs", pool, "iostats"), 1, nil)
	if err != nil {
		r.log.Debug("iostats unavailable, trying legacy io file", "pool", pool, "err", err)
		rows, err = r.ReadTable(filepath.Join("kstat/zfs", pool, "io"), 1, nil)
		if err != nil {
			return nil, err
		}
	}

	if len(rows) < 2 {
		return nil, errors.New(errors.KstatMalformed, "expected header and value rows").
			WithMetadata("pool", pool)
	}

	names, values := rows[0], rows[1]
	stats := make(map[string]int64)
	for i, name := range names {
		if i >= len(values) || !isDigits(values[i]) {
			continue
		}
		v, err := strconv.ParseInt(values[i], 10, 64)
		if err != nil {
			continue
		}
		stats[name] = v
	}

	return stats, nil
}
