// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package kstat

import "strconv"

const slabPath = "kmem/slab"

// SlabUsage returns the total kernel slab memory held by the spl allocator:
// the sum of the third column across all rows of kmem/slab. Rows whose third
// column is not purely numeric (section headers, separator rows) are skipped.
// No per-slab breakdown is retained.
func (r *Reader) SlabUsage() (int64, error) {
	rows, err := r.ReadTable(slabPath, DefaultHeaderLines, nil)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, row := range rows {
		if len(row) < 3 || !isDigits(row[2]) {
			continue
		}
		v, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			continue
		}
		total += v
	}

	return total, nil
}
