// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package kstat

import (
	"strconv"

	"github.com/stratastor/vole/pkg/errors"
)

const arcstatsPath = "kstat/zfs/arcstats"

// L1Stats describes the in-memory ARC tier.
type L1Stats struct {
	Size      int64   `json:"size"`
	HitRate   float64 `json:"hitrate"`
	Free      int64   `json:"free"`
	MetaUsed  int64   `json:"meta_used"`
	MetaLimit int64   `json:"meta_limit"`
}

// L2Stats describes the disk-backed L2ARC tier.
type L2Stats struct {
	Usage        int64   `json:"usage"`
	UsageActual  int64   `json:"usage_actual"`
	HitRate      float64 `json:"hitrate"`
	BytesRead    int64   `json:"bytes_read"`
	BytesWritten int64   `json:"bytes_written"`
	IOErrors     int64   `json:"io_error"`
	ChecksumBad  int64   `json:"cksum_bad"`
}

// ARCStats holds both cache tiers for one snapshot.
type ARCStats struct {
	L1 L1Stats `json:"l1"`
	L2 L2Stats `json:"l2"`
}

// ARC derives cache-tier statistics from the arcstats table (rows of
// name, type, value). Unlike the pool I/O table there is no fallback file:
// the schema is stable within a kernel module version, so a required counter
// that is absent is a hard fault rather than a zero.
func (r *Reader) ARC() (ARCStats, error) {
	rows, err := r.ReadTable(arcstatsPath, DefaultHeaderLines, nil)
	if err != nil {
		return ARCStats{}, err
	}

	counters := make(map[string]int64, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		v, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			continue
		}
		counters[row[0]] = v
	}

	required := [...]string{
		"hits", "misses", "size",
		"memory_available_bytes", "arc_meta_used", "arc_meta_limit",
		"l2_hits", "l2_misses", "l2_size", "l2_asize",
		"l2_read_bytes", "l2_write_bytes", "l2_io_error", "l2_cksum_bad",
	}
	c := make(map[string]int64, len(required))
	for _, key := range required {
		v, ok := counters[key]
		if !ok {
			return ARCStats{}, arcKeyMissing(key)
		}
		c[key] = v
	}

	return ARCStats{
		L1: L1Stats{
			Size:      c["size"],
			HitRate:   hitRate(c["hits"], c["misses"]),
			Free:      c["memory_available_bytes"],
			MetaUsed:  c["arc_meta_used"],
			MetaLimit: c["arc_meta_limit"],
		},
		L2: L2Stats{
			Usage:        c["l2_size"],
			UsageActual:  c["l2_asize"],
			HitRate:      hitRate(c["l2_hits"], c["l2_misses"]),
			BytesRead:    c["l2_read_bytes"],
			BytesWritten: c["l2_write_bytes"],
			IOErrors:     c["l2_io_error"],
			ChecksumBad:  c["l2_cksum_bad"],
		},
	}, nil
}

func arcKeyMissing(key string) error {
	return errors.New(errors.ArcKeyMissing, key).
		WithMetadata("path", arcstatsPath)
}

// hitRate returns hits/(hits+misses) as a percentage, 0 when there has been
// no cache activity.
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
