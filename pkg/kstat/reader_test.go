package kstat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stratastor/logger"
	"github.com/stratastor/vole/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(t *testing.T, files map[string]string) *Reader {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	r, err := NewReader(root, logger.Config{LogLevel: "debug"})
	require.NoError(t, err)
	return r
}

func TestReadTable(t *testing.T) {
	r := newTestReader(t, map[string]string{
		"kstat/zfs/arcstats": "13 1 0x01 123 456 789 101112\nname type data\nhits 4 100\nmisses 4 25\n",
	})

	rows, err := r.ReadTable("kstat/zfs/arcstats", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"hits", "4", "100"},
		{"misses", "4", "25"},
	}, rows)
}

func TestReadTableSkipBeyondEOF(t *testing.T) {
	r := newTestReader(t, map[string]string{"kmem/slab": "only line\n"})

	rows, err := r.ReadTable("kmem/slab", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadTableMissingFile(t *testing.T) {
	r := newTestReader(t, nil)

	_, err := r.ReadTable("kstat/zfs/arcstats", 2, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KstatFileNotFound))
}

func TestPoolIOStats(t *testing.T) {
	r := newTestReader(t, map[string]string{
		"kstat/zfs/tank/iostats": "27 1 0x01 12 3568 10250166357 1157\nnreads nwritten reads writes\n123 456 789 1011\n",
	})

	stats, err := r.PoolIOStats("tank")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"nreads": 123, "nwritten": 456, "reads": 789, "writes": 1011,
	}, stats)
}

func TestPoolIOStatsLegacyFallback(t *testing.T) {
	r := newTestReader(t, map[string]string{
		"kstat/zfs/tank/io": "9 3 0x01 1 80 3021643772 447\nnread nwritten reads writes\n4096 8192 12 34\n",
	})

	stats, err := r.PoolIOStats("tank")
	require.NoError(t, err)
	assert.Equal(t, int64(4096), stats["nread"])
	assert.Equal(t, int64(34), stats["writes"])
}

func TestPoolIOStatsNonNumericDropped(t *testing.T) {
	// Counters with non-numeric or missing values are dropped, not zeroed.
	r := newTestReader(t, map[string]string{
		"kstat/zfs/tank/iostats": "header\nnreads nwritten wtime extra\n123 - 45\n",
	})

	stats, err := r.PoolIOStats("tank")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"nreads": 123, "wtime": 45}, stats)
}

func TestPoolIOStatsBothFilesMissing(t *testing.T) {
	r := newTestReader(t, nil)

	_, err := r.PoolIOStats("tank")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KstatFileNotFound))
}

func TestPoolIOStatsMalformed(t *testing.T) {
	r := newTestReader(t, map[string]string{
		"kstat/zfs/tank/iostats": "header\nnreads nwritten\n",
	})

	_, err := r.PoolIOStats("tank")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KstatMalformed))
}

func TestSlabUsage(t *testing.T) {
	r := newTestReader(t, map[string]string{
		"kmem/slab": "--------------------- cache -------------------------\nname flags size alloc slabsize objsize\nzio_cache 0x00020 8388608 524288 32768 1096\nzio_buf_512 0x00020 4194304 16384 16384 512\nsubtotal - - -\n",
	})

	total, err := r.SlabUsage()
	require.NoError(t, err)
	assert.Equal(t, int64(8388608+4194304), total)
}

func TestSlabUsageMissingFile(t *testing.T) {
	r := newTestReader(t, nil)

	_, err := r.SlabUsage()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KstatFileNotFound))
}
