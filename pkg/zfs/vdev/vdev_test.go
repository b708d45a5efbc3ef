package vdev

import (
	"testing"

	"github.com/stratastor/vole/pkg/errors"
	"github.com/stratastor/vole/pkg/zfs/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVDevs(t *testing.T) {
	rows := [][]string{
		// Pool summary row, bare name: skipped.
		{"tank", "1000000", "400000", "600000", "-", "-", "12", "40", "1.00", "ONLINE"},
		{"/dev/sda1", "500000", "200000", "300000", "-", "-", "10", "40", "-", "ONLINE"},
		{"/dev/sdb1", "500000", "200000", "300000", "-", "-", "14", "40", "-", "DEGRADED"},
	}
	vdevErrors := map[string]status.ErrorCounts{
		"/dev/sda1": {},
		"/dev/sdb1": {Read: 2, Write: 0, Cksum: 5},
	}

	vdevs, err := buildVDevs(rows, vdevErrors)
	require.NoError(t, err)
	require.Len(t, vdevs, 2)

	sda := vdevs["/dev/sda1"]
	assert.Equal(t, "/dev/sda1", sda.Name)
	assert.Equal(t, int64(500000), sda.Size)
	assert.Equal(t, int64(10), sda.Frag)
	assert.True(t, sda.Online)
	assert.Equal(t, status.ErrorCounts{}, sda.Errors)

	sdb := vdevs["/dev/sdb1"]
	assert.False(t, sdb.Online)
	assert.Equal(t, status.ErrorCounts{Read: 2, Cksum: 5}, sdb.Errors)
}

func TestBuildVDevsCoercesDashFields(t *testing.T) {
	// Spare and parity devices legitimately lack some metrics; dashes are
	// zeroed instead of failing.
	rows := [][]string{
		{"/dev/sdc1", "-", "-", "-", "-", "-", "-", "-", "-", "AVAIL"},
	}
	vdevErrors := map[string]status.ErrorCounts{"/dev/sdc1": {}}

	vdevs, err := buildVDevs(rows, vdevErrors)
	require.NoError(t, err)

	sdc := vdevs["/dev/sdc1"]
	assert.Zero(t, sdc.Size)
	assert.Zero(t, sdc.Alloc)
	assert.Zero(t, sdc.Free)
	assert.Zero(t, sdc.Frag)
	assert.Zero(t, sdc.Usage)
	assert.False(t, sdc.Online)
}

func TestBuildVDevsErrorCorrelationFault(t *testing.T) {
	rows := [][]string{
		{"/dev/sda1", "1", "1", "0", "-", "-", "0", "100", "-", "ONLINE"},
	}

	// A device in the listing with no entry in the status error map means
	// the two reports disagree for the same invocation; fatal.
	_, err := buildVDevs(rows, map[string]status.ErrorCounts{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.VdevErrorCorrelation))
}

func TestBuildVDevsShortDeviceRow(t *testing.T) {
	rows := [][]string{
		{"/dev/sda1", "1", "1", "0", "ONLINE"},
	}

	_, err := buildVDevs(rows, map[string]status.ErrorCounts{"/dev/sda1": {}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CommandOutputParse))
}

func TestBuildVDevsEmptyListing(t *testing.T) {
	vdevs, err := buildVDevs(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, vdevs)
}
