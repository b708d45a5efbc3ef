package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CommandTimeout, "zpool status")
	assert.Equal(t, ErrorCode(CommandTimeout), err.Code)
	assert.Equal(t, DomainCommand, err.Domain)
	assert.Contains(t, err.Error(), "timed out")
	assert.Contains(t, err.Error(), "zpool status")
}

func TestNewUnknownCode(t *testing.T) {
	err := New(ErrorCode(99999), "whatever")
	assert.Equal(t, DomainMisc, err.Domain)
	assert.Equal(t, "Unknown error", err.Message)
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("open /proc/spl/kmem/slab: no such file or directory")
	err := Wrap(base, KstatFileNotFound)
	require.NotNil(t, err)
	assert.Equal(t, DomainKstat, err.Domain)
	assert.Equal(t, base.Error(), err.Details)

	assert.Nil(t, Wrap(nil, KstatFileNotFound))
}

func TestWrapCarriesMetadata(t *testing.T) {
	inner := New(CommandExecution, "exit status 1").WithMetadata("command", "zpool list")
	err := Wrap(inner, ZFSPoolList)
	assert.Equal(t, "zpool list", err.Metadata["command"])
	assert.Equal(t, DomainZFS, err.Domain)
}

func TestNewCommandError(t *testing.T) {
	err := NewCommandError("zpool list -Hp", 2, "cannot open pool")
	assert.Equal(t, ErrorCode(CommandExecution), err.Code)
	assert.Equal(t, "2", err.Metadata["exit_code"])

	// exit code -1 means the command never started
	err = NewCommandError("zpool list", -1, "no such file")
	assert.Equal(t, ErrorCode(CommandNotFound), err.Code)
}

func TestIs(t *testing.T) {
	err := New(VdevErrorCorrelation, "/dev/sda1")
	assert.True(t, Is(err, VdevErrorCorrelation))
	assert.False(t, Is(err, PoolScrubCorrelation))
	assert.False(t, Is(fmt.Errorf("plain"), VdevErrorCorrelation))
	assert.True(t, IsVoleError(err))
}
