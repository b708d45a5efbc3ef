package dataset

import (
	"testing"

	"github.com/stratastor/vole/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDatasets(t *testing.T) {
	rows := [][]string{
		{"tank", "800000", "200000", "1.00", "100000"},
		{"tank/home", "800000", "150000", "2.37", "150000"},
		{"backup/vault", "50000", "950000", "1.05", "940000"},
	}

	datasets, err := buildDatasets(rows)
	require.NoError(t, err)
	require.Len(t, datasets, 3)

	home := datasets["tank/home"]
	assert.Equal(t, "tank/home", home.Name)
	assert.Equal(t, int64(800000), home.Avail)
	assert.Equal(t, int64(150000), home.Used)
	assert.Equal(t, 2.37, home.Compress)
	assert.Equal(t, int64(150000), home.Referenced)
}

func TestBuildDatasetsStrictCoercion(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"non_numeric_avail", []string{"tank", "-", "1", "1.00", "1"}},
		{"non_numeric_compress", []string{"tank", "1", "1", "1.00x", "1"}},
		{"short_row", []string{"tank", "1", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildDatasets([][]string{tt.row})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CommandOutputParse))
		})
	}
}

func TestBuildDatasetsEmptyListing(t *testing.T) {
	datasets, err := buildDatasets(nil)
	require.NoError(t, err)
	assert.Empty(t, datasets)
}
