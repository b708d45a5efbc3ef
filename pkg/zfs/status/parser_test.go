package status

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ws = regexp.MustCompile(`\s+`)

// tokenize splits a raw report the way the executor does for zpool status:
// trimmed lines, blanks dropped, whitespace-run field splitting.
func tokenize(report string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, ws.Split(line, -1))
	}
	return rows
}

const twoPoolReport = `
  pool: tank
 state: ONLINE
config:

	NAME            STATE     READ WRITE CKSUM
	tank            ONLINE       0     0     0
	  mirror-0      ONLINE       0     0     0
	    /dev/sda1   ONLINE       0     0     0
	    /dev/sdb1   ONLINE       3     1     0

errors: No known data errors

  pool: backup
 state: ONLINE
  scan: scrub in progress since Mon Aug 24 10:00:12 2026
config:

	NAME            STATE     READ WRITE CKSUM
	backup          ONLINE       0     0     0
	    /dev/sdc1   ONLINE       0     0     0

errors: No known data errors
`

func TestParseScrubFlags(t *testing.T) {
	report := Parse(tokenize(twoPoolReport))

	assert.Equal(t, map[string]bool{
		"tank":   false,
		"backup": true,
	}, report.Scrubs)
}

func TestParseVdevErrors(t *testing.T) {
	report := Parse(tokenize(twoPoolReport))

	require.Len(t, report.VdevErrors, 3)
	assert.Equal(t, ErrorCounts{}, report.VdevErrors["/dev/sda1"])
	assert.Equal(t, ErrorCounts{Read: 3, Write: 1}, report.VdevErrors["/dev/sdb1"])
	assert.Equal(t, ErrorCounts{}, report.VdevErrors["/dev/sdc1"])
}

func TestParseScanLineVariants(t *testing.T) {
	tests := []struct {
		name string
		scan string
		want bool
	}{
		{"in_progress", "scan: scrub in progress since Mon Aug 24 10:00:12 2026", true},
		{"repaired", "scan: scrub repaired 0B in 01:23:45 with 0 errors", false},
		{"resilver", "scan: resilver in progress since Mon Aug 24 10:00:12 2026", false},
		{"canceled", "scan: scrub canceled on Mon Aug 24 10:00:12 2026", false},
		{"bare_scan", "scan:", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Parse(tokenize("pool: tank\n" + tt.scan + "\n"))
			assert.Equal(t, map[string]bool{"tank": tt.want}, report.Scrubs)
		})
	}
}

func TestParsePoolScopePersists(t *testing.T) {
	// The scan line belongs to the most recent pool marker, wherever it
	// appears within the section.
	report := Parse(tokenize(`
pool: alpha
state: ONLINE
pool: beta
scan: scrub in progress since Tue Aug 25 2026
pool: gamma
`))

	assert.Equal(t, map[string]bool{
		"alpha": false,
		"beta":  true,
		"gamma": false,
	}, report.Scrubs)
}

func TestParseDeviceRowEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		line string
		want map[string]ErrorCounts
	}{
		{
			name: "counts_parsed",
			line: "/dev/sda1 ONLINE 5 6 7",
			want: map[string]ErrorCounts{"/dev/sda1": {Read: 5, Write: 6, Cksum: 7}},
		},
		{
			name: "dash_placeholders_default_to_zero",
			line: "/dev/sdb1 ONLINE - - -",
			want: map[string]ErrorCounts{"/dev/sdb1": {}},
		},
		{
			name: "partial_parse_failure_defaults_whole_record",
			line: "/dev/sdb1 ONLINE 5 - 7",
			want: map[string]ErrorCounts{"/dev/sdb1": {}},
		},
		{
			name: "too_few_fields_ignored",
			line: "/dev/sdc1 ONLINE 0 0",
			want: map[string]ErrorCounts{},
		},
		{
			name: "non_path_rows_ignored",
			line: "mirror-0 ONLINE 0 0 0",
			want: map[string]ErrorCounts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Parse(tokenize(tt.line))
			assert.Equal(t, tt.want, report.VdevErrors)
		})
	}
}

func TestParseEmptyReport(t *testing.T) {
	report := Parse(nil)
	assert.Empty(t, report.Scrubs)
	assert.Empty(t, report.VdevErrors)
}
