// pkg/zfs/pool/types.go

package pool

// Pool is one storage pool record in the snapshot, correlated from the
// structured listing, the status report's scrub flag and the kernel I/O
// counter table. Never mutated after construction.
type Pool struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	Alloc int64  `json:"alloc"`
	Free  int64  `json:"free"`

	// Frag and Usage are percentages in [0, 100].
	Frag  int64 `json:"frag"`
	Usage int64 `json:"usage"`

	// Dedup is the deduplication ratio, nominally >= 1.0.
	Dedup float64 `json:"dedup"`

	Scrub  bool `json:"scrub"`
	Online bool `json:"online"`

	// IO holds kernel I/O counters; the key set is kernel module version
	// dependent.
	IO map[string]int64 `json:"io"`
}
