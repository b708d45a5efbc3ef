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

// Package collector assembles one point-in-time snapshot of ZFS pool,
// device, dataset, cache-tier and slab statistics. Each run is stateless:
// the status report is parsed once, its correlation maps feed the pool and
// device builders, and every other source is consulted exactly once.
package collector

import (
	"context"
	"time"

	"github.com/stratastor/logger"
	"github.com/stratastor/vole/config"
	"github.com/stratastor/vole/pkg/errors"
	"github.com/stratastor/vole/pkg/kstat"
	"github.com/stratastor/vole/pkg/zfs/command"
	"github.com/stratastor/vole/pkg/zfs/dataset"
	"github.com/stratastor/vole/pkg/zfs/pool"
	"github.com/stratastor/vole/pkg/zfs/status"
	"github.com/stratastor/vole/pkg/zfs/vdev"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Snapshot is the aggregate result of one collector run.
type Snapshot struct {
	VDevs    map[string]vdev.VDev       `json:"vdevs"`
	Pools    map[string]pool.Pool       `json:"pools"`
	Datasets map[string]dataset.Dataset `json:"datasets"`
	ARC      kstat.ARCStats             `json:"arc"`
	Slab     int64                      `json:"slab"`
}

// StatusSource parses the pool status report.
type StatusSource interface {
	Collect(ctx context.Context) (status.Report, error)
}

// PoolSource builds pool records given the scrub map.
type PoolSource interface {
	List(ctx context.Context, scrubs map[string]bool) (map[string]pool.Pool, error)
}

// VDevSource builds device records given the error-counter map.
type VDevSource interface {
	List(ctx context.Context, vdevErrors map[string]status.ErrorCounts) (map[string]vdev.VDev, error)
}

// DatasetSource builds dataset records.
type DatasetSource interface {
	List(ctx context.Context) (map[string]dataset.Dataset, error)
}

// KstatSource provides cache-tier and slab statistics.
type KstatSource interface {
	ARC() (kstat.ARCStats, error)
	SlabUsage() (int64, error)
}

// Collector wires the listing builders into one snapshot pipeline.
type Collector struct {
	status   StatusSource
	pools    PoolSource
	vdevs    VDevSource
	datasets DatasetSource
	kstat    KstatSource
	log      logger.Logger
}

// New builds a Collector with its collaborators wired from configuration.
func New(cfg *config.Config) (*Collector, error) {
	logConfig := config.NewLoggerConfig(cfg)

	l, err := logger.NewTag(logConfig, "collector")
	if err != nil {
		return nil, errors.Wrap(err, errors.LoggerError)
	}

	timeout, err := time.ParseDuration(cfg.ZFS.CommandTimeout)
	if err != nil {
		return nil, errors.Wrap(err, errors.ConfigInvalid).
			WithMetadata("zfs.commandTimeout", cfg.ZFS.CommandTimeout)
	}

	executor, err := command.NewCommandExecutor(command.Config{
		UseSudo:   cfg.ZFS.UseSudo,
		Prefix:    cfg.ZFS.CommandPrefix,
		ZFSPath:   cfg.ZFS.ZFSPath,
		ZpoolPath: cfg.ZFS.ZpoolPath,
		Timeout:   timeout,
	}, logConfig)
	if err != nil {
		return nil, err
	}

	reader, err := kstat.NewReader(cfg.Kstat.Root, logConfig)
	if err != nil {
		return nil, err
	}

	statusMgr, err := status.NewManager(executor, logConfig)
	if err != nil {
		return nil, err
	}
	poolMgr, err := pool.NewManager(executor, reader.PoolIOStats, logConfig)
	if err != nil {
		return nil, err
	}
	vdevMgr, err := vdev.NewManager(executor, logConfig)
	if err != nil {
		return nil, err
	}
	datasetMgr, err := dataset.NewManager(executor, logConfig)
	if err != nil {
		return nil, err
	}

	return &Collector{
		status:   statusMgr,
		pools:    poolMgr,
		vdevs:    vdevMgr,
		datasets: datasetMgr,
		kstat:    reader,
		log:      l,
	}, nil
}

// Snapshot runs the full pipeline once. Any component failure aborts the
// snapshot; there is no partial or degraded result.
func (c *Collector) Snapshot(ctx context.Context) (Snapshot, error) {
	report, err := c.status.Collect(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	names := maps.Keys(report.Scrubs)
	slices.Sort(names)
	c.log.Debug("Discovered pools", "pools", names)

	vdevs, err := c.vdevs.List(ctx, report.VdevErrors)
	if err != nil {
		return Snapshot{}, err
	}

	pools, err := c.pools.List(ctx, report.Scrubs)
	if err != nil {
		return Snapshot{}, err
	}

	datasets, err := c.datasets.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	arc, err := c.kstat.ARC()
	if err != nil {
		return Snapshot{}, err
	}

	slab, err := c.kstat.SlabUsage()
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		VDevs:    vdevs,
		Pools:    pools,
		Datasets: datasets,
		ARC:      arc,
		Slab:     slab,
	}, nil
}
