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

package dataset

import (
	"context"
	"strconv"

	"github.com/stratastor/logger"
	"github.com/stratastor/vole/pkg/errors"
	"github.com/stratastor/vole/pkg/zfs/command"
)

// listColumns are the zfs list output columns, in row order.
const listColumns = "name,avail,used,compressratio,referenced"

// Dataset is one dataset record in the snapshot. No relationship to its
// parent pool is modeled.
type Dataset struct {
	Name       string `json:"name"`
	Avail      int64  `json:"avail"`
	Used       int64  `json:"used"`
	Referenced int64  `json:"referenced"`

	// Compress is the compression ratio, nominally >= 1.0. Some platforms
	// report it as a percentage; treated as an opaque float either way.
	Compress float64 `json:"compress"`
}

// Manager builds per-dataset records from the structured dataset listing.
type Manager struct {
	executor *command.CommandExecutor
	log      logger.Logger
}

func NewManager(executor *command.CommandExecutor, logConfig logger.Config) (*Manager, error) {
	l, err := logger.NewTag(logConfig, "zfs-list")
	if err != nil {
		return nil, errors.Wrap(err, errors.LoggerError)
	}
	return &Manager{executor: executor, log: l}, nil
}

// List runs the structured dataset listing. No correlation with other
// sources is needed.
func (m *Manager) List(ctx context.Context) (map[string]Dataset, error) {
	opts := command.CommandOptions{
		Flags: command.FlagNoHeaders | command.FlagParsable,
	}

	rows, err := m.executor.ExecuteFields(ctx, opts, "zfs list", "-o", listColumns)
	if err != nil {
		return nil, errors.Wrap(err, errors.ZFSDatasetList)
	}

	return buildDatasets(rows)
}

func buildDatasets(rows [][]string) (map[string]Dataset, error) {
	datasets := make(map[string]Dataset, len(rows))

	for _, row := range rows {
		if len(row) < 5 {
			return nil, errors.New(errors.CommandOutputParse, "short dataset listing row").
				WithMetadata("fields", strconv.Itoa(len(row)))
		}

		name := row[0]

		avail, err := parseIntField(name, "avail", row[1])
		if err != nil {
			return nil, err
		}
		used, err := parseIntField(name, "used", row[2])
		if err != nil {
			return nil, err
		}
		compress, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, errors.New(errors.CommandOutputParse, "non-numeric compression ratio").
				WithMetadata("dataset", name).
				WithMetadata("value", row[3])
		}
		referenced, err := parseIntField(name, "referenced", row[4])
		if err != nil {
			return nil, err
		}

		datasets[name] = Dataset{
			Name:       name,
			Avail:      avail,
			Used:       used,
			Compress:   compress,
			Referenced: referenced,
		}
	}

	return datasets, nil
}

func parseIntField(dataset, field, value string) (int64, error) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.New(errors.CommandOutputParse, "non-numeric dataset field").
			WithMetadata("dataset", dataset).
			WithMetadata("field", field).
			WithMetadata("value", value)
	}
	return v, nil
}
