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

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stratastor/logger"
	"github.com/stratastor/vole/config"
	"github.com/stratastor/vole/pkg/collector"
)

func NewCollectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Collect one snapshot and print it as JSON",
		Long: `Collect gathers pool, device, dataset, ARC and slab statistics from the
local ZFS installation and prints a single JSON document to stdout. On any
failure nothing is printed and the exit status is non-zero.`,
		Run: runCollect,
	}
}

func runCollect(cmd *cobra.Command, args []string) {
	cfg := config.GetConfig()
	log, err := logger.NewTag(config.NewLoggerConfig(cfg), "collect")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	c, err := collector.New(cfg)
	if err != nil {
		log.Error("Failed to initialize collector", "err", err)
		os.Exit(1)
	}

	snap, err := c.Snapshot(context.Background())
	if err != nil {
		log.Error("Snapshot collection failed", "err", err)
		os.Exit(1)
	}

	// stdout carries exactly one pretty-printed JSON document and nothing
	// else; diagnostics go through the logger.
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Error("Failed to serialize snapshot", "err", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}
