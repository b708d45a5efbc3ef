// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stratastor/logger"
	"github.com/stratastor/vole/config"
	"github.com/stratastor/vole/pkg/collector"
	"github.com/stratastor/vole/pkg/pipeline"
)

func NewPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push [endpoint]",
		Short: "Collect one snapshot and deliver it to the monitoring pipeline",
		Args:  cobra.MaximumNArgs(1),
		Run:   runPush,
	}
}

func runPush(cmd *cobra.Command, args []string) {
	cfg := config.GetConfig()
	if len(args) == 1 {
		cfg.Pipeline.URL = args[0]
	}

	log, err := logger.NewTag(config.NewLoggerConfig(cfg), "push")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	client, err := pipeline.NewClient(cfg, config.NewLoggerConfig(cfg))
	if err != nil {
		log.Error("Failed to initialize pipeline client", "err", err)
		os.Exit(1)
	}

	c, err := collector.New(cfg)
	if err != nil {
		log.Error("Failed to initialize collector", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	snap, err := c.Snapshot(ctx)
	if err != nil {
		log.Error("Snapshot collection failed", "err", err)
		os.Exit(1)
	}

	if err := client.Deliver(ctx, snap); err != nil {
		log.Error("Snapshot delivery failed", "err", err)
		os.Exit(1)
	}
}
