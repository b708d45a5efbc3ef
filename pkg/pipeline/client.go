// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline delivers finished snapshots to the monitoring pipeline
// ingest endpoint.
package pipeline

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/stratastor/logger"
	"github.com/stratastor/vole/config"
	"github.com/stratastor/vole/internal/constants"
	"github.com/stratastor/vole/pkg/collector"
	"github.com/stratastor/vole/pkg/errors"
)

// Client posts snapshots to a configured ingest endpoint.
type Client struct {
	http *resty.Client
	log  logger.Logger
}

func NewClient(cfg *config.Config, logConfig logger.Config) (*Client, error) {
	if cfg.Pipeline.URL == "" {
		return nil, errors.New(errors.PipelineNotConfigured, "set pipeline.url in the config")
	}

	l, err := logger.NewTag(logConfig, "pipeline")
	if err != nil {
		return nil, errors.Wrap(err, errors.LoggerError)
	}

	timeout, err := time.ParseDuration(cfg.Pipeline.Timeout)
	if err != nil {
		return nil, errors.Wrap(err, errors.ConfigInvalid).
			WithMetadata("pipeline.timeout", cfg.Pipeline.Timeout)
	}

	client := resty.New().
		SetBaseURL(cfg.Pipeline.URL).
		SetTimeout(timeout).
		SetHeader("User-Agent", constants.UserAgent+"/"+constants.Version)

	if cfg.Pipeline.Token != "" {
		client.SetAuthToken(cfg.Pipeline.Token)
	}

	return &Client{http: client, log: l}, nil
}

// Deliver posts one snapshot. A non-2xx response is a delivery failure; the
// snapshot is never retried, matching the collector's no-partial-result
// policy.
func (c *Client) Deliver(ctx context.Context, snap collector.Snapshot) error {
	requestID := uuid.NewString()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Request-ID", requestID).
		SetBody(snap).
		Post("")
	if err != nil {
		return errors.Wrap(err, errors.PipelineDeliveryFailed).
			WithMetadata("request_id", requestID)
	}

	if resp.IsError() {
		return errors.New(errors.PipelineDeliveryFailed, resp.Status()).
			WithMetadata("request_id", requestID).
			WithMetadata("body", resp.String())
	}

	c.log.Info("Snapshot delivered", "request_id", requestID, "status", resp.Status())
	return nil
}
