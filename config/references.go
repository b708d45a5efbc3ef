// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
)

var configDir string // Directory for configuration files

func init() {
	if os.Geteuid() == 0 {
		configDir = "/etc/vole"
		return
	}

	// Otherwise, use user config directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// A collector run from a minimal cron environment may have no home
		// directory; fall back to the system path.
		configDir = "/etc/vole"
		return
	}

	configDir = filepath.Join(homeDir, ".vole")
}

// GetConfigDir returns the appropriate configuration directory
// If running as root, it returns the system config directory
// Otherwise, it returns the user config directory
func GetConfigDir() string {
	return configDir
}
