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

// Package kstat reads ZFS kernel module statistics from the spl pseudo
// filesystem (/proc/spl on Linux). The files are plain text tables whose
// schemas drift across kernel module versions; readers here apply explicit
// per-file fallback and coercion rules rather than version checks.
package kstat

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stratastor/logger"
	"github.com/stratastor/vole/pkg/errors"
)

const (
	// DefaultRoot is the spl pseudo-filesystem mount point.
	DefaultRoot = "/proc/spl"

	// DefaultHeaderLines is the number of header lines most kstat tables carry.
	DefaultHeaderLines = 2
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Reader reads kernel stat tables relative to a configurable root so tests
// can point it at fixture directories.
type Reader struct {
	root string
	log  logger.Logger
}

func NewReader(root string, logConfig logger.Config) (*Reader, error) {
	l, err := logger.NewTag(logConfig, "kstat")
	if err != nil {
		return nil, errors.Wrap(err, errors.LoggerError)
	}
	if root == "" {
		root = DefaultRoot
	}
	return &Reader{root: root, log: l}, nil
}

// ReadTable reads the stat file at rel (relative to the reader root), skips
// the first skip header lines unconditionally, trims each remaining line and
// splits it on split (one-or-more whitespace when nil). Blank and malformed
// lines are returned as-is; callers filter.
func (r *Reader) ReadTable(rel string, skip int, split *regexp.Regexp) ([][]string, error) {
	path := filepath.Join(r.root, rel)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.KstatFileNotFound).
				WithMetadata("path", path)
		}
		return nil, errors.Wrap(err, errors.KstatReadError).
			WithMetadata("path", path)
	}
	defer f.Close()

	if split == nil {
		split = whitespacePattern
	}

	var rows [][]string
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if line <= skip {
			continue
		}
		rows = append(rows, split.Split(strings.TrimSpace(scanner.Text()), -1))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.KstatReadError).
			WithMetadata("path", path)
	}

	return rows, nil
}

// isDigits reports whether s is non-empty and consists only of ASCII digits.
// Mirrors the coercion rule used throughout: values with signs, dots or
// placeholder dashes are not numeric.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
