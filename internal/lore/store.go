// Package lore loads the static lore dataset and scores entries against
// player input to build retrieval context for scene generation.
package lore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrNoDataDir indicates the lore data directory could not be read.
var ErrNoDataDir = errors.New("lore data directory not readable")

// Entry is a single static lore fact (a character, place, item, ...).
// Entries carry either a name or a title, and either a description or a
// free text body, depending on the source category.
type Entry struct {
	Theme       string   `json:"theme"`
	Keywords    []string `json:"keywords"`
	Name        string   `json:"name,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Text        string   `json:"text,omitempty"`

	// Category is derived from the source file stem, not the payload.
	Category string `json:"-"`
}

// DisplayName returns the entry's name, falling back to its title.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Title
}

// Body returns the entry's description, falling back to its text.
func (e Entry) Body() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Text
}

// Load reads every JSON file in dir, keeps entries whose theme matches the
// given theme (case-normalized exact match), and tags each entry with its
// source category (the file stem). File order is lexicographic, entry order
// within a file is preserved, so the result is deterministic for a given
// dataset.
func Load(dir, theme string, logger *zap.Logger) ([]Entry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDataDir, err)
	}

	theme = strings.ToLower(theme)
	var entries []Entry

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, f.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading lore file %s: %w", path, err)
		}

		var fileEntries []Entry
		if err := json.Unmarshal(content, &fileEntries); err != nil {
			return nil, fmt.Errorf("parsing lore file %s: %w", path, err)
		}

		category := strings.TrimSuffix(f.Name(), ".json")
		kept := 0
		for _, e := range fileEntries {
			if strings.ToLower(e.Theme) != theme {
				continue
			}
			e.Category = category
			entries = append(entries, e)
			kept++
		}

		logger.Debug("loaded lore category",
			zap.String("category", category),
			zap.Int("entries", kept),
		)
	}

	logger.Info("lore dataset loaded",
		zap.String("theme", theme),
		zap.Int("entries", len(entries)),
	)

	return entries, nil
}
