package tags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlRecord struct {
	Text    string `yaml:"text"`
	Color   string `yaml:"color"`
	Enabled bool   `yaml:"enabled"`
}

type yamlPartial struct {
	Text    *string `yaml:"text"`
	Color   *string `yaml:"color"`
	Enabled *bool   `yaml:"enabled"`
}

// YAMLStore keeps every record in a single YAML document under "players".
// When path is empty the store keeps nothing.
type YAMLStore struct {
	path   string
	logger *slog.Logger
}

// NewYAMLStore returns a store backed by the file at path.
func NewYAMLStore(path string, logger *slog.Logger) *YAMLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &YAMLStore{path: strings.TrimSpace(path), logger: logger}
}

// Path returns the backing file.
func (s *YAMLStore) Path() string {
	return s.path
}

// Load reads the document. A missing or empty file yields no entries. Player
// nodes that cannot be decoded are logged and skipped.
func (s *YAMLStore) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tag file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var doc struct {
		Players map[string]yaml.Node `yaml:"players"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tag file: %w", err)
	}
	ids := make([]string, 0, len(doc.Players))
	for id := range doc.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		node := doc.Players[id]
		var partial yamlPartial
		if err := node.Decode(&partial); err != nil {
			s.logger.Warn("skipping unreadable tag entry", "player", id, "error", err)
			continue
		}
		entry := Entry{ID: id, Color: DefaultColor.Name()}
		if partial.Text != nil {
			entry.Text = *partial.Text
		}
		if partial.Color != nil {
			entry.Color = *partial.Color
		}
		if partial.Enabled != nil {
			entry.Enabled = *partial.Enabled
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Save replaces the document with entries. The file is written to a temporary
// sibling first and renamed into place.
func (s *YAMLStore) Save(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.path == "" {
		return nil
	}
	doc := struct {
		Players map[string]yamlRecord `yaml:"players"`
	}{Players: make(map[string]yamlRecord, len(entries))}
	for _, entry := range entries {
		doc.Players[entry.ID] = yamlRecord{
			Text:    entry.Text,
			Color:   entry.Color,
			Enabled: entry.Enabled,
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create tag directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "playerdata-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp tag file: %w", err)
	}
	enc := yaml.NewEncoder(tmp)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write tag file: %w", err)
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("flush tag file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp tag file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace tag file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only open while loading or saving.
func (s *YAMLStore) Close() error {
	return nil
}
