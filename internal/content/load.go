package content

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the content bundled with the binary.
func Default() (*Site, error) {
	return Parse(defaultYAML)
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// IsDatabase reports whether path names a SQLite content database.
func IsDatabase(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Load reads content from path. An empty path yields the bundled content,
// SQLite files are read through Store, anything else is parsed as YAML.
func Load(ctx context.Context, path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	if IsDatabase(path) {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("open content db %s: %w", path, err)
		}
		store, err := OpenStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Site(ctx)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file %s: %w", path, err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}
