// Package sounds lists the bell and ambient audio files served to the timer.
package sounds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/security"
)

// ErrUnknownCategory is returned for a category other than bells or ambient.
var ErrUnknownCategory = errors.New("unknown sound category")

// Category groups sound files.
type Category string

const (
	CategoryBells   Category = "bells"
	CategoryAmbient Category = "ambient"
)

// ParseCategory accepts "bells" or "ambient".
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryBells, CategoryAmbient:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// Sound is one audio file.
type Sound struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// Catalog reads sounds from {dir}/{category}/*.mp3.
type Catalog struct {
	dir string
}

// NewCatalog creates a catalog rooted at dir.
func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Dir is the catalog root.
func (c *Catalog) Dir() string { return c.dir }

// List returns the category's mp3 files sorted by name. A missing directory
// yields an empty list.
func (c *Catalog) List(category Category) ([]Sound, error) {
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}

	dir, err := security.ResolveInDir(c.dir, string(category))
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Sound{}, nil
		}
		return nil, fmt.Errorf("failed to read %s sounds: %w", category, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mp3" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]Sound, 0, len(names))
	for _, name := range names {
		out = append(out, Sound{
			ID:       strings.TrimSuffix(name, ".mp3"),
			Filename: name,
			Path:     fmt.Sprintf("/sounds/%s/%s", category, name),
		})
	}
	return out, nil
}

// Open opens one sound file for serving.
func (c *Catalog) Open(category Category, filename string) (*os.File, error) {
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}
	return security.OpenInDir(c.dir, string(category), filename)
}
