package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ytget/game-system/internal/model"
)

// Required CSV columns
const (
	ColumnName   = "name"
	ColumnGameID = "game_id"
)

// ErrMissingColumn is wrapped by LoadError when the header lacks a required column
var ErrMissingColumn = errors.New("missing required column")

// LoadError reports a catalog that could not be loaded
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load catalog: %v", e.Err)
	}
	return fmt.Sprintf("load catalog %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Catalog is the sorted, immutable game lookup table
type Catalog struct {
	entries []model.CatalogEntry // sorted by name
	byName  map[string]string
}

// Load reads the catalog CSV at path
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}

	slog.Info("catalog loaded", "path", path, "games", c.Len())
	return c, nil
}

// Parse reads a catalog from CSV data with a header row
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Err: fmt.Errorf("empty catalog")}
		}
		return nil, &LoadError{Err: err}
	}

	nameCol, idCol := -1, -1
	for i, column := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))) {
		case ColumnName:
			nameCol = i
		case ColumnGameID:
			idCol = i
		}
	}
	if nameCol < 0 {
		return nil, &LoadError{Err: fmt.Errorf("%w: %s", ErrMissingColumn, ColumnName)}
	}
	if idCol < 0 {
		return nil, &LoadError{Err: fmt.Errorf("%w: %s", ErrMissingColumn, ColumnGameID)}
	}

	c := &Catalog{byName: make(map[string]string)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Err: err}
		}
		if nameCol >= len(record) || idCol >= len(record) {
			continue
		}

		name := strings.TrimSpace(record[nameCol])
		if name == model.Unselected {
			continue
		}
		if _, dup := c.byName[name]; dup {
			continue
		}

		id := normalizeID(record[idCol])
		c.byName[name] = id
		c.entries = append(c.entries, model.CatalogEntry{Name: name, GameID: id})
	}

	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].Name < c.entries[j].Name
	})
	return c, nil
}

// New builds a catalog from in-memory entries
func New(entries []model.CatalogEntry) *Catalog {
	c := &Catalog{byName: make(map[string]string, len(entries))}
	for _, e := range entries {
		if e.Name == model.Unselected {
			continue
		}
		if _, dup := c.byName[e.Name]; dup {
			continue
		}
		c.byName[e.Name] = e.GameID
		c.entries = append(c.entries, e)
	}
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].Name < c.entries[j].Name
	})
	return c
}

// NamesSorted returns all game names in ascending order
func (c *Catalog) NamesSorted() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// IDForName resolves an exact game name. Unknown names, including the empty
// string, report false.
func (c *Catalog) IDForName(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	id, ok := c.byName[name]
	return id, ok
}

// Contains reports whether name is in the catalog
func (c *Catalog) Contains(name string) bool {
	_, ok := c.IDForName(name)
	return ok
}

// Len returns the number of games
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of all entries sorted by name
func (c *Catalog) Entries() []model.CatalogEntry {
	out := make([]model.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// normalizeID turns float-looking integers such as "413150.0" into "413150"
func normalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if !strings.Contains(id, ".") {
		return id
	}
	f, err := strconv.ParseFloat(id, 64)
	if err != nil || f != float64(int64(f)) {
		return id
	}
	return strconv.FormatInt(int64(f), 10)
}
