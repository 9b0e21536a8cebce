package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/game-system/internal/model"
)

const sampleCSV = `game_id,name,price
1145360,Hades,24.99
413150,Stardew Valley,14.99
570.0,Dota 2,0
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"Dota 2", "Hades", "Stardew Valley"}, c.NamesSorted())

	id, ok := c.IDForName("Stardew Valley")
	assert.True(t, ok)
	assert.Equal(t, "413150", id)

	id, ok = c.IDForName("Dota 2")
	assert.True(t, ok)
	assert.Equal(t, "570", id, "float-looking ids are normalized")
}

func TestIDForName_Total(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	for _, name := range []string{"", "hades", "Hades ", "Unknown Game", model.UnselectedLabel} {
		id, ok := c.IDForName(name)
		assert.False(t, ok, "name %q", name)
		assert.Empty(t, id, "name %q", name)
	}

	var nilCatalog *Catalog
	_, ok := nilCatalog.IDForName("Hades")
	assert.False(t, ok)
}

func TestParse_SkipsEmptyAndDuplicateNames(t *testing.T) {
	data := "name,game_id\nHades,1\n,2\nHades,3\nCeleste,4\n"

	c, err := Parse(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Celeste", "Hades"}, c.NamesSorted())
	id, _ := c.IDForName("Hades")
	assert.Equal(t, "1", id, "first id wins")
}

func TestParse_MissingColumns(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no name", "title,game_id\nHades,1\n"},
		{"no id", "name,appid\nHades,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data))
			require.Error(t, err)

			var le *LoadError
			assert.True(t, errors.As(err, &le))
			assert.True(t, errors.Is(err, ErrMissingColumn))
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	var le *LoadError
	assert.True(t, errors.As(err, &le))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game_library_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.Contains("Hades"))
	assert.False(t, c.Contains("Celeste"))
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := Load(path)
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, path, le.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_MalformedSetsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("title\nHades\n"), 0o644))

	_, err := Load(path)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, path, le.Path)
	assert.Contains(t, err.Error(), path)
}

func TestNew(t *testing.T) {
	c := New([]model.CatalogEntry{
		{Name: "Stardew Valley", GameID: "413150"},
		{Name: "Hades", GameID: "1145360"},
		{Name: "", GameID: "0"},
	})

	assert.Equal(t, []string{"Hades", "Stardew Valley"}, c.NamesSorted())

	entries := c.Entries()
	entries[0].Name = "mutated"
	assert.Equal(t, "Hades", c.Entries()[0].Name, "Entries returns a copy")
}
