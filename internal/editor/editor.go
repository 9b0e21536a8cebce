// Package editor owns the ordered list of (game, hours) rows of the
// recommendation form. It keeps game selections mutually exclusive across
// rows, implements the mark-then-commit delete used by the render cycle, and
// derives the submit precondition and the request payload from the rows.
package editor

import (
	"errors"
	"fmt"

	"github.com/ytget/game-system/internal/model"
)

// Editor errors. A rejected write leaves the rows untouched.
var (
	ErrIndexOutOfRange = errors.New("row index out of range")
	ErrUnknownGame     = errors.New("game is not in the catalog")
	ErrGameTaken       = errors.New("game is already selected in another row")
	ErrNegativeHours   = errors.New("hours played must not be negative")
)

// Catalog is the lookup the editor needs
type Catalog interface {
	NamesSorted() []string
	IDForName(name string) (string, bool)
}

// Editor holds the rows of one session. It is not safe for concurrent use;
// the session controller serializes access.
type Editor struct {
	catalog       Catalog
	rows          []model.SelectionRow
	pendingDelete int // -1 when nothing is marked
}

// New creates an editor with a single unselected row
func New(catalog Catalog) *Editor {
	return &Editor{
		catalog:       catalog,
		rows:          []model.SelectionRow{model.NewSelectionRow()},
		pendingDelete: -1,
	}
}

// Len returns the number of rows
func (e *Editor) Len() int {
	return len(e.rows)
}

// Rows returns a copy of the rows in display order
func (e *Editor) Rows() []model.SelectionRow {
	out := make([]model.SelectionRow, len(e.rows))
	copy(out, e.rows)
	return out
}

// Row returns the row at index i
func (e *Editor) Row(i int) (model.SelectionRow, error) {
	if err := e.checkIndex(i); err != nil {
		return model.SelectionRow{}, err
	}
	return e.rows[i], nil
}

// AddRow appends an unselected row and returns its index
func (e *Editor) AddRow() int {
	e.rows = append(e.rows, model.NewSelectionRow())
	return len(e.rows) - 1
}

// SetGame selects a game for row i. Selecting a game held by another row is
// rejected; clearing the selection is always allowed.
func (e *Editor) SetGame(i int, name string) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	if name != model.Unselected {
		if _, ok := e.catalog.IDForName(name); !ok {
			return fmt.Errorf("row %d: %w: %q", i, ErrUnknownGame, name)
		}
		if j := e.holder(name); j >= 0 && j != i {
			return fmt.Errorf("row %d: %w: %q (row %d)", i, ErrGameTaken, name, j)
		}
	}
	e.rows[i].Game = name
	return nil
}

// SetHours sets the hours played of row i
func (e *Editor) SetHours(i int, hours int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	if hours < 0 {
		return fmt.Errorf("row %d: %w: %d", i, ErrNegativeHours, hours)
	}
	e.rows[i].Hours = hours
	return nil
}

// CanDelete reports whether the delete control should be offered. The list
// never shrinks below one row.
func (e *Editor) CanDelete() bool {
	return len(e.rows) > 1
}

// RequestDelete marks row i for removal on the next CommitPendingDelete.
// Rows are not touched, so edits to other rows made in the same pass stay valid.
func (e *Editor) RequestDelete(i int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.pendingDelete = i
	return nil
}

// PendingDelete returns the index marked for removal, if any
func (e *Editor) PendingDelete() (int, bool) {
	return e.pendingDelete, e.pendingDelete >= 0
}

// CommitPendingDelete removes the marked row and clears the marker. It
// returns true when rows changed and the view must re-render.
func (e *Editor) CommitPendingDelete() bool {
	i, ok := e.PendingDelete()
	if !ok {
		return false
	}
	e.pendingDelete = -1
	if i >= len(e.rows) || !e.CanDelete() {
		return false
	}
	e.rows = append(e.rows[:i], e.rows[i+1:]...)
	return true
}

// Delete removes row i immediately
func (e *Editor) Delete(i int) (bool, error) {
	if err := e.RequestDelete(i); err != nil {
		return false, err
	}
	return e.CommitPendingDelete(), nil
}

// Options returns the selectable values for row i: the unselected
// placeholder first, then every catalog game not held by another row.
func (e *Editor) Options(i int) []string {
	taken := make(map[string]struct{}, len(e.rows))
	for j, row := range e.rows {
		if j != i && row.IsSelected() {
			taken[row.Game] = struct{}{}
		}
	}

	names := e.catalog.NamesSorted()
	options := make([]string, 0, len(names)+1)
	options = append(options, model.Unselected)
	for _, name := range names {
		if _, ok := taken[name]; !ok {
			options = append(options, name)
		}
	}
	return options
}

// DisplayedGame returns what row i should show: its game while that game is
// still one of its options, the placeholder otherwise.
func (e *Editor) DisplayedGame(i int) string {
	if i < 0 || i >= len(e.rows) {
		return model.Unselected
	}
	game := e.rows[i].Game
	if game == model.Unselected {
		return game
	}
	if _, ok := e.catalog.IDForName(game); !ok {
		return model.Unselected
	}
	if j := e.holder(game); j >= 0 && j != i {
		return model.Unselected
	}
	return game
}

// Valid reports whether every row has a game selected
func (e *Editor) Valid() bool {
	for _, row := range e.rows {
		if !row.IsSelected() {
			return false
		}
	}
	return true
}

// Payload builds the Model 2 request from rows with a resolvable game
func (e *Editor) Payload() model.RecommendationRequest {
	payload := make(model.RecommendationRequest, len(e.rows))
	for _, row := range e.rows {
		if !row.IsSelected() {
			continue
		}
		id, ok := e.catalog.IDForName(row.Game)
		if !ok {
			continue
		}
		payload[id] = row.Hours
	}
	return payload
}

// holder returns the first row holding game, or -1
func (e *Editor) holder(game string) int {
	for j, row := range e.rows {
		if row.Game == game {
			return j
		}
	}
	return -1
}

func (e *Editor) checkIndex(i int) error {
	if i < 0 || i >= len(e.rows) {
		return fmt.Errorf("%w: %d (rows: %d)", ErrIndexOutOfRange, i, len(e.rows))
	}
	return nil
}
