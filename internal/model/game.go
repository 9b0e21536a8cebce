package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Unselected is the placeholder game value of a row where no game was chosen yet.
// The catalog never contains an empty name, so it cannot collide with a real game.
const Unselected = ""

// UnselectedLabel is the English display text of the placeholder option
const UnselectedLabel = "Select a game"

// CatalogEntry is a single game of the catalog
type CatalogEntry struct {
	Name   string `json:"name"`
	GameID string `json:"game_id"`
}

// SelectionRow is one (game, hours) row of the recommendation form
type SelectionRow struct {
	Game  string `json:"game"`
	Hours int    `json:"hours"`
}

// NewSelectionRow returns the row every freshly added row starts as
func NewSelectionRow() SelectionRow {
	return SelectionRow{Game: Unselected, Hours: 0}
}

// IsSelected reports whether the row references a real game
func (r SelectionRow) IsSelected() bool {
	return r.Game != Unselected
}

// PredictionRequest is the Model 1 request body
type PredictionRequest struct {
	Date string `json:"date"`
}

// PredictionResponse is the Model 1 response body
type PredictionResponse struct {
	PlayerCount float64 `json:"player_count"`
}

// RecommendationRequest maps game_id to hours played
type RecommendationRequest map[string]int

// GameID accepts both JSON strings and JSON numbers, services are not
// consistent about how they echo catalog ids.
type GameID string

// UnmarshalJSON implements json.Unmarshaler
func (id *GameID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = GameID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("game_id must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = GameID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = GameID(n.String())
	return nil
}

// Recommendation is one recommended game
type Recommendation struct {
	Name        string   `json:"name"`
	GameID      GameID   `json:"game_id"`
	Price       float64  `json:"price"`
	RatingRatio float64  `json:"rating_ratio"`
	Genres      []string `json:"genres,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// RecommendationResponse is the Model 2 response body
type RecommendationResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// WakeOutcome is the result of waking one remote service
type WakeOutcome struct {
	URL        string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// OK reports whether the service answered with a 2xx status
func (o WakeOutcome) OK() bool {
	return o.Err == nil && o.StatusCode >= 200 && o.StatusCode < 300
}

// WakeReport aggregates the outcomes of one wake fan-out, in request order
type WakeReport struct {
	Outcomes []WakeOutcome
}

// Succeeded returns the outcomes that answered with 2xx
func (r WakeReport) Succeeded() []WakeOutcome {
	var ok []WakeOutcome
	for _, o := range r.Outcomes {
		if o.OK() {
			ok = append(ok, o)
		}
	}
	return ok
}

// Failed returns the outcomes that did not answer with 2xx
func (r WakeReport) Failed() []WakeOutcome {
	var failed []WakeOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// AllOK reports whether every service woke up
func (r WakeReport) AllOK() bool {
	return len(r.Outcomes) > 0 && len(r.Failed()) == 0
}
