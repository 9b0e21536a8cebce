package session

import (
	"github.com/ytget/game-system/internal/model"
	"github.com/ytget/game-system/internal/render"
)

// RowView is one row as the view shows it
type RowView struct {
	Index     int
	Game      string // model.Unselected when the placeholder is shown
	Hours     int
	Options   []string
	Deletable bool
}

// Snapshot is a read-only copy of a session for one render pass
type Snapshot struct {
	SessionID string
	State     model.SessionState
	Rows      []RowView
	CanSubmit bool

	BannerActive bool
	WakeReport   *model.WakeReport
	WakeErr      error

	Prediction    *render.PredictionView
	PredictionErr error

	Recommendations    []render.RecommendationView
	HasRecommendations bool
	RecommendErr       error
}
