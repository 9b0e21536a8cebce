package gateway

import (
	"context"
	"time"

	"github.com/ytget/game-system/internal/model"
)

// Caller defines the interface of the remote call gateway.
type Caller interface {
	// WakeAll GETs every URL concurrently and reports each outcome
	WakeAll(ctx context.Context, urls []string) (model.WakeReport, error)

	// PredictPlayerCount asks Model 1 for the player count of date
	PredictPlayerCount(ctx context.Context, date time.Time) (model.PredictionResponse, error)

	// Recommend sends game_id to hours selections to Model 2
	Recommend(ctx context.Context, selections model.RecommendationRequest) (model.RecommendationResponse, error)

	// WakeURLs returns the configured services to wake
	WakeURLs() []string
}
