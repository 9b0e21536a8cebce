package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/game-system/internal/catalog"
	"github.com/ytget/game-system/internal/editor"
	"github.com/ytget/game-system/internal/gateway"
	"github.com/ytget/game-system/internal/model"
	"github.com/ytget/game-system/internal/telemetry"
)

type fakeGateway struct {
	mu sync.Mutex

	prediction     model.PredictionResponse
	predictErr     error
	recommendation model.RecommendationResponse
	recommendErr   error
	wakeReport     model.WakeReport
	wakeErr        error
	urls           []string

	predictCalls   int
	recommendCalls int
	wakeCalls      int
	lastPayload    model.RecommendationRequest
	lastDate       time.Time

	block chan struct{} // when set, calls wait on it
}

func (f *fakeGateway) wait() {
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeGateway) WakeAll(ctx context.Context, urls []string) (model.WakeReport, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wakeCalls++
	return f.wakeReport, f.wakeErr
}

func (f *fakeGateway) PredictPlayerCount(ctx context.Context, date time.Time) (model.PredictionResponse, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predictCalls++
	f.lastDate = date
	return f.prediction, f.predictErr
}

func (f *fakeGateway) Recommend(ctx context.Context, selections model.RecommendationRequest) (model.RecommendationResponse, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recommendCalls++
	f.lastPayload = selections
	return f.recommendation, f.recommendErr
}

func (f *fakeGateway) WakeURLs() []string {
	return f.urls
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]model.CatalogEntry{
		{Name: "Stardew Valley", GameID: "413150"},
		{Name: "Hades", GameID: "1145360"},
		{Name: "Celeste", GameID: "504230"},
	})
}

func newTestController(gw *fakeGateway) (*Controller, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)}
	c := NewController(testCatalog(), gw, Options{Now: clock.Now})
	return c, clock
}

func TestNewController(t *testing.T) {
	c, _ := newTestController(&fakeGateway{})

	assert.True(t, strings.HasPrefix(c.ID(), SessionIDPrefix))
	assert.Len(t, c.ID(), len(SessionIDPrefix)+36)
	assert.Equal(t, model.SessionIdle, c.State())

	snap := c.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, model.Unselected, snap.Rows[0].Game)
	assert.False(t, snap.Rows[0].Deletable)
	assert.False(t, snap.CanSubmit)

	other, _ := newTestController(&fakeGateway{})
	assert.NotEqual(t, c.ID(), other.ID())
}

func TestEditingKeepsIdle(t *testing.T) {
	c, _ := newTestController(&fakeGateway{})

	idx, err := c.AddRow()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	require.NoError(t, c.SetGame(0, "Hades"))
	require.NoError(t, c.SetHours(0, 5))
	assert.Equal(t, model.SessionIdle, c.State())

	err = c.SetGame(1, "Hades")
	assert.True(t, errors.Is(err, editor.ErrGameTaken))

	snap := c.Snapshot()
	assert.Equal(t, []string{model.Unselected, "Celeste", "Stardew Valley"}, snap.Rows[1].Options)
	assert.True(t, snap.Rows[0].Deletable)
}

func TestDeleteCycle(t *testing.T) {
	c, _ := newTestController(&fakeGateway{})
	_, _ = c.AddRow()
	_, _ = c.AddRow()
	require.NoError(t, c.SetGame(0, "Hades"))
	require.NoError(t, c.SetGame(2, "Celeste"))

	require.NoError(t, c.RequestDelete(0))
	assert.Equal(t, model.SessionPendingDelete, c.State())
	assert.Len(t, c.Snapshot().Rows, 3)

	// an edit in the same pass survives the commit
	require.NoError(t, c.SetHours(2, 9))

	assert.True(t, c.Sync())
	assert.Equal(t, model.SessionIdle, c.State())

	snap := c.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, model.Unselected, snap.Rows[0].Game)
	assert.Equal(t, "Celeste", snap.Rows[1].Game)
	assert.Equal(t, 9, snap.Rows[1].Hours)

	assert.False(t, c.Sync(), "nothing to do")
}

func TestQueuedDeleteSurvivesRemoteCalls(t *testing.T) {
	tests := []struct {
		name string
		call func(c *Controller) error
	}{
		{"prediction", func(c *Controller) error {
			return c.SubmitPrediction(context.Background(), time.Now())
		}},
		{"recommendation", func(c *Controller) error {
			return c.SubmitRecommendation(context.Background())
		}},
		{"wake", func(c *Controller) error {
			_, err := c.Wake(context.Background())
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{urls: []string{"https://a"}}
			c, _ := newTestController(gw)
			require.NoError(t, c.SetGame(0, "Hades"))
			_, _ = c.AddRow()
			_, _ = c.AddRow()
			require.NoError(t, c.SetGame(2, "Celeste"))

			// row 1 is the only unselected one
			require.NoError(t, c.RequestDelete(1))
			require.NoError(t, tt.call(c))
			c.Sync()

			snap := c.Snapshot()
			require.Len(t, snap.Rows, 2)
			assert.Equal(t, "Hades", snap.Rows[0].Game)
			assert.Equal(t, "Celeste", snap.Rows[1].Game)
			assert.NotEqual(t, model.SessionPendingDelete, snap.State)
			assert.False(t, c.Sync(), "no delete left behind")
		})
	}
}

func TestSubmitRecommendation_CommitsQueuedDeleteFirst(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newTestController(gw)
	require.NoError(t, c.SetGame(0, "Hades"))
	require.NoError(t, c.SetHours(0, 12))
	_, _ = c.AddRow()

	require.NoError(t, c.RequestDelete(1))
	require.NoError(t, c.SubmitRecommendation(context.Background()))
	assert.Equal(t, model.RecommendationRequest{"1145360": 12}, gw.lastPayload)
	assert.Len(t, c.Snapshot().Rows, 1)
}

func TestSubmitPrediction(t *testing.T) {
	gw := &fakeGateway{prediction: model.PredictionResponse{PlayerCount: 1234.5}}
	c, _ := newTestController(gw)
	date := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.SubmitPrediction(context.Background(), date))
	assert.Equal(t, model.SessionIdle, c.State())
	assert.Equal(t, date, gw.lastDate)

	snap := c.Snapshot()
	require.NotNil(t, snap.Prediction)
	assert.Equal(t, "1,234.50", snap.Prediction.Count)
	assert.Equal(t, "Tuesday, April 15, 2025", snap.Prediction.LongDate)
	assert.NoError(t, snap.PredictionErr)
}

func TestSubmitPrediction_FailureKeepsEditorState(t *testing.T) {
	gw := &fakeGateway{prediction: model.PredictionResponse{PlayerCount: 10}}
	c, _ := newTestController(gw)
	require.NoError(t, c.SetGame(0, "Hades"))
	require.NoError(t, c.SubmitPrediction(context.Background(), time.Now()))

	rowsBefore := c.Snapshot().Rows
	gw.predictErr = &gateway.RemoteCallError{Op: gateway.OpPredict, URL: "https://x", StatusCode: 502, Err: gateway.ErrUnexpectedStatus}

	err := c.SubmitPrediction(context.Background(), time.Now())
	require.Error(t, err)
	assert.True(t, gateway.IsRemoteCallError(err))
	assert.Equal(t, model.SessionIdle, c.State())

	snap := c.Snapshot()
	assert.Nil(t, snap.Prediction, "stale result is cleared")
	assert.Error(t, snap.PredictionErr)
	assert.Equal(t, rowsBefore, snap.Rows)
}

func TestSubmitRecommendation_BlockedWhileUnselected(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newTestController(gw)

	assert.False(t, c.CanSubmitRecommendation())
	err := c.SubmitRecommendation(context.Background())
	assert.ErrorIs(t, err, ErrSubmitBlocked)
	assert.Equal(t, 0, gw.recommendCalls)

	require.NoError(t, c.SetGame(0, "Hades"))
	_, _ = c.AddRow()
	assert.False(t, c.CanSubmitRecommendation())
	assert.ErrorIs(t, c.SubmitRecommendation(context.Background()), ErrSubmitBlocked)
	assert.Equal(t, 0, gw.recommendCalls)
}

func TestSubmitRecommendation(t *testing.T) {
	gw := &fakeGateway{recommendation: model.RecommendationResponse{Recommendations: []model.Recommendation{
		{Name: "Hades", GameID: "1145360", Price: 24.99, RatingRatio: 0.98, Genres: []string{"Action"}, Tags: []string{"Roguelike", "Indie"}},
	}}}
	c, _ := newTestController(gw)
	require.NoError(t, c.SetGame(0, "Stardew Valley"))
	require.NoError(t, c.SetHours(0, 40))

	assert.True(t, c.CanSubmitRecommendation())
	require.NoError(t, c.SubmitRecommendation(context.Background()))

	assert.Equal(t, model.RecommendationRequest{"413150": 40}, gw.lastPayload)

	snap := c.Snapshot()
	assert.True(t, snap.HasRecommendations)
	require.Len(t, snap.Recommendations, 1)
	assert.Equal(t, "Action", snap.Recommendations[0].Genres)
	assert.Equal(t, "Roguelike, Indie", snap.Recommendations[0].Tags)
	assert.Equal(t, "$24.99", snap.Recommendations[0].Price)
}

func TestSubmitRecommendation_Failure(t *testing.T) {
	gw := &fakeGateway{recommendErr: &gateway.RemoteCallError{Op: gateway.OpRecommend, Err: errors.New("refused")}}
	c, _ := newTestController(gw)
	require.NoError(t, c.SetGame(0, "Hades"))

	err := c.SubmitRecommendation(context.Background())
	require.Error(t, err)

	snap := c.Snapshot()
	assert.False(t, snap.HasRecommendations)
	assert.Error(t, snap.RecommendErr)
	assert.Equal(t, "Hades", snap.Rows[0].Game)
	assert.True(t, snap.CanSubmit)
}

func TestWakeBannerExpires(t *testing.T) {
	gw := &fakeGateway{
		urls: []string{"https://a", "https://b", "https://c"},
		wakeReport: model.WakeReport{Outcomes: []model.WakeOutcome{
			{URL: "https://a", StatusCode: 200},
			{URL: "https://b", Err: errors.New("refused")},
			{URL: "https://c", StatusCode: 200},
		}},
	}
	c, clock := newTestController(gw)

	report, err := c.Wake(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Outcomes, 3)
	assert.Equal(t, model.SessionWakeBannerActive, c.State())

	expiry, shown := c.BannerExpiry()
	require.True(t, shown)
	assert.Equal(t, clock.Now().Add(DefaultBannerDuration), expiry)

	snap := c.Snapshot()
	assert.True(t, snap.BannerActive)
	require.NotNil(t, snap.WakeReport)
	assert.Len(t, snap.WakeReport.Failed(), 1)

	clock.Advance(DefaultBannerDuration - time.Millisecond)
	assert.False(t, c.Sync())
	assert.True(t, c.Snapshot().BannerActive)

	clock.Advance(time.Millisecond)
	assert.False(t, c.Snapshot().BannerActive)
	assert.True(t, c.Sync(), "expiry forces a re-render")
	assert.Equal(t, model.SessionIdle, c.State())
	_, shown = c.BannerExpiry()
	assert.False(t, shown)
}

func TestWakeBannerSurvivesEdits(t *testing.T) {
	gw := &fakeGateway{urls: []string{"https://a"}, wakeReport: model.WakeReport{Outcomes: []model.WakeOutcome{{URL: "https://a", StatusCode: 200}}}}
	c, _ := newTestController(gw)
	_, _ = c.AddRow()

	_, err := c.Wake(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.RequestDelete(1))
	assert.True(t, c.Sync())
	assert.Equal(t, model.SessionWakeBannerActive, c.State())
}

func TestWake_AggregationFailure(t *testing.T) {
	gw := &fakeGateway{wakeErr: gateway.ErrNoURLs}
	c, _ := newTestController(gw)

	_, err := c.Wake(context.Background())
	assert.ErrorIs(t, err, gateway.ErrNoURLs)
	assert.Equal(t, model.SessionIdle, c.State())
	assert.Error(t, c.Snapshot().WakeErr)
	assert.False(t, c.Snapshot().BannerActive)
}

func TestBusyWhileAwaiting(t *testing.T) {
	gw := &fakeGateway{block: make(chan struct{}), prediction: model.PredictionResponse{PlayerCount: 1}}
	c, _ := newTestController(gw)

	done := make(chan error, 1)
	go func() {
		done <- c.SubmitPrediction(context.Background(), time.Now())
	}()

	require.Eventually(t, func() bool {
		return c.State() == model.SessionAwaitingPrediction
	}, time.Second, time.Millisecond)

	_, err := c.AddRow()
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, c.SetGame(0, "Hades"), ErrBusy)
	assert.ErrorIs(t, c.SetHours(0, 1), ErrBusy)
	assert.ErrorIs(t, c.RequestDelete(0), ErrBusy)
	assert.ErrorIs(t, c.SubmitRecommendation(context.Background()), ErrBusy)
	_, err = c.Wake(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.False(t, c.CanSubmitRecommendation())

	close(gw.block)
	require.NoError(t, <-done)
	assert.Equal(t, model.SessionIdle, c.State())
}

func TestSubmissionMetrics(t *testing.T) {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	gw := &fakeGateway{predictErr: errors.New("down")}
	c := NewController(testCatalog(), gw, Options{Metrics: metrics})

	_ = c.SubmitPrediction(context.Background(), time.Now())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Submissions.WithLabelValues(FormPrediction, telemetry.OutcomeError)))
}

func TestSubmitEnabledIsPureFunctionOfRows(t *testing.T) {
	c, _ := newTestController(&fakeGateway{})

	check := func() {
		snap := c.Snapshot()
		want := true
		for _, row := range snap.Rows {
			if row.Game == model.Unselected {
				want = false
			}
		}
		assert.Equal(t, want, snap.CanSubmit)
		assert.Equal(t, want, c.CanSubmitRecommendation())
	}

	check()
	require.NoError(t, c.SetGame(0, "Hades"))
	check()
	_, _ = c.AddRow()
	check()
	require.NoError(t, c.SetGame(1, "Celeste"))
	check()
	require.NoError(t, c.RequestDelete(0))
	c.Sync()
	check()
}
