package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/game-system/internal/editor"
	"github.com/ytget/game-system/internal/gateway"
	"github.com/ytget/game-system/internal/model"
	"github.com/ytget/game-system/internal/render"
	"github.com/ytget/game-system/internal/telemetry"
)

// DefaultBannerDuration is how long the wake banner stays visible
const DefaultBannerDuration = 3 * time.Second

// SessionIDPrefix prefixes generated session IDs
const SessionIDPrefix = "session-"

// Form names, also used as metric labels
const (
	FormPrediction     = "model1"
	FormRecommendation = "model2"
	FormWake           = "wake"
)

var (
	// ErrSubmitBlocked is returned when Model 2 is submitted while a row is unselected
	ErrSubmitBlocked = errors.New("every row needs a game before submitting")

	// ErrBusy is returned when an action arrives while a remote call is in flight
	ErrBusy = errors.New("another request is in progress")
)

// Options configures a Controller
type Options struct {
	BannerDuration time.Duration
	Metrics        *telemetry.Metrics
	Renderer       *render.Renderer
	Now            func() time.Time
}

// Controller is the state of one dashboard session
type Controller struct {
	mu sync.Mutex

	id       string
	gateway  gateway.Caller
	editor   *editor.Editor
	renderer *render.Renderer
	metrics  *telemetry.Metrics
	now      func() time.Time

	state          model.SessionState
	bannerDuration time.Duration
	bannerUntil    time.Time
	wakeReport     *model.WakeReport

	prediction      *render.PredictionView
	predictionErr   error
	recommendations []render.RecommendationView
	recommended     bool
	recommendErr    error
	wakeErr         error
}

// NewController creates the state of a new session
func NewController(catalog editor.Catalog, gw gateway.Caller, opts Options) *Controller {
	banner := opts.BannerDuration
	if banner <= 0 {
		banner = DefaultBannerDuration
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.New(render.DefaultLanguage)
	}

	c := &Controller{
		id:             SessionIDPrefix + uuid.NewString(),
		gateway:        gw,
		editor:         editor.New(catalog),
		renderer:       renderer,
		metrics:        opts.Metrics,
		now:            now,
		state:          model.SessionIdle,
		bannerDuration: banner,
	}
	slog.Info("session started", "session", c.id)
	return c
}

// ID returns the session ID
func (c *Controller) ID() string {
	return c.id
}

// State returns the current state
func (c *Controller) State() model.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AddRow appends an unselected row
func (c *Controller) AddRow() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.AcceptsEdits() {
		return -1, ErrBusy
	}
	return c.editor.AddRow(), nil
}

// SetGame selects a game for row i
func (c *Controller) SetGame(i int, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.AcceptsEdits() {
		return ErrBusy
	}
	return c.editor.SetGame(i, name)
}

// SetHours sets hours played for row i
func (c *Controller) SetHours(i int, hours int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.AcceptsEdits() {
		return ErrBusy
	}
	return c.editor.SetHours(i, hours)
}

// RequestDelete marks row i; the row disappears on the next Sync
func (c *Controller) RequestDelete(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.AcceptsEdits() {
		return ErrBusy
	}
	if err := c.editor.RequestDelete(i); err != nil {
		return err
	}
	c.state = model.SessionPendingDelete
	return nil
}

// Sync runs the per-render bookkeeping: it commits a pending delete and
// expires the wake banner. It returns true when the view must re-render.
func (c *Controller) Sync() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	if c.state.AcceptsEdits() {
		changed = c.settlePendingDelete()
	}
	if c.state == model.SessionWakeBannerActive && !c.bannerShown() {
		c.state = model.SessionIdle
		changed = true
	}
	return changed
}

// CanSubmitRecommendation reports whether Model 2 may be submitted
func (c *Controller) CanSubmitRecommendation() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.AcceptsEdits() && c.editor.Valid()
}

// SubmitPrediction calls Model 1 for date. A failure is kept as the inline
// error of the form and also returned.
func (c *Controller) SubmitPrediction(ctx context.Context, date time.Time) error {
	if err := c.begin(model.SessionAwaitingPrediction); err != nil {
		return err
	}

	slog.Info("submitting prediction", "session", c.id, "date", date.Format(render.DateLayout))
	resp, err := c.gateway.PredictPlayerCount(ctx, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.restingState()
	c.metrics.ObserveSubmission(FormPrediction, err)
	if err != nil {
		slog.Warn("prediction failed", "session", c.id, "error", err)
		c.prediction = nil
		c.predictionErr = err
		return err
	}

	view := c.renderer.Prediction(date, resp)
	c.prediction = &view
	c.predictionErr = nil
	return nil
}

// SubmitRecommendation sends the rows to Model 2. It is refused with
// ErrSubmitBlocked, without any network call, while a row is unselected.
func (c *Controller) SubmitRecommendation(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.AcceptsEdits() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.settlePendingDelete()
	if !c.editor.Valid() {
		c.mu.Unlock()
		return ErrSubmitBlocked
	}
	payload := c.editor.Payload()
	c.state = model.SessionAwaitingRecommendation
	c.mu.Unlock()

	slog.Info("submitting recommendation", "session", c.id, "games", len(payload))
	resp, err := c.gateway.Recommend(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.restingState()
	c.metrics.ObserveSubmission(FormRecommendation, err)
	if err != nil {
		slog.Warn("recommendation failed", "session", c.id, "error", err)
		c.recommendations = nil
		c.recommended = false
		c.recommendErr = err
		return err
	}

	c.recommendations = c.renderer.Recommendations(resp)
	c.recommended = true
	c.recommendErr = nil
	return nil
}

// Wake pings every configured service and shows the banner once all answered
func (c *Controller) Wake(ctx context.Context) (model.WakeReport, error) {
	if err := c.begin(model.SessionAwaitingWake); err != nil {
		return model.WakeReport{}, err
	}

	urls := c.gateway.WakeURLs()
	slog.Info("waking services", "session", c.id, "services", len(urls))
	report, err := c.gateway.WakeAll(ctx, urls)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.ObserveSubmission(FormWake, err)
	if err != nil {
		c.state = c.restingState()
		c.wakeErr = err
		return report, fmt.Errorf("wake services: %w", err)
	}

	c.wakeErr = nil
	c.wakeReport = &report
	c.state = model.SessionWakeBannerActive
	c.bannerUntil = c.now().Add(c.bannerDuration)
	return report, nil
}

// BannerExpiry returns when the wake banner disappears, if it is shown
func (c *Controller) BannerExpiry() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.bannerShown() {
		return time.Time{}, false
	}
	return c.bannerUntil, true
}

// Snapshot returns an immutable copy of everything the view renders
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := c.editor.Rows()
	views := make([]RowView, len(rows))
	for i, row := range rows {
		views[i] = RowView{
			Index:     i,
			Game:      c.editor.DisplayedGame(i),
			Hours:     row.Hours,
			Options:   c.editor.Options(i),
			Deletable: c.editor.CanDelete(),
		}
	}

	snap := Snapshot{
		SessionID:          c.id,
		State:              c.state,
		Rows:               views,
		CanSubmit:          c.state.AcceptsEdits() && c.editor.Valid(),
		BannerActive:       c.bannerShown(),
		PredictionErr:      c.predictionErr,
		RecommendErr:       c.recommendErr,
		WakeErr:            c.wakeErr,
		HasRecommendations: c.recommended,
	}
	if c.prediction != nil {
		p := *c.prediction
		snap.Prediction = &p
	}
	if c.recommendations != nil {
		snap.Recommendations = make([]render.RecommendationView, len(c.recommendations))
		copy(snap.Recommendations, c.recommendations)
	}
	if c.wakeReport != nil {
		r := model.WakeReport{Outcomes: make([]model.WakeOutcome, len(c.wakeReport.Outcomes))}
		copy(r.Outcomes, c.wakeReport.Outcomes)
		snap.WakeReport = &r
	}
	return snap
}

// restingState is the state a session returns to once nothing is in flight
func (c *Controller) restingState() model.SessionState {
	if c.bannerShown() {
		return model.SessionWakeBannerActive
	}
	return model.SessionIdle
}

func (c *Controller) bannerShown() bool {
	return !c.bannerUntil.IsZero() && c.now().Before(c.bannerUntil)
}

// begin moves an idle-like session into an awaiting state
func (c *Controller) begin(next model.SessionState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.AcceptsEdits() {
		return ErrBusy
	}
	c.settlePendingDelete()
	c.state = next
	return nil
}

// settlePendingDelete commits a queued delete before anything else reads the
// rows. Callers hold c.mu.
func (c *Controller) settlePendingDelete() bool {
	committed := false
	if _, ok := c.editor.PendingDelete(); ok {
		committed = c.editor.CommitPendingDelete()
	}
	if c.state == model.SessionPendingDelete {
		c.state = c.restingState()
		committed = true
	}
	return committed
}
