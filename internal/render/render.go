// Package render maps service responses to display records. It has no
// network or state side effects.
package render

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ytget/game-system/internal/model"
)

// Display formats
const (
	DateLayout     = "2006-01-02"
	LongDateLayout = "Monday, January 2, 2006"
	ListSeparator  = ", "
)

// PredictionView is a rendered Model 1 answer
type PredictionView struct {
	Date     string // ISO date sent to the service
	LongDate string
	Count    string // thousands-grouped, two decimals
	Raw      float64
}

// RecommendationView is one rendered Model 2 recommendation
type RecommendationView struct {
	Name        string
	GameID      string
	Price       string
	RatingRatio string
	Genres      string
	Tags        string
}

// Renderer formats numbers for one language
type Renderer struct {
	printer *message.Printer
}

// New creates a renderer for tag
func New(tag language.Tag) *Renderer {
	return &Renderer{printer: message.NewPrinter(tag)}
}

// DefaultLanguage is used for number formatting unless configured otherwise
var DefaultLanguage = language.English

var english = New(DefaultLanguage)

// Prediction renders a Model 1 answer with English number formatting
func Prediction(date time.Time, resp model.PredictionResponse) PredictionView {
	return english.Prediction(date, resp)
}

// Recommendations renders a Model 2 answer with English number formatting
func Recommendations(resp model.RecommendationResponse) []RecommendationView {
	return english.Recommendations(resp)
}

// Prediction renders a Model 1 answer
func (r *Renderer) Prediction(date time.Time, resp model.PredictionResponse) PredictionView {
	return PredictionView{
		Date:     date.Format(DateLayout),
		LongDate: date.Format(LongDateLayout),
		Count:    r.printer.Sprintf("%.2f", resp.PlayerCount),
		Raw:      resp.PlayerCount,
	}
}

// Recommendations renders a Model 2 answer, keeping the service's order
func (r *Renderer) Recommendations(resp model.RecommendationResponse) []RecommendationView {
	views := make([]RecommendationView, 0, len(resp.Recommendations))
	for _, rec := range resp.Recommendations {
		views = append(views, RecommendationView{
			Name:        rec.Name,
			GameID:      string(rec.GameID),
			Price:       r.printer.Sprintf("$%.2f", rec.Price),
			RatingRatio: strconv.FormatFloat(rec.RatingRatio, 'f', -1, 64),
			Genres:      JoinList(rec.Genres),
			Tags:        JoinList(rec.Tags),
		})
	}
	return views
}

// JoinList joins values for display; a missing list renders as ""
func JoinList(values []string) string {
	return strings.Join(values, ListSeparator)
}
