package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewSelectionRow(t *testing.T) {
	row := NewSelectionRow()

	if row.Game != Unselected {
		t.Errorf("Expected new row game to be unselected, got '%s'", row.Game)
	}
	if row.Hours != 0 {
		t.Errorf("Expected new row hours to be 0, got %d", row.Hours)
	}
	if row.IsSelected() {
		t.Error("Expected new row to not be selected")
	}

	row.Game = "Hades"
	if !row.IsSelected() {
		t.Error("Expected row with a game to be selected")
	}
}

func TestGameID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected GameID
	}{
		{`"1145360"`, "1145360"},
		{`1145360`, "1145360"},
		{`413150.0`, "413150.0"},
		{`null`, ""},
	}

	for _, test := range tests {
		var id GameID
		if err := json.Unmarshal([]byte(test.input), &id); err != nil {
			t.Errorf("Unmarshal(%s) returned error: %v", test.input, err)
			continue
		}
		if id != test.expected {
			t.Errorf("Unmarshal(%s) = '%s', expected '%s'", test.input, id, test.expected)
		}
	}

	var id GameID
	if err := json.Unmarshal([]byte(`{"a":1}`), &id); err == nil {
		t.Error("Expected error for object game_id, got nil")
	}
}

func TestRecommendationResponse_Decode(t *testing.T) {
	body := `{"recommendations":[{"name":"Hades","game_id":"1145360","price":24.99,"rating_ratio":0.98,"genres":["Action"],"tags":["Roguelike","Indie"]}]}`

	var resp RecommendationResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(resp.Recommendations) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(resp.Recommendations))
	}

	rec := resp.Recommendations[0]
	if rec.Name != "Hades" || rec.GameID != "1145360" {
		t.Errorf("Unexpected recommendation: %+v", rec)
	}
	if len(rec.Tags) != 2 || rec.Tags[1] != "Indie" {
		t.Errorf("Expected tags [Roguelike Indie], got %v", rec.Tags)
	}
}

func TestWakeReport(t *testing.T) {
	report := WakeReport{Outcomes: []WakeOutcome{
		{URL: "https://a", StatusCode: 200},
		{URL: "https://b", StatusCode: 503},
		{URL: "https://c", Err: errors.New("connection refused")},
		{URL: "https://d", StatusCode: 204},
	}}

	if got := len(report.Succeeded()); got != 2 {
		t.Errorf("Expected 2 succeeded outcomes, got %d", got)
	}
	if got := len(report.Failed()); got != 2 {
		t.Errorf("Expected 2 failed outcomes, got %d", got)
	}
	if report.AllOK() {
		t.Error("Expected AllOK to be false")
	}

	if (WakeReport{}).AllOK() {
		t.Error("Expected empty report to not be AllOK")
	}

	ok := WakeReport{Outcomes: []WakeOutcome{{URL: "https://a", StatusCode: 200}}}
	if !ok.AllOK() {
		t.Error("Expected AllOK to be true")
	}
}
