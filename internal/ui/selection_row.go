package ui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/game-system/internal/model"
	"github.com/ytget/game-system/internal/session"
)

// SelectionRow is one editable (game, hours) row
type SelectionRow struct {
	widget.BaseWidget

	localization *Localization
	index        int

	// set while the row is being filled from a snapshot, so that
	// programmatic changes are not reported back as user edits
	syncing bool

	gameLabel  *widget.Label
	hoursLabel *widget.Label
	gameSelect *widget.Select
	hoursEntry *widget.Entry
	deleteBtn  *widget.Button

	onGameChanged  func(index int, game string)
	onHoursChanged func(index int, hours int)
	onDelete       func(index int)
}

// NewSelectionRow creates a row widget for the given position
func NewSelectionRow(index int, localization *Localization) *SelectionRow {
	sr := &SelectionRow{
		localization: localization,
		index:        index,
	}
	sr.ExtendBaseWidget(sr)
	sr.createUI()
	return sr
}

// SetCallbacks sets the edit callbacks
func (sr *SelectionRow) SetCallbacks(
	onGameChanged func(index int, game string),
	onHoursChanged func(index int, hours int),
	onDelete func(index int),
) {
	sr.onGameChanged = onGameChanged
	sr.onHoursChanged = onHoursChanged
	sr.onDelete = onDelete
}

// Index returns the row position the widget currently shows
func (sr *SelectionRow) Index() int {
	return sr.index
}

// Update fills the row from a snapshot row
func (sr *SelectionRow) Update(view session.RowView, editable bool) {
	sr.syncing = true
	defer func() { sr.syncing = false }()

	sr.index = view.Index
	sr.gameLabel.SetText(fmt.Sprintf(sr.localization.GetText(KeyGameLabel), view.Index+1))
	sr.hoursLabel.SetText(fmt.Sprintf(sr.localization.GetText(KeyHoursLabel), view.Index+1))

	labels := make([]string, len(view.Options))
	for i, option := range view.Options {
		labels[i] = sr.optionLabel(option)
	}
	sr.gameSelect.SetOptions(labels)
	sr.gameSelect.SetSelected(sr.optionLabel(view.Game))

	hours := strconv.Itoa(view.Hours)
	if sr.hoursEntry.Text != hours {
		sr.hoursEntry.SetText(hours)
	}

	if view.Deletable {
		sr.deleteBtn.Show()
	} else {
		sr.deleteBtn.Hide()
	}

	if editable {
		sr.gameSelect.Enable()
		sr.hoursEntry.Enable()
		sr.deleteBtn.Enable()
	} else {
		sr.gameSelect.Disable()
		sr.hoursEntry.Disable()
		sr.deleteBtn.Disable()
	}
}

// SelectedGame returns the game shown in the selector, model.Unselected for the placeholder
func (sr *SelectionRow) SelectedGame() string {
	return sr.gameFromLabel(sr.gameSelect.Selected)
}

// createUI creates the UI components
func (sr *SelectionRow) createUI() {
	sr.gameLabel = widget.NewLabel("")
	sr.gameLabel.TextStyle = fyne.TextStyle{Bold: true}
	sr.hoursLabel = widget.NewLabel("")
	sr.hoursLabel.TextStyle = fyne.TextStyle{Bold: true}

	sr.gameSelect = widget.NewSelect(nil, func(selected string) {
		if sr.syncing || sr.onGameChanged == nil {
			return
		}
		sr.onGameChanged(sr.index, sr.gameFromLabel(selected))
	})
	sr.gameSelect.PlaceHolder = sr.localization.GetText(KeySelectGame)

	sr.hoursEntry = widget.NewEntry()
	sr.hoursEntry.SetText("0")
	sr.hoursEntry.Validator = func(text string) error {
		if _, err := parseHours(text); err != nil {
			return fmt.Errorf("%s", sr.localization.GetText(KeyInvalidHours))
		}
		return nil
	}
	sr.hoursEntry.OnChanged = func(text string) {
		if sr.syncing || sr.onHoursChanged == nil {
			return
		}
		hours, err := parseHours(text)
		if err != nil {
			return
		}
		sr.onHoursChanged(sr.index, hours)
	}

	sr.deleteBtn = widget.NewButton(IconDelete, func() {
		if sr.onDelete != nil {
			sr.onDelete(sr.index)
		}
	})
	sr.deleteBtn.Importance = widget.LowImportance
}

// optionLabel maps a game to the text shown in the selector
func (sr *SelectionRow) optionLabel(game string) string {
	if game == model.Unselected {
		return sr.localization.GetText(KeySelectGame)
	}
	return game
}

func (sr *SelectionRow) gameFromLabel(label string) string {
	if label == "" || label == sr.localization.GetText(KeySelectGame) {
		return model.Unselected
	}
	return label
}

// parseHours accepts a whole number of hours ≥ 0
func parseHours(text string) (int, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	if hours < 0 {
		return 0, fmt.Errorf("negative hours: %d", hours)
	}
	return hours, nil
}

// CreateRenderer creates the widget renderer
func (sr *SelectionRow) CreateRenderer() fyne.WidgetRenderer {
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	gameColumn := container.NewVBox(sr.gameLabel, fixedWidth(GameSelectWidth, sr.gameSelect))
	hoursColumn := container.NewVBox(sr.hoursLabel, fixedWidth(HoursEntryWidth, sr.hoursEntry))
	deleteColumn := container.NewVBox(widget.NewLabel(""), fixedWidth(DeleteButtonSize, sr.deleteBtn))

	content := container.NewHBox(gameColumn, hoursColumn, deleteColumn)
	return widget.NewSimpleRenderer(content)
}
