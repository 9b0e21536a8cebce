package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/game-system/internal/config"
	"github.com/ytget/game-system/internal/gateway"
	"github.com/ytget/game-system/internal/session"
)

// RootUI represents the main UI structure
type RootUI struct {
	ctx          context.Context
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	controller   *session.Controller
	catalogSize  int

	// Model 1
	model1Title     *widget.Label
	dateLabel       *widget.Label
	dateEntry       *widget.DateEntry
	predictBtn      *widget.Button
	predictionLabel *widget.Label
	predictionError *widget.Label

	// Model 2
	model2Title     *widget.Label
	rowsBox         *fyne.Container
	rows            []*SelectionRow
	addRowBtn       *widget.Button
	submitBtn       *widget.Button
	recommendError  *widget.Label
	recommendations *fyne.Container

	// Wake
	wakeBtn     *widget.Button
	bannerLabel *widget.Label
	wakeError   *widget.Label

	busy       *widget.ProgressBarInfinite
	footer     *widget.Label
	titleLabel *widget.Label

	bannerMu    sync.Mutex
	bannerTimer *time.Timer
}

// NewRootUI creates and initializes the main UI for one session
func NewRootUI(ctx context.Context, window fyne.Window, settings *config.Settings, controller *session.Controller, catalogSize int) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		ctx:          ctx,
		window:       window,
		settings:     settings,
		localization: localization,
		controller:   controller,
		catalogSize:  catalogSize,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	ui.render()

	slog.Info("RootUI initialized", "session", controller.ID())
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.titleLabel = widget.NewLabel("")
	ui.titleLabel.Alignment = fyne.TextAlignCenter
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLabel.SizeName = theme.SizeNameHeadingText

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	var header fyne.CanvasObject
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(32, 32))
		logoImage.FillMode = canvas.ImageFillContain
		header = container.NewBorder(nil, nil, logoImage, settingsBtn, ui.titleLabel)
	} else {
		header = container.NewBorder(nil, nil, nil, settingsBtn, ui.titleLabel)
	}

	// Model 1
	ui.model1Title = widget.NewLabel("")
	ui.model1Title.TextStyle = fyne.TextStyle{Bold: true}
	ui.dateLabel = widget.NewLabel("")
	ui.dateEntry = widget.NewDateEntry()
	today := time.Now()
	ui.dateEntry.SetDate(&today)
	ui.predictBtn = widget.NewButton("", ui.onSubmitPrediction)
	ui.predictBtn.Importance = widget.HighImportance
	ui.predictionLabel = widget.NewLabel("")
	ui.predictionLabel.Wrapping = fyne.TextWrapWord
	ui.predictionError = newErrorLabel()

	model1 := container.NewVBox(
		ui.model1Title,
		ui.dateLabel,
		container.NewBorder(nil, nil, nil, ui.predictBtn, ui.dateEntry),
		ui.predictionLabel,
		ui.predictionError,
	)

	// Model 2
	ui.model2Title = widget.NewLabel("")
	ui.model2Title.TextStyle = fyne.TextStyle{Bold: true}
	ui.addRowBtn = widget.NewButton("", ui.onAddRow)
	ui.rowsBox = container.NewVBox()
	ui.submitBtn = widget.NewButton("", ui.onSubmitRecommendation)
	ui.submitBtn.Importance = widget.HighImportance
	ui.recommendError = newErrorLabel()
	ui.recommendations = container.NewVBox()

	model2 := container.NewVBox(
		ui.model2Title,
		container.NewHBox(ui.addRowBtn),
		ui.rowsBox,
		container.NewHBox(ui.submitBtn),
		ui.recommendError,
		ui.recommendations,
	)

	// Wake
	ui.wakeBtn = widget.NewButton("", ui.onWake)
	ui.bannerLabel = widget.NewLabel("")
	ui.bannerLabel.Importance = widget.SuccessImportance
	ui.bannerLabel.Hide()
	ui.wakeError = newErrorLabel()
	ui.busy = widget.NewProgressBarInfinite()
	ui.busy.Hide()

	wake := container.NewVBox(
		container.NewHBox(ui.wakeBtn, ui.bannerLabel),
		ui.wakeError,
		ui.busy,
	)

	ui.footer = widget.NewLabel("")
	ui.footer.Importance = widget.LowImportance

	content := container.NewVBox(
		header,
		wake,
		widget.NewSeparator(),
		model1,
		widget.NewSeparator(),
		model2,
	)

	ui.window.SetContent(container.NewBorder(nil, ui.footer, nil, nil, container.NewVScroll(content)))
	ui.refreshUITexts()
}

func newErrorLabel() *widget.Label {
	label := widget.NewLabel("")
	label.Importance = widget.DangerImportance
	label.Wrapping = fyne.TextWrapWord
	label.Hide()
	return label
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for _, code := range []string{"en", "ru", "pt"} {
		langCode := code
		langItem := fyne.NewMenuItem(ui.localization.GetAvailableLanguages()[code], func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	)

	ui.window.SetMainMenu(mainMenu)
}

// onLanguageChange handles a language picked from the menu
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.settings.SetLanguage(langCode)
	ui.applyLanguage(langCode)
}

// applyLanguage re-labels the whole window
func (ui *RootUI) applyLanguage(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()

	for _, row := range ui.rows {
		row.gameSelect.PlaceHolder = ui.localization.GetText(KeySelectGame)
	}
	ui.render()
}

// refreshUITexts updates all static texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.titleLabel.SetText(IconGame + " " + ui.localization.GetText(KeyAppTitle) + " " + IconGame)
	ui.model1Title.SetText(ui.localization.GetText(KeyModel1Title))
	ui.dateLabel.SetText(ui.localization.GetText(KeySelectDate))
	ui.predictBtn.SetText(ui.localization.GetText(KeySubmit))
	ui.model2Title.SetText(ui.localization.GetText(KeyModel2Title))
	ui.addRowBtn.SetText(ui.localization.GetText(KeyAddGame))
	ui.submitBtn.SetText(ui.localization.GetText(KeySubmitModel2))
	ui.wakeBtn.SetText(IconWake + " " + ui.localization.GetText(KeyWakeServices))
	ui.footer.SetText(fmt.Sprintf(ui.localization.GetText(KeyCatalogGames), ui.catalogSize) +
		MiddleDotSeparator + ui.localization.GetText(KeySessionLabel) + " " + ui.controller.ID())
}

// render runs the controller's render cycle and redraws from its snapshot.
// Must be called on the UI goroutine.
func (ui *RootUI) render() {
	ui.controller.Sync()
	snap := ui.controller.Snapshot()
	awaiting := snap.State.IsAwaiting()

	ui.renderRows(snap, !awaiting)
	ui.renderPrediction(snap)
	ui.renderRecommendations(snap)
	ui.renderWake(snap)

	if awaiting {
		ui.busy.Show()
		ui.busy.Start()
		ui.predictBtn.Disable()
		ui.addRowBtn.Disable()
		ui.wakeBtn.Disable()
	} else {
		ui.busy.Stop()
		ui.busy.Hide()
		ui.predictBtn.Enable()
		ui.addRowBtn.Enable()
		ui.wakeBtn.Enable()
	}

	if snap.CanSubmit {
		ui.submitBtn.Enable()
	} else {
		ui.submitBtn.Disable()
	}
}

// renderRows reuses row widgets, growing or shrinking the list to match
func (ui *RootUI) renderRows(snap session.Snapshot, editable bool) {
	for len(ui.rows) < len(snap.Rows) {
		row := NewSelectionRow(len(ui.rows), ui.localization)
		row.SetCallbacks(ui.onGameChanged, ui.onHoursChanged, ui.onDeleteRow)
		ui.rows = append(ui.rows, row)
	}
	ui.rows = ui.rows[:len(snap.Rows)]

	objects := make([]fyne.CanvasObject, len(ui.rows))
	for i, view := range snap.Rows {
		ui.rows[i].Update(view, editable)
		objects[i] = ui.rows[i]
	}
	ui.rowsBox.Objects = objects
	ui.rowsBox.Refresh()
}

func (ui *RootUI) renderPrediction(snap session.Snapshot) {
	if snap.Prediction != nil {
		ui.predictionLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyPredictedCount),
			snap.Prediction.Date, snap.Prediction.Count))
		ui.predictionLabel.Show()
	} else {
		ui.predictionLabel.SetText("")
		ui.predictionLabel.Hide()
	}
	ui.setError(ui.predictionError, snap.PredictionErr)
}

func (ui *RootUI) renderRecommendations(snap session.Snapshot) {
	ui.setError(ui.recommendError, snap.RecommendErr)

	objects := make([]fyne.CanvasObject, 0, len(snap.Recommendations))
	for _, rec := range snap.Recommendations {
		objects = append(objects, ui.recommendationCard(rec.Name, rec.Price, rec.RatingRatio, rec.Genres, rec.Tags))
	}
	if snap.HasRecommendations && len(objects) == 0 {
		objects = append(objects, widget.NewLabel(ui.localization.GetText(KeyNoRecommendations)))
	}
	ui.recommendations.Objects = objects
	ui.recommendations.Refresh()
}

func (ui *RootUI) recommendationCard(name, price, rating, genres, tags string) fyne.CanvasObject {
	field := func(key, value string) *widget.Label {
		if value == "" {
			value = DashPlaceholder
		}
		label := widget.NewLabel(ui.localization.GetText(key) + ": " + value)
		label.Wrapping = fyne.TextWrapWord
		return label
	}

	body := container.NewVBox(
		container.NewGridWithColumns(2, field(KeyPrice, price), field(KeyRatingRatio, rating)),
		field(KeyGenres, genres),
		field(KeyTags, tags),
	)
	return widget.NewCard(name, "", body)
}

func (ui *RootUI) renderWake(snap session.Snapshot) {
	ui.setError(ui.wakeError, snap.WakeErr)

	if !snap.BannerActive || snap.WakeReport == nil {
		ui.bannerLabel.Hide()
		return
	}

	report := snap.WakeReport
	if report.AllOK() {
		ui.bannerLabel.SetText(IconCheck + " " + ui.localization.GetText(KeyServicesAwake))
		ui.bannerLabel.Importance = widget.SuccessImportance
	} else {
		ui.bannerLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyServicesPartial),
			len(report.Succeeded()), len(report.Outcomes)))
		ui.bannerLabel.Importance = widget.WarningImportance
	}
	ui.bannerLabel.Show()
	ui.bannerLabel.Refresh()
}

// setError shows err inline under a form, or hides the label
func (ui *RootUI) setError(label *widget.Label, err error) {
	if err == nil {
		label.SetText("")
		label.Hide()
		return
	}
	label.SetText(IconError + " " + ui.errorText(err))
	label.Show()
}

func (ui *RootUI) errorText(err error) string {
	var remote *gateway.RemoteCallError
	if errors.As(err, &remote) {
		return ui.localization.GetText(KeyErrorSendingData) + ": " + remote.Error()
	}
	return err.Error()
}

func (ui *RootUI) onGameChanged(index int, game string) {
	if err := ui.controller.SetGame(index, game); err != nil {
		slog.Warn("Rejected game selection", "row", index, "game", game, "error", err)
	}
	ui.render()
}

func (ui *RootUI) onHoursChanged(index int, hours int) {
	if err := ui.controller.SetHours(index, hours); err != nil {
		slog.Warn("Rejected hours", "row", index, "hours", hours, "error", err)
		ui.render()
		return
	}
	// only the submit state can change; a full render would reset the entry cursor
	if ui.controller.CanSubmitRecommendation() {
		ui.submitBtn.Enable()
	} else {
		ui.submitBtn.Disable()
	}
}

func (ui *RootUI) onDeleteRow(index int) {
	if err := ui.controller.RequestDelete(index); err != nil {
		slog.Warn("Delete refused", "row", index, "error", err)
	}
	ui.render()
}

func (ui *RootUI) onAddRow() {
	if _, err := ui.controller.AddRow(); err != nil {
		slog.Warn("Add row refused", "error", err)
	}
	ui.render()
}

// selectedDate returns the picked date, today when the entry is empty
func (ui *RootUI) selectedDate() time.Time {
	if ui.dateEntry.Date != nil {
		return *ui.dateEntry.Date
	}
	return time.Now()
}

// runAsync runs call off the UI goroutine and re-renders once it returns
func (ui *RootUI) runAsync(call func() error, then func()) {
	go func() {
		err := call()
		if err != nil {
			slog.Debug("Remote call finished with error", "error", err)
		}
		fyne.Do(func() {
			ui.render()
			if then != nil {
				then()
			}
		})
	}()
	ui.render()
}

func (ui *RootUI) onSubmitPrediction() {
	date := ui.selectedDate()
	ui.runAsync(func() error {
		return ui.controller.SubmitPrediction(ui.ctx, date)
	}, nil)
}

func (ui *RootUI) onSubmitRecommendation() {
	if !ui.controller.CanSubmitRecommendation() {
		ui.render()
		return
	}
	ui.runAsync(func() error {
		return ui.controller.SubmitRecommendation(ui.ctx)
	}, nil)
}

func (ui *RootUI) onWake() {
	ui.runAsync(func() error {
		_, err := ui.controller.Wake(ui.ctx)
		return err
	}, ui.scheduleBannerExpiry)
}

// scheduleBannerExpiry re-renders once the wake banner has expired
func (ui *RootUI) scheduleBannerExpiry() {
	expiry, shown := ui.controller.BannerExpiry()
	if !shown {
		return
	}

	ui.bannerMu.Lock()
	defer ui.bannerMu.Unlock()
	if ui.bannerTimer != nil {
		ui.bannerTimer.Stop()
	}
	ui.bannerTimer = time.AfterFunc(time.Until(expiry)+BannerRefreshSlack, func() {
		fyne.Do(ui.render)
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.applyLanguage(ui.settings.GetLanguage())
	})
}
