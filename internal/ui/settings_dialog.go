package ui

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/game-system/internal/config"
	"github.com/ytget/game-system/internal/platform"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	model1Entry    *widget.Entry
	model2Entry    *widget.Entry
	wakeEntry      *widget.Entry
	catalogEntry   *widget.Entry
	timeoutEntry   *widget.Entry
	bannerEntry    *widget.Entry
	metricsEntry   *widget.Entry
	languageSelect *widget.Select
	languageCodes  []string
}

// ShowSettingsDialog builds and shows the settings dialog; onSaved runs after a save
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window)
	sd.onSaved = onSaved
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.model1Entry = widget.NewEntry()
	sd.model1Entry.SetPlaceHolder(config.DefaultModel1URL)
	sd.model2Entry = widget.NewEntry()
	sd.model2Entry.SetPlaceHolder(config.DefaultModel2URL)

	sd.wakeEntry = widget.NewMultiLineEntry()
	sd.wakeEntry.SetPlaceHolder(strings.Join(config.DefaultWakeURLs, "\n"))
	sd.wakeEntry.SetMinRowsVisible(3)

	sd.catalogEntry = widget.NewEntry()
	sd.catalogEntry.SetPlaceHolder(platform.CatalogFileName)
	browseBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseCatalog)
	revealBtn := widget.NewButton(text(KeyReveal), sd.onRevealCatalog)
	catalogRow := container.NewBorder(nil, nil, nil, container.NewHBox(browseBtn, revealBtn), sd.catalogEntry)

	sd.timeoutEntry = widget.NewEntry()
	sd.timeoutEntry.SetPlaceHolder(strconv.Itoa(config.MinRequestTimeoutSeconds) + "-" + strconv.Itoa(config.MaxRequestTimeoutSeconds))
	sd.bannerEntry = widget.NewEntry()
	sd.bannerEntry.SetPlaceHolder(strconv.Itoa(config.MinBannerDurationSeconds) + "-" + strconv.Itoa(config.MaxBannerDurationSeconds))

	sd.metricsEntry = widget.NewEntry()
	sd.metricsEntry.SetPlaceHolder(":2112")

	languageLabels := sd.settings.GetLanguageOptions()
	sd.languageCodes = make([]string, 0, len(languageLabels))
	for code := range languageLabels {
		sd.languageCodes = append(sd.languageCodes, code)
	}
	sort.Strings(sd.languageCodes)
	sd.languageSelect = widget.NewSelect(sd.languageCodes, nil)

	form := widget.NewForm(
		widget.NewFormItem(text(KeyModel1URL), sd.model1Entry),
		widget.NewFormItem(text(KeyModel2URL), sd.model2Entry),
		widget.NewFormItem(text(KeyWakeURLs), sd.wakeEntry),
		widget.NewFormItem(text(KeyCatalogPath), catalogRow),
		widget.NewFormItem(text(KeyRequestTimeout), sd.timeoutEntry),
		widget.NewFormItem(text(KeyBannerDuration), sd.bannerEntry),
		widget.NewFormItem(text(KeyMetricsAddr), sd.metricsEntry),
		widget.NewFormItem(text(KeyLanguage), sd.languageSelect),
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		container.NewVScroll(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	values := sd.settings.Values()
	sd.model1Entry.SetText(values.Model1URL)
	sd.model2Entry.SetText(values.Model2URL)
	sd.wakeEntry.SetText(strings.Join(values.WakeURLs, "\n"))
	sd.catalogEntry.SetText(values.CatalogPath)
	sd.timeoutEntry.SetText(strconv.Itoa(int(values.RequestTimeout.Seconds())))
	sd.bannerEntry.SetText(strconv.Itoa(int(values.BannerDuration.Seconds())))
	sd.metricsEntry.SetText(values.MetricsAddr)
	sd.languageSelect.SetSelected(values.Language)
}

// onBrowseCatalog picks the catalog CSV
func (sd *SettingsDialog) onBrowseCatalog() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		sd.catalogEntry.SetText(reader.URI().Path())
	}, sd.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	open.Show()
}

// onRevealCatalog shows the catalog file in the OS file manager
func (sd *SettingsDialog) onRevealCatalog() {
	path, err := platform.FindCatalog(strings.TrimSpace(sd.catalogEntry.Text))
	if err == nil {
		err = platform.OpenFileInManager(path)
	}
	if err != nil {
		slog.Warn("Failed to reveal catalog", "error", err)
		dialog.ShowError(err, sd.window)
	}
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	dialog.ShowInformation(sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySettingsSaved)+"\n"+sd.localization.GetText(KeyRestartRequired), sd.window)

	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// apply writes the form into the settings
func (sd *SettingsDialog) apply() {
	sd.settings.SetModel1URL(strings.TrimSpace(sd.model1Entry.Text))
	sd.settings.SetModel2URL(strings.TrimSpace(sd.model2Entry.Text))
	sd.settings.SetWakeURLs(strings.Fields(sd.wakeEntry.Text))
	sd.settings.SetCatalogPath(strings.TrimSpace(sd.catalogEntry.Text))
	sd.settings.SetMetricsAddr(strings.TrimSpace(sd.metricsEntry.Text))

	if secs, err := strconv.Atoi(strings.TrimSpace(sd.timeoutEntry.Text)); err == nil {
		sd.settings.SetRequestTimeout(secs)
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(sd.bannerEntry.Text)); err == nil {
		sd.settings.SetBannerDuration(secs)
	}

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
		sd.localization.SetLanguage(sd.languageSelect.Selected)
	}
	slog.Info("Settings saved")
}
