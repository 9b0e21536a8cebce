package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconDelete   = "🗑️"
	IconGame     = "🎮"
	IconWake     = "⏻"
	IconError    = "❌"
	IconCheck    = "✔"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing
const (
	WindowWidth  float32 = 720
	WindowHeight float32 = 860

	GameSelectWidth  float32 = 320
	HoursEntryWidth  float32 = 96
	DeleteButtonSize float32 = 36

	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 460
)

// Delays
const (
	// BannerRefreshSlack is added to the banner expiry so the refresh lands after it
	BannerRefreshSlack = 50 * time.Millisecond
)
