package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It renders one session.Controller: the player count form, the editable game
// rows with their recommendations, and the wake banner. All UI strings are
// localized via Localization.
