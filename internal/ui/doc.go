package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It wires user interactions to the conversion session and renders imported
// files, dialogs, and settings. All UI strings are localized via Localization.
