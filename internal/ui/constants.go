package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconFile     = "📄"
	IconClose    = "×"
	IconLanguage = "🌐"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
	ArrowSeparator     = " → "
)

// Layout sizing (FileRow / lists)
const (
	TargetSelectWidth float32 = 140
	StatusLabelWidth  float32 = 110

	RowMinWidth  float32 = 480
	RowMinHeight float32 = 64
)

// Notification behavior
const (
	NotificationAutoHide = 4 * time.Second
)
