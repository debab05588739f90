package model

// Package model defines domain data structures used across the app: imported
// files, conversion records, the import batch, and file status enums. Structures
// are keyed by surrogate IDs so that no UI handle doubles as business state.
