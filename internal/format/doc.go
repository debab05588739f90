package format

// Package format classifies file extensions into families and describes which
// (source, target) pairs the converter can produce. Everything here is pure
// except Describe, which reads file headers for the row detail column.
