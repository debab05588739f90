// Package convert turns a single source file into a sibling artifact of
// another format. Outputs are written into a caller-owned directory; the
// source file is never modified.
//
// Rasters go through the imaging backend. Plain text and DOCX go through
// gofpdf and a small WordprocessingML reader/writer. DOCX to PDF prefers
// an installed office suite and falls back to a built-in flow layout.
package convert
