// Package pdf renders analysis reports as paginated PDF documents.
//
// The renderer walks the report's nested result values and lays them
// out as key/value tables, sub-tables, and bullet lists while tracking
// vertical position so no row is split across a page boundary. Every
// document ends with the static metrics guide appendix on a fresh page.
package pdf
