// Package jobfile loads HCL job files describing which regions to evaluate
// and how.
//
// A job file may contain any number of `render` and `sweep` blocks and at
// most one `progress` block. Expressions can refer to the `region.*` presets
// and to a handful of numeric functions (min, max, pow, abs, floor, ceil).
// Loading validates everything that can be checked without computing, so a
// bad partition or iteration count is reported before any work starts.
package jobfile
