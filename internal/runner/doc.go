// Package runner drives one extraction run end to end.
//
// Run builds the sample index from the description file, then walks the banks
// in fixed order (24000, 44100, 48000). Each bank's output directory is
// cleared of stale files before its entries are classified and written, so a
// re-run never mixes old and new output. The output root is guarded by an
// advisory file lock for the duration of a run, and the outcome of every
// entry is optionally recorded in the manifest database.
package runner
