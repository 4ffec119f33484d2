// Package output owns the on-disk layout of extracted samples.
//
// Each bank gets <output_root>/<rate>/. Clean empties it of files before a
// run so nothing from a previous run survives, Ensure creates it once the bank
// blob has loaded, and Write stores validated or salvaged payloads as
// <name>.flac and raw fallbacks as <name>.raw. Separators in sample names
// become dashes.
package output
