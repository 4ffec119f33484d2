// Package extract recovers compressed audio payloads from bank blobs.
//
// Classify is a pure function from (blob, entry) to a Result; it decides
// between a validated length-prefixed payload, a payload salvaged by scanning
// the declared window for the FLAC signature, and a raw copy of the window.
// Extractor applies Classify to every entry of a bank, isolates per-entry
// failures, and logs each outcome. Writing results is left to package output.
package extract
