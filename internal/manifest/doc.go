// Package manifest records extraction runs in a SQLite database.
//
// Every run stores its input paths and extracted total, and every sample
// entry stores its outcome, payload location, size, and sha256 content
// digest. Two runs over unchanged inputs therefore produce identical digest
// columns, which is how `bankrip history` shows that re-runs are stable.
package manifest
