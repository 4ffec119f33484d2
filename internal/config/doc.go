// Package config loads, normalizes, and validates bankrip configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BANKRIP_BANK_ROOT. CLI flags are layered on top through Option values so
// the bank root, output root, and description path are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical extensions, and clear validation errors.
package config
