// Package file provides the file-based configuration adapter.
//
// Configuration lives in a TOML document, by default ~/.hansard/config.toml.
// Missing files and missing keys fall back to the defaults in Default.
package file
