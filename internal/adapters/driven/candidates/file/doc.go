// Package file persists the reconciliation candidate map as a single JSON
// document on the local filesystem.
package file
