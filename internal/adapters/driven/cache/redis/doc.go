// Package redis provides a Redis-backed driven.SittingDateCache, for
// deployments where several hansard processes share one resolved date.
//
// Entries are stored as JSON under KeyPrefix and expire with
// domain.SittingDateTTL, so Redis evicts them at the same moment the
// resolver would consider them stale.
package redis
