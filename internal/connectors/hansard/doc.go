// Package hansard implements the upstream legislative-record service client.
//
// # Architecture
//
// The connector implements the [driven.Upstream] port. It comprises:
//
//   - Client: single HTTP GET with bounded retry and proactive rate limiting
//   - Upstream: maps logical operations onto service endpoints and decodes
//     their JSON payloads into domain types
//
// # Retry Policy
//
// Responses with status 429 or 400 are retried up to MaxRetries additional
// times, waiting RetryDelay*(attempt+1) between attempts. Any other non-2xx
// status fails at once. Transport failures are not retried.
//
// # Endpoints
//
// Proceedings are read from the records API (Config.BaseURL) and member
// searches from the members API (Config.MembersURL). Both are read-only.
package hansard
