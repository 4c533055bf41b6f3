// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The ingestion pipeline is assembled from, leaf to root:
//
//   - SittingDateResolver: last sitting date per chamber, time-boxed cache
//   - Crawler: flattens a day's section trees into leaf references
//   - Enricher: fetches and assembles proceeding records
//   - MemberResolver: batched registry lookups for unresolved speakers
//   - Ingestor: runs the above for one sitting day
//
// Reconciler runs separately over previously stored speaker names.
// Watcher repeats ingestion, and optionally reconciliation, on a cron schedule.
package services
