// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Upstream: The legislative-record service (read-only)
//   - MemberRegistry: Canonical member identities and stored speaker names
//   - ProceedingStore: Persistence of enriched proceedings
//   - SittingDateCache: Time-boxed cache of last sitting dates
//   - CandidateStore: Durable map of reconciliation candidates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
