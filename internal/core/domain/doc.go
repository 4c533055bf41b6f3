// Package domain defines the core business entities for hansard-cli.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SectionNode: A node in a sitting day's section tree
//   - LeafRef: A reference to a single proceeding found by the crawler
//   - ProceedingRecord: An enriched proceeding with attributed entries
//   - MemberRecord: A canonical member identity from the registry
//   - MatchCandidate: A suggested correction for a stored speaker name
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
