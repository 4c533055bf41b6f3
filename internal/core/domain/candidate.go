package domain

import (
	"encoding/json"
	"time"
)

// MatchThreshold is the minimum similarity for a candidate to be persisted.
const MatchThreshold = 0.7

// MatchCandidate suggests a canonical registry name for a locally observed speaker name.
type MatchCandidate struct {
	ObservedName  string          `json:"observed_name"`
	SuggestedName string          `json:"suggested_name"`
	Score         float64         `json:"score"`
	Result        json.RawMessage `json:"result,omitempty"`
	DiscoveredAt  time.Time       `json:"discovered_at"`
}

// CandidateMap holds at most one candidate per observed name.
type CandidateMap map[string]MatchCandidate

// Offer stores c if no candidate exists for its name or c scores higher.
// It reports whether the map changed.
func (m CandidateMap) Offer(c MatchCandidate) bool {
	if existing, ok := m[c.ObservedName]; ok && existing.Score >= c.Score {
		return false
	}
	m[c.ObservedName] = c
	return true
}
