package domain

import "strings"

// RecordType is a coarse classification of a proceeding.
type RecordType string

const (
	RecordTypeQuestion  RecordType = "question"
	RecordTypeStatement RecordType = "statement"
	RecordTypePetition  RecordType = "petition"
	RecordTypeDebate    RecordType = "debate"
	RecordTypeOther     RecordType = "other"
)

// ProceedingRecord is a single enriched proceeding.
// ExternalID is unique across chambers and dates.
type ProceedingRecord struct {
	ExternalID  string             `json:"external_id"`
	Title       string             `json:"title"`
	ParentTitle string             `json:"parent_title,omitempty"`
	Date        string             `json:"date"`
	Chamber     Chamber            `json:"chamber"`
	Section     string             `json:"section"`
	Entries     []AttributionEntry `json:"entries"`
	Overview    Overview           `json:"overview"`
	Children    []ProceedingRecord `json:"children,omitempty"`
}

// Valid reports whether the record has the identity fields every stored record needs.
func (r ProceedingRecord) Valid() bool {
	return strings.TrimSpace(r.ExternalID) != "" && strings.TrimSpace(r.Title) != ""
}

// Overview carries record metadata reported by the upstream service.
type Overview struct {
	Location   string     `json:"location,omitempty"`
	HRSTag     string     `json:"hrs_tag,omitempty"`
	SourceURL  string     `json:"source_url,omitempty"`
	NextID     string     `json:"next_id,omitempty"`
	PreviousID string     `json:"previous_id,omitempty"`
	RecordType RecordType `json:"record_type"`
}

// AttributionEntry is one attributed item within a proceeding.
// MemberID zero means no member identifier was supplied.
type AttributionEntry struct {
	MemberID     int    `json:"member_id,omitempty"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	Constituency string `json:"constituency,omitempty"`
	Affiliation  string `json:"affiliation,omitempty"`
	Value        string `json:"value"`
	Timecode     string `json:"timecode,omitempty"`
	// Attribution is the raw attribution text the identity was parsed from.
	Attribution string `json:"attribution,omitempty"`
}

// Identified reports whether a name or role has been populated.
func (e AttributionEntry) Identified() bool {
	return e.Name != "" || e.Role != ""
}

// Backfill copies registry fields into the entry.
func (e *AttributionEntry) Backfill(m MemberRecord) {
	e.Name = m.Name
	e.Constituency = m.Constituency
	e.Affiliation = m.Affiliation
	e.Role = m.Role
}

// DeriveRecordType classifies a proceeding from its section name and HRS tag.
func DeriveRecordType(section, hrsTag string) RecordType {
	haystack := strings.ToLower(section + " " + hrsTag)
	switch {
	case strings.Contains(haystack, "question") || strings.Contains(haystack, "oral answers"):
		return RecordTypeQuestion
	case strings.Contains(haystack, "statement"):
		return RecordTypeStatement
	case strings.Contains(haystack, "petition"):
		return RecordTypePetition
	case strings.Contains(haystack, "debate") || strings.Contains(haystack, "chamber") ||
		strings.Contains(haystack, "westminster hall") || strings.Contains(haystack, "grand committee"):
		return RecordTypeDebate
	default:
		return RecordTypeOther
	}
}
