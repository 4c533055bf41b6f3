package domain

// RawRecord is a proceeding body as returned by the upstream service,
// before attribution parsing and registry backfill.
type RawRecord struct {
	ExternalID string
	Title      string
	Date       string
	Chamber    Chamber
	Location   string
	HRSTag     string
	SourceURL  string
	NextID     string
	PreviousID string
	Items      []RawItem
	Children   []RawRecord
}

// RawItem is one item of a raw record body.
type RawItem struct {
	ItemType     string
	ExternalID   string
	MemberID     int
	AttributedTo string
	Value        string
	Timecode     string
}

// RawSpeaker is one entry of a record's speaker list.
type RawSpeaker struct {
	MemberID     int
	Name         string
	AttributedTo string
}
