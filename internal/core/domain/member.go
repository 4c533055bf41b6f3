package domain

// MemberRecord is a canonical member identity held by the registry.
type MemberRecord struct {
	ID           int
	Name         string
	Constituency string
	Affiliation  string
	// Role holds department or ministerial title text.
	Role string
}

// MemberSearchResult is one hit from the upstream member search.
type MemberSearchResult struct {
	ID          int
	Name        string
	Affiliation string
	// Raw is the upstream payload for the hit, kept verbatim.
	Raw []byte
}
