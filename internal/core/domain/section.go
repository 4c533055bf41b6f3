package domain

// SectionNode is a node in a section tree. A node with an ExternalID is a
// leaf; otherwise it is a group whose Children are ordered.
type SectionNode struct {
	Title      string
	ExternalID string
	Children   []SectionNode
}

// IsLeaf reports whether the node references a proceeding.
func (n SectionNode) IsLeaf() bool {
	return n.ExternalID != ""
}

// LeafRef identifies one proceeding discovered while crawling.
type LeafRef struct {
	ExternalID  string
	Title       string
	ParentTitle string
	Date        string
	Chamber     Chamber
	Section     string
}
