package hansard

import (
	"encoding/json"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
)

// Wire formats of the upstream JSON payloads.

type sectionNodeJSON struct {
	Title            string            `json:"Title"`
	ExternalID       *string           `json:"ExternalId"`
	SectionTreeItems []sectionNodeJSON `json:"SectionTreeItems"`
}

func (n sectionNodeJSON) toDomain() domain.SectionNode {
	node := domain.SectionNode{Title: n.Title}
	if n.ExternalID != nil {
		node.ExternalID = *n.ExternalID
	}
	if len(n.SectionTreeItems) > 0 {
		node.Children = make([]domain.SectionNode, 0, len(n.SectionTreeItems))
		for _, child := range n.SectionTreeItems {
			node.Children = append(node.Children, child.toDomain())
		}
	}
	return node
}

type overviewJSON struct {
	ExtID         string `json:"ExtId"`
	Title         string `json:"Title"`
	Date          string `json:"Date"`
	House         string `json:"House"`
	Location      string `json:"Location"`
	HRSTag        string `json:"HRSTag"`
	SourceURL     string `json:"SourceUrl"`
	NextExtID     string `json:"NextDebateExtId"`
	PreviousExtID string `json:"PreviousDebateExtId"`
}

type itemJSON struct {
	ItemType     string  `json:"ItemType"`
	ExternalID   string  `json:"ExternalId"`
	MemberID     *int    `json:"MemberId"`
	AttributedTo *string `json:"AttributedTo"`
	Value        string  `json:"Value"`
	Timecode     *string `json:"Timecode"`
}

type recordJSON struct {
	Overview     overviewJSON `json:"Overview"`
	Items        []itemJSON   `json:"Items"`
	ChildDebates []recordJSON `json:"ChildDebates"`
}

func (r recordJSON) toDomain() domain.RawRecord {
	chamber, _ := domain.ParseChamber(r.Overview.House)
	rec := domain.RawRecord{
		ExternalID: r.Overview.ExtID,
		Title:      r.Overview.Title,
		Date:       r.Overview.Date,
		Chamber:    chamber,
		Location:   r.Overview.Location,
		HRSTag:     r.Overview.HRSTag,
		SourceURL:  r.Overview.SourceURL,
		NextID:     r.Overview.NextExtID,
		PreviousID: r.Overview.PreviousExtID,
	}
	for _, item := range r.Items {
		rec.Items = append(rec.Items, domain.RawItem{
			ItemType:     item.ItemType,
			ExternalID:   item.ExternalID,
			MemberID:     derefInt(item.MemberID),
			AttributedTo: derefString(item.AttributedTo),
			Value:        item.Value,
			Timecode:     derefString(item.Timecode),
		})
	}
	for _, child := range r.ChildDebates {
		rec.Children = append(rec.Children, child.toDomain())
	}
	return rec
}

type speakerJSON struct {
	MemberID     *int    `json:"MemberId"`
	Name         string  `json:"Name"`
	AttributedTo *string `json:"AttributedTo"`
}

type memberSearchJSON struct {
	Items []struct {
		Value json.RawMessage `json:"value"`
	} `json:"items"`
	TotalResults int `json:"totalResults"`
}

type memberValueJSON struct {
	ID            int    `json:"id"`
	NameDisplayAs string `json:"nameDisplayAs"`
	LatestParty   *struct {
		Name string `json:"name"`
	} `json:"latestParty"`
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
