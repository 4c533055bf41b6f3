package hansard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/custodia-labs/hansard-cli/internal/attribution"
	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// Ensure Upstream implements the interface.
var _ driven.Upstream = (*Upstream)(nil)

// Upstream adapts the records and members APIs to driven.Upstream.
type Upstream struct {
	client *Client
	config Config
}

// NewUpstream creates an Upstream using client for every request.
func NewUpstream(client *Client, cfg Config) *Upstream {
	return &Upstream{client: client, config: cfg}
}

// LastSittingDate returns the latest sitting date for chamber as YYYY-MM-DD.
func (u *Upstream) LastSittingDate(ctx context.Context, chamber domain.Chamber) (string, error) {
	q := url.Values{"house": {string(chamber)}}
	var raw string
	if err := u.client.GetJSON(ctx, u.config.records("overview/lastsittingdate.json", q), &raw); err != nil {
		return "", fmt.Errorf("last sitting date %s: %w", chamber, err)
	}
	return domain.NormalizeSittingDate(raw)
}

// SectionsForDay lists the section names published for date.
func (u *Upstream) SectionsForDay(ctx context.Context, date string, chamber domain.Chamber) ([]string, error) {
	q := url.Values{"date": {date}, "house": {string(chamber)}}
	body, err := u.client.Get(ctx, u.config.records("overview/sectionsforday.json", q))
	if err != nil {
		return nil, fmt.Errorf("sections for %s %s: %w", date, chamber, err)
	}

	var sections []string
	if err := json.Unmarshal(body, &sections); err != nil {
		return nil, fmt.Errorf("sections for %s %s: %w: %v", date, chamber, domain.ErrMalformedResponse, err)
	}
	return sections, nil
}

// SectionTree returns the section forest for one section.
func (u *Upstream) SectionTree(
	ctx context.Context, date string, chamber domain.Chamber, section string,
) ([]domain.SectionNode, error) {
	q := url.Values{"date": {date}, "house": {string(chamber)}, "section": {section}}
	body, err := u.client.Get(ctx, u.config.records("overview/sectiontrees.json", q))
	if err != nil {
		return nil, fmt.Errorf("section tree %q: %w", section, err)
	}

	var nodes []sectionNodeJSON
	if err := json.Unmarshal(body, &nodes); err != nil {
		return nil, fmt.Errorf("section tree %q: %w: %v", section, domain.ErrMalformedResponse, err)
	}

	forest := make([]domain.SectionNode, 0, len(nodes))
	for _, n := range nodes {
		forest = append(forest, n.toDomain())
	}
	return forest, nil
}

// Record fetches the full body of a proceeding.
func (u *Upstream) Record(ctx context.Context, externalID string) (*domain.RawRecord, error) {
	var rec recordJSON
	path := "debates/debate/" + url.PathEscape(externalID) + ".json"
	if err := u.client.GetJSON(ctx, u.config.records(path, nil), &rec); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("record %s: %w", externalID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("record %s: %w", externalID, err)
	}
	raw := rec.toDomain()
	return &raw, nil
}

// Speakers fetches the speaker list of a proceeding.
func (u *Upstream) Speakers(ctx context.Context, externalID string) ([]domain.RawSpeaker, error) {
	var list []speakerJSON
	path := "debates/speakerslist/" + url.PathEscape(externalID) + ".json"
	if err := u.client.GetJSON(ctx, u.config.records(path, nil), &list); err != nil {
		return nil, fmt.Errorf("speakers %s: %w", externalID, err)
	}

	speakers := make([]domain.RawSpeaker, 0, len(list))
	for _, s := range list {
		speakers = append(speakers, domain.RawSpeaker{
			MemberID:     derefInt(s.MemberID),
			Name:         s.Name,
			AttributedTo: derefString(s.AttributedTo),
		})
	}
	return speakers, nil
}

// SearchMembers searches members by name. take is capped at driven.MaxSearchPageSize.
func (u *Upstream) SearchMembers(
	ctx context.Context, query string, skip, take int,
) ([]domain.MemberSearchResult, int, error) {
	if take <= 0 || take > driven.MaxSearchPageSize {
		take = driven.MaxSearchPageSize
	}
	if skip < 0 {
		skip = 0
	}
	q := url.Values{
		"Name": {query},
		"skip": {strconv.Itoa(skip)},
		"take": {strconv.Itoa(take)},
	}

	var page memberSearchJSON
	if err := u.client.GetJSON(ctx, u.config.members("Members/Search", q), &page); err != nil {
		return nil, 0, fmt.Errorf("search members %q: %w", query, err)
	}

	results := make([]domain.MemberSearchResult, 0, len(page.Items))
	for _, item := range page.Items {
		var v memberValueJSON
		if err := json.Unmarshal(item.Value, &v); err != nil {
			return nil, 0, fmt.Errorf("search members %q: %w: %v", query, domain.ErrMalformedResponse, err)
		}
		result := domain.MemberSearchResult{ID: v.ID, Name: v.NameDisplayAs, Raw: item.Value}
		if v.LatestParty != nil {
			result.Affiliation = attribution.NormalizeAffiliation(v.LatestParty.Name)
		}
		results = append(results, result)
	}
	return results, page.TotalResults, nil
}
