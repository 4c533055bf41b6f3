package attribution

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/hansard-cli/internal/logger"
)

// Kind tags the shape an attribution was recognised as.
type Kind int

const (
	// KindNone means no identity could be extracted.
	KindNone Kind = iota
	// KindRole is a ministerial or office-holder attribution ("The Secretary of State (...)").
	KindRole
	// KindNameConstituencyAffiliation is "Name (Constituency) (Affiliation)".
	KindNameConstituencyAffiliation
	// KindNameAffiliation is "Name (Affiliation)".
	KindNameAffiliation
	// KindBareName is an attribution without parentheses.
	KindBareName
)

var kindNames = map[Kind]string{
	KindNone:                        "none",
	KindRole:                        "role",
	KindNameConstituencyAffiliation: "name-constituency-affiliation",
	KindNameAffiliation:             "name-affiliation",
	KindBareName:                    "bare-name",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Identity is the result of parsing one attribution.
type Identity struct {
	Kind         Kind
	Name         string
	Role         string
	Constituency string
	Affiliation  string
}

// Empty reports whether no identity field was extracted.
func (id Identity) Empty() bool {
	return id.Name == "" && id.Role == ""
}

const rolePrefix = "The "

var (
	nameConstituencyAffiliation = regexp.MustCompile(`^([^()]+?)\s*\(([^()]+)\)\s*\(([^()]+)\)$`)
	nameAffiliation             = regexp.MustCompile(`^([^()]+?)\s*\(([^()]+)\)$`)
)

// rule is one classification step. Rules are tried in order and the first
// that matches wins; the patterns overlap, so order matters.
type rule struct {
	kind  Kind
	match func(s string) (Identity, bool)
}

var rules = []rule{
	{KindRole, matchRole},
	{KindNameConstituencyAffiliation, matchNameConstituencyAffiliation},
	{KindNameAffiliation, matchNameAffiliation},
	{KindBareName, matchBareName},
}

// Parse classifies a raw attribution and extracts its identity fields.
// It never fails: anything unrecognised, or an internal fault, yields KindNone.
func Parse(raw string) (id Identity) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("attribution: parse %q: %v", raw, r)
			id = Identity{}
		}
	}()

	s := strings.TrimSpace(raw)
	if s == "" {
		return Identity{}
	}

	for _, r := range rules {
		if id, ok := r.match(s); ok {
			id.Kind = r.kind
			return id
		}
	}
	return Identity{}
}

func matchRole(s string) (Identity, bool) {
	if !strings.HasPrefix(s, rolePrefix) {
		return Identity{}, false
	}
	role := strings.TrimPrefix(s, rolePrefix)
	if i := strings.Index(role, "("); i >= 0 {
		role = role[:i]
	}
	role = strings.TrimSpace(role)
	if role == "" {
		return Identity{}, false
	}
	return Identity{Role: role}, true
}

func matchNameConstituencyAffiliation(s string) (Identity, bool) {
	m := nameConstituencyAffiliation.FindStringSubmatch(s)
	if m == nil {
		return Identity{}, false
	}
	return Identity{
		Name:         strings.TrimSpace(m[1]),
		Constituency: strings.TrimSpace(m[2]),
		Affiliation:  NormalizeAffiliation(m[3]),
	}, true
}

func matchNameAffiliation(s string) (Identity, bool) {
	m := nameAffiliation.FindStringSubmatch(s)
	if m == nil {
		return Identity{}, false
	}
	return Identity{
		Name:        strings.TrimSpace(m[1]),
		Affiliation: NormalizeAffiliation(m[2]),
	}, true
}

func matchBareName(s string) (Identity, bool) {
	if strings.ContainsAny(s, "()") {
		return Identity{}, false
	}
	return Identity{Name: s}, true
}

// RawName projects an attribution onto a display name when parsing
// extracted nothing: the text before the first parenthesis, trimmed.
func RawName(raw string) string {
	s := raw
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
