package attribution

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	multiSpaces = regexp.MustCompile(`\s+`)
	timecode    = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

	plainTextOnce   sync.Once
	plainTextPolicy *bluemonday.Policy
)

// plainText returns a shared policy that strips every element and
// attribute, leaving a space where a tag stood so adjacent words stay apart.
func plainText() *bluemonday.Policy {
	plainTextOnce.Do(func() {
		p := bluemonday.StrictPolicy()
		p.AddSpaceWhenStrippingTag(true)
		plainTextPolicy = p
	})
	return plainTextPolicy
}

// StripTags removes markup from an item value, decodes entities and
// collapses whitespace. Script and style bodies are dropped entirely.
func StripTags(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	content = plainText().Sanitize(content)
	// The policy re-escapes text; values are stored as plain text.
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

// IsTimecode reports whether s is a bare HH:MM:SS stamp.
func IsTimecode(s string) bool {
	return timecode.MatchString(strings.TrimSpace(s))
}
