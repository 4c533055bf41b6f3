package hansard

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the records API root.
	DefaultBaseURL = "https://hansard-api.parliament.uk"

	// DefaultMembersURL is the members API root.
	DefaultMembersURL = "https://members-api.parliament.uk/api"
)

// Config holds the endpoint roots used by Upstream.
type Config struct {
	BaseURL    string
	MembersURL string
}

// DefaultConfig returns the public service endpoints.
func DefaultConfig() Config {
	return Config{BaseURL: DefaultBaseURL, MembersURL: DefaultMembersURL}
}

// Validate checks that both roots are absolute http(s) URLs.
func (c Config) Validate() error {
	for name, raw := range map[string]string{"base_url": c.BaseURL, "members_url": c.MembersURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("hansard: %s: %w", name, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("hansard: %s must be an absolute http(s) URL, got %q", name, raw)
		}
	}
	return nil
}

func (c Config) records(path string, query url.Values) string {
	return join(c.BaseURL, path, query)
}

func (c Config) members(path string, query url.Values) string {
	return join(c.MembersURL, path, query)
}

func join(root, path string, query url.Values) string {
	u := strings.TrimRight(root, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
