package wordpress

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether input parses as an absolute http or https URL.
func IsValidURL(input string) bool {
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// TrimTrailingSlashes removes every trailing "/" from raw.
func TrimTrailingSlashes(raw string) string {
	return strings.TrimRight(raw, "/")
}

// ResolveGraphQLURL derives the WPGraphQL endpoint of a WordPress site.
func ResolveGraphQLURL(siteURL string) string {
	return TrimTrailingSlashes(siteURL) + "/graphql"
}
