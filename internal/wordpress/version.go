package wordpress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

var generatorRegex = regexp.MustCompile(`<meta[^>]+content=["']WordPress\s+([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)

// ErrVersionNotFound is returned when the homepage carries no generator tag.
var ErrVersionNotFound = errors.New("version not found in generator tag")

// DetectVersion fetches the site homepage, following redirects, and reads
// the WordPress version from its generator meta tag.
func (p *Prober) DetectVersion(ctx context.Context, siteURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, TrimTrailingSlashes(siteURL)+"/", nil)
	if err != nil {
		return "", err
	}

	resp, err := p.pages.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	matches := generatorRegex.FindSubmatch(body)
	if len(matches) < 2 {
		return "", ErrVersionNotFound
	}
	return string(matches[1]), nil
}
