package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// maxStatusPageBytes bounds how much of the status page is read.
const maxStatusPageBytes = 1 << 20

var statusPattern = regexp.MustCompile(`alt="net-next is (\S+)"`)

// StatusFetcher reads the current net-next state from the status page.
type StatusFetcher interface {
	// Fetch returns the state currently advertised by the page. A page that
	// does not carry a status label yields models.StateUnknown.
	Fetch(ctx context.Context) (models.State, error)
}

type httpStatusFetcher struct {
	url    string
	client *http.Client
}

// NewStatusFetcher creates a StatusFetcher for url. A non-positive timeout
// leaves the client without one; callers should then bound ctx.
func NewStatusFetcher(url string, timeout time.Duration) StatusFetcher {
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &httpStatusFetcher{url: url, client: client}
}

func (f *httpStatusFetcher) Fetch(ctx context.Context) (models.State, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("building status request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", f.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading status page: %w", err)
	}
	return ParseStatusPage(string(body)), nil
}

// ParseStatusPage extracts the state label from the status page HTML.
func ParseStatusPage(html string) models.State {
	m := statusPattern.FindStringSubmatch(html)
	if m == nil {
		return models.StateUnknown
	}
	return models.ParseState(m[1])
}
