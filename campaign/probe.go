package campaign

import (
	"context"
	"image"
	"io"
	"net/http"
	"time"

	// Decoders for the image formats a campaign picture may use.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Probe reads at most this much of the response before deciding; the image
// header is all DecodeConfig needs.
const maxProbeBytes = 1 << 20

// HTTPImageProber checks that a URL serves a decodable image. Any failure,
// network, status or format, counts as not loadable.
type HTTPImageProber struct {
	client *http.Client
}

// NewHTTPImageProber creates a prober with a bounded request timeout.
func NewHTTPImageProber() *HTTPImageProber {
	return &HTTPImageProber{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Probe implements ImageProber.
func (p *HTTPImageProber) Probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	_, _, err = image.DecodeConfig(io.LimitReader(resp.Body, maxProbeBytes))
	return err == nil
}
