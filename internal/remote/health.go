package remote

import (
	"context"
	"net/http"
	"strings"
)

// HealthURL is the endpoint probed by Check: the admin page of the site
// that serves the API.
func (c *Client) HealthURL() string {
	return strings.TrimSuffix(c.baseURL, "/api") + "/admin/"
}

// Check reports whether the backend answers a HEAD request with a 2xx
// status within the probe timeout. It never returns an error: connectivity
// is advisory.
func (c *Client) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.HealthURL(), nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("health check failed", "url", c.HealthURL(), "error", err)
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
