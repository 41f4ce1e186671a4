package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/seonu/homefeed-go/pkg/errors"
)

// fetchJSON performs a GET against rawURL and decodes the body into dest.
// Non-2xx responses become APIErrors so callers can treat them uniformly as
// "no data from this source".
func fetchJSON(ctx context.Context, client *http.Client, rawURL string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewAPIError(fmt.Sprintf("upstream status %d", resp.StatusCode), resp.StatusCode, map[string]any{
			"url": rawURL,
		})
	}

	if dest != nil {
		if err := json.Unmarshal(body, dest); err != nil {
			return errors.NewAPIError("malformed upstream JSON", resp.StatusCode, map[string]any{
				"url": rawURL,
			})
		}
	}

	return nil
}
