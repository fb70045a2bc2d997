package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// WaitForHealthy polls baseURL/health until the server answers, returning the
// table ids it serves. It gives up when ctx is done.
func WaitForHealthy(ctx context.Context, baseURL string) ([]string, error) {
	client := &http.Client{Timeout: time.Second}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if tables, ok := checkHealth(ctx, client, baseURL+"/health"); ok {
			return tables, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func checkHealth(ctx context.Context, client *http.Client, url string) ([]string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var health struct {
		Status string   `json:"status"`
		Tables []string `json:"tables"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil || health.Status != "ok" {
		return nil, false
	}
	return health.Tables, true
}
