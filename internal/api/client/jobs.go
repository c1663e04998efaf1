package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// ListJobs returns the run history for a scheduled job, newest first.
// An empty jobName uses the server default (refresh_basket).
func (c *Client) ListJobs(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	q := url.Values{}
	if jobName != "" {
		q.Set("name", jobName)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := "/api/v1/jobs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var runs []domain.JobRun
	if err := c.get(ctx, path, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
