package hub

import (
	"context"
	"time"
)

// WaitForJob blocks until the job reaches a terminal state, checking status
// at a fixed interval. There is no maximum wait and no backoff: the cloud
// service is the source of truth and there is no local state to reconcile.
// Cancellation happens only through the context.
func (c *Client) WaitForJob(ctx context.Context, jobID string) (JobStatus, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	for {
		st, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return JobStatus{}, err
		}
		if st.Terminal() {
			return st, nil
		}

		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-time.After(interval):
		}
	}
}
