package worker

import "context"

// Job is one unit of asynchronous work, typically a full quote computation.
type Job func(ctx context.Context) error
