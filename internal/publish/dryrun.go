package publish

import (
	"context"
	"log/slog"
)

// DryRunID is the remote id recorded for posts that were only logged.
const DryRunID = "dry-run"

// DryRun logs posts instead of sending them.
type DryRun struct {
	Backend string
}

func (d DryRun) Publish(ctx context.Context, p Post) (string, error) {
	slog.Info("publish: dry run", "backend", d.Backend, "key", p.Key, "title", p.Title, "text", p.Text)
	return DryRunID, nil
}
