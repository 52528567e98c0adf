package service

import (
	"context"

	"github.com/cruzaro/hpcollect/internal/snapshot"
)

// Refresher requests a rebuild of the published snapshot. Every workflow
// calls it after writing; a failed refresh does not undo the write, it only
// means consumers see the change one cycle late.
type Refresher interface {
	Refresh(ctx context.Context) (*snapshot.Snapshot, error)
}

// SnapshotSource exposes the latest published snapshot for read paths.
type SnapshotSource interface {
	Current() (*snapshot.Snapshot, error)
}
