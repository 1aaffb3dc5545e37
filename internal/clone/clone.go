// Package clone implements recursive replication of a Drive folder tree
// into a new destination folder. The walk is depth-first; each folder's
// listing is consumed page by page, sub-folders are created before their
// contents, and per-node failures are recorded without aborting siblings.
package clone

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/nickhilton/gdrive-clone/internal/drive"
)

// Service is the directory-service capability the replicator consumes.
// *drive.Client satisfies it; tests use an in-memory fake.
type Service interface {
	ListChildrenPage(ctx context.Context, folderID, pageToken string) ([]drive.File, string, error)
	CreateFolder(ctx context.Context, name, parentID string) (*drive.File, error)
	CopyFile(ctx context.Context, fileID, destParentID, name string) (*drive.File, error)
}

// Replicator clones folder subtrees through a Service.
type Replicator struct {
	svc     Service
	workers int
	logger  *slog.Logger
}

// New creates a Replicator. workers bounds parallel sibling fan-out;
// values below 2 mean fully sequential replication.
func New(svc Service, workers int, logger *slog.Logger) *Replicator {
	if logger == nil {
		logger = slog.Default()
	}

	if workers < 1 {
		workers = 1
	}

	return &Replicator{
		svc:     svc,
		workers: workers,
		logger:  logger,
	}
}

// Run clones the subtree rooted at sourceID into a new folder named newName
// under destParentID. The new folder's name is NFC-normalized; descendant
// names are preserved exactly as the provider reports them.
//
// Failures on individual nodes are recorded in the Result and never abort
// the walk. Failure to create the destination root is structural: Run
// returns a nil Result and the error. On context cancellation Run returns
// the partial Result accumulated so far together with the context error.
func (r *Replicator) Run(ctx context.Context, sourceID, destParentID, newName string) (*Result, error) {
	r.logger.Info("clone started",
		slog.String("source_id", sourceID),
		slog.String("dest_parent_id", destParentID),
		slog.String("new_name", newName),
		slog.Int("workers", r.workers),
	)

	root, err := r.svc.CreateFolder(ctx, norm.NFC.String(newName), destParentID)
	if err != nil {
		return nil, fmt.Errorf("clone: creating destination root %q under %s: %w", newName, destParentID, err)
	}

	agg := newAggregator(root.ID)
	agg.addFolder()

	// A single group is shared by the whole walk so the worker bound is
	// global rather than per folder. The walking goroutine occupies one
	// slot itself, leaving workers-1 for dispatched siblings.
	runCtx := ctx
	var g *errgroup.Group
	if r.workers > 1 {
		g, runCtx = errgroup.WithContext(ctx)
		g.SetLimit(r.workers - 1)
	}

	walkErr := r.replicateFolder(runCtx, g, sourceID, root.ID, true, agg)

	if g != nil {
		if gErr := g.Wait(); walkErr == nil {
			walkErr = gErr
		}
	}

	res := agg.snapshot()

	if walkErr != nil {
		r.logger.Warn("clone aborted",
			slog.String("root_id", res.RootID),
			slog.Int("folders_created", res.FoldersCreated),
			slog.Int("files_copied", res.FilesCopied),
			slog.Int("failures", len(res.Failures)),
			slog.String("error", walkErr.Error()),
		)

		// Cancellation keeps the partial result; a failed top-level source
		// listing is structural and yields no result.
		if ctx.Err() != nil {
			return res, walkErr
		}

		return nil, walkErr
	}

	r.logger.Info("clone complete",
		slog.String("root_id", res.RootID),
		slog.Int("folders_created", res.FoldersCreated),
		slog.Int("files_copied", res.FilesCopied),
		slog.Int("failures", len(res.Failures)),
	)

	return res, nil
}
