package clone

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nickhilton/gdrive-clone/internal/drive"
)

// replicateFolder copies the contents of source folder srcID into the
// already-created destination folder destID. Pages are fetched sequentially
// because each continuation token depends on the previous response; the
// children of each page are handed off before the next page is requested.
//
// A listing failure on the top-level source folder is structural and is
// returned; on a nested folder it is recorded once against that folder and
// the branch is skipped. The only other non-nil returns are context
// cancellation, which unwinds the walk.
func (r *Replicator) replicateFolder(ctx context.Context, g *errgroup.Group, srcID, destID string, root bool, agg *aggregator) error {
	pageToken := ""

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		children, next, err := r.svc.ListChildrenPage(ctx, srcID, pageToken)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if root {
				return fmt.Errorf("clone: listing source folder %s: %w", srcID, err)
			}

			agg.addFailure(srcID, "", err)

			return nil
		}

		if err := r.processChildren(ctx, g, children, destID, agg); err != nil {
			return err
		}

		if next == "" {
			return nil
		}

		pageToken = next
	}
}

// processChildren replicates one page of children into destID. Sibling
// subtrees are independent: when the shared pool has a free slot the child
// is dispatched to it, otherwise the child is processed inline on the
// current goroutine. The pool is shared across the entire walk, so total
// concurrency stays at the configured bound no matter how deep or wide the
// tree is. g is nil in sequential mode.
func (r *Replicator) processChildren(ctx context.Context, g *errgroup.Group, children []drive.File, destID string, agg *aggregator) error {
	for i := range children {
		if err := ctx.Err(); err != nil {
			return err
		}

		child := children[i]

		if g != nil && g.TryGo(func() error {
			return r.replicateNode(ctx, g, &child, destID, agg)
		}) {
			continue
		}

		if err := r.replicateNode(ctx, g, &children[i], destID, agg); err != nil {
			return err
		}
	}

	return nil
}

// replicateNode replicates a single child into destID: folders are created
// and recursed into, files are copied with their source name preserved.
// Node-level failures are recorded and swallowed so siblings continue; a
// failed folder creation skips that folder's entire branch because there is
// no destination to copy its children into.
func (r *Replicator) replicateNode(ctx context.Context, g *errgroup.Group, child *drive.File, destID string, agg *aggregator) error {
	if !child.IsFolder() {
		if _, err := r.svc.CopyFile(ctx, child.ID, destID, child.Name); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			r.logger.Warn("file copy failed",
				slog.String("file_id", child.ID),
				slog.String("name", child.Name),
				slog.String("error", err.Error()),
			)
			agg.addFailure(child.ID, child.Name, err)

			return nil
		}

		agg.addFile()

		return nil
	}

	sub, err := r.svc.CreateFolder(ctx, child.Name, destID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.logger.Warn("folder create failed, skipping branch",
			slog.String("folder_id", child.ID),
			slog.String("name", child.Name),
			slog.String("error", err.Error()),
		)
		agg.addFailure(child.ID, child.Name, err)

		return nil
	}

	agg.addFolder()

	return r.replicateFolder(ctx, g, child.ID, sub.ID, false, agg)
}
