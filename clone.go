package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nickhilton/gdrive-clone/internal/clone"
)

// errCloneIncomplete signals that the clone finished but some nodes failed.
// main() exits non-zero without the generic error banner — the failure table
// has already been printed.
var errCloneIncomplete = errors.New("clone completed with failures")

func newCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone <source-folder-id> <dest-parent-id> <new-name>",
		Short: "Recursively clone a folder tree",
		Long: `Clone a Google Drive folder and all its descendants into a new folder.

A folder named <new-name> is created under <dest-parent-id>, then the entire
subtree rooted at <source-folder-id> is mirrored into it. Individual files or
folders that fail to copy are reported at the end without aborting the rest
of the tree.`,
		Args: cobra.ExactArgs(3),
		RunE: runClone,
	}
}

func runClone(cmd *cobra.Command, args []string) error {
	sourceID, destParentID, newName := args[0], args[1], args[2]

	ctx := cmd.Context()
	logger := buildLogger()

	client, err := newDriveClient(ctx, logger)
	if err != nil {
		return err
	}

	replicator := clone.New(client, resolvedCfg.Workers, logger)

	res, runErr := replicator.Run(ctx, sourceID, destParentID, newName)
	if runErr != nil && res == nil {
		return runErr
	}

	// Canceled runs still carry the partial result; report it before
	// surfacing the cancellation.
	if flagJSON {
		if err := printResultJSON(res); err != nil {
			return err
		}
	} else {
		printResultText(res)
	}

	if runErr != nil {
		return runErr
	}

	if len(res.Failures) > 0 {
		return errCloneIncomplete
	}

	return nil
}

func printResultJSON(res *clone.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(res)
}

func printResultText(res *clone.Result) {
	statusf(flagQuiet, "Created folder %s: %d folders, %d files copied\n",
		res.RootID, res.FoldersCreated, res.FilesCopied)

	if len(res.Failures) == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "%d nodes failed:\n", len(res.Failures))

	headers := []string{"NODE ID", "NAME", "REASON"}
	rows := make([][]string, 0, len(res.Failures))

	for _, f := range res.Failures {
		rows = append(rows, []string{f.NodeID, f.Name, f.Reason})
	}

	printTable(os.Stderr, headers, rows)
}
