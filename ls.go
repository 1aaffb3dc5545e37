package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/nickhilton/gdrive-clone/internal/drive"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <folder-id>",
		Short: "List a folder's children",
		Args:  cobra.ExactArgs(1),
		RunE:  runLs,
	}
}

func runLs(cmd *cobra.Command, args []string) error {
	folderID := args[0]

	ctx := cmd.Context()
	logger := buildLogger()

	client, err := newDriveClient(ctx, logger)
	if err != nil {
		return err
	}

	files, err := client.ListChildren(ctx, folderID)
	if err != nil {
		return fmt.Errorf("listing %s: %w", folderID, err)
	}

	if flagJSON {
		return printFilesJSON(os.Stdout, files)
	}

	printFilesTable(files)

	return nil
}

// lsJSONFile is the JSON output schema for a single file in ls output.
type lsJSONFile struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	IsFolder   bool   `json:"is_folder"`
	ModifiedAt string `json:"modified_at"`
	ID         string `json:"id"`
}

func printFilesJSON(w io.Writer, files []drive.File) error {
	out := make([]lsJSONFile, 0, len(files))
	for i := range files {
		out = append(out, lsJSONFile{
			Name:       files[i].Name,
			Size:       files[i].Size,
			IsFolder:   files[i].IsFolder(),
			ModifiedAt: files[i].ModifiedAt.UTC().Format(time.RFC3339),
			ID:         files[i].ID,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func printFilesTable(files []drive.File) {
	// Sort: folders first, then alphabetical.
	sort.Slice(files, func(i, j int) bool {
		if files[i].IsFolder() != files[j].IsFolder() {
			return files[i].IsFolder()
		}

		return files[i].Name < files[j].Name
	})

	headers := []string{"NAME", "SIZE", "MODIFIED", "ID"}
	rows := make([][]string, 0, len(files))

	for i := range files {
		name := files[i].Name
		if files[i].IsFolder() {
			name += "/"
		}

		rows = append(rows, []string{name, formatSize(files[i].Size), formatTime(files[i].ModifiedAt), files[i].ID})
	}

	printTable(os.Stdout, headers, rows)
}
