package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <file-id>",
		Short: "Display file or folder metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  runStat,
	}
}

func runStat(cmd *cobra.Command, args []string) error {
	fileID := args[0]

	ctx := cmd.Context()
	logger := buildLogger()

	client, err := newDriveClient(ctx, logger)
	if err != nil {
		return err
	}

	f, err := client.GetFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("getting %s: %w", fileID, err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(f)
	}

	kind := "file"
	if f.IsFolder() {
		kind = "folder"
	}

	fmt.Printf("Name:      %s\n", f.Name)
	fmt.Printf("ID:        %s\n", f.ID)
	fmt.Printf("Kind:      %s\n", kind)
	fmt.Printf("MIME type: %s\n", f.MimeType)
	fmt.Printf("Parent:    %s\n", f.ParentID)

	if !f.IsFolder() {
		fmt.Printf("Size:      %s\n", formatSize(f.Size))
	}

	fmt.Printf("Modified:  %s\n", formatTime(f.ModifiedAt))

	return nil
}
