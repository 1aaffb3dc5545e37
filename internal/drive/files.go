package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// defaultPageSize is the pageSize for list requests. 1000 is the maximum
// the Drive v3 API allows for files.list.
const defaultPageSize = 1000

// fileFields is the fields projection requested for every file resource.
const fileFields = "id,name,mimeType,parents,size,trashed,modifiedTime"

// Timestamp validation bounds — timestamps outside this range are replaced
// with the current time and a warning is logged.
const (
	minValidYear = 1970
	maxValidYear = 2100
)

// fileResource mirrors the Drive v3 file JSON exactly. Unexported — callers
// use File via toFile() normalization.
type fileResource struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType"`
	Parents      []string `json:"parents"`
	Size         int64    `json:"size,string"`
	Trashed      bool     `json:"trashed"`
	ModifiedTime string   `json:"modifiedTime"`
}

type fileListResponse struct {
	Files         []fileResource `json:"files"`
	NextPageToken string         `json:"nextPageToken"`
}

type createFileRequest struct {
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}

type copyFileRequest struct {
	Name    string   `json:"name,omitempty"`
	Parents []string `json:"parents,omitempty"`
}

// toFile normalizes a Drive API file resource into our File type.
func (r *fileResource) toFile(logger *slog.Logger) File {
	f := File{
		ID:       r.ID,
		Name:     r.Name,
		MimeType: r.MimeType,
		Size:     r.Size,
		Trashed:  r.Trashed,
	}

	// Drive v3 exposes parents as a list but files created through this tool
	// always have exactly one. Shared files may have none.
	if len(r.Parents) > 0 {
		f.ParentID = r.Parents[0]
	}

	f.ModifiedAt = parseTimestamp(r.ModifiedTime, "modifiedTime", r.ID, logger)

	return f
}

// parseTimestamp parses an RFC3339 timestamp and validates the year range.
// Invalid or out-of-range timestamps are replaced with time.Now().UTC() and logged.
func parseTimestamp(raw, field, fileID string, logger *slog.Logger) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		logger.Warn("invalid timestamp, using current time",
			slog.String("field", field),
			slog.String("file_id", fileID),
			slog.String("raw", raw),
			slog.String("error", err.Error()),
		)

		return time.Now().UTC()
	}

	if t.Year() < minValidYear || t.Year() > maxValidYear {
		logger.Warn("timestamp out of valid range, using current time",
			slog.String("field", field),
			slog.String("file_id", fileID),
			slog.String("raw", raw),
		)

		return time.Now().UTC()
	}

	return t
}

// GetFile retrieves a single file's metadata by ID.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	c.logger.Info("getting file",
		slog.String("file_id", fileID),
	)

	query := url.Values{}
	query.Set("fields", fileFields)

	path := fmt.Sprintf("/files/%s?%s", url.PathEscape(fileID), query.Encode())

	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fr fileResource
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("drive: decoding file response: %w", err)
	}

	f := fr.toFile(c.logger)

	return &f, nil
}

// ListChildrenPage fetches one page of a folder's non-trashed children.
// pageToken is empty for the first page; the returned token is empty when
// no pages remain. Page requests for one folder must be issued sequentially
// because each token depends on the previous response.
func (c *Client) ListChildrenPage(ctx context.Context, folderID, pageToken string) ([]File, string, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("'%s' in parents and trashed = false", folderID))
	query.Set("pageSize", fmt.Sprintf("%d", defaultPageSize))
	query.Set("fields", fmt.Sprintf("nextPageToken,files(%s)", fileFields))

	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	resp, err := c.Do(ctx, http.MethodGet, "/files?"+query.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var flr fileListResponse
	if err := json.NewDecoder(resp.Body).Decode(&flr); err != nil {
		return nil, "", fmt.Errorf("drive: decoding file list response: %w", err)
	}

	files := make([]File, 0, len(flr.Files))
	for i := range flr.Files {
		files = append(files, flr.Files[i].toFile(c.logger))
	}

	c.logger.Debug("fetched children page",
		slog.String("folder_id", folderID),
		slog.Int("count", len(files)),
		slog.Bool("more", flr.NextPageToken != ""),
	)

	return files, flr.NextPageToken, nil
}

// ListChildren returns all children of a folder, handling pagination
// automatically.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]File, error) {
	c.logger.Info("listing children",
		slog.String("folder_id", folderID),
	)

	var all []File

	pageToken := ""

	for {
		files, next, err := c.ListChildrenPage(ctx, folderID, pageToken)
		if err != nil {
			return nil, err
		}

		all = append(all, files...)

		if next == "" {
			break
		}

		pageToken = next
	}

	c.logger.Info("listed children complete",
		slog.String("folder_id", folderID),
		slog.Int("total_files", len(all)),
	)

	return all, nil
}

// CreateFolder creates a new folder under the given parent. Drive allows
// duplicate names among siblings; no collision check is made.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (*File, error) {
	c.logger.Info("creating folder",
		slog.String("parent_id", parentID),
		slog.String("name", name),
	)

	reqBody := createFileRequest{
		Name:     name,
		MimeType: FolderMimeType,
		Parents:  []string{parentID},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("drive: marshaling create folder request: %w", err)
	}

	query := url.Values{}
	query.Set("fields", fileFields)

	resp, err := c.Do(ctx, http.MethodPost, "/files?"+query.Encode(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fr fileResource
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("drive: decoding create folder response: %w", err)
	}

	f := fr.toFile(c.logger)

	return &f, nil
}

// CopyFile copies a file into the destination folder. name overrides the
// copy's name when non-empty — Drive otherwise names server-side copies
// "Copy of X", so callers pass the source name to preserve it.
func (c *Client) CopyFile(ctx context.Context, fileID, destParentID, name string) (*File, error) {
	c.logger.Info("copying file",
		slog.String("file_id", fileID),
		slog.String("dest_parent_id", destParentID),
		slog.String("name", name),
	)

	reqBody := copyFileRequest{
		Name:    name,
		Parents: []string{destParentID},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("drive: marshaling copy request: %w", err)
	}

	query := url.Values{}
	query.Set("fields", fileFields)

	path := fmt.Sprintf("/files/%s/copy?%s", url.PathEscape(fileID), query.Encode())

	resp, err := c.Do(ctx, http.MethodPost, path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fr fileResource
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("drive: decoding copy response: %w", err)
	}

	f := fr.toFile(c.logger)

	return &f, nil
}
