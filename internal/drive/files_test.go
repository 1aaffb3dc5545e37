package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/files/file-123", r.URL.Path)
		assert.Equal(t, fileFields, r.URL.Query().Get("fields"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{
			"id": "file-123",
			"name": "report.pdf",
			"mimeType": "application/pdf",
			"parents": ["parent-456"],
			"size": "2048",
			"trashed": false,
			"modifiedTime": "2024-06-20T14:45:00Z"
		}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	f, err := client.GetFile(context.Background(), "file-123")
	require.NoError(t, err)

	assert.Equal(t, "file-123", f.ID)
	assert.Equal(t, "report.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.MimeType)
	assert.Equal(t, "parent-456", f.ParentID)
	assert.Equal(t, int64(2048), f.Size)
	assert.False(t, f.Trashed)
	assert.False(t, f.IsFolder())
	assert.Equal(t, 2024, f.ModifiedAt.Year())
}

func TestGetFile_Folder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{
			"id": "folder-789",
			"name": "Documents",
			"mimeType": "application/vnd.google-apps.folder",
			"parents": ["root-1"],
			"modifiedTime": "2024-01-01T00:00:00Z"
		}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	f, err := client.GetFile(context.Background(), "folder-789")
	require.NoError(t, err)

	assert.True(t, f.IsFolder())
	assert.Equal(t, int64(0), f.Size)
}

func TestListChildrenPage_QueryAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "'folder-1' in parents and trashed = false", r.URL.Query().Get("q"))
		assert.Equal(t, "tok-2", r.URL.Query().Get("pageToken"))

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{
			"files": [
				{"id": "f1", "name": "a.txt", "mimeType": "text/plain", "parents": ["folder-1"], "modifiedTime": "2024-01-01T00:00:00Z"}
			],
			"nextPageToken": "tok-3"
		}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	files, next, err := client.ListChildrenPage(context.Background(), "folder-1", "tok-2")
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "f1", files[0].ID)
	assert.Equal(t, "tok-3", next)
}

func TestListChildren_Pagination(t *testing.T) {
	// Three pages of one file each, chained by pageToken.
	pages := map[string]string{
		"":   `{"files":[{"id":"f1","name":"a","modifiedTime":"2024-01-01T00:00:00Z"}],"nextPageToken":"p2"}`,
		"p2": `{"files":[{"id":"f2","name":"b","modifiedTime":"2024-01-01T00:00:00Z"}],"nextPageToken":"p3"}`,
		"p3": `{"files":[{"id":"f3","name":"c","modifiedTime":"2024-01-01T00:00:00Z"}]}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Query().Get("pageToken")]
		require.True(t, ok, "unexpected page token %q", r.URL.Query().Get("pageToken"))

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	files, err := client.ListChildren(context.Background(), "folder-1")
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.Equal(t, "f1", files[0].ID)
	assert.Equal(t, "f2", files[1].ID)
	assert.Equal(t, "f3", files[2].ID)
}

func TestCreateFolder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/files", r.URL.Path)

		var req createFileRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "New Folder", req.Name)
		assert.Equal(t, FolderMimeType, req.MimeType)
		assert.Equal(t, []string{"parent-1"}, req.Parents)

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{
			"id": "new-folder-id",
			"name": "New Folder",
			"mimeType": "application/vnd.google-apps.folder",
			"parents": ["parent-1"],
			"modifiedTime": "2024-01-01T00:00:00Z"
		}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	f, err := client.CreateFolder(context.Background(), "New Folder", "parent-1")
	require.NoError(t, err)

	assert.Equal(t, "new-folder-id", f.ID)
	assert.True(t, f.IsFolder())
	assert.Equal(t, "parent-1", f.ParentID)
}

func TestCopyFile_NameOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/files/src-file/copy", r.URL.Path)

		var req copyFileRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a.txt", req.Name)
		assert.Equal(t, []string{"dest-folder"}, req.Parents)

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{
			"id": "copied-file",
			"name": "a.txt",
			"mimeType": "text/plain",
			"parents": ["dest-folder"],
			"size": "10",
			"modifiedTime": "2024-01-01T00:00:00Z"
		}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	f, err := client.CopyFile(context.Background(), "src-file", "dest-folder", "a.txt")
	require.NoError(t, err)

	assert.Equal(t, "copied-file", f.ID)
	assert.Equal(t, "a.txt", f.Name)
	assert.Equal(t, "dest-folder", f.ParentID)
}

func TestCopyFile_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"File not found: src-file","errors":[{"reason":"notFound"}]}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.CopyFile(context.Background(), "src-file", "dest-folder", "a.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToFile_NoParents(t *testing.T) {
	fr := fileResource{
		ID:       "shared-1",
		Name:     "shared.txt",
		MimeType: "text/plain",
	}

	f := fr.toFile(testLogger())
	assert.Empty(t, f.ParentID)
}

func TestParseTimestamp_Invalid(t *testing.T) {
	got := parseTimestamp("not-a-time", "modifiedTime", "f1", testLogger())
	assert.False(t, got.IsZero())
}
