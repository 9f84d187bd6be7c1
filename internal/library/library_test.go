package library

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mupstack/mupdrive/internal/drive"
	"github.com/mupstack/mupdrive/internal/mindmup"
)

// fakeStorage serves canned listings and file contents in place of Drive.
type fakeStorage struct {
	// filesByQuery maps a Drive query string to the listing it returns.
	filesByQuery map[string][]*drive.FileInfo

	// contents maps file ids to raw bytes.
	contents map[string][]byte

	// downloadErrs maps file ids to forced download failures.
	downloadErrs map[string]error

	listCalls []string
}

func (f *fakeStorage) ListFiles(_ context.Context, options *drive.ListOptions) ([]*drive.FileInfo, string, error) {
	f.listCalls = append(f.listCalls, options.Query)
	return f.filesByQuery[options.Query], "", nil
}

func (f *fakeStorage) GetFile(_ context.Context, fileID string) (*drive.FileInfo, error) {
	for _, files := range f.filesByQuery {
		for _, file := range files {
			if file.ID == fileID {
				return file, nil
			}
		}
	}
	return nil, drive.ErrNotFound
}

func (f *fakeStorage) DownloadBytes(_ context.Context, fileID string, _ int64) ([]byte, error) {
	if err, ok := f.downloadErrs[fileID]; ok {
		return nil, err
	}
	raw, ok := f.contents[fileID]
	if !ok {
		return nil, drive.ErrNotFound
	}
	return raw, nil
}

func newTestLibrary(storage *fakeStorage) *Library {
	builder := mindmup.NewBuilder(mindmup.BuilderOptions{})
	return New(storage, builder, 1024*1024, nil)
}

func mapFile(id, name string) *drive.FileInfo {
	return &drive.FileInfo{ID: id, Name: name, MimeType: drive.MindmupMimeType}
}

func folder(id, name string) *drive.FileInfo {
	return &drive.FileInfo{ID: id, Name: name, MimeType: drive.FolderMimeType}
}

func TestFindMapFiles_AcrossDrive(t *testing.T) {
	storage := &fakeStorage{
		filesByQuery: map[string][]*drive.FileInfo{
			drive.MindmupQuery(""): {
				mapFile("m1", "plan.mup"),
				{ID: "x1", Name: "notes.txt", MimeType: "text/plain"},
				mapFile("m2", "ideas.mup"),
			},
		},
	}
	lib := newTestLibrary(storage)

	files, err := lib.FindMapFiles(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "m1", files[0].ID)
	assert.Equal(t, "m2", files[1].ID)
}

func TestFindMapFiles_RecursesFolders(t *testing.T) {
	storage := &fakeStorage{
		filesByQuery: map[string][]*drive.FileInfo{
			drive.BuildQuery("", "top", "", false): {
				mapFile("m1", "a.mup"),
				folder("sub", "nested"),
			},
			drive.BuildQuery("", "sub", "", false): {
				mapFile("m2", "b.mup"),
			},
		},
	}
	lib := newTestLibrary(storage)

	files, err := lib.FindMapFiles(context.Background(), "top")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "m1", files[0].ID)
	assert.Equal(t, "m2", files[1].ID)
}

func TestFindMapFiles_CyclicFolders(t *testing.T) {
	// A folder reachable as its own descendant must be walked once,
	// not forever.
	storage := &fakeStorage{
		filesByQuery: map[string][]*drive.FileInfo{
			drive.BuildQuery("", "a", "", false): {
				folder("b", "child"),
				mapFile("m1", "a.mup"),
			},
			drive.BuildQuery("", "b", "", false): {
				folder("a", "parent again"),
				mapFile("m2", "b.mup"),
			},
		},
	}
	lib := newTestLibrary(storage)

	files, err := lib.FindMapFiles(context.Background(), "a")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Len(t, storage.listCalls, 2)
}

func TestLoadMap(t *testing.T) {
	storage := &fakeStorage{
		contents: map[string][]byte{
			"m1": []byte(`{"title": "Loaded", "id": "root"}`),
		},
	}
	lib := newTestLibrary(storage)

	doc, err := lib.LoadMap(context.Background(), "m1")
	require.NoError(t, err)

	assert.Equal(t, "m1", doc.SourceID)
	assert.Equal(t, "Loaded", doc.Metadata.Title)
}

func TestLoadMap_NotFound(t *testing.T) {
	lib := newTestLibrary(&fakeStorage{})

	_, err := lib.LoadMap(context.Background(), "missing")
	assert.ErrorIs(t, err, drive.ErrNotFound)
}

func TestLoadMap_ParseFailure(t *testing.T) {
	storage := &fakeStorage{
		contents: map[string][]byte{"m1": []byte(`{{{`)},
	}
	lib := newTestLibrary(storage)

	_, err := lib.LoadMap(context.Background(), "m1")
	require.Error(t, err)

	var parseErr *mindmup.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestSearchAndParse_PartialFailure(t *testing.T) {
	storage := &fakeStorage{
		filesByQuery: map[string][]*drive.FileInfo{
			drive.MindmupQuery(""): {
				mapFile("good", "good.mup"),
				mapFile("broken", "broken.mup"),
				mapFile("gone", "gone.mup"),
			},
		},
		contents: map[string][]byte{
			"good":   []byte(`{"title": "Good"}`),
			"broken": []byte(`not json at all`),
		},
		downloadErrs: map[string]error{
			"gone": drive.ErrPermissionDenied,
		},
	}
	lib := newTestLibrary(storage)

	entries, err := lib.SearchAndParse(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.NotNil(t, entries[0].Document)
	assert.NoError(t, entries[0].Err)
	assert.Nil(t, entries[1].Document)
	assert.Error(t, entries[1].Err)
	assert.ErrorIs(t, entries[2].Err, drive.ErrPermissionDenied)

	docs, errs := Documents(entries)
	require.Len(t, docs, 1)
	assert.Equal(t, "good", docs[0].SourceID)
	require.Len(t, errs, 2)
	assert.Equal(t, "broken", errs[0].SourceID)
	assert.Equal(t, "gone", errs[1].SourceID)
}

func TestSearchAndParse_DiscoveryFailureAborts(t *testing.T) {
	storage := &failingStorage{err: errors.New("drive unavailable")}
	lib := New(storage, mindmup.NewBuilder(mindmup.BuilderOptions{}), 1024, nil)

	_, err := lib.SearchAndParse(context.Background(), "")
	assert.Error(t, err)
}

func TestListFolders(t *testing.T) {
	storage := &fakeStorage{
		filesByQuery: map[string][]*drive.FileInfo{
			drive.FolderQuery(""): {folder("f1", "Maps")},
		},
	}
	lib := newTestLibrary(storage)

	folders, err := lib.ListFolders(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "f1", folders[0].ID)
}

// failingStorage fails every call.
type failingStorage struct {
	err error
}

func (f *failingStorage) ListFiles(context.Context, *drive.ListOptions) ([]*drive.FileInfo, string, error) {
	return nil, "", f.err
}

func (f *failingStorage) GetFile(context.Context, string) (*drive.FileInfo, error) {
	return nil, f.err
}

func (f *failingStorage) DownloadBytes(context.Context, string, int64) ([]byte, error) {
	return nil, f.err
}
