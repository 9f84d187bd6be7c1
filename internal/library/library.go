package library

import (
	"context"
	"fmt"
	"time"

	"github.com/mupstack/mupdrive/internal/drive"
	"github.com/mupstack/mupdrive/internal/logging"
	"github.com/mupstack/mupdrive/internal/mindmup"
)

// listPageSize is the page size used for discovery listings.
const listPageSize = 1000

// Storage is the Drive capability the library needs: listing files and
// fetching raw bytes. *drive.Client satisfies it; tests provide fakes.
type Storage interface {
	ListFiles(ctx context.Context, options *drive.ListOptions) ([]*drive.FileInfo, string, error)
	GetFile(ctx context.Context, fileID string) (*drive.FileInfo, error)
	DownloadBytes(ctx context.Context, fileID string, maxBytes int64) ([]byte, error)
}

// ParseObserver is notified after every parse attempt. doc is nil when the
// parse failed. Used to feed parse metrics without coupling the library to
// the instrumentation layer.
type ParseObserver func(doc *mindmup.Document, err error, duration time.Duration)

// Library provides the file-level mind-map operations backed by a Storage
// implementation and a mindmup.Builder.
type Library struct {
	storage  Storage
	builder  *mindmup.Builder
	maxBytes int64
	logger   logging.Logger
	observer ParseObserver
}

// New creates a Library. maxDocumentBytes bounds individual downloads; a
// nil logger falls back to the default slog logger.
func New(storage Storage, builder *mindmup.Builder, maxDocumentBytes int64, logger logging.Logger) *Library {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Library{
		storage:  storage,
		builder:  builder,
		maxBytes: maxDocumentBytes,
		logger:   logger,
	}
}

// SetParseObserver installs an observer for parse outcomes. Must be called
// before the library is shared across goroutines.
func (l *Library) SetParseObserver(observer ParseObserver) {
	l.observer = observer
}

// FindMapFiles discovers mind-map files. With a folder id the folder tree is
// walked recursively; without one the whole Drive is queried. Results keep
// the listing order (most recently modified first within each folder).
func (l *Library) FindMapFiles(ctx context.Context, folderID string) ([]*drive.FileInfo, error) {
	if folderID == "" {
		return l.findAcrossDrive(ctx)
	}

	visited := make(map[string]bool)
	files, err := l.findInFolder(ctx, folderID, visited)
	if err != nil {
		return nil, err
	}
	l.logger.Info("discovered mind-map files",
		logging.KeyFolderID, folderID,
		"count", len(files))
	return files, nil
}

// findAcrossDrive queries the whole Drive with the broad mindmup query and
// narrows the result with the name/MIME heuristics.
func (l *Library) findAcrossDrive(ctx context.Context) ([]*drive.FileInfo, error) {
	listed, _, err := l.storage.ListFiles(ctx, &drive.ListOptions{
		Query:      drive.MindmupQuery(""),
		MaxResults: listPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search Drive for mind maps: %w", err)
	}

	files := make([]*drive.FileInfo, 0, len(listed))
	for _, file := range listed {
		if file.IsMindmup() {
			files = append(files, file)
		}
	}
	return files, nil
}

// findInFolder lists one folder and recurses into sub-folders. The visited
// set guards against a folder reachable through multiple parents being
// walked twice.
func (l *Library) findInFolder(ctx context.Context, folderID string, visited map[string]bool) ([]*drive.FileInfo, error) {
	if visited[folderID] {
		return nil, nil
	}
	visited[folderID] = true

	listed, _, err := l.storage.ListFiles(ctx, &drive.ListOptions{
		Query:      drive.BuildQuery("", folderID, "", false),
		MaxResults: listPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
	}

	var files []*drive.FileInfo
	for _, file := range listed {
		switch {
		case file.IsFolder():
			nested, err := l.findInFolder(ctx, file.ID, visited)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
		case file.IsMindmup():
			files = append(files, file)
		}
	}
	return files, nil
}

// ListFolders lists the folders visible to the service account.
func (l *Library) ListFolders(ctx context.Context, parentID string) ([]*drive.FileInfo, error) {
	folders, _, err := l.storage.ListFiles(ctx, &drive.ListOptions{
		Query:      drive.FolderQuery(parentID),
		MaxResults: listPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// LoadMap downloads and parses one mind-map file.
func (l *Library) LoadMap(ctx context.Context, fileID string) (*mindmup.Document, error) {
	raw, err := l.storage.DownloadBytes(ctx, fileID, l.maxBytes)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	doc, err := l.builder.Build(raw, fileID)
	if l.observer != nil {
		l.observer(doc, err, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loaded mind map",
		logging.KeySourceID, fileID,
		"nodes", doc.NodeCount())
	return doc, nil
}

// MapEntry pairs a discovered file with its parse outcome. Exactly one of
// Document and Err is set.
type MapEntry struct {
	File     *drive.FileInfo
	Document *mindmup.Document
	Err      error
}

// SearchAndParse discovers every mind-map file in scope and parses each one.
// Per-file download or parse failures are reported on the entry; they never
// abort the batch.
func (l *Library) SearchAndParse(ctx context.Context, folderID string) ([]MapEntry, error) {
	files, err := l.FindMapFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	entries := make([]MapEntry, 0, len(files))
	for _, file := range files {
		entry := MapEntry{File: file}
		doc, err := l.LoadMap(ctx, file.ID)
		if err != nil {
			l.logger.Warn("failed to load mind map, continuing batch",
				logging.KeySourceID, file.ID,
				logging.KeyError, err.Error())
			entry.Err = err
		} else {
			if !file.ModifiedTime.IsZero() {
				doc.Metadata.ModifiedTime = file.ModifiedTime.Format(time.RFC3339)
			}
			entry.Document = doc
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Documents extracts the successfully parsed documents from a batch,
// together with the error entries for the failed ones.
func Documents(entries []MapEntry) ([]*mindmup.Document, []mindmup.BatchError) {
	var docs []*mindmup.Document
	var errs []mindmup.BatchError
	for _, entry := range entries {
		if entry.Err != nil {
			errs = append(errs, mindmup.BatchError{SourceID: entry.File.ID, Err: entry.Err})
			continue
		}
		docs = append(docs, entry.Document)
	}
	return docs, errs
}
