package gdocs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/draftwell/grantdocs/internal/docgen"
	"github.com/draftwell/grantdocs/internal/logger"
)

// The Docs API caps requests per batchUpdate call; larger batches are split
// into sequential chunks. Chunk boundaries never reorder ops, so the
// planner's positions stay valid across the split.
const batchLimit = 400

const callTimeout = 60 * time.Second

type GoogleService struct {
	log   *logger.Logger
	docs  *docs.Service
	drive *drive.Service
}

func NewGoogleService(ctx context.Context, baseLog *logger.Logger) (*GoogleService, error) {
	serviceLog := baseLog.With("service", "GoogleDocsService")
	opts := append(ClientOptionsFromEnv(), option.WithScopes(docs.DocumentsScope, drive.DriveScope))
	docsSvc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init docs client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init drive client: %w", err)
	}
	return &GoogleService{log: serviceLog, docs: docsSvc, drive: driveSvc}, nil
}

func (g *GoogleService) Create(ctx context.Context, title string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	var doc *docs.Document
	err := g.withRetry(ctx, "documents.create", isRateLimited, func() error {
		var callErr error
		doc, callErr = g.docs.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return "", mapGoogleErr(err)
	}
	g.log.Info("Created document", "document_id", doc.DocumentId, "title", title)
	return doc.DocumentId, nil
}

// BatchMutate applies ops in order. Only rate-limit rejections are retried:
// a 429 is refused before anything applies, whereas retrying a failed
// batchUpdate that may have partially applied would double-insert.
func (g *GoogleService) BatchMutate(ctx context.Context, docID string, ops []docgen.Op) error {
	if len(ops) == 0 {
		return nil
	}
	requests := make([]*docs.Request, 0, len(ops))
	for _, op := range ops {
		req, err := toRequest(op)
		if err != nil {
			return err
		}
		requests = append(requests, req)
	}
	for start := 0; start < len(requests); start += batchLimit {
		end := start + batchLimit
		if end > len(requests) {
			end = len(requests)
		}
		chunk := requests[start:end]
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		err := g.withRetry(callCtx, "documents.batchUpdate", isRateLimited, func() error {
			_, callErr := g.docs.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
				Requests: chunk,
			}).Context(callCtx).Do()
			return callErr
		})
		cancel()
		if err != nil {
			return mapGoogleErr(err)
		}
		g.log.Debug("Applied batch chunk", "document_id", docID, "ops", len(chunk))
	}
	return nil
}

func (g *GoogleService) Structure(ctx context.Context, docID string) (*Shape, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	var doc *docs.Document
	err := g.withRetry(ctx, "documents.get", isTransient, func() error {
		var callErr error
		doc, callErr = g.docs.Documents.Get(docID).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, mapGoogleErr(err)
	}
	return shapeFromDocument(doc), nil
}

func (g *GoogleService) Move(ctx context.Context, docID, folderID string) error {
	if folderID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	var file *drive.File
	err := g.withRetry(ctx, "files.get", isTransient, func() error {
		var callErr error
		file, callErr = g.drive.Files.Get(docID).Fields("parents").SupportsAllDrives(true).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return mapGoogleErr(err)
	}
	call := g.drive.Files.Update(docID, nil).AddParents(folderID).SupportsAllDrives(true)
	if len(file.Parents) > 0 {
		call = call.RemoveParents(strings.Join(file.Parents, ","))
	}
	err = g.withRetry(ctx, "files.update", isRateLimited, func() error {
		_, callErr := call.Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return mapGoogleErr(err)
	}
	g.log.Info("Moved document", "document_id", docID, "folder_id", folderID)
	return nil
}

func (g *GoogleService) Link(docID string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", docID)
}

// shapeFromDocument walks the body in document order and records every
// top-level table's cell start positions. The engine never nests tables, so
// tables inside cells are not walked.
func shapeFromDocument(doc *docs.Document) *Shape {
	shape := &Shape{}
	if doc == nil || doc.Body == nil {
		return shape
	}
	for _, element := range doc.Body.Content {
		if element.EndIndex > shape.End {
			shape.End = element.EndIndex
		}
		if element.Table == nil {
			continue
		}
		handle := docgen.TableHandle{}
		for _, row := range element.Table.TableRows {
			starts := make([]int64, 0, len(row.TableCells))
			filled := make([]bool, 0, len(row.TableCells))
			for _, cell := range row.TableCells {
				starts = append(starts, cell.StartIndex)
				// An untouched cell spans exactly its marker plus one empty
				// paragraph; anything wider already holds text.
				filled = append(filled, cell.EndIndex-cell.StartIndex > 2)
			}
			handle.Rows = append(handle.Rows, starts)
			handle.Filled = append(handle.Filled, filled)
		}
		shape.Tables = append(shape.Tables, handle)
	}
	return shape
}

func (g *GoogleService) withRetry(ctx context.Context, call string, retryable func(error) bool, fn func() error) error {
	const maxAttempts = 3
	delay := 500 * time.Millisecond
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil || !retryable(err) || attempt == maxAttempts {
			return err
		}
		g.log.Warn("Retrying Google API call", "call", call, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
