package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrFileTooLarge     = errors.New("file exceeds the upload limit")
	ErrEmptyFile        = errors.New("file is empty")
	ErrFileNameRequired = errors.New("file name is required")
)

const defaultContentType = "application/octet-stream"

// DocumentService stores project attachments. Content goes to the Store,
// metadata to the database; the two are not updated atomically.
type DocumentService struct {
	projectRepo repository.ProjectRepository
	docRepo     repository.DocumentRepository
	store       storage.Store
	maxBytes    int64
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(projectRepo repository.ProjectRepository, docRepo repository.DocumentRepository, store storage.Store, maxBytes int64) *DocumentService {
	return &DocumentService{
		projectRepo: projectRepo,
		docRepo:     docRepo,
		store:       store,
		maxBytes:    maxBytes,
	}
}

// UploadInput describes an incoming file
type UploadInput struct {
	Filename    string
	ContentType string
	// Size is the declared size, or -1 when unknown
	Size int64
	Body io.Reader
}

func (s *DocumentService) UploadDocument(ctx context.Context, scope ProjectScope, input UploadInput) (*models.Document, error) {
	name := strings.TrimSpace(filepath.Base(strings.ReplaceAll(input.Filename, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return nil, ErrFileNameRequired
	}
	if input.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	// read one byte past the limit so oversized bodies are detectable
	storedName, size, err := s.store.Save(ctx, io.LimitReader(input.Body, s.maxBytes+1), storage.Extension(name, contentType))
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	if size > s.maxBytes || size == 0 {
		s.discard(ctx, storedName)
		if size == 0 {
			return nil, ErrEmptyFile
		}
		return nil, ErrFileTooLarge
	}

	doc := &models.Document{
		ProjectID:    scope.ProjectID,
		StoredName:   storedName,
		OriginalName: name,
		ContentType:  contentType,
		Size:         size,
	}
	if err := s.docRepo.Create(doc); err != nil {
		s.discard(ctx, storedName)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	return doc, nil
}

func (s *DocumentService) ListDocuments(scope ProjectScope) ([]models.Document, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}
	docs, err := s.docRepo.List(scope.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) GetDocument(scope ProjectScope, id uuid.UUID) (*models.Document, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}
	doc, err := s.docRepo.FindInProject(scope.ProjectID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return doc, nil
}

// OpenDocument returns a document with a reader over its content. The
// caller must close the reader.
func (s *DocumentService) OpenDocument(ctx context.Context, scope ProjectScope, id uuid.UUID) (*models.Document, io.ReadCloser, error) {
	doc, err := s.GetDocument(scope, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, doc.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("Document %s has no stored file %s", doc.ID, doc.StoredName)
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("failed to open document: %w", err)
	}
	return doc, rc, nil
}

// DeleteDocument removes the record, then its stored file
func (s *DocumentService) DeleteDocument(ctx context.Context, scope ProjectScope, id uuid.UUID) error {
	doc, err := s.GetDocument(scope, id)
	if err != nil {
		return err
	}

	if err := s.docRepo.Delete(scope.ProjectID, doc.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	removeStoredFiles(ctx, s.store, []string{doc.StoredName})
	return nil
}

func (s *DocumentService) discard(ctx context.Context, storedName string) {
	if err := s.store.Delete(ctx, storedName); err != nil {
		log.Printf("Failed to discard stored file %s: %v", storedName, err)
	}
}
