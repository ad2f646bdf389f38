package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orthoime/medicase-be/repository"
	"github.com/orthoime/medicase-be/types"
)

type DocumentService struct {
	documents repository.DocumentRepo
	files     *FileService
	logger    zerolog.Logger
}

func NewDocumentService(documents repository.DocumentRepo, files *FileService, logger zerolog.Logger) *DocumentService {
	return &DocumentService{
		documents: documents,
		files:     files,
		logger:    logger.With().Str("component", "documents").Logger(),
	}
}

// Upload stores the file and registers the document against its case with
// a pending analysis status.
func (s *DocumentService) Upload(ctx context.Context, caseID, userID string, file *multipart.FileHeader) (*types.Document, error) {
	documentID := uuid.NewString()
	path, err := s.files.SaveUpload(documentID, file)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	doc := &types.Document{
		ID:          documentID,
		CaseID:      caseID,
		FileName:    file.Filename,
		StoragePath: path,
		MimeType:    "application/pdf",
		FileSize:    file.Size,
		Status:      types.DocumentStatusPending,
		UploadedBy:  userID,
		CreateAt:    now,
		UpdateAt:    now,
	}
	if err := s.documents.CreateDocument(ctx, doc); err != nil {
		if removeErr := s.files.Remove(path); removeErr != nil {
			s.logger.Error().Str("path", path).Err(removeErr).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}
	s.logger.Info().Str("document_id", doc.ID).Str("case_id", caseID).Msg("document uploaded")
	return doc, nil
}

func (s *DocumentService) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	return s.documents.GetDocument(ctx, id)
}

func (s *DocumentService) ListByCase(ctx context.Context, caseID string) ([]*types.Document, error) {
	return s.documents.ListDocumentsByCase(ctx, caseID)
}

// DownloadURL issues an expiring signed link for the document.
func (s *DocumentService) DownloadURL(ctx context.Context, id string) (string, error) {
	if _, err := s.documents.GetDocument(ctx, id); err != nil {
		return "", err
	}
	return s.files.SignedURL(id), nil
}

// Download verifies the signature and returns the stored bytes.
func (s *DocumentService) Download(ctx context.Context, id string, expires int64, signature string) ([]byte, *types.Document, error) {
	doc, err := s.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !s.files.VerifySignature(id, expires, signature) {
		return nil, nil, ErrInvalidSignature
	}
	data, err := s.files.Read(doc.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return data, doc, nil
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.documents.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := s.documents.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if err := s.files.Remove(doc.StoragePath); err != nil {
		s.logger.Error().Str("document_id", id).Err(err).Msg("failed to remove stored file")
	}
	return nil
}
