package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"github.com/mowgliph/pacta-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrDocumentNotFound is returned when a document does not exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentTooLarge is returned when an upload exceeds the size limit
	ErrDocumentTooLarge = errors.New("document exceeds the maximum upload size")
)

// DocumentService handles contract document uploads and downloads.
// Metadata lives in the database; the bytes live in the configured
// storage backend addressed by file key.
type DocumentService struct {
	documentRepo *repository.DocumentRepository
	contractRepo *repository.ContractRepository
	store        storage.Storage
	permissions  *PermissionService
	audit        *AuditLogService
	maxSize      int64
	logger       *zap.Logger
}

// NewDocumentService creates a new document service. maxUploadSizeMB
// bounds single uploads; zero or negative disables the limit.
func NewDocumentService(
	documentRepo *repository.DocumentRepository,
	contractRepo *repository.ContractRepository,
	store storage.Storage,
	permissions *PermissionService,
	audit *AuditLogService,
	maxUploadSizeMB int64,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		contractRepo: contractRepo,
		store:        store,
		permissions:  permissions,
		audit:        audit,
		maxSize:      maxUploadSizeMB * 1024 * 1024,
		logger:       logger,
	}
}

// Upload stores a document for a contract and records its metadata.
func (s *DocumentService) Upload(ctx context.Context, contractID uuid.UUID, fileName, contentType string, data io.Reader, uploadedBy string) (*domain.DocumentDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleEditor); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	if s.maxSize > 0 {
		data = io.LimitReader(data, s.maxSize+1)
	}

	key, size, err := s.store.Upload(ctx, contractID, fileName, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	if s.maxSize > 0 && size > s.maxSize {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove oversized upload",
				zap.String("file_key", key),
				zap.Error(delErr))
		}
		return nil, ErrDocumentTooLarge
	}

	document := &domain.Document{
		ContractID:   contractID,
		FileName:     fileName,
		FileType:     contentType,
		FileSize:     size,
		FileKey:      key,
		UploadedByID: uploadedBy,
	}

	if err := s.documentRepo.Create(ctx, document); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload",
				zap.String("file_key", key),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save document metadata: %w", err)
	}

	_ = s.audit.Record(ctx, &contractID, domain.AuditActionCreate,
		fmt.Sprintf("Uploaded document %s to contract %s", fileName, contract.ContractNumber))

	s.logger.Info("document uploaded",
		zap.String("document_id", document.ID.String()),
		zap.String("contract_id", contractID.String()),
		zap.Int64("size", size))

	dto := domain.NewDocumentDTO(document)
	return &dto, nil
}

// Download streams the stored bytes of a document.
func (s *DocumentService) Download(ctx context.Context, id uuid.UUID) (*domain.Document, io.ReadCloser, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, nil, err
	}

	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("failed to get document: %w", err)
	}

	reader, err := s.store.Download(ctx, document.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document: %w", err)
	}

	return document, reader, nil
}

// ListByContract returns document metadata for a contract, newest first.
func (s *DocumentService) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.DocumentDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	documents, err := s.documentRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	dtos := make([]domain.DocumentDTO, len(documents))
	for i := range documents {
		dtos[i] = domain.NewDocumentDTO(&documents[i])
	}
	return dtos, nil
}

// Delete removes a document's metadata and stored bytes.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return err
	}

	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	// Metadata is gone; a leftover blob is logged, not fatal.
	if err := s.store.Delete(ctx, document.FileKey); err != nil {
		s.logger.Warn("failed to delete stored document",
			zap.String("file_key", document.FileKey),
			zap.Error(err))
	}

	_ = s.audit.Record(ctx, &document.ContractID, domain.AuditActionDelete,
		fmt.Sprintf("Deleted document %s", document.FileName))
	return nil
}
