package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSignerNotFound is returned when an authorized signer is not found
var ErrSignerNotFound = errors.New("authorized signer not found")

// ErrSignerCompanyNotFound is returned when the signer's company does not exist
var ErrSignerCompanyNotFound = errors.New("signer company not found")

// SignerService handles business logic for authorized signers
type SignerService struct {
	signerRepo   *repository.SignerRepository
	clientRepo   *repository.ClientRepository
	supplierRepo *repository.SupplierRepository
	permissions  *PermissionService
	logger       *zap.Logger
}

// NewSignerService creates a new SignerService instance
func NewSignerService(
	signerRepo *repository.SignerRepository,
	clientRepo *repository.ClientRepository,
	supplierRepo *repository.SupplierRepository,
	permissions *PermissionService,
	logger *zap.Logger,
) *SignerService {
	return &SignerService{
		signerRepo:   signerRepo,
		clientRepo:   clientRepo,
		supplierRepo: supplierRepo,
		permissions:  permissions,
		logger:       logger,
	}
}

// Create adds a signer to a client or supplier company
func (s *SignerService) Create(ctx context.Context, req *domain.CreateSignerRequest, createdBy string) (*domain.AuthorizedSignerDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleEditor); err != nil {
		return nil, err
	}

	if !req.CompanyType.IsValid() {
		return nil, ErrInvalidInput
	}

	if err := s.companyExists(ctx, req.CompanyID, req.CompanyType); err != nil {
		return nil, err
	}

	signer := &domain.AuthorizedSigner{
		CompanyID:   req.CompanyID,
		CompanyType: req.CompanyType,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Position:    req.Position,
		Phone:       req.Phone,
		Email:       req.Email,
		CreatedByID: createdBy,
	}

	if err := s.signerRepo.Create(ctx, signer); err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	s.logger.Info("signer created",
		zap.String("signer_id", signer.ID.String()),
		zap.String("company_id", signer.CompanyID.String()),
		zap.String("company_type", string(signer.CompanyType)),
	)

	dto := domain.NewAuthorizedSignerDTO(signer)
	return &dto, nil
}

func (s *SignerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuthorizedSignerDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	signer, err := s.signerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignerNotFound
		}
		return nil, fmt.Errorf("failed to get signer: %w", err)
	}

	dto := domain.NewAuthorizedSignerDTO(signer)
	return &dto, nil
}

// ListByCompany returns all signers for one client or supplier
func (s *SignerService) ListByCompany(ctx context.Context, companyID uuid.UUID, companyType domain.CompanyType) ([]domain.AuthorizedSignerDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	if !companyType.IsValid() {
		return nil, ErrInvalidInput
	}

	signers, err := s.signerRepo.ListByCompany(ctx, companyID, companyType)
	if err != nil {
		return nil, fmt.Errorf("failed to list signers: %w", err)
	}

	dtos := make([]domain.AuthorizedSignerDTO, len(signers))
	for i := range signers {
		dtos[i] = domain.NewAuthorizedSignerDTO(&signers[i])
	}
	return dtos, nil
}

func (s *SignerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSignerRequest) (*domain.AuthorizedSignerDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleEditor); err != nil {
		return nil, err
	}

	signer, err := s.signerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignerNotFound
		}
		return nil, fmt.Errorf("failed to get signer: %w", err)
	}

	signer.FirstName = req.FirstName
	signer.LastName = req.LastName
	signer.Position = req.Position
	signer.Phone = req.Phone
	signer.Email = req.Email

	if err := s.signerRepo.Update(ctx, signer); err != nil {
		return nil, fmt.Errorf("failed to update signer: %w", err)
	}

	dto := domain.NewAuthorizedSignerDTO(signer)
	return &dto, nil
}

func (s *SignerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return err
	}

	if _, err := s.signerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSignerNotFound
		}
		return fmt.Errorf("failed to get signer: %w", err)
	}

	if err := s.signerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete signer: %w", err)
	}

	s.logger.Info("signer deleted", zap.String("signer_id", id.String()))
	return nil
}

func (s *SignerService) companyExists(ctx context.Context, companyID uuid.UUID, companyType domain.CompanyType) error {
	var err error
	switch companyType {
	case domain.CompanyTypeClient:
		_, err = s.clientRepo.GetByID(ctx, companyID)
	case domain.CompanyTypeSupplier:
		_, err = s.supplierRepo.GetByID(ctx, companyID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSignerCompanyNotFound
		}
		return fmt.Errorf("failed to check company: %w", err)
	}
	return nil
}
