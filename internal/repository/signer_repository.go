package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"gorm.io/gorm"
)

type SignerRepository struct {
	db *gorm.DB
}

func NewSignerRepository(db *gorm.DB) *SignerRepository {
	return &SignerRepository{db: db}
}

func (r *SignerRepository) Create(ctx context.Context, signer *domain.AuthorizedSigner) error {
	return r.db.WithContext(ctx).Create(signer).Error
}

func (r *SignerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuthorizedSigner, error) {
	var signer domain.AuthorizedSigner
	err := r.db.WithContext(ctx).First(&signer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &signer, nil
}

func (r *SignerRepository) Update(ctx context.Context, signer *domain.AuthorizedSigner) error {
	return r.db.WithContext(ctx).Save(signer).Error
}

func (r *SignerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.AuthorizedSigner{}, "id = ?", id).Error
}

// ListByCompany returns all signers for one client or supplier
func (r *SignerRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, companyType domain.CompanyType) ([]domain.AuthorizedSigner, error) {
	var signers []domain.AuthorizedSigner
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND company_type = ?", companyID, companyType).
		Order("last_name ASC, first_name ASC").
		Find(&signers).Error
	return signers, err
}

func (r *SignerRepository) List(ctx context.Context, page, pageSize int) ([]domain.AuthorizedSigner, int64, error) {
	var signers []domain.AuthorizedSigner
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.AuthorizedSigner{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("last_name ASC, first_name ASC").Find(&signers).Error

	return signers, total, err
}
