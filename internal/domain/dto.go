package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type UserDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`
	LastAccessAt *string    `json:"lastAccessAt,omitempty"` // ISO 8601
	CreatedAt    string     `json:"createdAt"`              // ISO 8601
	UpdatedAt    string     `json:"updatedAt"`              // ISO 8601
}

// NewUserDTO maps a User to its API representation. The password hash is
// never included.
func NewUserDTO(u *User) UserDTO {
	dto := UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
	if u.LastAccessAt != nil {
		s := u.LastAccessAt.Format(time.RFC3339)
		dto.LastAccessAt = &s
	}
	return dto
}

type ClientDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	ReuCode      string    `json:"reuCode,omitempty"`
	Contacts     string    `json:"contacts,omitempty"`
	DocumentName string    `json:"documentName,omitempty"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

func NewClientDTO(c *Client) ClientDTO {
	return ClientDTO{
		ID:           c.ID,
		Name:         c.Name,
		Address:      c.Address,
		ReuCode:      c.ReuCode,
		Contacts:     c.Contacts,
		DocumentName: c.DocumentName,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.Format(time.RFC3339),
	}
}

type SupplierDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	ReuCode      string    `json:"reuCode,omitempty"`
	Contacts     string    `json:"contacts,omitempty"`
	DocumentName string    `json:"documentName,omitempty"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

func NewSupplierDTO(s *Supplier) SupplierDTO {
	return SupplierDTO{
		ID:           s.ID,
		Name:         s.Name,
		Address:      s.Address,
		ReuCode:      s.ReuCode,
		Contacts:     s.Contacts,
		DocumentName: s.DocumentName,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}
}

type AuthorizedSignerDTO struct {
	ID           uuid.UUID   `json:"id"`
	CompanyID    uuid.UUID   `json:"companyId"`
	CompanyType  CompanyType `json:"companyType"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	FullName     string      `json:"fullName"`
	Position     string      `json:"position,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Email        string      `json:"email,omitempty"`
	DocumentName string      `json:"documentName,omitempty"`
	CreatedAt    string      `json:"createdAt"`
	UpdatedAt    string      `json:"updatedAt"`
}

func NewAuthorizedSignerDTO(s *AuthorizedSigner) AuthorizedSignerDTO {
	return AuthorizedSignerDTO{
		ID:           s.ID,
		CompanyID:    s.CompanyID,
		CompanyType:  s.CompanyType,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		FullName:     s.FullName(),
		Position:     s.Position,
		Phone:        s.Phone,
		Email:        s.Email,
		DocumentName: s.DocumentName,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}
}

type ContractDTO struct {
	ID               uuid.UUID      `json:"id"`
	ContractNumber   string         `json:"contractNumber"`
	Title            string         `json:"title"`
	ClientID         uuid.UUID      `json:"clientId"`
	ClientName       string         `json:"clientName,omitempty"`
	SupplierID       uuid.UUID      `json:"supplierId"`
	SupplierName     string         `json:"supplierName,omitempty"`
	ClientSignerID   *uuid.UUID     `json:"clientSignerId,omitempty"`
	SupplierSignerID *uuid.UUID     `json:"supplierSignerId,omitempty"`
	StartDate        string         `json:"startDate"` // ISO 8601 date
	EndDate          string         `json:"endDate"`   // ISO 8601 date
	Amount           float64        `json:"amount"`
	Type             ContractType   `json:"type"`
	Status           ContractStatus `json:"status"`
	Description      string         `json:"description,omitempty"`
	SupplementCount  int            `json:"supplementCount"`
	DocumentCount    int            `json:"documentCount"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
}

func NewContractDTO(c *Contract) ContractDTO {
	dto := ContractDTO{
		ID:               c.ID,
		ContractNumber:   c.ContractNumber,
		Title:            c.Title,
		ClientID:         c.ClientID,
		SupplierID:       c.SupplierID,
		ClientSignerID:   c.ClientSignerID,
		SupplierSignerID: c.SupplierSignerID,
		StartDate:        c.StartDate.Format("2006-01-02"),
		EndDate:          c.EndDate.Format("2006-01-02"),
		Amount:           c.Amount,
		Type:             c.Type,
		Status:           c.Status,
		Description:      c.Description,
		SupplementCount:  len(c.Supplements),
		DocumentCount:    len(c.Documents),
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        c.UpdatedAt.Format(time.RFC3339),
	}
	if c.Client != nil {
		dto.ClientName = c.Client.Name
	}
	if c.Supplier != nil {
		dto.SupplierName = c.Supplier.Name
	}
	return dto
}

type SupplementDTO struct {
	ID               uuid.UUID        `json:"id"`
	ContractID       uuid.UUID        `json:"contractId"`
	ContractNumber   string           `json:"contractNumber,omitempty"`
	SupplementNumber string           `json:"supplementNumber"`
	Description      string           `json:"description,omitempty"`
	EffectiveDate    string           `json:"effectiveDate"` // ISO 8601 date
	Modifications    string           `json:"modifications,omitempty"`
	Status           SupplementStatus `json:"status"`
	ClientSignerID   *uuid.UUID       `json:"clientSignerId,omitempty"`
	SupplierSignerID *uuid.UUID       `json:"supplierSignerId,omitempty"`
	CreatedAt        string           `json:"createdAt"`
	UpdatedAt        string           `json:"updatedAt"`
}

func NewSupplementDTO(s *Supplement) SupplementDTO {
	dto := SupplementDTO{
		ID:               s.ID,
		ContractID:       s.ContractID,
		SupplementNumber: s.SupplementNumber,
		Description:      s.Description,
		EffectiveDate:    s.EffectiveDate.Format("2006-01-02"),
		Modifications:    s.Modifications,
		Status:           s.Status,
		ClientSignerID:   s.ClientSignerID,
		SupplierSignerID: s.SupplierSignerID,
		CreatedAt:        s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        s.UpdatedAt.Format(time.RFC3339),
	}
	if s.Contract != nil {
		dto.ContractNumber = s.Contract.ContractNumber
	}
	return dto
}

type DocumentDTO struct {
	ID         uuid.UUID `json:"id"`
	ContractID uuid.UUID `json:"contractId"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType,omitempty"`
	FileSize   int64     `json:"fileSize"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	UploadedAt string    `json:"uploadedAt"`
}

func NewDocumentDTO(d *Document) DocumentDTO {
	return DocumentDTO{
		ID:         d.ID,
		ContractID: d.ContractID,
		FileName:   d.FileName,
		FileType:   d.FileType,
		FileSize:   d.FileSize,
		UploadedBy: d.UploadedByID,
		UploadedAt: d.UploadedAt.Format(time.RFC3339),
	}
}

type NotificationDTO struct {
	ID             uuid.UUID          `json:"id"`
	ContractID     uuid.UUID          `json:"contractId"`
	ContractNumber string             `json:"contractNumber"`
	ContractTitle  string             `json:"contractTitle"`
	Type           string             `json:"type"`
	Threshold      int                `json:"threshold"`
	Message        string             `json:"message"`
	Status         NotificationStatus `json:"status"`
	CreatedAt      string             `json:"createdAt"`
	ReadAt         *string            `json:"readAt,omitempty"`
}

func NewNotificationDTO(n *Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:             n.ID,
		ContractID:     n.ContractID,
		ContractNumber: n.ContractNumber,
		ContractTitle:  n.ContractTitle,
		Type:           n.Type,
		Threshold:      n.Threshold,
		Message:        n.Message,
		Status:         n.Status,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		s := n.ReadAt.Format(time.RFC3339)
		dto.ReadAt = &s
	}
	return dto
}

type NotificationSettingsDTO struct {
	Enabled    bool     `json:"enabled"`
	Thresholds []int    `json:"thresholds"`
	Recipients []string `json:"recipients"`
	UpdatedAt  string   `json:"updatedAt"`
}

func NewNotificationSettingsDTO(s *NotificationSettings) NotificationSettingsDTO {
	thresholds := make([]int, 0, len(s.Thresholds))
	for _, t := range s.Thresholds {
		thresholds = append(thresholds, int(t))
	}
	return NotificationSettingsDTO{
		Enabled:    s.Enabled,
		Thresholds: thresholds,
		Recipients: s.Recipients,
		UpdatedAt:  s.UpdatedAt.Format(time.RFC3339),
	}
}

type AuditLogDTO struct {
	ID         uuid.UUID   `json:"id"`
	ContractID *uuid.UUID  `json:"contractId,omitempty"`
	UserID     string      `json:"userId"`
	UserName   string      `json:"userName"`
	Action     AuditAction `json:"action"`
	Details    string      `json:"details,omitempty"`
	Timestamp  string      `json:"timestamp"` // ISO 8601
}

func NewAuditLogDTO(l *AuditLog) AuditLogDTO {
	return AuditLogDTO{
		ID:         l.ID,
		ContractID: l.ContractID,
		UserID:     l.UserID,
		UserName:   l.UserName,
		Action:     l.Action,
		Details:    l.Details,
		Timestamp:  l.CreatedAt.Format(time.RFC3339),
	}
}

// UnreadCountDTO represents the count of unread notifications
type UnreadCountDTO struct {
	Count int64 `json:"count"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// API Response wrapper
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// Auth DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"` // ISO 8601
	User      UserDTO `json:"user"`
}

// UserPermissionsDTO tells the frontend which UI areas to enable
// without it re-deriving the role hierarchy
type UserPermissionsDTO struct {
	CanEdit       bool `json:"canEdit"`
	CanManage     bool `json:"canManage"`
	CanAdminister bool `json:"canAdminister"`
}

// CurrentUserResponse is the /auth/me payload
type CurrentUserResponse struct {
	User        UserDTO            `json:"user"`
	Permissions UserPermissionsDTO `json:"permissions"`
}

type RegisterRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Role     UserRole `json:"role,omitempty"`
}

// Request DTOs

type CreateUserRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Role     UserRole `json:"role" validate:"required"`
}

type UpdateUserRequest struct {
	Name   string     `json:"name" validate:"required,max=200"`
	Email  string     `json:"email" validate:"required,email,max=255"`
	Role   UserRole   `json:"role" validate:"required"`
	Status UserStatus `json:"status,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

type CreateClientRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address,omitempty" validate:"max=500"`
	ReuCode  string `json:"reuCode,omitempty" validate:"max=50"`
	Contacts string `json:"contacts,omitempty" validate:"max=500"`
}

type UpdateClientRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address,omitempty" validate:"max=500"`
	ReuCode  string `json:"reuCode,omitempty" validate:"max=50"`
	Contacts string `json:"contacts,omitempty" validate:"max=500"`
}

type CreateSupplierRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address,omitempty" validate:"max=500"`
	ReuCode  string `json:"reuCode,omitempty" validate:"max=50"`
	Contacts string `json:"contacts,omitempty" validate:"max=500"`
}

type UpdateSupplierRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address,omitempty" validate:"max=500"`
	ReuCode  string `json:"reuCode,omitempty" validate:"max=50"`
	Contacts string `json:"contacts,omitempty" validate:"max=500"`
}

type CreateSignerRequest struct {
	CompanyID   uuid.UUID   `json:"companyId" validate:"required"`
	CompanyType CompanyType `json:"companyType" validate:"required,oneof=client supplier"`
	FirstName   string      `json:"firstName" validate:"required,max=100"`
	LastName    string      `json:"lastName" validate:"required,max=100"`
	Position    string      `json:"position,omitempty" validate:"max=100"`
	Phone       string      `json:"phone,omitempty" validate:"max=50"`
	Email       string      `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

type UpdateSignerRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Position  string `json:"position,omitempty" validate:"max=100"`
	Phone     string `json:"phone,omitempty" validate:"max=50"`
	Email     string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

type CreateContractRequest struct {
	ContractNumber   string         `json:"contractNumber" validate:"required,max=50"`
	Title            string         `json:"title" validate:"required,max=200"`
	ClientID         uuid.UUID      `json:"clientId" validate:"required"`
	SupplierID       uuid.UUID      `json:"supplierId" validate:"required"`
	ClientSignerID   *uuid.UUID     `json:"clientSignerId,omitempty"`
	SupplierSignerID *uuid.UUID     `json:"supplierSignerId,omitempty"`
	StartDate        time.Time      `json:"startDate" validate:"required"`
	EndDate          time.Time      `json:"endDate" validate:"required"`
	Amount           float64        `json:"amount" validate:"gte=0"`
	Type             ContractType   `json:"type" validate:"required"`
	Status           ContractStatus `json:"status,omitempty"`
	Description      string         `json:"description,omitempty"`
}

type UpdateContractRequest struct {
	Title            string         `json:"title" validate:"required,max=200"`
	ClientSignerID   *uuid.UUID     `json:"clientSignerId,omitempty"`
	SupplierSignerID *uuid.UUID     `json:"supplierSignerId,omitempty"`
	StartDate        time.Time      `json:"startDate" validate:"required"`
	EndDate          time.Time      `json:"endDate" validate:"required"`
	Amount           float64        `json:"amount" validate:"gte=0"`
	Type             ContractType   `json:"type" validate:"required"`
	Status           ContractStatus `json:"status" validate:"required"`
	Description      string         `json:"description,omitempty"`
}

type CreateSupplementRequest struct {
	SupplementNumber string     `json:"supplementNumber" validate:"required,max=50"`
	Description      string     `json:"description,omitempty"`
	EffectiveDate    time.Time  `json:"effectiveDate" validate:"required"`
	Modifications    string     `json:"modifications,omitempty"`
	ClientSignerID   *uuid.UUID `json:"clientSignerId,omitempty"`
	SupplierSignerID *uuid.UUID `json:"supplierSignerId,omitempty"`
}

type UpdateSupplementRequest struct {
	Description      string           `json:"description,omitempty"`
	EffectiveDate    time.Time        `json:"effectiveDate" validate:"required"`
	Modifications    string           `json:"modifications,omitempty"`
	Status           SupplementStatus `json:"status" validate:"required"`
	ClientSignerID   *uuid.UUID       `json:"clientSignerId,omitempty"`
	SupplierSignerID *uuid.UUID       `json:"supplierSignerId,omitempty"`
}

type UpdateNotificationSettingsRequest struct {
	Enabled    *bool    `json:"enabled,omitempty"`
	Thresholds []int    `json:"thresholds,omitempty" validate:"omitempty,min=1,dive,gt=0"`
	Recipients []string `json:"recipients,omitempty" validate:"omitempty,dive,email"`
}

// Report DTOs

// StatusCountDTO holds a status bucket with its share of the total.
// Percent is rounded to one decimal place and is 0 when the total is 0.
type StatusCountDTO struct {
	Status  ContractStatus `json:"status"`
	Count   int            `json:"count"`
	Percent float64        `json:"percent"`
}

// StatusDistributionDTO is the contract status report
type StatusDistributionDTO struct {
	Total    int              `json:"total"`
	ByStatus []StatusCountDTO `json:"byStatus"`
}

// PartyAggregateDTO holds contract count and total value for one client or supplier
type PartyAggregateDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ChartLabel string    `json:"chartLabel"`
	Count      int       `json:"count"`
	TotalValue float64   `json:"totalValue"`
}

// PartyReportDTO groups contracts by client and by supplier,
// each sorted by total value descending
type PartyReportDTO struct {
	Clients      []PartyAggregateDTO `json:"clients"`
	Suppliers    []PartyAggregateDTO `json:"suppliers"`
	TopClients   []PartyAggregateDTO `json:"topClients"`
	TopSuppliers []PartyAggregateDTO `json:"topSuppliers"`
}

// ExpirationBucketsDTO partitions active contracts into urgency buckets
// keyed on days until expiration
type ExpirationBucketsDTO struct {
	Expired   []ContractDTO `json:"expired"`   // already past end date
	Critical  []ContractDTO `json:"critical"`  // 0-7 days
	Warning   []ContractDTO `json:"warning"`   // 8-15 days
	Attention []ContractDTO `json:"attention"` // 16-30 days
	Safe      []ContractDTO `json:"safe"`      // 31-60 days
	LongTerm  []ContractDTO `json:"longTerm"`  // beyond 60 days
}

// TypeAmountDTO holds the total contract value for one contract type
type TypeAmountDTO struct {
	Type  ContractType `json:"type"`
	Count int          `json:"count"`
	Total float64      `json:"total"`
}

// MonthlyAmountDTO holds aggregated value for one calendar month
type MonthlyAmountDTO struct {
	Month string  `json:"month"` // YYYY-MM
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// FinancialReportDTO is the financial summary report
type FinancialReportDTO struct {
	TotalValue    float64            `json:"totalValue"`
	ActiveValue   float64            `json:"activeValue"`
	AverageValue  float64            `json:"averageValue"`
	MaxValue      float64            `json:"maxValue"`
	MinValue      float64            `json:"minValue"`
	ByType        []TypeAmountDTO    `json:"byType"`
	MonthlyTrend  []MonthlyAmountDTO `json:"monthlyTrend"`
	ContractCount int                `json:"contractCount"`
}

// SupplementStatusCountDTO holds a supplement status bucket
type SupplementStatusCountDTO struct {
	Status  SupplementStatus `json:"status"`
	Count   int              `json:"count"`
	Percent float64          `json:"percent"`
}

// ContractSupplementsDTO aggregates supplements under one contract.
// The Latest* fields describe the most recently updated supplement.
type ContractSupplementsDTO struct {
	ContractID          uuid.UUID `json:"contractId"`
	ContractNumber      string    `json:"contractNumber"`
	ContractTitle       string    `json:"contractTitle"`
	Count               int       `json:"count"`
	LatestAt            string    `json:"latestAt"` // ISO 8601
	LatestNumber        string    `json:"latestNumber"`
	LatestModifications string    `json:"latestModifications,omitempty"`
}

// SupplementReportDTO is the supplement activity report
type SupplementReportDTO struct {
	Total        int                        `json:"total"`
	ByStatus     []SupplementStatusCountDTO `json:"byStatus"`
	ByContract   []ContractSupplementsDTO   `json:"byContract"`
	MonthlyTrend []MonthlyAmountDTO         `json:"monthlyTrend"`
}

// ModificationReportDTO lists contracts with supplements, each entry
// carrying the latest supplement's number, date and modifications text
type ModificationReportDTO struct {
	TotalSupplements  int                      `json:"totalSupplements"`
	ModifiedContracts int                      `json:"modifiedContracts"`
	Contracts         []ContractSupplementsDTO `json:"contracts"`
}
