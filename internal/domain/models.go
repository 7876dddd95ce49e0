package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller did not set one.
func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserRole represents a user's role in the permission hierarchy
type UserRole string

const (
	RoleViewer  UserRole = "viewer"
	RoleEditor  UserRole = "editor"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Rank returns the role's position in the strict hierarchy:
// viewer(1) < editor(2) < manager(3) < admin(4). Unknown roles rank 0.
func (r UserRole) Rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleManager:
		return 3
	case RoleAdmin:
		return 4
	}
	return 0
}

// Covers reports whether a holder of this role satisfies the required role.
func (r UserRole) Covers(required UserRole) bool {
	return r.Rank() >= required.Rank()
}

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// IsValid checks if the UserStatus is a valid enum value
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// User represents an account in the system.
// Credentials are stored as bcrypt hashes and never serialized.
type User struct {
	BaseModel
	Name         string     `gorm:"type:varchar(200);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(100);not null;column:password_hash" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'viewer';index"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	LastAccessAt *time.Time `gorm:"column:last_access_at"`
}

// CompanyType distinguishes the two party kinds an authorized signer can belong to
type CompanyType string

const (
	CompanyTypeClient   CompanyType = "client"
	CompanyTypeSupplier CompanyType = "supplier"
)

// IsValid checks if the CompanyType is a valid enum value
func (t CompanyType) IsValid() bool {
	return t == CompanyTypeClient || t == CompanyTypeSupplier
}

// Client represents a contracting client organization
type Client struct {
	BaseModel
	Name         string `gorm:"type:varchar(200);not null;index"`
	Address      string `gorm:"type:varchar(500)"`
	ReuCode      string `gorm:"type:varchar(50);column:reu_code;index"`
	Contacts     string `gorm:"type:varchar(500)"`
	DocumentKey  string `gorm:"type:varchar(500);column:document_key"`
	DocumentName string `gorm:"type:varchar(255);column:document_name"`
	CreatedByID  string `gorm:"type:varchar(100);column:created_by_id"`
}

// Supplier represents a contracting supplier organization
type Supplier struct {
	BaseModel
	Name         string `gorm:"type:varchar(200);not null;index"`
	Address      string `gorm:"type:varchar(500)"`
	ReuCode      string `gorm:"type:varchar(50);column:reu_code;index"`
	Contacts     string `gorm:"type:varchar(500)"`
	DocumentKey  string `gorm:"type:varchar(500);column:document_key"`
	DocumentName string `gorm:"type:varchar(255);column:document_name"`
	CreatedByID  string `gorm:"type:varchar(100);column:created_by_id"`
}

// AuthorizedSigner represents a person authorized to sign contracts on
// behalf of a client or supplier company
type AuthorizedSigner struct {
	BaseModel
	CompanyID    uuid.UUID   `gorm:"type:uuid;not null;index;column:company_id"`
	CompanyType  CompanyType `gorm:"type:varchar(20);not null;index;column:company_type"`
	FirstName    string      `gorm:"type:varchar(100);not null;column:first_name"`
	LastName     string      `gorm:"type:varchar(100);not null;column:last_name"`
	Position     string      `gorm:"type:varchar(100)"`
	Phone        string      `gorm:"type:varchar(50)"`
	Email        string      `gorm:"type:varchar(255)"`
	DocumentKey  string      `gorm:"type:varchar(500);column:document_key"`
	DocumentName string      `gorm:"type:varchar(255);column:document_name"`
	CreatedByID  string      `gorm:"type:varchar(100);column:created_by_id"`
}

// FullName returns the signer's full name
func (s *AuthorizedSigner) FullName() string {
	return s.FirstName + " " + s.LastName
}

// ContractStatus represents the operator-set status of a contract.
// Status is never derived from dates: an active contract past its end
// date stays active until a user reclassifies it.
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusExpired   ContractStatus = "expired"
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// IsValid checks if the ContractStatus is a valid enum value
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusExpired, ContractStatusPending, ContractStatusCancelled:
		return true
	}
	return false
}

// ContractType represents the classification of a contract
type ContractType string

const (
	ContractTypeService     ContractType = "service"
	ContractTypePurchase    ContractType = "purchase"
	ContractTypeLease       ContractType = "lease"
	ContractTypePartnership ContractType = "partnership"
	ContractTypeEmployment  ContractType = "employment"
	ContractTypeOther       ContractType = "other"
)

// IsValid checks if the ContractType is a valid enum value
func (t ContractType) IsValid() bool {
	switch t {
	case ContractTypeService, ContractTypePurchase, ContractTypeLease,
		ContractTypePartnership, ContractTypeEmployment, ContractTypeOther:
		return true
	}
	return false
}

// Contract represents a contract between a client and a supplier
type Contract struct {
	BaseModel
	ContractNumber   string         `gorm:"type:varchar(50);not null;uniqueIndex;column:contract_number"`
	Title            string         `gorm:"type:varchar(200);not null;index"`
	ClientID         uuid.UUID      `gorm:"type:uuid;not null;index;column:client_id"`
	Client           *Client        `gorm:"foreignKey:ClientID"`
	SupplierID       uuid.UUID      `gorm:"type:uuid;not null;index;column:supplier_id"`
	Supplier         *Supplier      `gorm:"foreignKey:SupplierID"`
	ClientSignerID   *uuid.UUID     `gorm:"type:uuid;column:client_signer_id"`
	SupplierSignerID *uuid.UUID     `gorm:"type:uuid;column:supplier_signer_id"`
	StartDate        time.Time      `gorm:"type:date;not null;column:start_date"`
	EndDate          time.Time      `gorm:"type:date;not null;index;column:end_date"`
	Amount           float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Type             ContractType   `gorm:"type:varchar(50);not null;index"`
	Status           ContractStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	Description      string         `gorm:"type:text"`
	CreatedByID      string         `gorm:"type:varchar(100);column:created_by_id"`
	Supplements      []Supplement   `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE"`
	Documents        []Document     `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE"`
}

// SupplementStatus represents the status of a contract supplement
type SupplementStatus string

const (
	SupplementStatusDraft    SupplementStatus = "draft"
	SupplementStatusApproved SupplementStatus = "approved"
	SupplementStatusActive   SupplementStatus = "active"
)

// IsValid checks if the SupplementStatus is a valid enum value
func (s SupplementStatus) IsValid() bool {
	switch s {
	case SupplementStatusDraft, SupplementStatusApproved, SupplementStatusActive:
		return true
	}
	return false
}

// Supplement represents an amendment attached to exactly one contract
type Supplement struct {
	BaseModel
	ContractID       uuid.UUID        `gorm:"type:uuid;not null;index;column:contract_id"`
	Contract         *Contract        `gorm:"foreignKey:ContractID"`
	SupplementNumber string           `gorm:"type:varchar(50);not null;column:supplement_number"`
	Description      string           `gorm:"type:text"`
	EffectiveDate    time.Time        `gorm:"type:date;not null;column:effective_date"`
	Modifications    string           `gorm:"type:text"`
	Status           SupplementStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ClientSignerID   *uuid.UUID       `gorm:"type:uuid;column:client_signer_id"`
	SupplierSignerID *uuid.UUID       `gorm:"type:uuid;column:supplier_signer_id"`
	CreatedByID      string           `gorm:"type:varchar(100);column:created_by_id"`
}

// Document represents an uploaded file attached to a contract
type Document struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	ContractID   uuid.UUID `gorm:"type:uuid;not null;index;column:contract_id"`
	Contract     *Contract `gorm:"foreignKey:ContractID"`
	FileName     string    `gorm:"type:varchar(255);not null;column:file_name"`
	FileType     string    `gorm:"type:varchar(100);column:file_type"`
	FileSize     int64     `gorm:"not null;column:file_size"`
	FileKey      string    `gorm:"type:varchar(500);not null;unique;column:file_key"`
	UploadedByID string    `gorm:"type:varchar(100);column:uploaded_by_id"`
	UploadedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:uploaded_at"`
}

// BeforeCreate assigns an ID when the caller did not set one.
func (d *Document) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// NotificationStatus represents the forward-only lifecycle state of an alert
type NotificationStatus string

const (
	NotificationStatusUnread       NotificationStatus = "unread"
	NotificationStatusRead         NotificationStatus = "read"
	NotificationStatusAcknowledged NotificationStatus = "acknowledged"
)

// Notification represents a derived expiration alert for a contract.
// ContractNumber and ContractTitle are snapshots taken at generation time.
type Notification struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key"`
	ContractID     uuid.UUID          `gorm:"type:uuid;not null;index;column:contract_id"`
	ContractNumber string             `gorm:"type:varchar(50);not null;column:contract_number"`
	ContractTitle  string             `gorm:"type:varchar(200);not null;column:contract_title"`
	Type           string             `gorm:"type:varchar(50);not null;index"`
	Threshold      int                `gorm:"not null"`
	Message        string             `gorm:"type:varchar(500);not null"`
	Status         NotificationStatus `gorm:"type:varchar(20);not null;default:'unread';index"`
	CreatedAt      time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
	ReadAt         *time.Time         `gorm:"column:read_at"`
}

// BeforeCreate assigns an ID when the caller did not set one.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NotificationSettings governs expiration alert generation. Persisted as a
// single row and passed by value to the generator.
type NotificationSettings struct {
	ID         int            `gorm:"primaryKey"`
	Enabled    bool           `gorm:"not null;default:true"`
	Thresholds pq.Int64Array  `gorm:"type:integer[];not null"`
	Recipients pq.StringArray `gorm:"type:text[]"`
	UpdatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// DefaultNotificationSettings returns the builtin generator defaults.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		ID:         1,
		Enabled:    true,
		Thresholds: pq.Int64Array{30, 15, 7},
		Recipients: pq.StringArray{},
	}
}

// SeedNotificationSettings builds a settings row from configured defaults.
// An empty threshold list falls back to the builtin thresholds.
func SeedNotificationSettings(enabled bool, thresholds []int) NotificationSettings {
	settings := DefaultNotificationSettings()
	settings.Enabled = enabled
	if len(thresholds) > 0 {
		ts := make(pq.Int64Array, 0, len(thresholds))
		for _, t := range thresholds {
			ts = append(ts, int64(t))
		}
		settings.Thresholds = ts
	}
	return settings
}

// AuditAction represents the type of audited action
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
	AuditActionExport AuditAction = "export"
)

// AuditLog represents an immutable audit trail entry keyed by contract.
// UserName is snapshotted at write time; renaming a user later does not
// change historical entries.
type AuditLog struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key"`
	ContractID *uuid.UUID  `gorm:"type:uuid;index;column:contract_id"`
	UserID     string      `gorm:"type:varchar(100);not null;column:user_id"`
	UserName   string      `gorm:"type:varchar(200);not null;column:user_name"`
	Action     AuditAction `gorm:"type:varchar(50);not null"`
	Details    string      `gorm:"type:text"`
	CreatedAt  time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// BeforeCreate assigns an ID when the caller did not set one.
func (l *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
