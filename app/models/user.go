package models

import "time"

// User types.
const (
	UserTypeBuyer  = "buyer"
	UserTypeSeller = "seller"
)

// User is a campus member. Rows are never deleted. Seller status is derived
// from UserType, RegNumber and IsVerified only.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	PasswordHash *string    `gorm:"column:password_hash" json:"-"`
	RegNumber    *string    `json:"reg_number,omitempty"`
	Whatsapp     *string    `json:"whatsapp,omitempty"`
	DisplayName  *string    `json:"display_name,omitempty"`
	LegalName    *string    `json:"legal_name,omitempty"`
	UserType     string     `gorm:"size:16;not null;default:buyer" json:"user_type"`
	IDProofLink  *string    `gorm:"column:id_proof_link" json:"id_proof_link,omitempty"`
	SocialLink   *string    `json:"social_link,omitempty"`
	IsVerified   int        `gorm:"not null;default:0" json:"is_verified"`
	CreatedAt    *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
}

func (User) TableName() string { return "users" }

// Verified reports is_verified = 1.
func (u User) Verified() bool { return u.IsVerified == 1 }

func (u User) IsSeller() bool { return u.UserType == UserTypeSeller }

// HasProfile reports whether a seller profile (registration number) was
// submitted.
func (u User) HasProfile() bool { return present(u.RegNumber) }

// HasPassword is false for legacy accounts created before passwords.
func (u User) HasPassword() bool { return present(u.PasswordHash) }

func present(s *string) bool { return s != nil && *s != "" }
