package models

import "time"

// Claim statuses. A claim only moves from pending to approved or rejected.
const (
	ClaimPending  = "pending"
	ClaimApproved = "approved"
	ClaimRejected = "rejected"
)

// ClaimRequest is an ownership claim on a LostItem.
type ClaimRequest struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ItemID         uint      `gorm:"not null;index" json:"item_id"`
	Item           *LostItem `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	RequesterEmail string    `gorm:"not null" json:"requester_email"`
	ProofDetails   string    `gorm:"not null" json:"proof_details"`
	Status         string    `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ClaimRequest) TableName() string { return "claim_requests" }
