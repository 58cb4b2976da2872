package models

import "time"

// DefaultImage is stored for listings created without a picture.
const DefaultImage = "default.png"

// Listing is an item for sale. UserID is a weak reference: the seller row
// may be missing for legacy listings.
type Listing struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Brand       *string    `json:"brand,omitempty"`
	Price       *string    `json:"price,omitempty"`
	Whatsapp    *string    `json:"whatsapp,omitempty"`
	Image       string     `gorm:"not null;default:default.png" json:"image"`
	IsSold      int        `gorm:"not null;default:0" json:"is_sold"`
	SellerBrand *string    `json:"seller_brand,omitempty"`
	UserID      *uint      `gorm:"index" json:"user_id,omitempty"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
}

func (Listing) TableName() string { return "market_items" }

func (l Listing) Sold() bool { return l.IsSold == 1 }

// OwnedBy reports whether userID is the recorded seller.
func (l Listing) OwnedBy(userID uint) bool {
	return l.UserID != nil && userID != 0 && *l.UserID == userID
}
