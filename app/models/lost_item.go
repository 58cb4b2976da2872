package models

import "time"

// LostItem is a found object held for its owner.
type LostItem struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"not null" json:"description"`
	Location    string     `gorm:"not null" json:"location"`
	Custody     string     `gorm:"not null" json:"custody"`
	Image       *string    `json:"image,omitempty"`
	IsRecovered int        `gorm:"not null;default:0" json:"is_recovered"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
}

func (LostItem) TableName() string { return "lost_items" }

func (i LostItem) Recovered() bool { return i.IsRecovered == 1 }
