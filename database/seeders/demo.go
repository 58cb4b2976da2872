package seeders

import (
	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/pkg/auth"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "campus-demo"

func init() {
	Register("users", SeedUsers)
	Register("market_items", SeedListings)
	Register("lost_items", SeedLostItems)
}

func str(s string) *string { return &s }

func SeedUsers(db *gorm.DB) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	users := []models.User{
		{
			Email:        "seller@campus.edu",
			PasswordHash: &hash,
			UserType:     models.UserTypeSeller,
			DisplayName:  str("Dorm Deals"),
			LegalName:    str("Sam Seller"),
			RegNumber:    str("REG-1001"),
			Whatsapp:     str("+10000000001"),
			IsVerified:   1,
		},
		{
			Email:        "pending@campus.edu",
			PasswordHash: &hash,
			UserType:     models.UserTypeSeller,
			DisplayName:  str("Book Nook"),
			RegNumber:    str("REG-1002"),
		},
		{
			Email:        "buyer@campus.edu",
			PasswordHash: &hash,
			UserType:     models.UserTypeBuyer,
		},
	}
	for i := range users {
		u := users[i]
		if err := db.Where(models.User{Email: u.Email}).FirstOrCreate(&u).Error; err != nil {
			return err
		}
	}
	return nil
}

func SeedListings(db *gorm.DB) error {
	var seller models.User
	if err := db.Where("email = ?", "seller@campus.edu").First(&seller).Error; err != nil {
		return err
	}

	var n int64
	if err := db.Model(&models.Listing{}).Where("user_id = ?", seller.ID).Count(&n).Error; err != nil || n > 0 {
		return err
	}

	listings := []models.Listing{
		{Title: "Desk Lamp", Price: str("15"), Image: models.DefaultImage},
		{Title: "Mini Fridge", Price: str("80"), Image: models.DefaultImage},
		{Title: "Calculus Textbook", Brand: str("Stewart"), Price: str("25"), Image: models.DefaultImage},
	}
	for i := range listings {
		listings[i].UserID = &seller.ID
		listings[i].SellerBrand = seller.DisplayName
		listings[i].Whatsapp = seller.Whatsapp
		if listings[i].Brand == nil {
			listings[i].Brand = seller.DisplayName
		}
	}
	return db.Create(&listings).Error
}

func SeedLostItems(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.LostItem{}).Count(&n).Error; err != nil || n > 0 {
		return err
	}
	items := []models.LostItem{
		{Title: "Blue Backpack", Description: "Has a keychain shaped like a cat.", Location: "Library, 2nd floor", Custody: "With Mediator"},
		{Title: "Student ID Card", Description: "No description provided.", Location: "Cafeteria", Custody: "Security Desk"},
	}
	return db.Create(&items).Error
}
