// Package services holds the marketplace and lost-and-found workflows.
// Services take the caller as an argument and return the sentinel errors
// in errors.go; they never write HTTP responses.
package services

import (
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/storage"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by all services.
type Deps struct {
	DB                *gorm.DB
	Disk              storage.Disk
	AllowedExtensions []string
	Tokens            *auth.Tokens
	Admin             AdminCredentials
}

// Services bundles every workflow for the controllers.
type Services struct {
	Directory    *Directory
	Verification *Verification
	Listings     *Listings
	LostFound    *LostFound
	Moderation   *Moderation
	Images       *ImageStore
}

func New(d Deps) *Services {
	images := NewImageStore(d.Disk, d.AllowedExtensions)
	directory := NewDirectory(d.DB)
	s := &Services{
		Directory:    directory,
		Verification: NewVerification(d.DB, directory),
		Listings:     NewListings(d.DB, images),
		LostFound:    NewLostFound(d.DB, images),
		Images:       images,
	}
	s.Moderation = NewModeration(s.Directory, s.Verification, s.Listings, s.LostFound, d.Tokens, d.Admin)
	return s
}
