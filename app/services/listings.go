package services

import (
	"context"
	"strings"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/repositories"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/logger"
	"github.com/hustlcampus/hustl/pkg/metrics"
	"gorm.io/gorm"
)

// ListingInput is the create-listing form.
type ListingInput struct {
	Title    string `form:"title"`
	Brand    string `form:"brand"`
	Price    string `form:"price"`
	Whatsapp string `form:"whatsapp"`
}

// ListingView is a listing ready for display.
type ListingView struct {
	models.Listing
	SellerDisplay string  `json:"seller_display"`
	SellerLegal   *string `json:"seller_legal_name,omitempty"`
	ImageURL      string  `json:"image_url"`
}

// ListingDetail is one listing with the seller's other active listings.
type ListingDetail struct {
	Listing        ListingView   `json:"listing"`
	MoreFromSeller []ListingView `json:"more_from_seller"`
}

// SellerDashboard is a seller's own view of their listings.
type SellerDashboard struct {
	Seller   *models.User  `json:"seller"`
	State    SellerState   `json:"state"`
	Listings []ListingView `json:"listings"`
}

// PublicSeller is what anyone may see about a verified seller.
type PublicSeller struct {
	ID          uint    `json:"id"`
	DisplayName string  `json:"display_name"`
	Whatsapp    *string `json:"whatsapp,omitempty"`
	SocialLink  *string `json:"social_link,omitempty"`
}

// SellerProfile is a verified seller with their active listings.
type SellerProfile struct {
	Seller   PublicSeller  `json:"seller"`
	Listings []ListingView `json:"listings"`
}

// Listings runs the listing lifecycle: active, sold, deleted.
type Listings struct {
	listings *repositories.ListingRepository
	users    *repositories.UserRepository
	images   *ImageStore
}

func NewListings(db *gorm.DB, images *ImageStore) *Listings {
	return &Listings{
		listings: repositories.NewListingRepository(db),
		users:    repositories.NewUserRepository(db),
		images:   images,
	}
}

// Create lists an item for a verified seller. Nothing is written when the
// seller is not allowed or the image is rejected.
func (s *Listings) Create(ctx context.Context, seller *models.User, in ListingInput, up *Upload) (*models.Listing, error) {
	if seller == nil {
		return nil, ErrAuthenticationRequired
	}
	if !seller.Verified() || !seller.IsSeller() {
		return nil, ErrAuthorizationDenied
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title", "Give your listing a title.")
	}

	var ext string
	if up != nil {
		var err error
		if ext, err = s.images.Check(up); err != nil {
			return nil, err
		}
	}

	image := models.DefaultImage
	if up != nil {
		name, err := s.images.Save(ctx, up, ext)
		if err != nil {
			return nil, err
		}
		image = name
	}

	brand := nullable(in.Brand)
	if brand == nil {
		brand = seller.DisplayName
	}
	whatsapp := nullable(in.Whatsapp)
	if whatsapp == nil {
		whatsapp = seller.Whatsapp
	}
	sellerID := seller.ID

	l := &models.Listing{
		Title:       strings.TrimSpace(in.Title),
		Brand:       brand,
		Price:       nullable(in.Price),
		Whatsapp:    whatsapp,
		Image:       image,
		SellerBrand: seller.DisplayName,
		UserID:      &sellerID,
	}
	if err := s.listings.Create(ctx, l); err != nil {
		s.images.discard(ctx, image)
		return nil, err
	}

	metrics.Listings.WithLabelValues("created").Inc()
	return l, nil
}

// Feed returns active listings newest first.
func (s *Listings) Feed(ctx context.Context, limit int) ([]ListingView, error) {
	rows, err := s.listings.Active(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.views(rows, FallbackSeller), nil
}

func (s *Listings) Detail(ctx context.Context, id uint) (*ListingDetail, error) {
	row, err := s.listings.Row(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &ListingDetail{Listing: s.view(*row, FallbackSeller), MoreFromSeller: []ListingView{}}
	if row.UserID != nil {
		more, err := s.listings.ActiveBySeller(ctx, *row.UserID, row.ID)
		if err != nil {
			return nil, err
		}
		d.MoreFromSeller = s.views(more, FallbackSeller)
	}
	return d, nil
}

// MarkSold is allowed for the listing's seller and for moderators. Marking
// a sold listing again changes nothing.
func (s *Listings) MarkSold(ctx context.Context, p auth.Principal, id uint) error {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !l.OwnedBy(p.UserID) && !p.Can(auth.CapModerate) {
		return ErrAuthorizationDenied
	}
	if l.Sold() {
		return nil
	}

	if err := s.listings.MarkSold(ctx, id); err != nil {
		return err
	}
	metrics.Listings.WithLabelValues("sold").Inc()
	return nil
}

// Delete removes a listing and then its image. An image that cannot be
// removed is logged; the row stays deleted.
func (s *Listings) Delete(ctx context.Context, p auth.Principal, id uint) error {
	if !p.Can(auth.CapModerate) {
		return ErrAuthorizationDenied
	}
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.images.Remove(ctx, l.Image); err != nil {
		logger.WithCtx(ctx).Error("delete listing image", "listing_id", id, "image", l.Image, "error", err)
	}
	metrics.Listings.WithLabelValues("deleted").Inc()
	return nil
}

// Dashboard lists every listing of a seller.
func (s *Listings) Dashboard(ctx context.Context, u *models.User) (*SellerDashboard, error) {
	if u == nil {
		return nil, ErrAuthenticationRequired
	}
	if !u.IsSeller() {
		return nil, ErrAuthorizationDenied
	}
	rows, err := s.listings.BySeller(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &SellerDashboard{Seller: u, State: StateOf(u), Listings: s.views(rows, FallbackSeller)}, nil
}

// Profile is the public page of a verified seller. Unverified sellers are
// reported as not found.
func (s *Listings) Profile(ctx context.Context, userID uint) (*SellerProfile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Verified() || !u.IsSeller() {
		return nil, ErrNotFound
	}

	rows, err := s.listings.ActiveBySeller(ctx, u.ID, 0)
	if err != nil {
		return nil, err
	}
	return &SellerProfile{
		Seller: PublicSeller{
			ID:          u.ID,
			DisplayName: ResolveDisplayName(FallbackSeller, u.DisplayName),
			Whatsapp:    u.Whatsapp,
			SocialLink:  u.SocialLink,
		},
		Listings: s.views(rows, FallbackSeller),
	}, nil
}

// All lists every listing for moderation.
func (s *Listings) All(ctx context.Context, fallback string) ([]ListingView, error) {
	rows, err := s.listings.All(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(rows, fallback), nil
}

func (s *Listings) view(row repositories.ListingRow, fallback string) ListingView {
	return ListingView{
		Listing:       row.Listing,
		SellerDisplay: ResolveDisplayName(fallback, row.SellerName, row.SellerBrand, row.SellerEmail),
		SellerLegal:   row.SellerLegal,
		ImageURL:      s.images.URL(row.Image),
	}
}

func (s *Listings) views(rows []repositories.ListingRow, fallback string) []ListingView {
	out := make([]ListingView, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.view(row, fallback))
	}
	return out
}
