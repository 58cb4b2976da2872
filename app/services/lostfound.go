package services

import (
	"context"
	"strings"
	"time"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/repositories"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/metrics"
	"gorm.io/gorm"
)

// Defaults for blank lost-item report fields.
const (
	DefaultLostTitle       = "Unknown Item"
	DefaultLostDescription = "No description provided."
	DefaultLostLocation    = "Unknown Location"
	DefaultLostCustody     = "With Mediator"
)

// LostItemInput is the anonymous report form.
type LostItemInput struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Location    string `form:"location"`
	Custody     string `form:"custody"`
}

// LostItemView is a lost item ready for display.
type LostItemView struct {
	models.LostItem
	ImageURL string `json:"image_url,omitempty"`
}

// ClaimView is a pending claim with its item.
type ClaimView struct {
	repositories.ClaimRow
	ItemImageURL string `json:"item_image_url,omitempty"`
}

// LostStats summarises recoveries.
type LostStats struct {
	RecoveredThisWeek int64 `json:"recovered_this_week"`
	TotalRecovered    int64 `json:"total_recovered"`
}

// LostFound runs lost-item reports and ownership claims.
type LostFound struct {
	db     *gorm.DB
	items  *repositories.LostItemRepository
	claims *repositories.ClaimRepository
	images *ImageStore
}

func NewLostFound(db *gorm.DB, images *ImageStore) *LostFound {
	return &LostFound{
		db:     db,
		items:  repositories.NewLostItemRepository(db),
		claims: repositories.NewClaimRepository(db),
		images: images,
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// Report records a found item. No login is needed. The image, if any, is
// checked before anything is stored.
func (s *LostFound) Report(ctx context.Context, in LostItemInput, up *Upload) (*models.LostItem, error) {
	var image *string
	if up != nil {
		ext, err := s.images.Check(up)
		if err != nil {
			return nil, err
		}
		name, err := s.images.Save(ctx, up, ext)
		if err != nil {
			return nil, err
		}
		image = &name
	}

	item := &models.LostItem{
		Title:       orDefault(in.Title, DefaultLostTitle),
		Description: orDefault(in.Description, DefaultLostDescription),
		Location:    orDefault(in.Location, DefaultLostLocation),
		Custody:     orDefault(in.Custody, DefaultLostCustody),
		Image:       image,
	}
	if err := s.items.Create(ctx, item); err != nil {
		if image != nil {
			s.images.discard(ctx, *image)
		}
		return nil, err
	}
	return item, nil
}

// OpenItems lists unrecovered items newest first. limit <= 0 lists all.
func (s *LostFound) OpenItems(ctx context.Context, limit int) ([]LostItemView, error) {
	items, err := s.items.Open(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LostItemView, 0, len(items))
	for _, it := range items {
		v := LostItemView{LostItem: it}
		if it.Image != nil {
			v.ImageURL = s.images.URL(*it.Image)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *LostFound) CountOpen(ctx context.Context) (int64, error) {
	return s.items.CountOpen(ctx)
}

// Stats counts approved claims filed in the seven days before now, and in
// total.
func (s *LostFound) Stats(ctx context.Context, now time.Time) (LostStats, error) {
	week, err := s.claims.CountApproved(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		return LostStats{}, err
	}
	total, err := s.claims.CountApproved(ctx, time.Time{})
	if err != nil {
		return LostStats{}, err
	}
	return LostStats{RecoveredThisWeek: week, TotalRecovered: total}, nil
}

// Claim files a pending ownership claim. The item itself is not changed.
func (s *LostFound) Claim(ctx context.Context, requester *models.User, itemID uint, proof string) (*models.ClaimRequest, error) {
	if requester == nil {
		return nil, ErrAuthenticationRequired
	}
	if itemID == 0 {
		return nil, invalid("item_id", "Pick the item you are claiming.")
	}
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return nil, invalid("proof", "Describe something only the owner would know.")
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Recovered() {
		return nil, invalid("item_id", "This item has already been returned to its owner.")
	}

	c := &models.ClaimRequest{
		ItemID:         item.ID,
		RequesterEmail: requester.Email,
		ProofDetails:   proof,
		Status:         models.ClaimPending,
	}
	if err := s.claims.Create(ctx, c); err != nil {
		return nil, err
	}
	metrics.Claims.WithLabelValues("filed").Inc()
	return c, nil
}

// ApproveClaim approves a pending claim and marks its item recovered in one
// transaction. Approving an approved claim is a no-op.
func (s *LostFound) ApproveClaim(ctx context.Context, p auth.Principal, claimID uint) error {
	if !p.Can(auth.CapModerate) {
		return ErrAuthorizationDenied
	}

	approved := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claims := repositories.NewClaimRepository(tx)
		c, err := claims.FindByID(ctx, claimID)
		if err != nil {
			return err
		}
		switch c.Status {
		case models.ClaimApproved:
			return nil
		case models.ClaimRejected:
			return ErrInvalidTransition
		}

		changed, err := claims.Transition(ctx, claimID, models.ClaimPending, models.ClaimApproved)
		if err != nil {
			return err
		}
		if !changed {
			return ErrInvalidTransition
		}
		if err := repositories.NewLostItemRepository(tx).MarkRecovered(ctx, c.ItemID); err != nil {
			return err
		}
		approved = true
		return nil
	})
	if err != nil {
		return err
	}
	if approved {
		metrics.Claims.WithLabelValues("approved").Inc()
	}
	return nil
}

// RejectClaim rejects a pending claim. The item stays open for other
// claims. Rejecting a rejected claim is a no-op.
func (s *LostFound) RejectClaim(ctx context.Context, p auth.Principal, claimID uint) error {
	if !p.Can(auth.CapModerate) {
		return ErrAuthorizationDenied
	}

	c, err := s.claims.FindByID(ctx, claimID)
	if err != nil {
		return err
	}
	switch c.Status {
	case models.ClaimRejected:
		return nil
	case models.ClaimApproved:
		return ErrInvalidTransition
	}

	changed, err := s.claims.Transition(ctx, claimID, models.ClaimPending, models.ClaimRejected)
	if err != nil {
		return err
	}
	if !changed {
		return ErrInvalidTransition
	}
	metrics.Claims.WithLabelValues("rejected").Inc()
	return nil
}

// PendingClaims lists pending claims newest first.
func (s *LostFound) PendingClaims(ctx context.Context) ([]ClaimView, error) {
	rows, err := s.claims.Pending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ClaimView, 0, len(rows))
	for _, row := range rows {
		v := ClaimView{ClaimRow: row}
		if row.ItemImage != nil {
			v.ItemImageURL = s.images.URL(*row.ItemImage)
		}
		out = append(out, v)
	}
	return out, nil
}
