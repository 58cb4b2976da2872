package services

import (
	"context"
	"strings"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/repositories"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/metrics"
	"gorm.io/gorm"
)

// SellerState is where a user stands in seller verification.
type SellerState string

const (
	StateBuyer             SellerState = "buyer"
	StateSellerUnsubmitted SellerState = "seller_unsubmitted"
	StateSellerPending     SellerState = "seller_pending"
	StateSellerVerified    SellerState = "seller_verified"
)

// StateOf derives the verification state from the stored flags.
func StateOf(u *models.User) SellerState {
	switch {
	case u.Verified():
		return StateSellerVerified
	case u.HasProfile():
		return StateSellerPending
	case u.IsSeller():
		return StateSellerUnsubmitted
	default:
		return StateBuyer
	}
}

// Step is the next page for a user entering the marketplace.
type Step string

const (
	StepMarketplace   Step = "marketplace"
	StepSubmitProfile Step = "submit_profile"
	StepAwaitApproval Step = "await_approval"
	StepDashboard     Step = "dashboard"
)

// Desired roles accepted by EnterProtocol.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// Verification runs the seller verification workflow.
// Profile writes go through the Directory.
type Verification struct {
	users     *repositories.UserRepository
	directory *Directory
}

func NewVerification(db *gorm.DB, directory *Directory) *Verification {
	return &Verification{users: repositories.NewUserRepository(db), directory: directory}
}

// NormalizeRole lower-cases role and reports whether it is known.
func NormalizeRole(role string) (string, bool) {
	role = strings.ToLower(strings.TrimSpace(role))
	return role, role == RoleBuyer || role == RoleSeller
}

// EnterProtocol decides where u goes after choosing a role. Buyers browse
// without verification.
func (v *Verification) EnterProtocol(_ context.Context, u *models.User, desiredRole string) (Step, error) {
	if u == nil {
		return "", ErrAuthenticationRequired
	}
	role, ok := NormalizeRole(desiredRole)
	if !ok {
		return "", invalid("role", "Choose either buyer or seller.")
	}
	if role == RoleBuyer {
		return StepMarketplace, nil
	}

	switch StateOf(u) {
	case StateSellerVerified:
		return StepDashboard, nil
	case StateSellerPending:
		return StepAwaitApproval, nil
	default:
		return StepSubmitProfile, nil
	}
}

// SubmitProfile stores the seller profile of u and marks it pending. It
// also serves resubmission, which drops an existing verification.
func (v *Verification) SubmitProfile(ctx context.Context, u *models.User, p Profile) error {
	if u == nil {
		return ErrAuthenticationRequired
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return invalid("display_name", "A display name is required.")
	}
	if strings.TrimSpace(p.RegNumber) == "" {
		return invalid("reg_number", "A registration number is required.")
	}

	if err := v.directory.UpdateProfile(ctx, u.ID, p); err != nil {
		return err
	}
	metrics.Verifications.WithLabelValues("submitted").Inc()
	return nil
}

// AdminVerify approves the seller profile of userID.
func (v *Verification) AdminVerify(ctx context.Context, p auth.Principal, userID uint) error {
	if !p.Can(auth.CapModerate) {
		return ErrAuthorizationDenied
	}

	u, err := v.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Verified() {
		return nil
	}
	if !u.HasProfile() {
		return ErrInvalidTransition
	}

	if _, err := v.users.MarkVerified(ctx, userID); err != nil {
		return err
	}
	metrics.Verifications.WithLabelValues("verified").Inc()
	return nil
}

// PendingVerifications lists users with a submitted, unverified profile.
func (v *Verification) PendingVerifications(ctx context.Context) ([]models.User, error) {
	return v.users.Pending(ctx)
}
