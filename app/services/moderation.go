package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/metrics"
)

// AdminDashboard is the moderation overview.
type AdminDashboard struct {
	PendingUsers  []models.User `json:"pending_users"`
	Listings      []ListingView `json:"listings"`
	PendingClaims []ClaimView   `json:"pending_claims"`
	TotalUsers    int64         `json:"total_users"`
	ActiveReports int64         `json:"active_reports"`
}

// Moderation is the admin entry point. Every method checks the moderation
// capability of the principal it is given.
type Moderation struct {
	directory    *Directory
	verification *Verification
	listings     *Listings
	lostFound    *LostFound
	tokens       *auth.Tokens
	username     string
	password     string
}

// AdminCredentials are the configured admin username and password. Leaving
// either empty disables admin login.
type AdminCredentials struct {
	Username string
	Password string
}

func NewModeration(d *Directory, v *Verification, l *Listings, lf *LostFound, tokens *auth.Tokens, creds AdminCredentials) *Moderation {
	return &Moderation{
		directory:    d,
		verification: v,
		listings:     l,
		lostFound:    lf,
		tokens:       tokens,
		username:     creds.Username,
		password:     creds.Password,
	}
}

func digestEqual(a, b string) bool {
	x, y := sha256.Sum256([]byte(a)), sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(x[:], y[:]) == 1
}

// Login exchanges the admin credentials for a signed capability token.
func (m *Moderation) Login(username, password string) (string, error) {
	if m.username == "" || m.password == "" {
		metrics.Logins.WithLabelValues("admin", "disabled").Inc()
		return "", ErrInvalidCredentials
	}

	userOK := digestEqual(username, m.username)
	passOK := digestEqual(password, m.password)
	if !userOK || !passOK {
		metrics.Logins.WithLabelValues("admin", "failed").Inc()
		return "", ErrInvalidCredentials
	}

	token, err := m.tokens.Issue(m.username, auth.CapModerate)
	if err != nil {
		metrics.Logins.WithLabelValues("admin", "disabled").Inc()
		return "", ErrInvalidCredentials
	}
	metrics.Logins.WithLabelValues("admin", "ok").Inc()
	return token, nil
}

// Capabilities returns the capabilities carried by a valid token, or nil.
func (m *Moderation) Capabilities(token string) []auth.Capability {
	if token == "" {
		return nil
	}
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return claims.Caps
}

func (m *Moderation) Dashboard(ctx context.Context, p auth.Principal) (*AdminDashboard, error) {
	if !p.Can(auth.CapModerate) {
		return nil, ErrAuthorizationDenied
	}

	d := &AdminDashboard{}
	var err error
	if d.PendingUsers, err = m.verification.PendingVerifications(ctx); err != nil {
		return nil, err
	}
	if d.Listings, err = m.listings.All(ctx, FallbackSeller); err != nil {
		return nil, err
	}
	if d.PendingClaims, err = m.lostFound.PendingClaims(ctx); err != nil {
		return nil, err
	}
	if d.TotalUsers, err = m.directory.Count(ctx); err != nil {
		return nil, err
	}
	if d.ActiveReports, err = m.lostFound.CountOpen(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (m *Moderation) Users(ctx context.Context, p auth.Principal) ([]models.User, error) {
	if !p.Can(auth.CapModerate) {
		return nil, ErrAuthorizationDenied
	}
	return m.directory.All(ctx)
}

// Items lists every listing with the seller's legal name, falling back to
// "Unknown" for the seller display.
func (m *Moderation) Items(ctx context.Context, p auth.Principal) ([]ListingView, error) {
	if !p.Can(auth.CapModerate) {
		return nil, ErrAuthorizationDenied
	}
	return m.listings.All(ctx, FallbackAdmin)
}

// PendingCounts is the short summary shown to admins on the home page.
func (m *Moderation) PendingCounts(ctx context.Context, p auth.Principal) (users, claims int, err error) {
	if !p.Can(auth.CapModerate) {
		return 0, 0, ErrAuthorizationDenied
	}
	pendingUsers, err := m.verification.PendingVerifications(ctx)
	if err != nil {
		return 0, 0, err
	}
	pendingClaims, err := m.lostFound.PendingClaims(ctx)
	if err != nil {
		return 0, 0, err
	}
	return len(pendingUsers), len(pendingClaims), nil
}

func (m *Moderation) VerifySeller(ctx context.Context, p auth.Principal, userID uint) error {
	return m.verification.AdminVerify(ctx, p, userID)
}

func (m *Moderation) DeleteListing(ctx context.Context, p auth.Principal, id uint) error {
	return m.listings.Delete(ctx, p, id)
}

func (m *Moderation) ApproveClaim(ctx context.Context, p auth.Principal, claimID uint) error {
	return m.lostFound.ApproveClaim(ctx, p, claimID)
}

func (m *Moderation) RejectClaim(ctx context.Context, p auth.Principal, claimID uint) error {
	return m.lostFound.RejectClaim(ctx, p, claimID)
}
