package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/repositories"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/logger"
	"github.com/hustlcampus/hustl/pkg/metrics"
	"github.com/hustlcampus/hustl/pkg/validate"
	"gorm.io/gorm"
)

// Profile is the seller profile a user submits for verification.
type Profile struct {
	DisplayName string `form:"display_name"`
	LegalName   string `form:"legal_name"`
	RegNumber   string `form:"reg_number"`
	Whatsapp    string `form:"whatsapp"`
	IDProofLink string `form:"id_proof_link"`
	SocialLink  string `form:"social_link"`
}

func (p Profile) columns() map[string]any {
	return map[string]any{
		"display_name":  nullable(p.DisplayName),
		"legal_name":    nullable(p.LegalName),
		"reg_number":    nullable(p.RegNumber),
		"whatsapp":      nullable(p.Whatsapp),
		"id_proof_link": nullable(p.IDProofLink),
		"social_link":   nullable(p.SocialLink),
	}
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Directory is the user directory: lookup, signup and password login.
type Directory struct {
	users *repositories.UserRepository
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{users: repositories.NewUserRepository(db)}
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.users.FindByEmail(ctx, email)
}

func (d *Directory) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return d.users.FindByID(ctx, id)
}

type emailInput struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

// Create adds a user without a password. An email already on file in any
// letter case gives ErrAlreadyRegistered.
func (d *Directory) Create(ctx context.Context, email, userType string) (*models.User, error) {
	email = repositories.NormalizeEmail(email)
	if validate.Struct(emailInput{Email: email}).Has() {
		return nil, invalid("email", "Please enter a valid email address.")
	}
	if userType != models.UserTypeSeller {
		userType = models.UserTypeBuyer
	}

	_, err := d.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrAlreadyRegistered
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	u := &models.User{Email: email, UserType: userType}
	if err := d.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (d *Directory) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	return d.users.SetPassword(ctx, userID, hash)
}

// UpdateProfile stores p and puts the user back into the verification
// queue.
func (d *Directory) UpdateProfile(ctx context.Context, userID uint, p Profile) error {
	return d.users.SaveProfile(ctx, userID, p.columns())
}

// silentHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
var silentHash, _ = auth.HashPassword("hustl-timing-equaliser")

// Authenticate checks email and password. It never grants access to an
// account without a password; such callers get ErrPasswordNotSet and are
// sent to signup.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := d.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		auth.CheckPassword(silentHash, password)
		metrics.Logins.WithLabelValues("user", "unknown").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !u.HasPassword() {
		metrics.Logins.WithLabelValues("user", "no_password").Inc()
		return nil, ErrPasswordNotSet
	}
	if !auth.CheckPassword(*u.PasswordHash, password) {
		metrics.Logins.WithLabelValues("user", "failed").Inc()
		return nil, ErrInvalidCredentials
	}
	if auth.NeedsRehash(*u.PasswordHash) {
		d.rehash(ctx, u, password)
	}

	metrics.Logins.WithLabelValues("user", "ok").Inc()
	return u, nil
}

// rehash replaces a werkzeug hash with bcrypt. A failure is logged and the
// login still succeeds; the old hash keeps working.
func (d *Directory) rehash(ctx context.Context, u *models.User, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = d.UpdatePassword(ctx, u.ID, hash)
	}
	if err != nil {
		logger.WithCtx(ctx).Warn("password rehash failed", "user_id", u.ID, "error", err)
		return
	}
	u.PasswordHash = &hash
}

type signupInput struct {
	Email    string `form:"email"    validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,max=72"`
	Confirm  string `form:"confirm"  validate:"same=password"`
}

var signupNotices = map[string]string{
	"email":    "Please enter a valid email address.",
	"password": "Please choose a password (at most 72 characters).",
	"confirm":  "Passwords do not match.",
}

// Signup registers email with a password. A legacy account that exists
// without a password is claimed by setting one.
func (d *Directory) Signup(ctx context.Context, email, password, confirm string) (*models.User, error) {
	in := signupInput{Email: repositories.NormalizeEmail(email), Password: password, Confirm: confirm}
	if errs := validate.Struct(in); errs.Has() {
		f := errs.First().Field
		return nil, invalid(f, signupNotices[f])
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	existing, err := d.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing.HasPassword():
		return nil, ErrAlreadyRegistered
	case err == nil:
		// legacy account without a password
	case errors.Is(err, repositories.ErrNotFound):
		if existing, err = d.Create(ctx, in.Email, models.UserTypeBuyer); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := d.UpdatePassword(ctx, existing.ID, hash); err != nil {
		return nil, err
	}
	existing.PasswordHash = &hash
	return existing, nil
}

func (d *Directory) All(ctx context.Context) ([]models.User, error) { return d.users.All(ctx) }

func (d *Directory) Count(ctx context.Context) (int64, error) { return d.users.Count(ctx) }
