package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/services"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReportDefaults(t *testing.T) {
	e := newEnv(t)

	item, err := e.svc.LostFound.Report(bg, services.LostItemInput{Title: "Umbrella"}, nil)
	require.NoError(t, err)
	require.Equal(t, "Umbrella", item.Title)
	require.Equal(t, services.DefaultLostDescription, item.Description)
	require.Equal(t, services.DefaultLostLocation, item.Location)
	require.Equal(t, services.DefaultLostCustody, item.Custody)
	require.Nil(t, item.Image)

	withImage, err := e.svc.LostFound.Report(bg, services.LostItemInput{}, png("photo.jpg"))
	require.NoError(t, err)
	require.Equal(t, services.DefaultLostTitle, withImage.Title)
	require.NotNil(t, withImage.Image)

	open, err := e.svc.LostFound.OpenItems(bg, 0)
	require.NoError(t, err)
	require.Len(t, open, 2)
	require.Equal(t, withImage.ID, open[0].ID)
	require.Equal(t, "/storage/"+*withImage.Image, open[0].ImageURL)
	require.Empty(t, open[1].ImageURL)
}

func TestReportRejectsExecutable(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.LostFound.Report(bg, services.LostItemInput{Title: "Laptop"}, png("payload.exe"))
	require.ErrorIs(t, err, services.ErrValidation)
	require.Zero(t, e.count(t, &models.LostItem{}))
	require.Empty(t, e.disk.Keys())
}

func TestClaimApproveFlow(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, models.User{Email: "owner@campus.edu"})
	item, err := e.svc.LostFound.Report(bg, services.LostItemInput{Title: "Blue Backpack", Location: "Library"}, nil)
	require.NoError(t, err)

	_, err = e.svc.LostFound.Claim(bg, nil, item.ID, "proof")
	require.ErrorIs(t, err, services.ErrAuthenticationRequired)

	_, err = e.svc.LostFound.Claim(bg, owner, item.ID, "  ")
	require.ErrorIs(t, err, services.ErrValidation)

	_, err = e.svc.LostFound.Claim(bg, owner, 999, "proof")
	require.ErrorIs(t, err, services.ErrNotFound)

	claim, err := e.svc.LostFound.Claim(bg, owner, item.ID, "Red keychain on the zipper")
	require.NoError(t, err)
	require.Equal(t, models.ClaimPending, claim.Status)
	require.Equal(t, "owner@campus.edu", claim.RequesterEmail)

	pending, err := e.svc.LostFound.PendingClaims(bg)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "Blue Backpack", pending[0].ItemTitle)

	err = e.svc.LostFound.ApproveClaim(bg, auth.Principal{UserID: owner.ID}, claim.ID)
	require.ErrorIs(t, err, services.ErrAuthorizationDenied)

	require.NoError(t, e.svc.Moderation.ApproveClaim(bg, admin, claim.ID))
	require.NoError(t, e.svc.Moderation.ApproveClaim(bg, admin, claim.ID))

	var stored models.LostItem
	require.NoError(t, e.db.First(&stored, item.ID).Error)
	require.True(t, stored.Recovered())

	open, err := e.svc.LostFound.OpenItems(bg, 0)
	require.NoError(t, err)
	require.Empty(t, open)

	pending, err = e.svc.LostFound.PendingClaims(bg)
	require.NoError(t, err)
	require.Empty(t, pending)

	err = e.svc.Moderation.RejectClaim(bg, admin, claim.ID)
	require.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = e.svc.LostFound.Claim(bg, owner, item.ID, "again")
	require.ErrorIs(t, err, services.ErrValidation)

	stats, err := e.svc.LostFound.Stats(bg, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.RecoveredThisWeek)
	require.Equal(t, int64(1), stats.TotalRecovered)
}

func TestRejectClaim(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, models.User{Email: "owner@campus.edu"})
	item, err := e.svc.LostFound.Report(bg, services.LostItemInput{Title: "Keys"}, nil)
	require.NoError(t, err)
	claim, err := e.svc.LostFound.Claim(bg, owner, item.ID, "three keys")
	require.NoError(t, err)

	require.NoError(t, e.svc.Moderation.RejectClaim(bg, admin, claim.ID))
	require.NoError(t, e.svc.Moderation.RejectClaim(bg, admin, claim.ID))

	err = e.svc.Moderation.ApproveClaim(bg, admin, claim.ID)
	require.ErrorIs(t, err, services.ErrInvalidTransition)

	var stored models.LostItem
	require.NoError(t, e.db.First(&stored, item.ID).Error)
	require.False(t, stored.Recovered())

	err = e.svc.Moderation.RejectClaim(bg, admin, 999)
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestApproveClaimRollsBackWhenItemUpdateFails(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, models.User{Email: "owner@campus.edu"})
	item, err := e.svc.LostFound.Report(bg, services.LostItemInput{Title: "Wallet"}, nil)
	require.NoError(t, err)
	claim, err := e.svc.LostFound.Claim(bg, owner, item.ID, "student card inside")
	require.NoError(t, err)

	e.afterUpdate(t, "lost_items", func(tx *gorm.DB) { tx.AddError(errors.New("disk full")) })

	err = e.svc.Moderation.ApproveClaim(bg, admin, claim.ID)
	require.ErrorContains(t, err, "disk full")

	var stored models.ClaimRequest
	require.NoError(t, e.db.First(&stored, claim.ID).Error)
	require.Equal(t, models.ClaimPending, stored.Status)

	var lost models.LostItem
	require.NoError(t, e.db.First(&lost, item.ID).Error)
	require.False(t, lost.Recovered())
}

func TestApproveSecondClaimOnRecoveredItem(t *testing.T) {
	e := newEnv(t)
	e.changedRowsOnly(t, "lost_items")
	item, err := e.svc.LostFound.Report(bg, services.LostItemInput{Title: "Scarf"}, nil)
	require.NoError(t, err)
	first, err := e.svc.LostFound.Claim(bg, e.user(t, models.User{Email: "a@campus.edu"}), item.ID, "green")
	require.NoError(t, err)
	second, err := e.svc.LostFound.Claim(bg, e.user(t, models.User{Email: "b@campus.edu"}), item.ID, "wool")
	require.NoError(t, err)

	require.NoError(t, e.svc.Moderation.ApproveClaim(bg, admin, first.ID))
	require.NoError(t, e.svc.Moderation.ApproveClaim(bg, admin, second.ID))

	var lost models.LostItem
	require.NoError(t, e.db.First(&lost, item.ID).Error)
	require.True(t, lost.Recovered())
}
