package controllers_test

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/services"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func TestAdminRequiresCapability(t *testing.T) {
	a := newApp(t)
	a.user(models.User{Email: "ann@campus.edu"})

	requireRedirect(t, a.get(a.client(), "/admin"), "/admin-login")
	requireRedirect(t, a.get(a.login("ann@campus.edu"), "/admin/users"), "/admin-login")

	resp := a.post(a.client(), "/admin-login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "Invalid credentials.", decode(t, resp).Notice)
}

func TestAdminViews(t *testing.T) {
	a := newApp(t)
	c := a.adminLogin()

	for path, view := range map[string]string{
		"/admin":              "admin/dashboard",
		"/admin/users":        "admin/users",
		"/admin/manage-items": "admin/manage_items",
	} {
		resp := a.get(c, path)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Equal(t, view, decode(t, resp).View, path)
	}
}

func TestAdminBearerToken(t *testing.T) {
	a := newApp(t)
	token, err := a.svc.Moderation.Login("admin", "s3cret")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, a.srv.URL+"/admin/users", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminMutations(t *testing.T) {
	a := newApp(t)
	reg := "REG-5"
	pending := a.user(models.User{Email: "p@campus.edu", UserType: models.UserTypeSeller, RegNumber: &reg})
	seller := a.seller("s@campus.edu")
	owner := a.user(models.User{Email: "owner@campus.edu"})

	l, err := a.svc.Listings.Create(t.Context(), seller, services.ListingInput{Title: "Desk"}, nil)
	require.NoError(t, err)
	item, err := a.svc.LostFound.Report(t.Context(), services.LostItemInput{Title: "Blue Backpack"}, nil)
	require.NoError(t, err)
	claim, err := a.svc.LostFound.Claim(t.Context(), owner, item.ID, "red keychain")
	require.NoError(t, err)

	c := a.adminLogin()

	requireRedirect(t, a.get(c, "/admin/verify/"+itoa(pending.ID)), "/admin")
	got, err := a.svc.Directory.FindByID(t.Context(), pending.ID)
	require.NoError(t, err)
	require.True(t, got.Verified())

	requireRedirect(t, a.get(c, "/admin/approve-claim/"+itoa(claim.ID)), "/admin")
	requireRedirect(t, a.get(c, "/admin/approve-claim/"+itoa(claim.ID)), "/admin")
	requireRedirect(t, a.get(c, "/admin/reject-claim/"+itoa(claim.ID)), "/admin")

	var stored models.LostItem
	require.NoError(t, a.db.First(&stored, item.ID).Error)
	require.True(t, stored.Recovered())

	requireRedirect(t, a.get(c, "/admin/delete-item/"+itoa(l.ID)), "/admin/manage-items")
	resp := a.get(c, "/admin/delete-item/"+itoa(l.ID))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	requireRedirect(t, a.get(c, "/logout"), "/")
	requireRedirect(t, a.get(c, "/admin"), "/admin-login")
}
