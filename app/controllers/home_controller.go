package controllers

import (
	"net/http"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/services"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/ctx"
)

const (
	homeListings  = 8
	homeLostItems = 4
)

type homePage struct {
	User          *models.User            `json:"user,omitempty"`
	Listings      []services.ListingView  `json:"market_items"`
	LostItems     []services.LostItemView `json:"lost_items"`
	PendingUsers  int                     `json:"pending_users,omitempty"`
	PendingClaims int                     `json:"pending_claims,omitempty"`
}

// Home shows the newest listings and lost items. Admins also see how much
// is waiting for review.
func (h *Controller) Home(c *ctx.Context) {
	var page homePage
	var err error

	if page.User, err = h.currentUser(c); err != nil {
		h.fail(c, err, "home", nil)
		return
	}
	if page.Listings, err = h.svc.Listings.Feed(c.Context(), homeListings); err != nil {
		h.fail(c, err, "home", nil)
		return
	}
	if page.LostItems, err = h.svc.LostFound.OpenItems(c.Context(), homeLostItems); err != nil {
		h.fail(c, err, "home", nil)
		return
	}

	if p := c.Principal(); p.Can(auth.CapModerate) {
		if page.PendingUsers, page.PendingClaims, err = h.svc.Moderation.PendingCounts(c.Context(), p); err != nil {
			h.fail(c, err, "home", nil)
			return
		}
	}

	c.Render(http.StatusOK, "home", page)
}
