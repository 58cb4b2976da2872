package controllers

import (
	"net/http"
	"time"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/services"
	"github.com/hustlcampus/hustl/pkg/ctx"
)

type lostPage struct {
	User  *models.User            `json:"user,omitempty"`
	Items []services.LostItemView `json:"items"`
	Stats services.LostStats      `json:"stats"`
}

func (h *Controller) lostPage(c *ctx.Context) (lostPage, error) {
	var page lostPage
	var err error
	if page.User, err = h.currentUser(c); err != nil {
		return page, err
	}
	if page.Items, err = h.svc.LostFound.OpenItems(c.Context(), 0); err != nil {
		return page, err
	}
	if page.Stats, err = h.svc.LostFound.Stats(c.Context(), time.Now()); err != nil {
		return page, err
	}
	return page, nil
}

func (h *Controller) Lost(c *ctx.Context) {
	page, err := h.lostPage(c)
	if err != nil {
		h.fail(c, err, "lost", nil)
		return
	}
	c.Render(http.StatusOK, "lost", page)
}

// ReportLost records a found item. Anyone may report.
func (h *Controller) ReportLost(c *ctx.Context) {
	var in services.LostItemInput
	if _, err := c.Bind(&in); err != nil {
		h.failLost(c, err)
		return
	}
	up, done, err := upload(c, "image")
	if err != nil {
		h.failLost(c, err)
		return
	}
	defer done()

	if _, err := h.svc.LostFound.Report(c.Context(), in, up); err != nil {
		h.failLost(c, err)
		return
	}
	c.Redirect("/lost", "Thanks! The item has been reported.")
}

type claimForm struct {
	ItemID uint   `form:"item_id"`
	Proof  string `form:"proof"`
}

func (h *Controller) ClaimItem(c *ctx.Context) {
	u, err := h.currentUser(c)
	if err == nil && u == nil {
		c.Redirect("/login", "Please login to claim an item.")
		return
	}
	if err != nil {
		h.failLost(c, err)
		return
	}

	var form claimForm
	if verrs, err := c.Bind(&form); err != nil || verrs.Has() {
		c.Redirect("/lost", "Missing claim details.")
		return
	}
	if _, err := h.svc.LostFound.Claim(c.Context(), u, form.ItemID, form.Proof); err != nil {
		h.failLost(c, err)
		return
	}
	c.Redirect("/lost", "Claim request submitted successfully! Admin will review it.")
}

func (h *Controller) failLost(c *ctx.Context, err error) {
	page, perr := h.lostPage(c)
	if perr != nil {
		h.fail(c, perr, "lost", nil)
		return
	}
	h.fail(c, err, "lost", page)
}
