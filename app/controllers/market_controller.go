package controllers

import (
	"net/http"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/services"
	"github.com/hustlcampus/hustl/pkg/ctx"
)

type marketPage struct {
	User      *models.User           `json:"user"`
	Items     []services.ListingView `json:"items"`
	CanList   bool                   `json:"can_list"`
	State     services.SellerState   `json:"state"`
	Submitted *services.ListingInput `json:"form,omitempty"`
}

func (h *Controller) marketPage(c *ctx.Context, u *models.User) (marketPage, error) {
	items, err := h.svc.Listings.Feed(c.Context(), 0)
	if err != nil {
		return marketPage{}, err
	}
	state := services.StateOf(u)
	return marketPage{
		User:    u,
		Items:   items,
		CanList: state == services.StateSellerVerified && u.IsSeller(),
		State:   state,
	}, nil
}

func (h *Controller) Market(c *ctx.Context) {
	u, err := h.currentUser(c)
	if err == nil && u == nil {
		err = services.ErrAuthenticationRequired
	}
	if err != nil {
		h.fail(c, err, "market", nil)
		return
	}

	page, err := h.marketPage(c, u)
	if err != nil {
		h.fail(c, err, "market", nil)
		return
	}
	c.Render(http.StatusOK, "market", page)
}

// CreateListing handles the multipart listing form; the picture is the
// optional "image" part.
func (h *Controller) CreateListing(c *ctx.Context) {
	u, err := h.currentUser(c)
	if err == nil && u == nil {
		err = services.ErrAuthenticationRequired
	}
	if err != nil {
		h.fail(c, err, "market", nil)
		return
	}

	var in services.ListingInput
	if _, err := c.Bind(&in); err != nil {
		h.failMarket(c, u, &in, err)
		return
	}
	up, done, err := upload(c, "image")
	if err != nil {
		h.failMarket(c, u, &in, err)
		return
	}
	defer done()

	if _, err := h.svc.Listings.Create(c.Context(), u, in, up); err != nil {
		h.failMarket(c, u, &in, err)
		return
	}
	c.Redirect("/market", "Listing created.")
}

func (h *Controller) failMarket(c *ctx.Context, u *models.User, in *services.ListingInput, err error) {
	page, perr := h.marketPage(c, u)
	if perr != nil {
		h.fail(c, perr, "market", nil)
		return
	}
	page.Submitted = in
	h.fail(c, err, "market", page)
}

func (h *Controller) Listing(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		h.fail(c, services.ErrNotFound, "listing_detail", nil)
		return
	}

	detail, err := h.svc.Listings.Detail(c.Context(), id)
	if err != nil {
		h.fail(c, err, "listing_detail", nil)
		return
	}
	c.Render(http.StatusOK, "listing_detail", detail)
}

// MarkSold is open to the listing's seller and to admins.
func (h *Controller) MarkSold(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		h.fail(c, services.ErrNotFound, "seller_dash", nil)
		return
	}

	p := c.Principal()
	if !p.Authenticated() && len(p.Caps) == 0 {
		h.fail(c, services.ErrAuthenticationRequired, "seller_dash", nil)
		return
	}
	if err := h.svc.Listings.MarkSold(c.Context(), p, id); err != nil {
		h.fail(c, err, "seller_dash", nil)
		return
	}
	to := "/seller-dash"
	if !p.Authenticated() {
		to = "/admin/manage-items"
	}
	c.Redirect(to, "Item marked as sold.")
}
