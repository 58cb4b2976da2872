package controllers

import (
	"net/http"

	"github.com/hustlcampus/hustl/app/services"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/ctx"
)

type adminLoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *Controller) AdminLoginForm(c *ctx.Context) {
	if c.Principal().Can(auth.CapModerate) {
		c.Redirect("/admin")
		return
	}
	c.Render(http.StatusOK, "admin_login", nil)
}

// AdminLogin exchanges the admin credentials for a capability token kept in
// the session.
func (h *Controller) AdminLogin(c *ctx.Context) {
	var form adminLoginForm
	if _, err := c.Bind(&form); err != nil {
		h.fail(c, err, "admin_login", nil)
		return
	}

	token, err := h.svc.Moderation.Login(form.Username, form.Password)
	if err != nil {
		c.Render(http.StatusUnprocessableEntity, "admin_login", nil, "Invalid credentials.")
		return
	}

	sess := c.Session()
	if err := sess.Regenerate(); err != nil {
		h.fail(c, err, "admin_login", nil)
		return
	}
	sess.Set(sessionAdminToken, token)
	c.Redirect("/admin", "Admin super-access granted.")
}

func (h *Controller) AdminDashboard(c *ctx.Context) {
	d, err := h.svc.Moderation.Dashboard(c.Context(), c.Principal())
	if err != nil {
		h.fail(c, err, "admin/dashboard", nil)
		return
	}
	c.Render(http.StatusOK, "admin/dashboard", d)
}

func (h *Controller) AdminUsers(c *ctx.Context) {
	users, err := h.svc.Moderation.Users(c.Context(), c.Principal())
	if err != nil {
		h.fail(c, err, "admin/users", nil)
		return
	}
	c.Render(http.StatusOK, "admin/users", map[string]any{"users": users})
}

func (h *Controller) AdminItems(c *ctx.Context) {
	items, err := h.svc.Moderation.Items(c.Context(), c.Principal())
	if err != nil {
		h.fail(c, err, "admin/manage_items", nil)
		return
	}
	c.Render(http.StatusOK, "admin/manage_items", map[string]any{"items": items})
}

// adminAction runs a privileged mutation on the {id} path parameter and
// redirects to "to" with notice.
func (h *Controller) adminAction(action func(*ctx.Context, uint) error, to, notice string) ctx.HandlerFunc {
	return func(c *ctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			h.fail(c, services.ErrNotFound, "admin/dashboard", nil)
			return
		}
		if err := action(c, id); err != nil {
			h.fail(c, err, "admin/dashboard", nil)
			return
		}
		c.Redirect(to, notice)
	}
}

func (h *Controller) VerifySeller() ctx.HandlerFunc {
	return h.adminAction(func(c *ctx.Context, id uint) error {
		return h.svc.Moderation.VerifySeller(c.Context(), c.Principal(), id)
	}, "/admin", "Seller verified.")
}

func (h *Controller) DeleteItem() ctx.HandlerFunc {
	return h.adminAction(func(c *ctx.Context, id uint) error {
		return h.svc.Moderation.DeleteListing(c.Context(), c.Principal(), id)
	}, "/admin/manage-items", "Listing deleted.")
}

func (h *Controller) ApproveClaim() ctx.HandlerFunc {
	return h.adminAction(func(c *ctx.Context, id uint) error {
		return h.svc.Moderation.ApproveClaim(c.Context(), c.Principal(), id)
	}, "/admin", "Claim approved and item marked as recovered!")
}

func (h *Controller) RejectClaim() ctx.HandlerFunc {
	return h.adminAction(func(c *ctx.Context, id uint) error {
		return h.svc.Moderation.RejectClaim(c.Context(), c.Principal(), id)
	}, "/admin", "Claim request rejected.")
}
