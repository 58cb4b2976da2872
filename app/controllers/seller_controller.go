package controllers

import (
	"net/http"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/services"
	"github.com/hustlcampus/hustl/pkg/ctx"
)

var stepDestinations = map[services.Step]string{
	services.StepMarketplace:   "/market",
	services.StepSubmitProfile: "/seller-onboarding",
	services.StepAwaitApproval: "/seller-onboarding",
	services.StepDashboard:     "/seller-dash",
}

// Protocol records the role the user wants and sends them to the next
// step for it.
func (h *Controller) Protocol(c *ctx.Context) {
	u, err := h.currentUser(c)
	if err == nil && u == nil {
		err = services.ErrAuthenticationRequired
	}
	if err != nil {
		h.fail(c, err, "home", nil)
		return
	}

	step, err := h.svc.Verification.EnterProtocol(c.Context(), u, c.Param("role"))
	if err != nil {
		if notice := services.Notice(err); notice != "" {
			c.Redirect("/", notice)
			return
		}
		h.fail(c, err, "home", nil)
		return
	}

	role, _ := services.NormalizeRole(c.Param("role"))
	c.Session().Set(sessionDesiredRole, role)
	c.Redirect(stepDestinations[step])
}

type onboardingPage struct {
	User  *models.User         `json:"user"`
	State services.SellerState `json:"state"`
}

// Onboarding shows the seller profile form, or the pending page once a
// profile awaits review.
func (h *Controller) Onboarding(c *ctx.Context) {
	u, err := h.currentUser(c)
	if err == nil && u == nil {
		err = services.ErrAuthenticationRequired
	}
	if err != nil {
		h.fail(c, err, "seller_onboarding", nil)
		return
	}

	page := onboardingPage{User: u, State: services.StateOf(u)}
	if page.State == services.StateSellerPending {
		c.Render(http.StatusOK, "pending_approval", page)
		return
	}
	c.Render(http.StatusOK, "seller_onboarding", page)
}

func (h *Controller) SubmitOnboarding(c *ctx.Context) {
	u, err := h.currentUser(c)
	if err == nil && u == nil {
		err = services.ErrAuthenticationRequired
	}
	if err != nil {
		h.fail(c, err, "seller_onboarding", nil)
		return
	}

	page := onboardingPage{User: u, State: services.StateOf(u)}
	var profile services.Profile
	if _, err := c.Bind(&profile); err != nil {
		h.fail(c, err, "seller_onboarding", page)
		return
	}
	if err := h.svc.Verification.SubmitProfile(c.Context(), u, profile); err != nil {
		h.fail(c, err, "seller_onboarding", page)
		return
	}
	c.Redirect("/seller-onboarding", "Your seller profile has been submitted for review.")
}

// SellerDash lists the caller's own listings. Non-sellers are sent to the
// market.
func (h *Controller) SellerDash(c *ctx.Context) {
	u, err := h.currentUser(c)
	if err != nil {
		h.fail(c, err, "seller_dash", nil)
		return
	}

	dash, err := h.svc.Listings.Dashboard(c.Context(), u)
	if err != nil {
		h.fail(c, err, "seller_dash", nil)
		return
	}
	c.Render(http.StatusOK, "seller_dash", dash)
}

func (h *Controller) SellerProfile(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		h.fail(c, services.ErrNotFound, "seller_profile", nil)
		return
	}

	profile, err := h.svc.Listings.Profile(c.Context(), id)
	if err != nil {
		h.fail(c, err, "seller_profile", nil)
		return
	}
	c.Render(http.StatusOK, "seller_profile", profile)
}
