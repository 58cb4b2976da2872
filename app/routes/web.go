package routes

import (
	"github.com/hustlcampus/hustl/app/controllers"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/ctx"
	"github.com/hustlcampus/hustl/pkg/middleware"
	"github.com/hustlcampus/hustl/pkg/router"
)

// RegisterWeb installs every page and form endpoint. Handlers enforce their
// own authentication; the guards here only short-circuit obvious cases.
func RegisterWeb(r *router.Router, h *controllers.Controller) {
	r.Get("/", "home", ctx.Wrap(h.Home))

	r.Get("/login", "login", ctx.Wrap(h.LoginForm))
	r.Post("/login", "login.submit", ctx.Wrap(h.Login))
	r.Get("/signup", "signup", ctx.Wrap(h.SignupForm))
	r.Post("/signup", "signup.submit", ctx.Wrap(h.Signup))
	r.Get("/logout", "logout", ctx.Wrap(h.Logout))

	member := r.Group("", middleware.RequireUser("/login", "Please log in to continue."))
	member.Get("/protocol/{role}", "protocol", ctx.Wrap(h.Protocol))
	member.Get("/seller-onboarding", "seller.onboarding", ctx.Wrap(h.Onboarding))
	member.Post("/seller-onboarding", "seller.onboarding.submit", ctx.Wrap(h.SubmitOnboarding))
	member.Get("/market", "market", ctx.Wrap(h.Market))
	member.Post("/market", "market.create", ctx.Wrap(h.CreateListing))
	member.Get("/seller-dash", "seller.dash", ctx.Wrap(h.SellerDash))

	r.Get("/listing/{id}", "listing.show", ctx.Wrap(h.Listing))
	r.Get("/seller/{id}", "seller.profile", ctx.Wrap(h.SellerProfile))
	r.Get("/market/sold/{id}", "market.sold", ctx.Wrap(h.MarkSold))

	r.Get("/lost", "lost", ctx.Wrap(h.Lost))
	r.Post("/lost", "lost.report", ctx.Wrap(h.ReportLost))
	r.Post("/claim-item", "lost.claim", ctx.Wrap(h.ClaimItem))

	r.Get("/admin-login", "admin.login", ctx.Wrap(h.AdminLoginForm))
	r.Post("/admin-login", "admin.login.submit", ctx.Wrap(h.AdminLogin))

	admin := r.Group("/admin", middleware.RequireCapability(auth.CapModerate, "/admin-login", "Admin access required."))
	admin.Get("/", "admin.dashboard", ctx.Wrap(h.AdminDashboard))
	admin.Get("/users", "admin.users", ctx.Wrap(h.AdminUsers))
	admin.Get("/manage-items", "admin.items", ctx.Wrap(h.AdminItems))
	admin.Get("/verify/{id}", "admin.verify", ctx.Wrap(h.VerifySeller()))
	admin.Get("/delete-item/{id}", "admin.items.delete", ctx.Wrap(h.DeleteItem()))
	admin.Get("/approve-claim/{id}", "admin.claims.approve", ctx.Wrap(h.ApproveClaim()))
	admin.Get("/reject-claim/{id}", "admin.claims.reject", ctx.Wrap(h.RejectClaim()))
}
