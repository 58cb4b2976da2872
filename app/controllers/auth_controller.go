package controllers

import (
	"net/http"

	"github.com/hustlcampus/hustl/pkg/ctx"
)

type authPage struct {
	IsLogin bool   `json:"is_login"`
	Email   string `json:"email,omitempty"`
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type signupForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Confirm  string `form:"confirm_password"`
}

func (h *Controller) LoginForm(c *ctx.Context) {
	if c.Principal().Authenticated() {
		c.Redirect("/")
		return
	}
	c.Render(http.StatusOK, "auth", authPage{IsLogin: true})
}

func (h *Controller) Login(c *ctx.Context) {
	if c.Principal().Authenticated() {
		c.Redirect("/")
		return
	}

	var form loginForm
	page := authPage{IsLogin: true}
	if _, err := c.Bind(&form); err != nil {
		h.fail(c, err, "auth", page)
		return
	}
	page.Email = form.Email

	u, err := h.svc.Directory.Authenticate(c.Context(), form.Email, form.Password)
	if err != nil {
		h.fail(c, err, "auth", page)
		return
	}

	if err := h.startSession(c, u.Email); err != nil {
		h.fail(c, err, "auth", page)
		return
	}
	c.Redirect("/", "Welcome back!")
}

func (h *Controller) SignupForm(c *ctx.Context) {
	if c.Principal().Authenticated() {
		c.Redirect("/")
		return
	}
	c.Render(http.StatusOK, "auth", authPage{})
}

// Signup registers a new account, or sets the password of a legacy
// account that never had one.
func (h *Controller) Signup(c *ctx.Context) {
	if c.Principal().Authenticated() {
		c.Redirect("/")
		return
	}

	var form signupForm
	if _, err := c.Bind(&form); err != nil {
		h.fail(c, err, "auth", authPage{})
		return
	}

	u, err := h.svc.Directory.Signup(c.Context(), form.Email, form.Password, form.Confirm)
	if err != nil {
		h.fail(c, err, "auth", authPage{Email: form.Email})
		return
	}

	if err := h.startSession(c, u.Email); err != nil {
		h.fail(c, err, "auth", authPage{})
		return
	}
	c.Redirect("/", "Account created successfully!")
}

// Logout drops the whole session, admin token included.
func (h *Controller) Logout(c *ctx.Context) {
	c.Session().Invalidate()
	c.Redirect("/")
}

// startSession issues a fresh session id before storing the login.
func (h *Controller) startSession(c *ctx.Context, email string) error {
	sess := c.Session()
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionEmail, email)
	return nil
}
