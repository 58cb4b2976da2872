package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hustlcampus/hustl/app/models"
	"github.com/hustlcampus/hustl/app/services"
	_ "github.com/hustlcampus/hustl/database/migrations"
	"github.com/hustlcampus/hustl/internal/kernel"
	"github.com/hustlcampus/hustl/pkg/auth"
	"github.com/hustlcampus/hustl/pkg/database"
	"github.com/hustlcampus/hustl/pkg/migration"
	"github.com/hustlcampus/hustl/pkg/response"
	"github.com/hustlcampus/hustl/pkg/session"
	"github.com/hustlcampus/hustl/pkg/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const password = "campus-pass"

type app struct {
	t    *testing.T
	db   *gorm.DB
	disk *storage.MemoryDisk
	svc  *services.Services
	srv  *httptest.Server
}

func newApp(t *testing.T) *app {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", "file:"+name+"?mode=memory&cache=shared&_foreign_keys=on")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	_, err = migration.New(db, io.Discard).Run()
	require.NoError(t, err)

	disk := storage.NewMemoryDisk()
	svc := services.New(services.Deps{
		DB:                db,
		Disk:              disk,
		AllowedExtensions: []string{"png", "jpg", "jpeg", "gif"},
		Tokens:            auth.NewTokens("test-key", time.Hour),
		Admin:             services.AdminCredentials{Username: "admin", Password: "s3cret"},
	})

	opts := session.DefaultOptions()
	opts.Secure = false
	k := kernel.NewHTTPKernel(kernel.Config{
		Services:       svc,
		Sessions:       session.NewMemoryStore(),
		SessionOptions: opts,
		Disk:           disk,
		RateLimit:      1000,
	})
	srv := httptest.NewServer(k.Handler())
	t.Cleanup(srv.Close)

	return &app{t: t, db: db, disk: disk, svc: svc, srv: srv}
}

// client keeps cookies and does not follow redirects.
func (a *app) client() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *app) get(c *http.Client, path string) *http.Response {
	a.t.Helper()
	resp, err := c.Get(a.srv.URL + path)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *app) post(c *http.Client, path string, form url.Values) *http.Response {
	a.t.Helper()
	resp, err := c.PostForm(a.srv.URL+path, form)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *app) multipart(c *http.Client, path string, fields map[string]string, filename string) *http.Response {
	a.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(a.t, err)
		_, err = fw.Write([]byte("\x89PNG fake"))
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.srv.URL+path, &body)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *app) user(u models.User) *models.User {
	a.t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(a.t, err)
	u.PasswordHash = &hash
	if u.UserType == "" {
		u.UserType = models.UserTypeBuyer
	}
	require.NoError(a.t, a.db.Create(&u).Error)
	return &u
}

func (a *app) seller(email string) *models.User {
	name, reg := "Dorm Deals", "REG-1"
	return a.user(models.User{Email: email, UserType: models.UserTypeSeller, DisplayName: &name, RegNumber: &reg, IsVerified: 1})
}

func (a *app) login(email string) *http.Client {
	a.t.Helper()
	c := a.client()
	resp := a.post(c, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(a.t, http.StatusSeeOther, resp.StatusCode)
	return c
}

func (a *app) adminLogin() *http.Client {
	a.t.Helper()
	c := a.client()
	resp := a.post(c, "/admin-login", url.Values{"username": {"admin"}, "password": {"s3cret"}})
	require.Equal(a.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(a.t, "/admin", resp.Header.Get("Location"))
	return c
}

func decode(t *testing.T, resp *http.Response) response.View {
	t.Helper()
	var v response.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func requireRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, to, resp.Header.Get("Location"))
}
