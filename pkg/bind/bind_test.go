package bind

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type listingForm struct {
	Title string  `form:"title" validate:"required"`
	Brand *string `form:"brand"`
	Item  *int    `form:"item_id"`
}

func TestFormURLEncoded(t *testing.T) {
	body := url.Values{"title": {"  Lamp "}, "brand": {"Acme"}, "item_id": {"7"}}.Encode()
	r := httptest.NewRequest(http.MethodPost, "/market", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in listingForm
	errs, err := Form(httptest.NewRecorder(), r, &in, 1<<20)
	require.NoError(t, err)
	require.False(t, errs.Has())
	require.Equal(t, "Lamp", in.Title)
	require.Equal(t, "Acme", *in.Brand)
	require.Equal(t, 7, *in.Item)
}

func TestFormMissingAndInvalid(t *testing.T) {
	body := url.Values{"item_id": {"seven"}}.Encode()
	r := httptest.NewRequest(http.MethodPost, "/claim-item", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in listingForm
	errs, err := Form(httptest.NewRecorder(), r, &in, 1<<20)
	require.NoError(t, err)
	require.Equal(t, "item_id", errs.First().Field)
}

func TestFormMultipartWithFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Desk"))
	fw, err := mw.CreateFormFile("image", "desk.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/market", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	var in listingForm
	errs, err := Form(httptest.NewRecorder(), r, &in, 1<<20)
	require.NoError(t, err)
	require.False(t, errs.Has())
	require.Nil(t, in.Brand)

	file, header, err := File(r, "image")
	require.NoError(t, err)
	require.Equal(t, "desk.png", header.Filename)
	data, _ := io.ReadAll(file)
	require.Equal(t, "png-bytes", string(data))

	none, _, err := File(r, "other")
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestFormTooLarge(t *testing.T) {
	body := "title=" + strings.Repeat("x", 2048)
	r := httptest.NewRequest(http.MethodPost, "/market", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in listingForm
	_, err := Form(httptest.NewRecorder(), r, &in, 512)
	require.ErrorIs(t, err, ErrTooLarge)
}
