// Package bind decodes an HTML form (urlencoded or multipart) into a struct
// tagged with `form` and runs pkg/validate over it.
package bind

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/hustlcampus/hustl/pkg/validate"
)

// ErrTooLarge is returned when the body exceeds the limit passed to Form.
var ErrTooLarge = errors.New("bind: request body too large")

// Form parses r's body, capped at maxBytes, copies the tagged fields into
// dest and validates it. A non-nil error means the body itself was unusable;
// validation failures are returned separately.
//
// Supported field types: string, *string, int, *int, uint.
func Form(w http.ResponseWriter, r *http.Request, dest any, maxBytes int64) (validate.Errors, error) {
	if err := Parse(w, r, maxBytes); err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind: dest must be a pointer to struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" || !f.IsExported() {
			continue
		}
		if _, present := r.Form[name]; !present {
			continue
		}
		if err := setField(rv.Field(i), strings.TrimSpace(r.FormValue(name))); err != nil {
			return validate.Errors{{Field: name, Message: fmt.Sprintf("The %s field is invalid.", name)}}, nil
		}
	}

	return validate.Struct(dest), nil
}

// Parse reads the form body once; later calls are no-ops.
func Parse(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if r.Form != nil {
		return nil
	}
	if maxBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		// larger parts spill to temp files; MultipartForm.RemoveAll is
		// called by net/http when the request finishes
		err = r.ParseMultipartForm(1 << 20)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrTooLarge
		}
		return fmt.Errorf("bind: parse form: %w", err)
	}
	return nil
}

// File returns the uploaded part named field, or nil when no file was sent.
// Parse must have been called first.
func File(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("bind: file %s: %w", field, err)
	}
	if header.Filename == "" {
		file.Close()
		return nil, nil, nil
	}
	return file, header, nil
}

func setField(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int:
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		v.SetInt(int64(n))
	case reflect.Uint:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseUint(raw, 10, 0)
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Ptr:
		if raw == "" {
			return nil
		}
		elem := reflect.New(v.Type().Elem())
		if err := setField(elem.Elem(), raw); err != nil {
			return err
		}
		v.Set(elem)
	default:
		return fmt.Errorf("bind: unsupported field kind %s", v.Kind())
	}
	return nil
}
