// Package response writes the JSON bodies handlers return. Pages are
// described by a rendering instruction that an external template layer
// turns into HTML:
//
//	{"status":200,"view":"market","notice":"Listing created.","data":{...}}
package response

import (
	"encoding/json"
	"net/http"
)

// View is a rendering instruction.
type View struct {
	Status int            `json:"status"`
	View   string         `json:"view"`
	Notice string         `json:"notice,omitempty"`
	Flash  map[string]any `json:"flash,omitempty"`
	Data   any            `json:"data,omitempty"`
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Render writes a rendering instruction using its Status.
func Render(w http.ResponseWriter, v View) {
	if v.Status == 0 {
		v.Status = http.StatusOK
	}
	JSON(w, v.Status, v)
}

// Error writes a bare error view. Used where no session or handler context
// is available, such as the recovery middleware.
func Error(w http.ResponseWriter, status int, notice string) {
	Render(w, View{Status: status, View: "error", Notice: notice})
}
