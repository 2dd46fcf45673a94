// Package site serves the embedded portfolio page.
package site

import (
	"context"
	"errors"
	"net/http"
)

// ErrServe is the sentinel kind for site serving failures.
var ErrServe = errors.New("site serve failed")

// Register attaches the embedded portfolio site to the mux root.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
