package testutil

import (
	"net/http"

	"nachweis/pkg/requestcontext"
)

// WithActor adds an acting user to the request context, simulating what an
// authenticating proxy in front of the engine would do.
func WithActor(req *http.Request, actor string) *http.Request {
	if actor == "" {
		return req
	}
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}
