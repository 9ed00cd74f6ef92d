package http

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/solemart/storefront/pkg/errors"
	"github.com/solemart/storefront/pkg/httputil"
	"github.com/solemart/storefront/pkg/middleware"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// ownerIDKey is the context key for the resolved cart/wishlist owner.
const ownerIDKey contextKey = "owner_id"

// SessionHeader identifies an anonymous shopper. The frontend generates the
// value once and sends it on every request.
const SessionHeader = "X-Session-ID"

// ResolveOwner is middleware that determines who owns the cart and wishlist
// being addressed: the authenticated user when a valid JWT was presented,
// otherwise the guest session from the X-Session-ID header. Requests with
// neither identity are rejected, since there is no key to store state under.
func ResolveOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := middleware.UserIDFromContext(r.Context())
		if owner == "" {
			owner = strings.TrimSpace(r.Header.Get(SessionHeader))
		}
		if owner == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_INPUT",
					Message: "authentication or an X-Session-ID header is required",
				},
			})
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerFromContext extracts the resolved owner ID from the request context.
func ownerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerIDKey).(string)
	return owner
}

// RequireUser rejects requests without an authenticated user. Guest sessions
// do not qualify; this guards operations like wishlist removal and checkout.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if middleware.UserIDFromContext(r.Context()) == "" {
			err := apperrors.Unauthorized("authentication required")
			httputil.WriteJSON(w, err.Status, httputil.Response{
				Error: &httputil.ErrorResponse{Code: err.Code, Message: err.Message},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
