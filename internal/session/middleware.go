package session

import (
	"context"
	"net/http"

	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/utils"
)

// CookieName is the auth session cookie. httpOnly and SameSite=Lax, matching
// what the browser client expects for credentialed fetches.
const CookieName = "sid"

type contextKey string

const userIDKey contextKey = "auth_user_id"

// SetCookie attaches the session cookie to the response.
func SetCookie(w http.ResponseWriter, id string, store *Store) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(store.TTL().Seconds()),
	})
}

// ClearCookie removes the session cookie on logout.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Resolve looks up the caller's identity from the request cookie. It returns
// ErrNoSession when the cookie is absent or the record expired.
func Resolve(r *http.Request, store *Store) (string, string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", "", ErrNoSession
	}
	userID, err := store.Get(r.Context(), cookie.Value)
	if err != nil {
		return "", "", err
	}
	return cookie.Value, userID, nil
}

// RequireAuth resolves the session once at the request boundary and passes
// the user id down via context. Handlers never read ambient session state.
// The sliding expiry is refreshed on every authenticated request.
func RequireAuth(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, userID, err := Resolve(r, store)
			if err != nil {
				utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
				return
			}
			_ = store.Touch(r.Context(), sid)

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID retrieves the authenticated user id placed by RequireAuth.
func UserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(userIDKey).(string)
	return id, ok && id != ""
}
