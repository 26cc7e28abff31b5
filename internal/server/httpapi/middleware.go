package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// AuthCookie identifies the signed-in user. The value is the opaque user
// id; there is no signing or session state beyond it.
const AuthCookie = "obs_user_id"

const authCookieMaxAge = 30 * 24 * time.Hour

type contextKey string

const userIDKey contextKey = "userID"

// userIDFromRequest extracts the caller's user id from the auth cookie.
func userIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(AuthCookie)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

// requireAuth rejects requests without an identity before any engine runs.
func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromRequest(r)
		if userID == "" {
			writeUnauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func userID(r *http.Request) string {
	v, _ := r.Context().Value(userIDKey).(string)
	return v
}

func setAuthCookie(w http.ResponseWriter, userID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    userID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(authCookieMaxAge.Seconds()),
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
