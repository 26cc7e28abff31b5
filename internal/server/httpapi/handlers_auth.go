package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/server/models"
)

type requestCodeRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Timezone    string `json:"timezone"`
}

type requestCodeResponse struct {
	OK          bool   `json:"ok"`
	ChallengeID string `json:"challengeId"`
	ExpiresAt   string `json:"expiresAt"`
	Delivered   bool   `json:"delivered"`
	Transport   string `json:"transport"`
	DevCode     string `json:"devCode,omitempty"`
}

func validEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}

// handleRequestCode issues a sign-in code and hands it to the mail
// collaborator. In dev mode an undelivered code is echoed back so it can
// be entered manually.
func (h *Handlers) handleRequestCode(w http.ResponseWriter, r *http.Request) {
	var body requestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, common.NewValidationError("Invalid JSON body"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	if !validEmail(email) {
		writeError(w, common.NewValidationError("Valid email is required", "email"))
		return
	}

	result, err := h.auth.CreateChallenge(r.Context(), email, body.DisplayName, body.Timezone)
	if err != nil {
		writeError(w, err)
		return
	}

	delivery, err := h.mailer.SendCode(r.Context(), email, result.Code, result.ExpiresAt)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := requestCodeResponse{
		OK:          true,
		ChallengeID: result.ChallengeID,
		ExpiresAt:   result.ExpiresAt.Format(time.RFC3339),
		Delivered:   delivery.Delivered,
		Transport:   delivery.Transport,
	}
	if !delivery.Delivered && h.devMode {
		resp.DevCode = result.Code
	}
	writeJSON(w, http.StatusOK, resp)
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *Handlers) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var body verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, common.NewValidationError("Invalid JSON body"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	code := strings.TrimSpace(body.Code)
	if !validEmail(email) {
		writeError(w, common.NewValidationError("Valid email is required", "email"))
		return
	}
	if code == "" {
		writeError(w, common.NewValidationError("Code is required", "code"))
		return
	}

	verified, err := h.auth.VerifyChallenge(r.Context(), email, code)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.UpsertByEmail(r.Context(), email, verified.DisplayName, verified.Timezone)
	if err != nil {
		writeError(w, err)
		return
	}

	setAuthCookie(w, user.ID)
	writeJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByID(r.Context(), userID(r))
	if err != nil {
		// a cookie pointing at a deleted or unknown user is not a valid session
		writeError(w, common.NewUnauthorizedError("User session is invalid"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

type profileRequest struct {
	DisplayName string `json:"displayName"`
	Timezone    string `json:"timezone"`
}

func (h *Handlers) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body profileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, common.NewValidationError("Invalid JSON body"))
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID(r), body.DisplayName, body.Timezone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}
