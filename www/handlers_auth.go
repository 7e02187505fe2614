package www

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fabcatalogue/auth"
	"fabcatalogue/logger"
	"fabcatalogue/schema"
	"fabcatalogue/store"
)

const msgBadCredentials = "The username or password you have entered is incorrect. Please try again."

type registerInput struct {
	Username     *string `json:"username"`
	EmailAddress *string `json:"email_address"`
	Position     *string `json:"position"`
	Password     *string `json:"password"`
	LocationID   *int64  `json:"location_id"`
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// apiRegisterGuide describes the body POST /auth/register expects.
func (h *Handlers) apiRegisterGuide(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, map[string]any{
		"message": "Send a POST request to /auth/register with the following fields.",
		"fields": map[string]string{
			"username":      "required; 2 to 25 lowercase letters or digits",
			"email_address": "required; a valid email address",
			"password":      "required; at least 8 characters",
			"location_id":   "required; id of an existing location",
			"position":      "optional; up to 40 characters",
		},
	})
}

// apiRegister creates a non-admin user and logs them in.
func (h *Handlers) apiRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if _, err := h.decode(w, r, "user", schema.Full, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	hash, err := auth.HashPassword(*in.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	u := &store.User{
		Username:     *in.Username,
		EmailAddress: *in.EmailAddress,
		Position:     in.Position,
		PasswordHash: hash,
		LocationID:   *in.LocationID,
	}
	if err := h.engine.DB().CreateUser(u); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordCreated("user", strconv.FormatInt(u.ID, 10), u.Username, u.Username)

	token, _, err := h.engine.Gate().Tokens().Issue(u.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.saveSession(w, r, token)
	h.jsonCreated(w, map[string]string{
		"message":      fmt.Sprintf("User %s has been registered successfully.", u.Username),
		"user":         u.Username,
		"access_token": token,
	})
}

func (h *Handlers) apiLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if _, err := h.decode(w, r, "login", schema.Full, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.engine.DB().GetUserByUsername(in.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.writeError(w, r, err)
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, in.Password) {
		h.jsonError(w, msgBadCredentials, http.StatusUnauthorized)
		return
	}
	token, _, err := h.engine.Gate().Tokens().Issue(u.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.saveSession(w, r, token)
	h.jsonOK(w, map[string]string{
		"message":      fmt.Sprintf("Login successful. Welcome back, %s.", u.Username),
		"user":         u.Username,
		"access_token": token,
	})
}

// apiLogout revokes the presented token until it would have expired anyway.
func (h *Handlers) apiLogout(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims != nil && claims.ExpiresAt != nil {
		if err := h.engine.Gate().Revoker().Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if s := h.engine.Gate().Sessions(); s != nil {
		if err := s.Clear(w, r); err != nil {
			logger.FromContext(r.Context()).WithError(err).Warn("www: clear session")
		}
	}
	h.jsonMessage(w, fmt.Sprintf("User %s has been logged out.", actor(r)))
}

// apiPromoteToAdmin grants admin access by username. Promoting an admin is a no-op.
func (h *Handlers) apiPromoteToAdmin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	vals, err := schema.RequireKeys(body, "username")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	username := vals["username"]
	u, err := h.engine.DB().GetUserByUsername(username)
	if errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, fmt.Sprintf("A user with `username`=%s does not exist in the database. No updates have been made.", username), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if u.IsAdmin {
		h.jsonMessage(w, fmt.Sprintf("User `%s` already has admin level access.", username))
		return
	}
	if err := h.engine.DB().SetUserAdmin(u.ID, true); err != nil {
		h.writeError(w, r, err)
		return
	}
	u.IsAdmin = true
	h.engine.RecordAction("user", strconv.FormatInt(u.ID, 10), "promoted", u.Username, actor(r))
	h.writeUser(w, r, http.StatusOK, fmt.Sprintf("Authorisation level has been increased for user `%s`.", username), u)
}

func (h *Handlers) saveSession(w http.ResponseWriter, r *http.Request, token string) {
	s := h.engine.Gate().Sessions()
	if s == nil {
		return
	}
	if err := s.Save(w, r, token); err != nil {
		logger.FromContext(r.Context()).WithError(err).Warn("www: save session")
	}
}
