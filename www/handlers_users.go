package www

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fabcatalogue/auth"
	"fabcatalogue/schema"
	"fabcatalogue/store"
)

// userInfoInput holds the self-service fields. Username and admin flag are
// not part of it, so a client cannot change them through update_info.
type userInfoInput struct {
	EmailAddress *string `json:"email_address"`
	Position     *string `json:"position"`
	Password     *string `json:"password"`
	LocationID   *int64  `json:"location_id"`
}

func (h *Handlers) apiListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.engine.DB().ListUsers()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	out := rs.usersOf(users)
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	u, err := h.engine.DB().GetUser(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundRead("user", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeUser(w, r, http.StatusOK, "", u)
}

// apiUpdateUserInfo edits the caller's own record.
func (h *Handlers) apiUpdateUserInfo(w http.ResponseWriter, r *http.Request) {
	u := caller(r)
	var in userInfoInput
	present, err := h.decode(w, r, "user_info", schema.Partial, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ch := newChanges(present)
	ch.str("email_address", &u.EmailAddress, in.EmailAddress)
	ch.optStr("position", &u.Position, in.Position)
	ch.int64("location_id", &u.LocationID, in.LocationID)
	if present.Has("password") && in.Password != nil && !auth.CheckPassword(u.PasswordHash, *in.Password) {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		u.PasswordHash = hash
		ch.mark("password")
	}
	if !ch.Any() {
		h.jsonMessage(w, unchangedMessage("user"))
		return
	}
	if err := h.engine.DB().UpdateUserInfo(u); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordUpdated("user", strconv.FormatInt(u.ID, 10), ch.Fields(), u.Username)
	h.writeUser(w, r, http.StatusOK, changedMessage("user", ch.Fields()), u)
}

// apiDeleteUser also removes the user's comments.
func (h *Handlers) apiDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	u, err := h.engine.DB().GetUser(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundDelete("user", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.engine.DB().DeleteUser(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordDeleted("user", strconv.FormatInt(id, 10), u.Username, actor(r))
	h.jsonMessage(w, deletedMessage("user", id))
}

func (h *Handlers) apiUserComments(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	u, err := h.engine.DB().GetUser(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundRead("user", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	comments, err := h.engine.DB().ListCommentsByUser(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	resp := map[string]any{
		"user":     rs.userOf(u),
		"comments": rs.comments(comments),
	}
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(comments) == 0 {
		resp["message"] = fmt.Sprintf("User `%s` has not posted any comments.", u.Username)
	}
	h.jsonOK(w, resp)
}

func (h *Handlers) writeUser(w http.ResponseWriter, r *http.Request, code int, msg string, u *store.User) {
	rs := newResolver(h.engine.DB())
	v := rs.userOf(u)
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	if msg == "" {
		h.writeJSON(w, code, v)
		return
	}
	h.writeJSON(w, code, struct {
		Message string `json:"message"`
		*userView
	}{msg, v})
}
