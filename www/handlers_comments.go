package www

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fabcatalogue/auth"
	"fabcatalogue/schema"
	"fabcatalogue/store"
)

type commentInput struct {
	Comment   *string `json:"comment"`
	ProjectID *int64  `json:"project_id"`
}

func (h *Handlers) apiListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.engine.DB().ListComments()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	out := rs.comments(comments)
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadComment(w, r, notFoundRead)
	if !ok {
		return
	}
	h.writeComment(w, r, http.StatusOK, "", c)
}

// apiCreateComment posts a comment as the caller.
func (h *Handlers) apiCreateComment(w http.ResponseWriter, r *http.Request) {
	var in commentInput
	if _, err := h.decode(w, r, "comment", schema.Full, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c := &store.Comment{
		Comment:     *in.Comment,
		WhenCreated: time.Now(),
		ProjectID:   *in.ProjectID,
		UserID:      caller(r).ID,
	}
	if err := h.engine.DB().CreateComment(c); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordCreated("comment", strconv.FormatInt(c.ID, 10), "", actor(r))
	h.writeComment(w, r, http.StatusCreated, "", c)
}

func (h *Handlers) apiUpdateComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadComment(w, r, notFoundUpdate)
	if !ok {
		return
	}
	if err := auth.RequireOwnerOrAdmin(caller(r), c.OwnerID); err != nil {
		h.writeError(w, r, err)
		return
	}
	var in commentInput
	present, err := h.decode(w, r, "comment", schema.Partial, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ch := newChanges(present)
	ch.str("comment", &c.Comment, in.Comment)
	ch.int64("project_id", &c.ProjectID, in.ProjectID)
	if !ch.Any() {
		h.jsonMessage(w, unchangedMessage("comment"))
		return
	}
	now := time.Now()
	c.LastEdited = &now
	if err := h.engine.DB().UpdateComment(c); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordUpdated("comment", strconv.FormatInt(c.ID, 10), ch.Fields(), actor(r))
	h.writeComment(w, r, http.StatusOK, changedMessage("comment", ch.Fields()), c)
}

func (h *Handlers) apiDeleteComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadComment(w, r, notFoundDelete)
	if !ok {
		return
	}
	if err := auth.RequireOwnerOrAdmin(caller(r), c.OwnerID); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.engine.DB().DeleteComment(c.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordDeleted("comment", strconv.FormatInt(c.ID, 10), "", actor(r))
	h.jsonMessage(w, deletedMessage("comment", c.ID))
}

func (h *Handlers) loadComment(w http.ResponseWriter, r *http.Request, notFound func(string, any) string) (*store.Comment, bool) {
	id, ok := idParam(r, "id")
	c, err := h.engine.DB().GetComment(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFound("comment", id), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return c, true
}

func (h *Handlers) writeComment(w http.ResponseWriter, r *http.Request, code int, msg string, c *store.Comment) {
	rs := newResolver(h.engine.DB())
	v := rs.comment(c)
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
		*commentView
	}{msg, v})
}
