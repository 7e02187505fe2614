package www

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fabcatalogue/logger"
	"fabcatalogue/schema"
	"fabcatalogue/store"
)

type projectInput struct {
	Title               *string `json:"title"`
	PublishedDate       *string `json:"published_date"`
	Description         *string `json:"description"`
	CertificationNumber *string `json:"certification_number"`
}

func (h *Handlers) apiListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.engine.DB().ListProjects()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]*projectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, newProjectView(p))
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r, notFoundRead)
	if !ok {
		return
	}
	h.jsonOK(w, newProjectView(p))
}

func (h *Handlers) apiCreateProject(w http.ResponseWriter, r *http.Request) {
	var in projectInput
	present, err := h.decode(w, r, "project", schema.Full, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p := &store.Project{Title: *in.Title}
	ch := newChanges(present)
	ch.optDate("published_date", &p.PublishedDate, in.PublishedDate)
	ch.optStr("description", &p.Description, in.Description)
	ch.optStr("certification_number", &p.CertificationNumber, in.CertificationNumber)
	if err := h.engine.DB().CreateProject(p); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordCreated("project", strconv.FormatInt(p.ID, 10), p.Title, actor(r))
	h.jsonCreated(w, newProjectView(p))
}

func (h *Handlers) apiUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r, notFoundUpdate)
	if !ok {
		return
	}
	var in projectInput
	present, err := h.decode(w, r, "project", schema.Partial, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ch := newChanges(present)
	ch.str("title", &p.Title, in.Title)
	ch.optDate("published_date", &p.PublishedDate, in.PublishedDate)
	ch.optStr("description", &p.Description, in.Description)
	ch.optStr("certification_number", &p.CertificationNumber, in.CertificationNumber)
	if !ch.Any() {
		h.jsonMessage(w, unchangedMessage("project"))
		return
	}
	if err := h.engine.DB().UpdateProject(p); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordUpdated("project", strconv.FormatInt(p.ID, 10), ch.Fields(), actor(r))
	h.jsonOK(w, struct {
		Message string `json:"message"`
		*projectView
	}{changedMessage("project", ch.Fields()), newProjectView(p)})
}

// apiDeleteProject removes the project with its drawings, comments and
// manufacture offers. Attached drawing files are removed from the blob store
// once the rows are gone.
func (h *Handlers) apiDeleteProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r, notFoundDelete)
	if !ok {
		return
	}
	keys, err := h.engine.DB().ListProjectFileKeys(p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.engine.DB().DeleteProject(p.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	for _, key := range keys {
		h.removeBlob(r, key)
	}
	h.engine.RecordDeleted("project", strconv.FormatInt(p.ID, 10), p.Title, actor(r))
	h.jsonMessage(w, deletedMessage("project", p.ID))
}

func (h *Handlers) apiProjectDrawings(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r, notFoundRead)
	if !ok {
		return
	}
	drawings, err := h.engine.DB().ListDrawingsByProject(p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	resp := map[string]any{
		"project":  newProjectView(p),
		"drawings": rs.drawings(drawings),
	}
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(drawings) == 0 {
		resp["message"] = fmt.Sprintf("There are no drawings for the project `%s`.", p.Title)
	}
	h.jsonOK(w, resp)
}

func (h *Handlers) apiProjectComments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r, notFoundRead)
	if !ok {
		return
	}
	comments, err := h.engine.DB().ListCommentsByProject(p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	resp := map[string]any{
		"project":  newProjectView(p),
		"comments": rs.comments(comments),
	}
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(comments) == 0 {
		resp["message"] = fmt.Sprintf("There are no comments for the project `%s`.", p.Title)
	}
	h.jsonOK(w, resp)
}

// apiProjectSuppliers lists the locations offering to manufacture the project.
func (h *Handlers) apiProjectSuppliers(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r, notFoundRead)
	if !ok {
		return
	}
	offers, err := h.engine.DB().ListManufacturesByProject(p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	resp := map[string]any{
		"project":      newProjectView(p),
		"manufactures": rs.manufactures(offers),
	}
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(offers) == 0 {
		resp["message"] = fmt.Sprintf("No location currently offers to manufacture the project `%s`.", p.Title)
	}
	h.jsonOK(w, resp)
}

// loadProject reads the {id} project or writes the 404 built by notFound.
func (h *Handlers) loadProject(w http.ResponseWriter, r *http.Request, notFound func(string, any) string) (*store.Project, bool) {
	id, ok := idParam(r, "id")
	p, err := h.engine.DB().GetProject(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFound("project", id), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return p, true
}

// removeBlob deletes a stored file. A missing object is fine; other failures
// are logged since the database rows are already gone.
func (h *Handlers) removeBlob(r *http.Request, key string) {
	if h.engine.Blobs() == nil {
		return
	}
	if err := h.engine.Blobs().Delete(r.Context(), key); err != nil && !isBlobNotFound(err) {
		logger.FromContext(r.Context()).WithError(err).Warnf("www: remove file %s", key)
	}
}
