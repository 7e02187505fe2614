package www

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fabcatalogue/schema"
	"fabcatalogue/store"
)

type drawingInput struct {
	DrawingNumber   *string `json:"drawing_number"`
	PartDescription *string `json:"part_description"`
	Version         *int64  `json:"version"`
	ProjectID       *int64  `json:"project_id"`
}

func (h *Handlers) apiListDrawings(w http.ResponseWriter, r *http.Request) {
	drawings, err := h.engine.DB().ListDrawings()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	out := rs.drawings(drawings)
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetDrawing(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDrawing(w, r, notFoundRead)
	if !ok {
		return
	}
	h.writeDrawing(w, r, http.StatusOK, "", d)
}

func (h *Handlers) apiCreateDrawing(w http.ResponseWriter, r *http.Request) {
	var in drawingInput
	if _, err := h.decode(w, r, "drawing", schema.Full, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	d := &store.Drawing{
		DrawingNumber:   *in.DrawingNumber,
		PartDescription: in.PartDescription,
		Version:         in.Version,
		LastModified:    time.Now(),
		ProjectID:       *in.ProjectID,
	}
	if err := h.engine.DB().CreateDrawing(d); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordCreated("drawing", strconv.FormatInt(d.ID, 10), d.DrawingNumber, actor(r))
	h.writeDrawing(w, r, http.StatusCreated, "", d)
}

func (h *Handlers) apiUpdateDrawing(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDrawing(w, r, notFoundUpdate)
	if !ok {
		return
	}
	var in drawingInput
	present, err := h.decode(w, r, "drawing", schema.Partial, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ch := newChanges(present)
	ch.str("drawing_number", &d.DrawingNumber, in.DrawingNumber)
	ch.optStr("part_description", &d.PartDescription, in.PartDescription)
	ch.optInt64("version", &d.Version, in.Version)
	ch.int64("project_id", &d.ProjectID, in.ProjectID)
	if !ch.Any() {
		h.jsonMessage(w, unchangedMessage("drawing"))
		return
	}
	d.LastModified = time.Now()
	if err := h.engine.DB().UpdateDrawing(d); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordUpdated("drawing", strconv.FormatInt(d.ID, 10), ch.Fields(), actor(r))
	h.writeDrawing(w, r, http.StatusOK, changedMessage("drawing", ch.Fields()), d)
}

func (h *Handlers) apiDeleteDrawing(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDrawing(w, r, notFoundDelete)
	if !ok {
		return
	}
	file, err := h.engine.DB().GetDrawingFile(d.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.writeError(w, r, err)
		return
	}
	if err := h.engine.DB().DeleteDrawing(d.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	if file != nil {
		h.removeBlob(r, file.ObjectKey)
	}
	h.engine.RecordDeleted("drawing", strconv.FormatInt(d.ID, 10), d.DrawingNumber, actor(r))
	h.jsonMessage(w, deletedMessage("drawing", d.ID))
}

func (h *Handlers) loadDrawing(w http.ResponseWriter, r *http.Request, notFound func(string, any) string) (*store.Drawing, bool) {
	id, ok := idParam(r, "id")
	d, err := h.engine.DB().GetDrawing(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFound("drawing", id), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return d, true
}

func (h *Handlers) writeDrawing(w http.ResponseWriter, r *http.Request, code int, msg string, d *store.Drawing) {
	rs := newResolver(h.engine.DB())
	v := rs.drawing(d)
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
		*drawingView
	}{msg, v})
}
