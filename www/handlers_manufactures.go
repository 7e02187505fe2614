package www

import (
	"errors"
	"fmt"
	"net/http"

	"fabcatalogue/schema"
	"fabcatalogue/store"
)

type manufactureInput struct {
	LocationID    *int64   `json:"location_id"`
	ProjectID     *int64   `json:"project_id"`
	PriceEstimate *float64 `json:"price_estimate"`
	CurrencyID    *int64   `json:"currency_id"`
}

func (h *Handlers) apiListManufactures(w http.ResponseWriter, r *http.Request) {
	offers, err := h.engine.DB().ListManufactures()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	out := rs.manufactures(offers)
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetManufacture(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadManufacture(w, r, notFoundRead)
	if !ok {
		return
	}
	h.writeManufacture(w, r, http.StatusOK, "", m)
}

func (h *Handlers) apiCreateManufacture(w http.ResponseWriter, r *http.Request) {
	var in manufactureInput
	if _, err := h.decode(w, r, "manufacture", schema.Full, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	m := &store.Manufacture{
		LocationID:    *in.LocationID,
		ProjectID:     *in.ProjectID,
		PriceEstimate: *in.PriceEstimate,
		CurrencyID:    *in.CurrencyID,
	}
	if err := h.engine.DB().CreateManufacture(m); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordCreated("manufacture", m.ID, "", actor(r))
	h.writeManufacture(w, r, http.StatusCreated, "", m)
}

// apiUpdateManufacture may move the offer to another (location, project)
// pair; its derived id follows.
func (h *Handlers) apiUpdateManufacture(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadManufacture(w, r, notFoundUpdate)
	if !ok {
		return
	}
	locationID, projectID := m.LocationID, m.ProjectID
	oldKey := m.ID

	var in manufactureInput
	present, err := h.decode(w, r, "manufacture", schema.Partial, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ch := newChanges(present)
	ch.int64("location_id", &m.LocationID, in.LocationID)
	ch.int64("project_id", &m.ProjectID, in.ProjectID)
	ch.float("price_estimate", &m.PriceEstimate, in.PriceEstimate)
	ch.int64("currency_id", &m.CurrencyID, in.CurrencyID)
	if !ch.Any() {
		h.jsonMessage(w, unchangedMessage("manufacture"))
		return
	}
	if err := h.engine.DB().UpdateManufacture(locationID, projectID, m); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordUpdated("manufacture", oldKey, ch.Fields(), actor(r))
	h.writeManufacture(w, r, http.StatusOK, changedMessage("manufacture", ch.Fields()), m)
}

// apiDeleteManufacture names the location and project in its confirmation,
// so both are resolved before the row goes.
func (h *Handlers) apiDeleteManufacture(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadManufacture(w, r, notFoundDelete)
	if !ok {
		return
	}
	location, err := h.engine.DB().GetLocation(m.LocationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	project, err := h.engine.DB().GetProject(m.ProjectID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.engine.DB().DeleteManufacture(m.LocationID, m.ProjectID); err != nil {
		h.writeError(w, r, err)
		return
	}
	label := fmt.Sprintf("%s / %s", location.Name, project.Title)
	h.engine.RecordDeleted("manufacture", m.ID, label, actor(r))
	h.jsonMessage(w, fmt.Sprintf("The manufacture of project `%s` at location `%s` has been deleted successfully.", project.Title, location.Name))
}

// loadManufacture reads the offer addressed by {location_id} and {project_id}.
func (h *Handlers) loadManufacture(w http.ResponseWriter, r *http.Request, notFound func(string, any) string) (*store.Manufacture, bool) {
	locationID, okL := idParam(r, "location_id")
	projectID, okP := idParam(r, "project_id")
	key := store.ManufactureKey(locationID, projectID)
	m, err := h.engine.DB().GetManufacture(locationID, projectID)
	if !okL || !okP || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFound("manufacture", key), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return m, true
}

func (h *Handlers) writeManufacture(w http.ResponseWriter, r *http.Request, code int, msg string, m *store.Manufacture) {
	rs := newResolver(h.engine.DB())
	v := rs.manufacture(m)
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
		*manufactureView
	}{msg, v})
}
