package www

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fabcatalogue/schema"
	"fabcatalogue/store"
)

type locationInput struct {
	Name             *string `json:"name"`
	AdminPhoneNumber *string `json:"admin_phone_number"`
	CountryID        *int64  `json:"country_id"`
	LocationTypeID   *int64  `json:"location_type_id"`
}

func (h *Handlers) apiListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.engine.DB().ListLocations()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	out := rs.locations(locations)
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	l, err := h.engine.DB().GetLocation(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundRead("location", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeLocation(w, r, http.StatusOK, "", l)
}

func (h *Handlers) apiCreateLocation(w http.ResponseWriter, r *http.Request) {
	var in locationInput
	if _, err := h.decode(w, r, "location", schema.Full, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	l := &store.Location{
		Name:             *in.Name,
		AdminPhoneNumber: *in.AdminPhoneNumber,
		CountryID:        *in.CountryID,
		LocationTypeID:   *in.LocationTypeID,
	}
	if err := h.engine.DB().CreateLocation(l); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordCreated("location", strconv.FormatInt(l.ID, 10), l.Name, actor(r))
	h.writeLocation(w, r, http.StatusCreated, "", l)
}

func (h *Handlers) apiUpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	l, err := h.engine.DB().GetLocation(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundUpdate("location", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in locationInput
	present, err := h.decode(w, r, "location", schema.Partial, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ch := newChanges(present)
	ch.str("name", &l.Name, in.Name)
	ch.str("admin_phone_number", &l.AdminPhoneNumber, in.AdminPhoneNumber)
	ch.int64("country_id", &l.CountryID, in.CountryID)
	ch.int64("location_type_id", &l.LocationTypeID, in.LocationTypeID)
	if !ch.Any() {
		h.jsonMessage(w, unchangedMessage("location"))
		return
	}
	if err := h.engine.DB().UpdateLocation(l); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordUpdated("location", strconv.FormatInt(l.ID, 10), ch.Fields(), actor(r))
	h.writeLocation(w, r, http.StatusOK, changedMessage("location", ch.Fields()), l)
}

// apiDeleteLocation also removes the location's users and manufacture offers.
func (h *Handlers) apiDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	l, err := h.engine.DB().GetLocation(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundDelete("location", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.engine.DB().DeleteLocation(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordDeleted("location", strconv.FormatInt(id, 10), l.Name, actor(r))
	h.jsonMessage(w, deletedMessage("location", id))
}

// apiLocationCatalogue lists the projects a location offers to fabricate.
func (h *Handlers) apiLocationCatalogue(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	l, err := h.engine.DB().GetLocation(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundRead("location", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	offers, err := h.engine.DB().ListManufacturesByLocation(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs := newResolver(h.engine.DB())
	resp := map[string]any{
		"location":     rs.locationOf(l),
		"manufactures": rs.manufactures(offers),
	}
	if err := rs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(offers) == 0 {
		resp["message"] = fmt.Sprintf("The location `%s` does not currently offer to manufacture any projects.", l.Name)
	}
	h.jsonOK(w, resp)
}

func (h *Handlers) writeLocation(w http.ResponseWriter, r *http.Request, code int, msg string, l *store.Location) {
	rs := newResolver(h.engine.DB())
	v := rs.locationOf(l)
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
		*locationView
	}{msg, v})
}
