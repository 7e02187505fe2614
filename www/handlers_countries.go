package www

import (
	"errors"
	"net/http"
	"strconv"

	"fabcatalogue/schema"
	"fabcatalogue/store"
)

type countryInput struct {
	Country *string `json:"country"`
}

func (h *Handlers) apiListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.engine.DB().ListCountries()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]*countryView, 0, len(countries))
	for _, c := range countries {
		out = append(out, newCountryView(c))
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	c, err := h.engine.DB().GetCountry(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundRead("country", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonOK(w, newCountryView(c))
}

func (h *Handlers) apiCreateCountry(w http.ResponseWriter, r *http.Request) {
	var in countryInput
	if _, err := h.decode(w, r, "country", schema.Full, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c := &store.Country{Country: *in.Country}
	if err := h.engine.DB().CreateCountry(c); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordCreated("country", strconv.FormatInt(c.ID, 10), c.Country, actor(r))
	h.jsonCreated(w, newCountryView(c))
}

func (h *Handlers) apiUpdateCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	c, err := h.engine.DB().GetCountry(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundUpdate("country", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in countryInput
	present, err := h.decode(w, r, "country", schema.Partial, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ch := newChanges(present)
	ch.str("country", &c.Country, in.Country)
	if !ch.Any() {
		h.jsonMessage(w, unchangedMessage("country"))
		return
	}
	if err := h.engine.DB().UpdateCountry(c); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordUpdated("country", strconv.FormatInt(c.ID, 10), ch.Fields(), actor(r))
	h.jsonOK(w, struct {
		Message string `json:"message"`
		*countryView
	}{changedMessage("country", ch.Fields()), newCountryView(c)})
}

func (h *Handlers) apiDeleteCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	c, err := h.engine.DB().GetCountry(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundDelete("country", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.engine.DB().DeleteCountry(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordDeleted("country", strconv.FormatInt(id, 10), c.Country, actor(r))
	h.jsonMessage(w, deletedMessage("country", id))
}
