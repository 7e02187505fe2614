package www

import (
	"errors"
	"net/http"
	"strconv"

	"fabcatalogue/schema"
	"fabcatalogue/store"
)

type locationTypeInput struct {
	LocationType *string `json:"location_type"`
}

func (h *Handlers) apiListLocationTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.engine.DB().ListLocationTypes()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]*locationTypeView, 0, len(types))
	for _, lt := range types {
		out = append(out, newLocationTypeView(lt))
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetLocationType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	lt, err := h.engine.DB().GetLocationType(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundRead("location type", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonOK(w, newLocationTypeView(lt))
}

func (h *Handlers) apiCreateLocationType(w http.ResponseWriter, r *http.Request) {
	var in locationTypeInput
	if _, err := h.decode(w, r, "location_type", schema.Full, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	lt := &store.LocationType{LocationType: *in.LocationType}
	if err := h.engine.DB().CreateLocationType(lt); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordCreated("location_type", strconv.FormatInt(lt.ID, 10), lt.LocationType, actor(r))
	h.jsonCreated(w, newLocationTypeView(lt))
}

func (h *Handlers) apiUpdateLocationType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	lt, err := h.engine.DB().GetLocationType(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundUpdate("location type", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in locationTypeInput
	present, err := h.decode(w, r, "location_type", schema.Partial, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ch := newChanges(present)
	ch.str("location_type", &lt.LocationType, in.LocationType)
	if !ch.Any() {
		h.jsonMessage(w, unchangedMessage("location type"))
		return
	}
	if err := h.engine.DB().UpdateLocationType(lt); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordUpdated("location_type", strconv.FormatInt(lt.ID, 10), ch.Fields(), actor(r))
	h.jsonOK(w, struct {
		Message string `json:"message"`
		*locationTypeView
	}{changedMessage("location type", ch.Fields()), newLocationTypeView(lt)})
}

func (h *Handlers) apiDeleteLocationType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	lt, err := h.engine.DB().GetLocationType(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundDelete("location type", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.engine.DB().DeleteLocationType(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordDeleted("location_type", strconv.FormatInt(id, 10), lt.LocationType, actor(r))
	h.jsonMessage(w, deletedMessage("location type", id))
}
