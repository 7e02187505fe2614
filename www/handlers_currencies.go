package www

import (
	"errors"
	"net/http"
	"strconv"

	"fabcatalogue/schema"
	"fabcatalogue/store"
)

type currencyInput struct {
	CurrencyAbbr *string `json:"currency_abbr"`
}

func (h *Handlers) apiListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.engine.DB().ListCurrencies()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]*currencyView, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, newCurrencyView(c))
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetCurrency(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	c, err := h.engine.DB().GetCurrency(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundRead("currency", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonOK(w, newCurrencyView(c))
}

func (h *Handlers) apiCreateCurrency(w http.ResponseWriter, r *http.Request) {
	var in currencyInput
	if _, err := h.decode(w, r, "currency", schema.Full, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c := &store.Currency{CurrencyAbbr: *in.CurrencyAbbr}
	if err := h.engine.DB().CreateCurrency(c); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordCreated("currency", strconv.FormatInt(c.ID, 10), c.CurrencyAbbr, actor(r))
	h.jsonCreated(w, newCurrencyView(c))
}

func (h *Handlers) apiUpdateCurrency(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	c, err := h.engine.DB().GetCurrency(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundUpdate("currency", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in currencyInput
	present, err := h.decode(w, r, "currency", schema.Partial, &in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ch := newChanges(present)
	ch.str("currency_abbr", &c.CurrencyAbbr, in.CurrencyAbbr)
	if !ch.Any() {
		h.jsonMessage(w, unchangedMessage("currency"))
		return
	}
	if err := h.engine.DB().UpdateCurrency(c); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordUpdated("currency", strconv.FormatInt(c.ID, 10), ch.Fields(), actor(r))
	h.jsonOK(w, struct {
		Message string `json:"message"`
		*currencyView
	}{changedMessage("currency", ch.Fields()), newCurrencyView(c)})
}

func (h *Handlers) apiDeleteCurrency(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	c, err := h.engine.DB().GetCurrency(id)
	if !ok || errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, notFoundDelete("currency", id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.engine.DB().DeleteCurrency(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.engine.RecordDeleted("currency", strconv.FormatInt(id, 10), c.CurrencyAbbr, actor(r))
	h.jsonMessage(w, deletedMessage("currency", id))
}
