package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-kasir-pos.git/internal/catalog"
)

type removeStockReq struct {
	Quantity int `json:"quantity"`
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := a.Catalog.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := a.Catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) lowStock(w http.ResponseWriter, r *http.Request) {
	ps, err := a.Catalog.LowStock(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.Input
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	p, err := a.Catalog.Add(r.Context(), IdentityFrom(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in catalog.Input
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	p, err := a.Catalog.Edit(r.Context(), IdentityFrom(r.Context()), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.Catalog.Delete(r.Context(), IdentityFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "Produk berhasil dihapus"})
}

func (a *API) removeStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req removeStockReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := a.Catalog.RemoveStock(r.Context(), IdentityFrom(r.Context()), id, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
