package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/nftcatalog/pkg/httpx"
	"github.com/ghuser/nftcatalog/pkg/logger"
	appsvcs "github.com/ghuser/nftcatalog/services/catalog/application/services"
)

// GetItemHandler handles GET /items/{collection}/{index} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services, log logger.Logger) *GetItemHandler {
	return &GetItemHandler{svc: svc, log: log}
}

// Execute returns one item with its owner's profile.
//
//	@Summary		Get item
//	@Description	Returns the item at (collection, index) with ownerDetail attached
//	@Tags			items
//	@Produce		json
//	@Param			collection	path		string	true	"Collection contract"
//	@Param			index		path		string	true	"Item index in the collection"
//	@Success		200			{object}	httpx.SuccessEnvelope
//	@Failure		422			{object}	httpx.ErrorEnvelope
//	@Failure		500			{object}	httpx.ErrorEnvelope
//	@Router			/items/{collection}/{index} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Query.GetItemDetail(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, h.log, "get item", err)
		return
	}
	httpx.Success(w, http.StatusOK, detail)
}
