package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/nftcatalog/pkg/httpx"
	"github.com/ghuser/nftcatalog/pkg/logger"
	appsvcs "github.com/ghuser/nftcatalog/services/catalog/application/services"
	"github.com/ghuser/nftcatalog/services/catalog/domain/models"
)

type activityFunc func(ctx context.Context, collection, index string) ([]*models.Activity, error)

// ItemActivityHandler serves an item's history or offers.
type ItemActivityHandler struct {
	op    string
	fetch activityFunc
	log   logger.Logger
}

// NewItemHistoryHandler returns a handler for GET /items/{collection}/{index}/history.
func NewItemHistoryHandler(svc *appsvcs.Services, log logger.Logger) *ItemActivityHandler {
	return &ItemActivityHandler{op: "get item history", fetch: svc.Query.GetItemHistory, log: log}
}

// NewItemOffersHandler returns a handler for GET /items/{collection}/{index}/offers.
func NewItemOffersHandler(svc *appsvcs.Services, log logger.Logger) *ItemActivityHandler {
	return &ItemActivityHandler{op: "get item offers", fetch: svc.Query.GetItemOffers, log: log}
}

// Execute returns the activity records for the item's collection.
//
//	@Summary		Get item history or offers
//	@Description	History lists Sold and Transfer activity; offers lists Offer activity. Both are collection-scoped, oldest first.
//	@Tags			items
//	@Produce		json
//	@Param			collection	path		string	true	"Collection contract"
//	@Param			index		path		string	true	"Item index in the collection"
//	@Success		200			{object}	httpx.SuccessEnvelope
//	@Failure		422			{object}	httpx.ErrorEnvelope
//	@Failure		500			{object}	httpx.ErrorEnvelope
//	@Router			/items/{collection}/{index}/history [get]
//	@Router			/items/{collection}/{index}/offers [get]
func (h *ItemActivityHandler) Execute(w http.ResponseWriter, r *http.Request) {
	acts, err := h.fetch(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, h.log, h.op, err)
		return
	}
	httpx.Success(w, http.StatusOK, acts)
}
