package handlers

import (
	"net/http"

	"github.com/ghuser/nftcatalog/pkg/httpx"
	"github.com/ghuser/nftcatalog/pkg/logger"
	appsvcs "github.com/ghuser/nftcatalog/services/catalog/application/services"
	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
)

// TrendingItemsHandler handles GET /items/trending requests.
type TrendingItemsHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewTrendingItemsHandler returns a TrendingItemsHandler backed by the given services.
func NewTrendingItemsHandler(svc *appsvcs.Services, log logger.Logger) *TrendingItemsHandler {
	return &TrendingItemsHandler{svc: svc, log: log}
}

// Execute ranks the selected page by offer count.
//
//	@Summary		Trending items
//	@Description	Lists a page like GET /items, then keeps the top K by Offer count. Ties keep listing order.
//	@Tags			items
//	@Produce		json
//	@Param			page		query		int		false	"Zero-based page"
//	@Param			limit		query		int		false	"Page size ranked (default 20, max 100)"
//	@Param			collection	query		string	false	"Collection contract"
//	@Success		200			{object}	httpx.SuccessEnvelope
//	@Failure		422			{object}	httpx.ErrorEnvelope
//	@Failure		500			{object}	httpx.ErrorEnvelope
//	@Router			/items/trending [get]
func (h *TrendingItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Trending.Trending(r.Context(), filter.ParseQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, h.log, "trending items", err)
		return
	}
	httpx.Success(w, http.StatusOK, items)
}
