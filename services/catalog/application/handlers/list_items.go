package handlers

import (
	"net/http"

	"github.com/ghuser/nftcatalog/pkg/httpx"
	"github.com/ghuser/nftcatalog/pkg/logger"
	appsvcs "github.com/ghuser/nftcatalog/services/catalog/application/services"
	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
)

// ListItemsHandler handles GET /items requests.
type ListItemsHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services, log logger.Logger) *ListItemsHandler {
	return &ListItemsHandler{svc: svc, log: log}
}

// Execute returns a filtered page of items with collection_details attached.
//
//	@Summary		List items
//	@Description	Filters, sorts and paginates items. Unknown query keys are ignored.
//	@Tags			items
//	@Produce		json
//	@Param			page		query		int		false	"Zero-based page"
//	@Param			limit		query		int		false	"Page size (default 20, max 100)"
//	@Param			sort		query		string	false	"price, status_date, name, index or created_at"
//	@Param			direction	query		string	false	"asc or desc"
//	@Param			collection	query		string	false	"Collection contract"
//	@Param			price_min	query		string	false	"Inclusive lower price bound"
//	@Param			price_max	query		string	false	"Inclusive upper price bound"
//	@Param			fields		query		string	false	"Comma-separated projection"
//	@Success		200			{object}	httpx.SuccessEnvelope
//	@Failure		422			{object}	httpx.ErrorEnvelope
//	@Failure		500			{object}	httpx.ErrorEnvelope
//	@Router			/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Query.ListItems(r.Context(), filter.ParseQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, h.log, "list items", err)
		return
	}
	httpx.Success(w, http.StatusOK, items)
}
