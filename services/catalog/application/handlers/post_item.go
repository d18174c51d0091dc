package handlers

import (
	"net/http"

	"github.com/ghuser/nftcatalog/pkg/auth"
	"github.com/ghuser/nftcatalog/pkg/httpx"
	"github.com/ghuser/nftcatalog/pkg/logger"
	pkgvalidator "github.com/ghuser/nftcatalog/pkg/validator"
	appsvcs "github.com/ghuser/nftcatalog/services/catalog/application/services"
)

// CreateItemRequest is the request body for POST /items.
type CreateItemRequest struct {
	ArtURI       string         `json:"art_uri"       validate:"required,uri,max=2048"      example:"ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"`
	Name         string         `json:"name"          validate:"max=255"                    example:"Tabby #1"`
	ExternalLink string         `json:"external_link" validate:"omitempty,url,max=2048"     example:"https://example.com/tabby"`
	Description  string         `json:"description"   validate:"max=4000"                   example:"A very round cat"`
	Collection   string         `json:"collection"    validate:"required,max=255"           example:"0x06012c8cf97bead5deae237070f9587f8e7a266d"`
	Properties   map[string]any `json:"properties"`
	LockContent  string         `json:"lock_content"  validate:"max=4000"`
	IsExplicit   bool           `json:"is_explicit"`
	TokenKind    string         `json:"token_kind"                                          example:"ERC721"`
} // @name CreateItemRequest

// PostItemHandler handles POST /items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, log logger.Logger) *PostItemHandler {
	return &PostItemHandler{svc: svc, log: log}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Creates an item in a collection. Content references are unique; a repeat is rejected with code 501.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	httpx.SuccessEnvelope
//	@Failure		400		{object}	httpx.ErrorEnvelope
//	@Failure		401		{object}	httpx.ErrorEnvelope
//	@Failure		422		{object}	httpx.ErrorEnvelope
//	@Failure		500		{object}	httpx.ErrorEnvelope
//	@Failure		501		{object}	httpx.ErrorEnvelope
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	wallet, err := auth.WalletFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Creation.Create(r.Context(), appsvcs.CreateItemInput{
		ArtURI:        req.ArtURI,
		Name:          req.Name,
		ExternalLink:  req.ExternalLink,
		Description:   req.Description,
		CollectionRef: req.Collection,
		Properties:    req.Properties,
		LockContent:   req.LockContent,
		IsExplicit:    req.IsExplicit,
		TokenKind:     req.TokenKind,
	})
	if err != nil {
		writeError(w, r, h.log, "create item", err)
		return
	}

	h.log.InfoContext(r.Context(), "item submitted", "item_id", item.ID, "wallet", wallet)
	httpx.Success(w, http.StatusCreated, item)
}
