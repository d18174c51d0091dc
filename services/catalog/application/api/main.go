package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/ghuser/nftcatalog/pkg/app"
	"github.com/ghuser/nftcatalog/pkg/auth"
	"github.com/ghuser/nftcatalog/pkg/logger"
	"github.com/ghuser/nftcatalog/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/nftcatalog/services/catalog/application/services"
)

// CatalogRoutes registers catalog endpoints on the provided chi router.
func CatalogRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a), a.SessionStore, a.Logger)
}

// Mount registers the catalog endpoints over already-built services.
// Reads are public; creating an item requires a signed-in wallet.
func Mount(r chi.Router, svcs *appsvcs.Services, store sessions.Store, log logger.Logger) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(svcs, log).Execute)
		r.Get("/trending", handlers.NewTrendingItemsHandler(svcs, log).Execute)
		r.Get("/{collection}/{index}", handlers.NewGetItemHandler(svcs, log).Execute)
		r.Get("/{collection}/{index}/history", handlers.NewItemHistoryHandler(svcs, log).Execute)
		r.Get("/{collection}/{index}/offers", handlers.NewItemOffersHandler(svcs, log).Execute)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireWallet(store, log))
			r.Post("/", handlers.NewPostItemHandler(svcs, log).Execute)
		})
	})
}
