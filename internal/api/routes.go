package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/service"
)

// NewRouter builds the application's route tree.
func NewRouter(
	catalogService service.CatalogService,
	storeService service.StoreService,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	handler := NewStoreHandler(catalogService, storeService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/stores", func(r chi.Router) {
			r.Get("/", handler.ListStores)
			r.Post("/", handler.CreateStore)
			r.Get("/featured", handler.GetFeaturedStores)
			r.Get("/{storeID}", handler.GetStore)
			r.Patch("/{storeID}", handler.UpdateStore)
			r.Delete("/{storeID}", handler.DeleteStore)
		})

		r.Get("/users/{userID}/stores", handler.GetUserStores)
	})

	return r
}
