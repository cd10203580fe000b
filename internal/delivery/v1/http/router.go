package http

import (
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC) {
	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(prUC, r.logger)
		registerProductRoutes(v1, prHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.createProduct)

		// Статические маршруты регистрируются до /{id}
		pr.Get("/categories", prHandler.listCategories)
		pr.Get("/stats/summary", prHandler.statsSummary)
		pr.Get("/stats/by-category", prHandler.statsByCategory)

		pr.Route("/{id}", func(item chi.Router) {
			item.Get("/", prHandler.getProduct)
			item.Put("/", prHandler.updateProduct)
			item.Delete("/", prHandler.deleteProduct)
			item.Patch("/restore", prHandler.restoreProduct)
			item.Patch("/set-active", prHandler.setProductActive)
		})
	})
}
