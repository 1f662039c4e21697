package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/arvachan/solestore/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// storefront gateway API. It applies JSON content-type enforcement, request
// logging, and panic recovery, and mounts the session, cart, catalog, and
// navigation endpoints under /api.
//
// Routes:
//
//	GET    /api/session            → sessionHandler.State
//	POST   /api/session/signin     → sessionHandler.SignIn
//	POST   /api/session/signup     → sessionHandler.SignUp
//	POST   /api/session/signout    → sessionHandler.SignOut
//	POST   /api/session/recover    → sessionHandler.Recover
//	POST   /api/session/reset      → sessionHandler.Reset
//	GET    /api/cart               → cartHandler.View
//	POST   /api/cart/items         → cartHandler.Add
//	PUT    /api/cart/items         → cartHandler.SetQuantity
//	DELETE /api/cart/items         → cartHandler.Remove
//	DELETE /api/cart               → cartHandler.Clear
//	GET    /api/products           → catalogHandler.List
//	GET    /api/products/{id}      → catalogHandler.Get
//	GET    /api/navigation         → navHandler.Resolve
func NewRouter(
	sessionHandler *SessionHandler,
	cartHandler *CartHandler,
	catalogHandler *CatalogHandler,
	navHandler *NavHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Collaborator faults never propagate as uncaught panics
	r.Use(chiMiddleware.Recoverer)

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.State)
			r.Post("/signin", sessionHandler.SignIn)
			r.Post("/signup", sessionHandler.SignUp)
			r.Post("/signout", sessionHandler.SignOut)
			r.Post("/recover", sessionHandler.Recover)
			r.Post("/reset", sessionHandler.Reset)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.View)
			r.Delete("/", cartHandler.Clear)
			r.Post("/items", cartHandler.Add)
			r.Put("/items", cartHandler.SetQuantity)
			r.Delete("/items", cartHandler.Remove)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/{id}", catalogHandler.Get)
		})

		r.Get("/navigation", navHandler.Resolve)
	})

	return r
}
