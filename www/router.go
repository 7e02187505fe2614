package www

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"

	"fabcatalogue/engine"
	"fabcatalogue/logger"
)

type Handlers struct {
	engine   *engine.Engine
	eventHub *EventHub
}

// idPattern keeps non-numeric ids from reaching the handlers; they 404 at the router.
const idPattern = "/{id:[0-9]+}"

func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	hub := NewEventHub()
	hub.Start()
	hub.SetupEngineListeners(eng)

	h := &Handlers{
		engine:   eng,
		eventHub: hub,
	}

	r := chi.NewRouter()
	r.Use(logger.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.jsonError(w, "The requested URL was not found on the server.", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.jsonError(w, "The method is not allowed for the requested URL.", http.StatusMethodNotAllowed)
	})

	// Public routes
	r.Get("/", h.apiHomepage)
	r.Get("/health", h.apiHealthCheck)
	r.Route("/auth", func(r chi.Router) {
		r.Get("/register", h.apiRegisterGuide)
		r.Post("/register", h.apiRegister)
		r.Post("/login", h.apiLogin)
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/logout", h.apiLogout)
			r.With(h.requireAdmin).Patch("/promote_to_admin/", h.apiPromoteToAdmin)
		})
	})

	referenceRoutes(r, h, "/countries", "delete_country", h.apiListCountries, h.apiGetCountry, h.apiCreateCountry, h.apiUpdateCountry, h.apiDeleteCountry)
	referenceRoutes(r, h, "/currencies", "delete_currency", h.apiListCurrencies, h.apiGetCurrency, h.apiCreateCurrency, h.apiUpdateCurrency, h.apiDeleteCurrency)
	referenceRoutes(r, h, "/location-types", "delete_loc_type", h.apiListLocationTypes, h.apiGetLocationType, h.apiCreateLocationType, h.apiUpdateLocationType, h.apiDeleteLocationType)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.apiListUsers)
			r.Get(idPattern, h.apiGetUser)
			r.Get(idPattern+"/comments", h.apiUserComments)
			r.Patch("/update_info/", h.apiUpdateUserInfo)
			r.Put("/update_info/", h.apiUpdateUserInfo)
			r.With(h.requireAdmin).Delete("/delete_user"+idPattern, h.apiDeleteUser)
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", h.apiListLocations)
			r.Get(idPattern, h.apiGetLocation)
			r.Get(idPattern+"/catalogue", h.apiLocationCatalogue)
			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/", h.apiCreateLocation)
				r.Patch(idPattern, h.apiUpdateLocation)
				r.Put(idPattern, h.apiUpdateLocation)
				r.Delete("/delete_location"+idPattern, h.apiDeleteLocation)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.apiListProjects)
			r.Get(idPattern, h.apiGetProject)
			r.Get(idPattern+"/drawings", h.apiProjectDrawings)
			r.Get(idPattern+"/comments", h.apiProjectComments)
			r.Get(idPattern+"/suppliers", h.apiProjectSuppliers)
			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/", h.apiCreateProject)
				r.Patch(idPattern, h.apiUpdateProject)
				r.Put(idPattern, h.apiUpdateProject)
				r.Delete("/delete_project"+idPattern, h.apiDeleteProject)
			})
		})

		r.Route("/drawings", func(r chi.Router) {
			r.Get("/", h.apiListDrawings)
			r.Get(idPattern, h.apiGetDrawing)
			r.Get(idPattern+"/file", h.apiGetDrawingFile)
			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/", h.apiCreateDrawing)
				r.Patch(idPattern, h.apiUpdateDrawing)
				r.Put(idPattern, h.apiUpdateDrawing)
				r.Put(idPattern+"/file", h.apiPutDrawingFile)
				r.Delete("/delete_drawing"+idPattern, h.apiDeleteDrawing)
			})
		})

		// Ownership is checked per comment inside the handlers.
		r.Route("/comments", func(r chi.Router) {
			r.Get("/", h.apiListComments)
			r.Get(idPattern, h.apiGetComment)
			r.Post("/", h.apiCreateComment)
			r.Patch(idPattern, h.apiUpdateComment)
			r.Put(idPattern, h.apiUpdateComment)
			r.Delete("/delete_comment"+idPattern, h.apiDeleteComment)
		})

		r.Route("/manufactures", func(r chi.Router) {
			const pair = "/loc/{location_id:[0-9]+}/proj/{project_id:[0-9]+}"
			r.Get("/", h.apiListManufactures)
			r.Get(pair, h.apiGetManufacture)
			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/", h.apiCreateManufacture)
				r.Patch(pair, h.apiUpdateManufacture)
				r.Put(pair, h.apiUpdateManufacture)
				r.Delete(pair, h.apiDeleteManufacture)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/audit", h.apiAuditLog)
			r.Get("/events", hub.SSEHandler)
		})
	})

	var handler http.Handler = r
	if origins := eng.AppConfig().Web.CORSOrigins; len(origins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
			handlers.AllowCredentials(),
		)(r)
	}

	stopFn := func() {
		hub.Stop()
	}

	return handler, stopFn
}

// referenceRoutes mounts the lookup tables, which anyone may read.
func referenceRoutes(r chi.Router, h *Handlers, prefix, deleteSegment string, list, get, create, update, del http.HandlerFunc) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", list)
		r.Get(idPattern, get)
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth, h.requireAdmin)
			r.Post("/", create)
			r.Patch(idPattern, update)
			r.Put(idPattern, update)
			r.Delete("/"+deleteSegment+idPattern, del)
		})
	})
}
