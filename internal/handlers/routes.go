package handlers

import (
	"net/http"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/auth"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gorillaHandlers "github.com/gorilla/handlers"
)

type Handlers struct {
	Auth          *auth.AuthHandler
	Properties    *PropertyHandler
	Bookings      *BookingHandler
	AdminBookings *AdminBookingHandler
	Notifications *NotificationHandler
	Users         *UserHandler
	APIKeys       *APIKeyHandler
}

func cookieAuth(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
}

// allowOrigin lets the booking site on another origin call the API with the
// session cookie.
func allowOrigin(origin string) func(http.Handler) http.Handler {
	return gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{origin}),
		gorillaHandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "X-API-KEY"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowCredentials(),
	)
}

// RegisterRoutes mounts every route on r. A non-empty corsOrigin enables
// cross-origin requests from that origin.
func RegisterRoutes(r *chi.Mux, h Handlers, corsOrigin string) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if corsOrigin != "" {
		r.Use(allowOrigin(corsOrigin))
	}
	r.Use(h.Auth.AuthMiddleware)

	// Initialize Huma API
	config := huma.DefaultConfig("Minh Phat Villa API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/login", h.Auth.HandleLogin)
	r.Get("/auth/callback", h.Auth.HandleCallback)
	r.Post("/auth/logout", h.Auth.HandleLogout)

	huma.Get(api, "/properties", h.Properties.HandleList)
	huma.Get(api, "/properties/{id}", h.Properties.HandleGet)
	huma.Get(api, "/properties/{id}/calendar", h.Properties.HandleCalendar)
	huma.Post(api, "/quote", h.Bookings.HandleQuote)
	huma.Register(api, huma.Operation{
		OperationID:   "create-booking",
		Method:        http.MethodPost,
		Path:          "/bookings",
		DefaultStatus: http.StatusCreated,
	}, h.Bookings.HandleCreate)
	huma.Get(api, "/bookings/{code}", h.Bookings.HandleLookup)
	huma.Post(api, "/bookings/{code}/cancel", h.Bookings.HandleCancel)
	huma.Post(api, "/bookings/{code}/reschedule", h.Bookings.HandleReschedule)

	// Signed-in routes; handlers check the session themselves
	huma.Get(api, "/me", h.Auth.HandleMe, cookieAuth)
	huma.Get(api, "/api-keys", h.APIKeys.HandleList, cookieAuth)
	huma.Post(api, "/api-keys", h.APIKeys.HandleCreate, cookieAuth)
	huma.Delete(api, "/api-keys/{id}", h.APIKeys.HandleDelete, cookieAuth)

	// Back office
	huma.Get(api, "/admin/bookings", h.AdminBookings.HandleList, cookieAuth)
	huma.Get(api, "/admin/bookings/{code}", h.AdminBookings.HandleGet, cookieAuth)
	huma.Get(api, "/admin/bookings/{code}/history", h.AdminBookings.HandleHistory, cookieAuth)
	huma.Post(api, "/admin/bookings/{code}/confirm", h.AdminBookings.HandleConfirm, cookieAuth)
	huma.Post(api, "/admin/bookings/{code}/reject", h.AdminBookings.HandleReject(), cookieAuth)
	huma.Post(api, "/admin/bookings/{code}/check-in", h.AdminBookings.HandleCheckIn(), cookieAuth)
	huma.Post(api, "/admin/bookings/{code}/complete", h.AdminBookings.HandleComplete(), cookieAuth)
	huma.Post(api, "/admin/bookings/{code}/cancel", h.AdminBookings.HandleCancel(), cookieAuth)
	huma.Post(api, "/admin/bookings/{code}/reschedule/accept", h.AdminBookings.HandleAcceptReschedule(), cookieAuth)
	huma.Post(api, "/admin/bookings/{code}/reschedule/reject", h.AdminBookings.HandleRejectReschedule(), cookieAuth)

	huma.Post(api, "/admin/properties", h.Properties.HandleCreate, cookieAuth)
	huma.Put(api, "/admin/properties/{id}", h.Properties.HandleUpdate, cookieAuth)
	huma.Delete(api, "/admin/properties/{id}", h.Properties.HandleDelete, cookieAuth)
	huma.Get(api, "/admin/properties/{id}/calendar", h.Properties.HandleAdminCalendar, cookieAuth)
	huma.Put(api, "/admin/properties/{id}/prices", h.Properties.HandleSetPrices, cookieAuth)
	huma.Delete(api, "/admin/properties/{id}/prices/{date}", h.Properties.HandleRemovePrice, cookieAuth)
	huma.Get(api, "/admin/properties/{id}/selection", h.Properties.HandleSelection, cookieAuth)

	huma.Get(api, "/admin/notifications", h.Notifications.HandleList, cookieAuth)
	huma.Get(api, "/admin/users", h.Users.HandleList, cookieAuth)
	huma.Patch(api, "/admin/users/{id}", h.Users.HandleUpdate, cookieAuth)

	return api
}
