package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shelfmap/shelfmapgo/internal/config"
	"github.com/shelfmap/shelfmapgo/internal/database"
	"github.com/shelfmap/shelfmapgo/internal/geometry"
	"github.com/shelfmap/shelfmapgo/internal/hierarchy"
	"github.com/shelfmap/shelfmapgo/internal/middleware"
	"github.com/shelfmap/shelfmapgo/internal/models"
	"github.com/shelfmap/shelfmapgo/internal/suggest"
	ws "github.com/shelfmap/shelfmapgo/internal/websocket"
)

// Classifier is the photo analysis collaborator behind shelf scanning.
// *ai.GeminiClient implements it; it is nil when no API key is configured.
type Classifier interface {
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) ([]suggest.Suggestion, error)
}

// Router wraps the mux router with the database and domain services
type Router struct {
	*mux.Router
	db  *database.DB
	cfg *config.Config

	engine    *hierarchy.Engine
	geo       *geometry.Model
	committer *suggest.Committer
	ai        Classifier
	hub       *ws.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, classifier Classifier, hub *ws.Hub) *Router {
	engine := hierarchy.NewEngine(hierarchy.NewGormStore(db.DB))
	r := &Router{
		Router:    mux.NewRouter(),
		db:        db,
		cfg:       cfg,
		engine:    engine,
		geo:       geometry.NewModel(geometry.NewGormShelfStore(db.DB)),
		committer: suggest.NewCommitter(engine),
		ai:        classifier,
		hub:       hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes (public)
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Everything under /api requires a valid access token
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	// Warehouse routes
	api.HandleFunc("/warehouses", r.listWarehouses).Methods("GET")
	api.HandleFunc("/warehouses", r.createWarehouse).Methods("POST")
	api.HandleFunc("/warehouses/{id}", r.getWarehouse).Methods("GET")
	api.HandleFunc("/warehouses/{id}", r.updateWarehouse).Methods("PATCH")
	api.HandleFunc("/warehouses/{id}", r.deleteWarehouse).Methods("DELETE")
	api.HandleFunc("/warehouses/{id}/labels", r.shelfLabels).Methods("GET")

	// Shelf routes
	api.HandleFunc("/shelves", r.listShelves).Methods("GET")
	api.HandleFunc("/shelves", r.createShelf).Methods("POST")
	api.HandleFunc("/shelves/{id}", r.getShelf).Methods("GET")
	api.HandleFunc("/shelves/{id}", r.updateShelf).Methods("PATCH")
	api.HandleFunc("/shelves/{id}", r.deleteShelf).Methods("DELETE")

	// Item routes
	api.HandleFunc("/items", r.listItems).Methods("GET")
	api.HandleFunc("/items", r.createItem).Methods("POST")
	api.HandleFunc("/items/{id}", r.getItem).Methods("GET")
	api.HandleFunc("/items/{id}", r.updateItem).Methods("PATCH")
	api.HandleFunc("/items/{id}", r.deleteItem).Methods("DELETE")

	// Scan routes
	api.HandleFunc("/scan/analyze", r.analyzeScan).Methods("POST")
	api.HandleFunc("/scan/commit", r.commitScan).Methods("POST")
	api.HandleFunc("/scans/today", r.scansToday).Methods("GET")

	// Live change feed for a warehouse's floor plan
	api.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(hub, w, req)
	}).Methods("GET")

	// Static frontend
	if cfg.FrontendDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.FrontendDir)))
	}

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "local",
	})
}

// broadcast pushes a change event to live viewers of a warehouse
func (r *Router) broadcast(warehouseID, eventType string, payload interface{}) {
	if r.hub == nil {
		return
	}
	r.hub.Broadcast(ws.Event{Type: eventType, WarehouseID: warehouseID, Payload: payload})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps model error types onto HTTP statuses
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case models.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case models.IsInvalidState(err):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
