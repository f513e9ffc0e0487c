package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/decoynet/lure/internal/campaign"
	"github.com/decoynet/lure/internal/composer"
	"github.com/decoynet/lure/internal/events"
	"github.com/decoynet/lure/internal/store"
)

type Server struct {
	router   *chi.Mux
	port     int
	composer *composer.Composer
	store    *store.Store
	events   *events.Client
}

func NewServer(port int, apiToken string, c *composer.Composer, db *store.Store, ev *events.Client) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		composer: c,
		store:    db,
		events:   ev,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/lure/status", s.status)
	router.Post("/api/v1/message", s.handleMessage)

	router.Route("/api/v1/campaigns", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Get("/scan", s.scanCampaignsDryRun)
		r.Post("/scan", s.scanCampaigns)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"agent":     "lure",
		"status":    "active",
		"generator": s.composer.GeneratorAvailable(),
		"store":     s.store != nil,
		"events":    s.events != nil,
	})
}

// ScanResponse is the payload returned by the campaign scan endpoints.
type ScanResponse struct {
	Campaigns []campaign.Campaign `json:"campaigns"`
	Count     int                 `json:"count"`
	DryRun    bool                `json:"dry_run"`
}

func (s *Server) scanCampaigns(w http.ResponseWriter, r *http.Request) {
	s.performScan(w, r, false)
}

// scanCampaignsDryRun clusters without publishing campaign events.
func (s *Server) scanCampaignsDryRun(w http.ResponseWriter, r *http.Request) {
	s.performScan(w, r, true)
}

func (s *Server) performScan(w http.ResponseWriter, r *http.Request, dryRun bool) {
	if s.store == nil {
		http.Error(w, `{"error":"campaign scans require a configured store"}`, http.StatusServiceUnavailable)
		return
	}

	campaigns, err := campaign.NewDetector(s.store).FindCampaigns(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"scan failed: %v"}`, err), http.StatusInternalServerError)
		return
	}

	if !dryRun && s.events != nil && len(campaigns) > 0 {
		if err := campaign.Publish(s.events, campaigns); err != nil {
			// Log but keep the results: the scan itself succeeded.
			slog.Warn("failed to publish campaign events", "campaigns", len(campaigns), "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ScanResponse{
		Campaigns: campaigns,
		Count:     len(campaigns),
		DryRun:    dryRun,
	})
}
