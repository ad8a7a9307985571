package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	httpHandlers "github.com/healthbridge/healthbridge/internal/api/http"
	"github.com/healthbridge/healthbridge/internal/api/recovery"
	"github.com/healthbridge/healthbridge/internal/config"
	"github.com/healthbridge/healthbridge/internal/decode"
	"github.com/healthbridge/healthbridge/internal/registry"
	"github.com/healthbridge/healthbridge/internal/services"
	"github.com/healthbridge/healthbridge/internal/store"
)

// NewRouter wires the registry, decoder and store into the HTTP surface.
func NewRouter(cfg *config.Config, st store.Store, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	reg := registry.New(cfg.PlatformVersion, registry.NewStaticProber(cfg.FeatureList()))
	dec := decode.New(reg, log)
	ingest := services.NewIngestService(dec, reg, st)

	recordHandler := httpHandlers.NewRecordHandler(ingest, cfg.MaxBatchSize)
	healthHandler := httpHandlers.NewHealthHandler(st)

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStoreHealth).Methods("GET")

	// Record endpoints
	router.HandleFunc("/v1/records/batch", recordHandler.BatchWrite).Methods("POST")
	router.HandleFunc("/v1/records", recordHandler.ListRecords).Methods("GET")

	// Type support diagnostics
	router.HandleFunc("/v1/types", recordHandler.ListTypes).Methods("GET")
	router.HandleFunc("/v1/types/{typeId}", recordHandler.CheckType).Methods("GET")

	return router
}
