package handlers

import (
	"timelapse-server/internal/artifact"
	"timelapse-server/internal/cache"
	"timelapse-server/internal/startup"

	"github.com/gorilla/mux"
)

type Handlers struct {
	config  *startup.Config
	cache   *cache.Cache
	builder *artifact.Builder
}

func New(config *startup.Config, c *cache.Cache, builder *artifact.Builder) *Handlers {
	return &Handlers{
		config:  config,
		cache:   c,
		builder: builder,
	}
}

// SetupRouter registers all application routes. Timelapse routes accept
// GET and HEAD; HEAD responses carry the same headers without a body.
func (h *Handlers) SetupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/timelapse/24/{folder}", h.LastDay).Methods("GET", "HEAD").Name("timelapse-24")
	router.HandleFunc("/timelapse/48/{folder}", h.LastTwoDays).Methods("GET", "HEAD").Name("timelapse-48")
	router.HandleFunc("/timelapse/1w/{folder}", h.LastWeek).Methods("GET", "HEAD").Name("timelapse-1w")
	router.HandleFunc("/timelapse/day/{date}/{folder}", h.Day).Methods("GET", "HEAD").Name("timelapse-day")
	router.HandleFunc("/timelapse/from/{from}/to/{to}/{folder}", h.Between).Methods("GET", "HEAD").Name("timelapse-between")
	router.HandleFunc("/timelapse/poster/{folder}", h.Poster).Methods("GET", "HEAD").Name("timelapse-poster")

	router.HandleFunc("/folders", h.Folders).Methods("GET").Name("folders")
	router.HandleFunc("/healthcheck", h.HealthCheck).Methods("GET", "HEAD").Name("healthcheck")
	router.HandleFunc("/version", h.GetVersion).Methods("GET").Name("version")

	return router
}
