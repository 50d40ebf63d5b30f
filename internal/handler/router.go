package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter registers every API route. gatherer backs GET /metrics.
func NewRouter(jobs *JobHandler, bot *BotHandler, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware, logMiddleware)

	r.HandleFunc("/videos/index-missing", bot.IndexMissing).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/videos/{id}/index", bot.IndexVideo).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/drafts/generate", bot.GenerateDrafts).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/drafts/{id}/approve", bot.ApproveDraft).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/jobs", jobs.CreateJob).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/jobs", jobs.ListJobs).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", jobs.GetJob).Methods(http.MethodGet)
	r.HandleFunc("/stats", jobs.GetStats).Methods(http.MethodGet)

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Debug("request")
		next.ServeHTTP(w, r)
	})
}
