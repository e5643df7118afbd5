package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"attendance.bot/internal/api/handler"
	"attendance.bot/internal/core"
)

// NewRouter sets up the gorilla/mux router for the ops surface: health plus
// report downloads.
func NewRouter(reports *core.ReportService, cal *core.Calendar) *mux.Router {

	reportHandler := handler.ReportHandler{
		Reports: reports,
		Cal:     cal,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/reports/today.xlsx", reportHandler.Today).Methods(http.MethodGet)
	api.HandleFunc("/reports/{employeeID}/week.xlsx", reportHandler.Week).Methods(http.MethodGet)
	api.HandleFunc("/reports/{employeeID}/month.xlsx", reportHandler.Month).Methods(http.MethodGet)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
