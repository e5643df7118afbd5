package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"attendance.bot/internal/core"
	"attendance.bot/internal/core/model"
	"attendance.bot/internal/export"
	"github.com/gorilla/mux"
)

// ReportHandler serves attendance reports as xlsx downloads. The Telegram
// scenes use the same aggregator; this is the web counterpart of the chat's
// "open the report" buttons.
type ReportHandler struct {
	Reports *core.ReportService
	Cal     *core.Calendar
}

func (h *ReportHandler) Today(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.Today(r.Context())
	if err != nil {
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}
	h.serve(w, "today", rows)
}

func (h *ReportHandler) Week(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		http.Error(w, "Invalid employee id", http.StatusBadRequest)
		return
	}
	rows, err := h.Reports.Week(r.Context(), id)
	if err != nil {
		h.reportError(w, err)
		return
	}
	h.serve(w, "week", rows)
}

func (h *ReportHandler) Month(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		http.Error(w, "Invalid employee id", http.StatusBadRequest)
		return
	}
	rows, err := h.Reports.Month(r.Context(), id)
	if err != nil {
		h.reportError(w, err)
		return
	}
	h.serve(w, "month", rows)
}

func (h *ReportHandler) reportError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrEmployeeNotFound) {
		http.Error(w, "Employee not found", http.StatusNotFound)
		return
	}
	http.Error(w, "Failed to build report", http.StatusInternalServerError)
}

func (h *ReportHandler) serve(w http.ResponseWriter, scope string, rows []model.ReportRow) {
	header, cells := core.ExportRows(rows)
	workbook, err := export.Workbook(header, cells)
	if err != nil {
		http.Error(w, "Failed to serialize report", http.StatusInternalServerError)
		return
	}

	filename := export.Filename(scope, h.Cal.Today())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(workbook)
}

func employeeID(r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["employeeID"]
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}
