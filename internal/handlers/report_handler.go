package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
)

// ReportHandler serves the generated insights: monthly reports, receipts,
// budget plans, forecasts and the health score
type ReportHandler struct {
	reports   services.ReportService
	planner   services.PlannerService
	ownership services.OwnershipService
}

func NewReportHandler(reports services.ReportService, planner services.PlannerService, ownership services.OwnershipService) *ReportHandler {
	return &ReportHandler{reports: reports, planner: planner, ownership: ownership}
}

func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports", h.GetReports).Methods("GET")
	router.HandleFunc("/reports/generate", h.GenerateReport).Methods("POST")
	router.HandleFunc("/reports/{month:[0-9]{4}-[0-9]{2}}", h.GetReport).Methods("GET")

	router.HandleFunc("/receipts", h.GetReceipts).Methods("GET")
	router.HandleFunc("/receipts/scan", h.ScanReceipt).Methods("POST")
	router.HandleFunc("/receipts/{id}", h.DeleteReceipt).Methods("DELETE")

	router.HandleFunc("/budget-plans", h.GetBudgetPlans).Methods("GET")
	router.HandleFunc("/budget-plans/generate", h.GenerateBudgetPlan).Methods("POST")

	router.HandleFunc("/forecasts", h.GetForecasts).Methods("GET")
	router.HandleFunc("/forecasts/generate", h.GenerateForecast).Methods("POST")

	router.HandleFunc("/health-score", h.GetHealthScore).Methods("GET")
}

func (h *ReportHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reports, err := h.reports.GetMonthlyReports(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	report, err := h.reports.GetMonthlyReport(userID, mux.Vars(r)["month"])
	respondRecord(w, report, err)
}

// GenerateReport summarizes the previous calendar month
func (h *ReportHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	report, err := h.planner.GenerateMonthlyReport(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, report)
}

func (h *ReportHandler) GetReceipts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	receipts, err := h.reports.GetReceipts(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, receipts)
}

// ScanReceipt accepts an optional {"image_url"} body
func (h *ReportHandler) ScanReceipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		ImageURL *string `json:"image_url"`
	}
	body, err := io.ReadAll(r.Body)
	if err != nil || (len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &req) != nil) {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.planner.ScanReceipt(userID, req.ImageURL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *ReportHandler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := owned(w, r, h.ownership, store.Receipts)
	if !ok {
		return
	}
	respondNoContent(w, h.reports.DeleteReceipt(id))
}

func (h *ReportHandler) GetBudgetPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	plans, err := h.reports.GetBudgetPlans(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plans)
}

func (h *ReportHandler) GenerateBudgetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.BudgetInput
	if !decodeBody(w, r, &in) {
		return
	}
	plan, err := h.planner.GenerateBudgetPlan(userID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

func (h *ReportHandler) GetForecasts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	forecasts, err := h.reports.GetSpendingForecasts(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, forecasts)
}

func (h *ReportHandler) GenerateForecast(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	forecast, err := h.planner.GenerateSpendingForecast(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, forecast)
}

func (h *ReportHandler) GetHealthScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	score, err := h.planner.HealthScore(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, score)
}
