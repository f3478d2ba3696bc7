package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/minesboomer/internal/api/request"
	"github.com/mcoot/minesboomer/internal/api/response"
	"github.com/mcoot/minesboomer/internal/storage"
)

// ResultsHandler handles the finished games ledger
type ResultsHandler struct {
	results storage.Storage
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(results storage.Storage) *ResultsHandler {
	return &ResultsHandler{results: results}
}

// List handles GET /api/v1/results
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := request.ParseListResults(r)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	results, err := h.results.ListResults(r.Context(), query.Limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultsFromModel(results))
}

// Get handles GET /api/v1/results/{id}
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.GetResult(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultFromModel(result))
}
