package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"astronova.app/server/internal/core"
	"astronova.app/server/internal/geo"
	"astronova.app/server/internal/search"
)

type APIHandler struct {
	sessionService *core.SessionService
	searchCtl      *search.Controller
	geoClient      *geo.Client
}

func NewAPIHandler(sessionService *core.SessionService, searchCtl *search.Controller, geoClient *geo.Client) *APIHandler {
	return &APIHandler{
		sessionService: sessionService,
		searchCtl:      searchCtl,
		geoClient:      geoClient,
	}
}

func (h *APIHandler) SubmitProfileHandler(w http.ResponseWriter, r *http.Request) {
	var input core.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	state, err := h.sessionService.SubmitProfile(r.Context(), input)
	if err != nil {
		log.Printf("Error submitting profile: %v", err)
		http.Error(w, "Failed to submit profile", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(state)
}

func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionService.State()
	if err != nil {
		log.Printf("Error loading session state: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(state)
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	modelMessage, err := h.sessionService.SendMessage(r.Context(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyMessage):
			http.Error(w, "Message content cannot be empty", http.StatusBadRequest)
		case errors.Is(err, core.ErrBusy):
			http.Error(w, "A message is already being processed", http.StatusConflict)
		default:
			log.Printf("Error posting message: %v", err)
			http.Error(w, "Failed to post message", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(modelMessage)
}

type SearchQueryRequest struct {
	Query string `json:"query"`
}

func (h *APIHandler) SearchQueryHandler(w http.ResponseWriter, r *http.Request) {
	var req SearchQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.searchCtl.OnQueryChange(req.Query)
	json.NewEncoder(w).Encode(h.searchCtl.Snapshot())
}

func (h *APIHandler) SearchStateHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.searchCtl.Snapshot())
}

type SearchSelectRequest struct {
	Value string `json:"value"`
}

func (h *APIHandler) SearchSelectHandler(w http.ResponseWriter, r *http.Request) {
	var req SearchSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.searchCtl.Select(req.Value)
	json.NewEncoder(w).Encode(h.searchCtl.Snapshot())
}

func (h *APIHandler) SearchBlurHandler(w http.ResponseWriter, r *http.Request) {
	h.searchCtl.OnBlur()
	w.WriteHeader(http.StatusNoContent)
}

// LocationsHandler is the direct, undebounced lookup for non-interactive
// clients. Lookup failures yield an empty list, never an error status.
func (h *APIHandler) LocationsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := h.geoClient.Search(r.Context(), query)
	json.NewEncoder(w).Encode(map[string][]string{"results": results})
}
