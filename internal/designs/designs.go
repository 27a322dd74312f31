package designs

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"Timber/internal/auth"
	"Timber/internal/calc"
	"Timber/internal/calc/building"
	"Timber/internal/repo"
)

type Handler struct {
	Repo repo.DesignRepository
	Env  *calc.Env
}

type SaveRequest struct {
	Name     string         `json:"name"`
	Building building.Input `json:"building"`
}

type SaveResponse struct {
	ID     int             `json:"id"`
	Result building.Result `json:"result"`
}

// Save sizes the building and stores both the input and the result.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = strings.TrimSpace(req.Building.Name)
	}
	if req.Name == "" {
		http.Error(w, "Design name required", http.StatusBadRequest)
		return
	}

	res, err := building.Run(r.Context(), h.Env, req.Building)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	input, err := json.Marshal(req.Building)
	if err != nil {
		http.Error(w, "Encoding error", http.StatusInternalServerError)
		return
	}
	result, err := json.Marshal(res)
	if err != nil {
		http.Error(w, "Encoding error", http.StatusInternalServerError)
		return
	}

	id, err := h.Repo.SaveDesign(r.Context(), repo.Design{
		UserID: userID,
		Name:   req.Name,
		Input:  input,
		Result: result,
		Passes: res.Passes,
	})
	if err != nil {
		log.Printf("SaveDesign Error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SaveResponse{ID: id, Result: res})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	list, err := h.Repo.ListDesigns(r.Context(), userID)
	if err != nil {
		log.Printf("ListDesigns Error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ids(w, r)
	if !ok {
		return
	}
	d, err := h.Repo.GetDesign(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Design not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("GetDesign Error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ids(w, r)
	if !ok {
		return
	}
	err := h.Repo.DeleteDesign(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Design not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("DeleteDesign Error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ids(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, id, true
}
