package joist

import (
	"encoding/json"
	"net/http"

	"Timber/internal/calc"
	"Timber/internal/calc/sizing"
)

type Handler struct {
	Env *calc.Env
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := calc.Cached(r.Context(), h.Env, "joist", input, func() (sizing.Result, error) {
		return Calculate(input, h.Env.Tables, h.Env.Limits)
	})
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
