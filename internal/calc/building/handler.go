package building

import (
	"context"
	"encoding/json"
	"net/http"

	"Timber/internal/calc"
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
	res, err := Run(r.Context(), h.Env, input)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Run calculates a building through the environment's cache.
func Run(ctx context.Context, env *calc.Env, in Input) (Result, error) {
	return calc.Cached(ctx, env, "building", in, func() (Result, error) {
		return Calculate(in, env.Tables, env.Limits, env.PricePerM3)
	})
}
