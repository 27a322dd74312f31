package report

import (
	"encoding/json"
	"net/http"
	"time"

	"Timber/internal/calc"
	"Timber/internal/calc/building"
)

type Input struct {
	Project  string         `json:"project"`
	Author   string         `json:"author"`
	Title    string         `json:"title"`
	Notes    string         `json:"notes"`
	Building building.Input `json:"building"`
}

type Handler struct {
	Env *calc.Env
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := building.Run(r.Context(), h.Env, input.Building)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}

	pdf := Render(input, res, time.Now())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"sizing-report.pdf\"")
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}
