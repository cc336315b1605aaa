package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/addmath/internal/backup"
	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/importer"
	"github.com/abhisek/addmath/internal/logging"
	"github.com/abhisek/addmath/internal/mathtext"
	"github.com/abhisek/addmath/internal/topics"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"questions": h.bank.Total(),
		"updated":   h.bank.LastUpdated(),
	})
}

func (h *Handler) Stylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	fmt.Fprint(w, pageCSS+mathtext.Stylesheet)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page := indexPage{Updated: h.bank.LastUpdated()}
	for _, f := range topics.AllForms() {
		group := formGroup{Title: topics.FormDisplayName(f)}
		for _, t := range topics.ByForm(f) {
			group.Topics = append(group.Topics, topicLink{Topic: t, Count: h.bank.Count(t.ID)})
		}
		page.Forms = append(page.Forms, group)
	}
	h.render(w, r, "index", page)
}

// Worksheet lists a topic's questions. ?answers=1 adds the answer key
// and explanations.
func (h *Handler) Worksheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "topicID")
	t, err := topics.Get(id)
	if err != nil {
		http.Error(w, "unknown topic", http.StatusNotFound)
		return
	}

	page := worksheetPage{Topic: t, Answers: r.URL.Query().Get("answers") == "1"}
	for i, q := range h.bank.Questions(id) {
		page.Items = append(page.Items, renderItem(i+1, q))
	}
	h.render(w, r, "worksheet", page)
}

func (h *Handler) Question(w http.ResponseWriter, r *http.Request) {
	q, topicID, err := h.bank.Find(chi.URLParam(r, "id"))
	if errors.Is(err, bank.ErrNotFound) {
		http.Error(w, "question not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("find question")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topic": topicID, "question": q})
}

func (h *Handler) ExportTemplate(w http.ResponseWriter, r *http.Request) {
	attachment(w, "text/csv", importer.TemplateFileName)
	if err := importer.WriteTemplate(w); err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("write template")
	}
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	attachment(w, "text/csv", importer.ExportFileName(h.now()))
	if err := importer.WriteCSV(w, h.bank.All()); err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("write csv export")
	}
}

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	attachment(w, "application/json", backup.FileName(now))
	if err := backup.Write(w, h.bank.All(), now); err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("write backup")
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		logging.WithContext(r.Context()).WithError(err).WithField("template", name).Error("render page")
	}
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
