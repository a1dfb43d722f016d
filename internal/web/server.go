package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/models"
	"github.com/Rorical/LeadForm/internal/predict"
	"github.com/Rorical/LeadForm/internal/update"
)

// Handler serves the lead form as HTML. It keeps no state between
// requests: every POST carries all seven values.
type Handler struct {
	predictor predict.Predictor
	log       *zap.Logger
}

func NewHandler(predictor predict.Predictor, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{predictor: predictor, log: log}
}

// Router returns the chi router with all routes mounted
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/", h.showForm)
	r.Post("/", h.submitForm)
	r.Get("/fields/{index}/validate", h.validateField)
	r.Get("/healthz", h.health)
	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, models.NewFormState())
}

func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	form := models.NewFormState()
	for i, spec := range fields.Specs() {
		update.EditField(form, i, r.PostForm.Get(spec.Name))
	}

	features, ok := update.Submit(form)
	if ok {
		result, err := h.predictor.Predict(r.Context(), features)
		if err != nil {
			h.log.Warn("prediction failed", zap.Error(err))
		}
		update.ApplyOutcome(form, models.Outcome{Seq: form.Seq, Result: result, Err: err})
	}

	h.render(w, form)
}

func (h *Handler) validateField(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= fields.Count {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown field"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"error": fields.Validate(index, r.URL.Query().Get("value")),
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) render(w http.ResponseWriter, form *models.FormState) {
	view := pageView{SubmissionError: form.SubmissionError, Result: form.Result}
	for i, spec := range fields.Specs() {
		view.Fields = append(view.Fields, fieldView{
			Index:       i,
			Name:        spec.Name,
			Label:       spec.Label,
			Placeholder: spec.Placeholder,
			Value:       form.Values[i],
			Error:       form.FieldErrors[i],
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, view); err != nil {
		h.log.Error("render form", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
