// Package api serves the scheduler over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"scheduler/internal/planner"
	"scheduler/internal/scheduler"
	"scheduler/internal/store"
)

const (
	// maxEntriesBody caps the size of an uploaded entries file.
	maxEntriesBody = 10 << 20
	// maxMeetingDays caps the date span of a meeting search.
	maxMeetingDays = 366
)

// Planner is the part of planner.Planner the API needs.
type Planner interface {
	AddEntries(ctx context.Context, r io.Reader) (*planner.AddResult, error)
	Meeting(ctx context.Context, req *scheduler.MeetingRequest) (*planner.Meeting, error)
	Purge(ctx context.Context) error
	Count(ctx context.Context) (*store.Stats, error)
}

type Handler struct {
	Planner Planner
	Log     *slog.Logger
}

func NewHandler(p Planner, log *slog.Logger) *Handler {
	return &Handler{
		Planner: p,
		Log:     log,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.handleHealth)

	r.Route("/entries", func(r chi.Router) {
		r.Post("/", h.handleAddEntries)
		r.Delete("/", h.handlePurge)
	})

	r.Get("/meeting", h.handleMeeting)
	r.Get("/stats", h.handleStats)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleAddEntries(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxEntriesBody)
	res, err := h.Planner.AddEntries(r.Context(), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = ErrBadRequest("entries body too large", err)
		}
		h.writeError(w, "addEntries", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleMeeting(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := scheduler.ParseMeetingRequest(
		q.Get("ids"),
		q.Get("start_date"),
		q.Get("end_date"),
		q.Get("start_hour"),
		q.Get("end_hour"),
		q.Get("duration"),
	)
	if err != nil {
		h.writeError(w, "meeting", err)
		return
	}
	if req.Window.Days() > maxMeetingDays {
		h.writeError(w, "meeting", ErrBadRequest(fmt.Sprintf("Date range must not exceed %d days.", maxMeetingDays), nil))
		return
	}

	meeting, err := h.Planner.Meeting(r.Context(), req)
	if err != nil {
		h.writeError(w, "meeting", err)
		return
	}

	participants := meeting.Participants
	if participants == nil {
		participants = []string{}
	}
	writeJSON(w, http.StatusOK, meetingResponse{
		Participants: participants,
		Slots:        toSlotResponses(meeting.Slots),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Planner.Count(r.Context())
	if err != nil {
		h.writeError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handlePurge(w http.ResponseWriter, r *http.Request) {
	if err := h.Planner.Purge(r.Context()); err != nil {
		h.writeError(w, "purge", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, handlerName string, err error) {
	appErr := toAppError(err)

	h.Log.Error("handler error",
		slog.String("handler", handlerName),
		slog.String("code", appErr.Code),
		slog.String("message", appErr.Message),
		slog.Any("err", appErr.Err),
	)

	resp := errorResponse{}
	resp.Error.Code = appErr.Code
	resp.Error.Message = appErr.Message
	writeJSON(w, appErr.Status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
