package plays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/augustdev/amphitheatre/internal/logs"
	"github.com/augustdev/amphitheatre/internal/relay"
	"github.com/augustdev/amphitheatre/internal/workloads"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	service   *Service
	relay     *relay.Relay
	inspector workloads.Inspector
	stats     workloads.StatsProvider
	config    Config
	logger    *slog.Logger
}

func NewHandlers(
	service *Service,
	logRelay *relay.Relay,
	inspector workloads.Inspector,
	stats workloads.StatsProvider,
	config Config,
	logger *slog.Logger,
) *Handlers {
	if config.DefaultNamespace == "" {
		config.DefaultNamespace = "default"
	}
	return &Handlers{
		service:   service,
		relay:     logRelay,
		inspector: inspector,
		stats:     stats,
		config:    config,
		logger:    logger,
	}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/plays", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleDetail)
		r.Get("/{id}/logs", h.HandleLogs)
		r.Get("/{id}/logs/ws", h.HandleLogsWebSocket)
		r.Get("/{id}/inspect", h.HandleInspect)
		r.Get("/{id}/stats", h.HandleStats)
	})
}

func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	plays, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, ErrUnavailable.Error())
		return
	}
	writeJSON(w, http.StatusOK, plays)
}

func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "OK")
}

func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	play, ok := h.loadPlay(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, play)
}

func (h *Handlers) HandleLogs(w http.ResponseWriter, r *http.Request) {
	session, ok := h.openSession(w, r)
	if !ok {
		return
	}

	stream, err := relay.NewEventStream(w)
	if err != nil {
		session.Close()
		h.logger.Error("failed to start event stream", "session_id", session.ID, "error", err)
		return
	}

	_ = session.Run(r.Context(), stream)
}

func (h *Handlers) HandleLogsWebSocket(w http.ResponseWriter, r *http.Request) {
	session, ok := h.openSession(w, r)
	if !ok {
		return
	}

	ws, err := relay.UpgradeWebSocket(w, r)
	if err != nil {
		session.Close()
		h.logger.Warn("websocket upgrade failed", "session_id", session.ID, "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-ws.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	runErr := session.Run(ctx, ws)
	if err := ws.Finish(runErr); err != nil {
		h.logger.Debug("websocket close failed", "session_id", session.ID, "error", err)
	}
}

func (h *Handlers) HandleInspect(w http.ResponseWriter, r *http.Request) {
	workload, ok := h.loadWorkload(w, r)
	if !ok {
		return
	}

	inspection, err := h.inspector.Inspect(r.Context(), workload)
	if err != nil {
		h.writeProviderError(w, "inspect", workload, err)
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	workload, ok := h.loadWorkload(w, r)
	if !ok {
		return
	}

	stats, err := h.stats.Stats(r.Context(), workload)
	if err != nil {
		h.writeProviderError(w, "stats", workload, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) openSession(w http.ResponseWriter, r *http.Request) (*relay.Session, bool) {
	follow, backlog, err := h.relayOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	workload, ok := h.loadWorkload(w, r)
	if !ok {
		return nil, false
	}

	session, err := h.relay.Open(r.Context(), relay.Request{
		Workload:     workload,
		Follow:       follow,
		BacklogLines: backlog,
	})
	if err != nil {
		// Every open failure is logs.ErrSourceUnavailable.
		h.logger.Warn("failed to open log relay", "workload", workload.String(), "error", err)
		writeError(w, http.StatusNotFound, "workload logs unavailable")
		return nil, false
	}
	return session, true
}

func (h *Handlers) relayOptions(r *http.Request) (bool, int64, error) {
	cfg := h.relay.Config()
	query := r.URL.Query()

	follow := true
	if v := query.Get("follow"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return false, 0, fmt.Errorf("invalid follow %q", v)
		}
		follow = parsed
	}

	backlog := cfg.BacklogLines
	if v := query.Get("tail"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 0 || parsed > cfg.MaxBacklogLines {
			return false, 0, fmt.Errorf("tail must be between 0 and %d", cfg.MaxBacklogLines)
		}
		backlog = parsed
	}

	return follow, backlog, nil
}

func (h *Handlers) loadPlay(w http.ResponseWriter, r *http.Request) (Play, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid play id")
		return Play{}, false
	}

	play, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "play not found")
			return Play{}, false
		}
		writeError(w, http.StatusInternalServerError, "failed to load play")
		return Play{}, false
	}
	return play, true
}

func (h *Handlers) loadWorkload(w http.ResponseWriter, r *http.Request) (logs.Workload, bool) {
	play, ok := h.loadPlay(w, r)
	if !ok {
		return logs.Workload{}, false
	}

	workload, ok := play.Target(h.config.DefaultNamespace)
	if !ok {
		writeError(w, http.StatusNotFound, "play has no workload")
		return logs.Workload{}, false
	}
	return workload, true
}

func (h *Handlers) writeProviderError(w http.ResponseWriter, what string, workload logs.Workload, err error) {
	h.logger.Error("workload provider failed", "provider", what, "workload", workload.String(), "error", err)
	if errors.Is(err, logs.ErrSourceUnavailable) {
		writeError(w, http.StatusNotFound, "workload not found")
		return
	}
	writeError(w, http.StatusBadGateway, what+" temporarily unavailable")
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
