package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloud-ru/mcp-loan-planner-go/internal/log"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/metrics"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/tools"
)

// максимальный размер тела запроса
const maxBodyBytes = 1 << 20

// Server — HTTP транспорт для инструментов
type Server struct {
	registry map[string]tools.ToolHandler
	logger   *log.Logger
}

// New создает сервер поверх набора инструментов
func New(registry map[string]tools.ToolHandler, logger *log.Logger) *Server {
	return &Server{
		registry: registry,
		logger:   logger.WithComponent(log.ComponentHTTP),
	}
}

// Handler возвращает корневой http.Handler со всеми маршрутами
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /tools", s.listTools)
	mux.HandleFunc("POST /tools/{name}", s.callTool)
	mux.Handle("GET /metrics", promhttp.Handler())

	return log.Middleware(s.logger)(requestID(mux))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "mcp-loan-planner",
	})
}

func (s *Server) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tools": tools.Names(s.registry),
	})
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	handler, ok := s.registry[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tool: "+name)
		return
	}

	var params map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if params == nil {
		params = map[string]interface{}{}
	}

	result, err := handler(r.Context(), params)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tools.ErrInvalidParams) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tool":   name,
		"result": result,
	})
}

// requestID проставляет X-Request-ID, логирует запрос и пишет метрику длительности
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		logger := log.FromContext(r.Context()).With(log.FieldRequestID, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(log.NewContext(r.Context(), logger)))

		elapsed := time.Since(started)
		metrics.HTTPRequestDuration.WithLabelValues(routeLabel(r.URL.Path), strconv.Itoa(rec.status)).Observe(elapsed.Seconds())
		logger.InfoContext(r.Context(), "HTTP request completed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, elapsed.Milliseconds(),
		)
	})
}

// routeLabel ограничивает кардинальность метки path
func routeLabel(path string) string {
	switch {
	case path == "/healthz", path == "/tools", path == "/metrics":
		return path
	case strings.HasPrefix(path, "/tools/"):
		return "/tools/{name}"
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
