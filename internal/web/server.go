package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"accounts-cli/internal/model"
	"accounts-cli/internal/store"

	"github.com/rs/zerolog"
)

const defaultCacheTTL = 10 * time.Minute

type ServerConfig struct {
	Dir string

	// Cache is optional; when nil every read goes to the store.
	Cache    Cache
	CacheTTL time.Duration

	// Secret enables bearer-token auth on the API routes.
	Secret []byte

	Logger zerolog.Logger
}

// Server exposes a workspace store as the list view's remote read/write API.
type Server struct {
	cfg      ServerConfig
	store    store.Store
	cacheKey string
}

type saveReq struct {
	UpdatedAccounts []model.AccountUpdate `json:"updatedAccounts"`
}

func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	st := store.Store{Dir: cfg.Dir}
	wsID, err := st.Init(ctx)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:      cfg,
		store:    st,
		cacheKey: "accounts:list:" + wsID,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /docs", s.handleDocs)
	mux.HandleFunc("GET /docs/{topic}", s.handleDocs)
	mux.Handle("GET /api/accounts", s.requireToken(s.handleFetch))
	mux.Handle("POST /api/accounts/save", s.requireToken(s.handleSave))
	return s.logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.cfg.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("dur", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// listKey names the cached list for the store's current revision, so writes
// made outside this server (CLI update/create) never serve stale data.
// It returns "" when the revision can't be read; callers skip the cache then.
func (s *Server) listKey(ctx context.Context) string {
	if s.cfg.Cache == nil {
		return ""
	}
	rev, err := s.store.Revision(ctx)
	if err != nil {
		s.cfg.Logger.Warn().Err(err).Msg("read store revision failed")
		return ""
	}
	return s.cacheKey + ":" + rev
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := s.listKey(ctx)
	if key != "" {
		if raw, ok, err := s.cfg.Cache.Get(ctx, key); err != nil {
			s.cfg.Logger.Warn().Err(err).Msg("cache get failed")
		} else if ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("X-Cache", "hit")
			_, _ = w.Write([]byte(raw))
			return
		}
	}

	accounts, err := s.store.FetchAccounts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	b, err := json.Marshal(map[string]any{"data": accounts})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if key != "" {
		if err := s.cfg.Cache.Set(ctx, key, string(b), s.cfg.CacheTTL); err != nil {
			s.cfg.Logger.Warn().Err(err).Msg("cache set failed")
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(append(b, '\n'))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.UseNumber()
	var req saveReq
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	staleKey := s.listKey(ctx)
	if err := s.store.SaveAccounts(ctx, req.UpdatedAccounts); err != nil {
		switch {
		case store.IsNotFound(err):
			writeError(w, http.StatusNotFound, err)
		case store.IsFieldError(err):
			writeError(w, http.StatusUnprocessableEntity, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	if staleKey != "" {
		if err := s.cfg.Cache.Del(ctx, staleKey); err != nil {
			s.cfg.Logger.Warn().Err(err).Msg("cache invalidate failed")
		}
	}
	s.cfg.Logger.Info().Int("updates", len(req.UpdatedAccounts)).Msg("accounts saved")

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"saved": len(req.UpdatedAccounts)}})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
}
