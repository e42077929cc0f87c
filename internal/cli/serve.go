package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"accounts-cli/internal/store"
	"accounts-cli/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr, redisAddr string
	var auth bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workspace as a JSON API for remote list views",
		Example: strings.TrimSpace(`
# Serve the current workspace on localhost
accounts serve --addr 127.0.0.1:3335

# Cache reads in Redis
accounts serve --addr :3335 --redis 127.0.0.1:6379
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if strings.TrimSpace(redisAddr) == "" {
				if cfg, err := store.LoadConfig(); err == nil {
					redisAddr = cfg.RedisAddr
				}
			}
			var cache web.Cache
			if strings.TrimSpace(redisAddr) != "" {
				c, err := web.NewRedisCache(ctx, redisAddr)
				if err != nil {
					app.logger.Warn().Err(err).Msg("redis unavailable; caching disabled")
				} else {
					cache = c
					defer func() {
						if err := c.Close(); err != nil {
							app.logger.Warn().Err(err).Msg("close redis")
						}
					}()
				}
			}

			var secret []byte
			if auth {
				if secret, err = web.LoadOrInitSecret(dir); err != nil {
					return writeErr(cmd, err)
				}
			}

			srv, err := web.NewServer(ctx, web.ServerConfig{
				Dir:    dir,
				Cache:  cache,
				Secret: secret,
				Logger: app.logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":    actualAddr,
					"url":     "http://" + actualAddr + "/",
					"dir":     dir,
					"cache":   cache != nil,
					"auth":    auth,
					"started": time.Now().UTC().Format(time.RFC3339),
				},
			})

			hs := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() { errCh <- hs.Serve(ln) }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return writeErr(cmd, err)
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return hs.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3335", "Listen address")
	cmd.Flags().BoolVar(&auth, "auth", false, "Require bearer tokens on /api routes (mint with `accounts token`)")
	cmd.Flags().StringVar(&redisAddr, "redis", envOr("ACCOUNTS_REDIS_ADDR", ""), "Redis address for the read cache (optional)")
	return cmd
}
