package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/pvptrainer/internal/config"
	"github.com/verte-zerg/pvptrainer/internal/cp"
	"github.com/verte-zerg/pvptrainer/internal/session"
	"github.com/verte-zerg/pvptrainer/internal/store"
	"github.com/verte-zerg/pvptrainer/internal/web"
)

const (
	defaultAddr       = ":8080"
	defaultSessionTTL = int(session.DefaultTTL / time.Minute)
	shutdownTimeout   = 10 * time.Second
	redisPingTimeout  = 5 * time.Second
)

var (
	serveAddr       string
	serveRedis      string
	serveSessionTTL int
	serveVerbose    bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quiz as a web app",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	addQuizFlags(cmd)
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&serveRedis, "redis", "", "redis address or URL for sessions (default: in memory)")
	cmd.Flags().IntVar(&serveSessionTTL, "session-ttl", defaultSessionTTL, "idle session lifetime in minutes")
	cmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "log every request")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	resolveDirs(cmd, fileCfg)
	cfg, err := resolveQuizConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "redis", &serveRedis, fileCfg.Server.RedisAddr)
	applyIntConfig(cmd, "session-ttl", &serveSessionTTL, fileCfg.Server.SessionTTLMinutes)
	if serveSessionTTL <= 0 {
		return fmt.Errorf("--session-ttl must be > 0")
	}

	level := slog.LevelInfo
	if serveVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	d, files, err := loadDex(dataDir)
	if err != nil {
		return err
	}
	logger.Info("loaded data tables", "species", files.Species, "moves", files.Moves)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := openSessions(ctx, serveRedis, time.Duration(serveSessionTTL)*time.Minute)
	if err != nil {
		return err
	}
	defer closeSessions()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "error", cerr)
		}
	}()

	srv, err := web.NewServer(web.Config{
		Dex:          d,
		Files:        files,
		DatasetsDir:  datasetsDir,
		Sessions:     sessions,
		History:      st,
		Generator:    newGenerator(cfg),
		Weights:      cfg.Weights,
		DefaultMaxCP: sessionMaxCP(cfg.MaxCP),
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", serveAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// openSessions returns a Redis-backed store when addr is set and an in-memory
// one otherwise. The returned func releases the store's connections.
func openSessions(ctx context.Context, addr string, ttl time.Duration) (session.Store, func(), error) {
	if addr == "" {
		return session.NewMemoryStore(ttl), func() {}, nil
	}
	client, err := session.NewRedisClient(addr)
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() {
		if cerr := client.Close(); cerr != nil {
			logErrf("failed to close redis client: %v\n", cerr)
		}
	}
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		closeClient()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	sessions, err := session.NewRedisStore(session.RedisConfig{Client: client, TTL: ttl})
	if err != nil {
		closeClient()
		return nil, nil, err
	}
	return sessions, closeClient, nil
}

// sessionMaxCP maps the configured cap onto web.Config.DefaultMaxCP, where zero
// means "keep the session default" rather than "no cap".
func sessionMaxCP(maxCP int) int {
	if maxCP == cp.NoCap {
		return -1
	}
	return maxCP
}
