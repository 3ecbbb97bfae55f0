package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tifye/fairway/api"
	"github.com/tifye/fairway/rules"
	"github.com/tifye/fairway/session"
	"github.com/tifye/fairway/storage"
	"github.com/tifye/fairway/stream"
)

func main() {
	config := viper.New()
	config.AutomaticEnv()

	err := godotenv.Load()
	if err != nil {
		log.Warn("could not load .env file: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger := log.NewWithOptions(os.Stdout, log.Options{
		Level: log.DebugLevel,
	})

	err = run(ctx, logger, config)
	if err != nil {
		logger.Error(err)
	}
}

func run(ctx context.Context, logger *log.Logger, config *viper.Viper) error {
	config.SetDefault("PORT", 6565)
	port := config.GetInt("PORT")

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("net listen: %s", err)
	}

	deps, cfs, err := initDependencies(logger, config)
	if err != nil {
		return fmt.Errorf("init deps: %s", err)
	}
	defer func() {
		if err := cfs.Cleanup(); err != nil {
			logger.Error("cleanup funcs", "err", err)
		}
	}()

	s := api.NewServer(logger, config, deps)
	go func() {
		logger.Printf("serving on %s", ln.Addr())
		err := s.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = s.Shutdown(closeCtx)
	if err != nil {
		return fmt.Errorf("server shutdown: %s", err)
	}

	return nil
}

func initDependencies(logger *log.Logger, config *viper.Viper) (deps *api.ServerDependencies, cfs CleanupFuncs, err error) {
	defer func() {
		if err == nil {
			return
		}

		if ferr := cfs.Cleanup(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	config.SetDefault("RULES_PATH", "data/config.json")
	config.SetDefault("STATE_DIR", os.TempDir())
	config.SetDefault("SESSION_TTL", "30m")

	r, err := rules.Load(config.GetString("RULES_PATH"))
	if err != nil {
		return nil, cfs, fmt.Errorf("load rules: %s", err)
	}

	var recorder storage.TurnRecorder = storage.NoopRecorder{}
	if dbPath := config.GetString("ANALYTICS_DB"); dbPath != "" {
		db, err := storage.InitDuckDB(dbPath)
		if err != nil {
			return nil, cfs, fmt.Errorf("init duckdb: %s", err)
		}
		duckRecorder := storage.NewDuckDBRecorder(logger.WithPrefix("analytics"), db)
		cfs.Defer(duckRecorder.Close)
		recorder = duckRecorder
	}

	ttl := config.GetDuration("SESSION_TTL")
	manager := session.NewManager(logger.WithPrefix("sessions"), r, config.GetString("STATE_DIR"), ttl, recorder)
	cfs.Defer(func() error {
		manager.Close()
		return nil
	})

	hub := stream.NewHub(logger.WithPrefix("stream"))

	sessionStore := sessions.NewFilesystemStore("", []byte(config.GetString("OTP_SECRET")))
	newSessionCookie := func(s *sessions.Session) (*http.Cookie, error) {
		val, err := securecookie.EncodeMulti(s.Name(), s.ID, sessionStore.Codecs...)
		if err != nil {
			return nil, err
		}
		return sessions.NewCookie(s.Name(), val, s.Options), nil
	}

	return &api.ServerDependencies{
		Sessions:         manager,
		Hub:              hub,
		SessionStore:     sessionStore,
		NewSessionCookie: newSessionCookie,
	}, cfs, nil
}
