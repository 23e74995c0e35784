package main

import (
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ahinestrog/bookshop/internal/account"
	"github.com/ahinestrog/bookshop/internal/catalog"
	"github.com/ahinestrog/bookshop/internal/checkout"
	"github.com/ahinestrog/bookshop/internal/config"
	"github.com/ahinestrog/bookshop/internal/email"
	"github.com/ahinestrog/bookshop/internal/events"
	"github.com/ahinestrog/bookshop/internal/httpapi"
	"github.com/ahinestrog/bookshop/internal/payment"
	"github.com/ahinestrog/bookshop/internal/store"
)

func main() {
	// Logger
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("db", cfg.DBPath).
		Str("rabbit", cfg.RabbitURL).
		Msg("starting bookshop")

	// Order archive
	var archive checkout.Archive
	if cfg.DBPath != "" {
		st, err := store.Open(cfg.DBPath)
		must(err)
		defer st.Close()
		archive = st
	}

	// Events
	var pub events.Publisher = events.Nop{}
	if cfg.RabbitURL != "" {
		rb, err := events.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ not available, continuing without events")
		} else {
			defer rb.Close()
			pub = rb
		}
	}

	gateway := payment.NewMockGateway(rand.New(rand.NewSource(time.Now().UnixNano())))
	mailer := email.NewLogSender(log.Logger)
	svc := checkout.NewService(account.NewRegistry(), gateway, mailer, pub, archive, log.Logger)
	api := httpapi.NewServer(svc, catalog.Demo(), log.Logger)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Handler()}

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Warn().Msg("shutting down...")
		_ = srv.Close()
	}()

	log.Info().Msg("HTTP listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("serve")
	}
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
