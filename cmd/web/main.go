package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kebtye/orderdesk/internal/config"
	"github.com/kebtye/orderdesk/internal/httpx"
	"github.com/kebtye/orderdesk/internal/notify"
	"github.com/kebtye/orderdesk/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New(cfg.DataFile, log)

	// SMS sink; inert when credentials are missing.
	var sender notify.Sender
	if cfg.SMSEnabled() {
		sender = &notify.TwilioClient{
			AccountSID: cfg.TwilioSID,
			AuthToken:  cfg.TwilioToken,
			From:       cfg.TwilioFrom,
		}
	} else {
		log.Info("sms credentials missing, notifications disabled")
	}
	notifier := notify.New(sender, cfg.AlertPhone, log, 64)
	notifier.Start(ctx)

	router := httpx.NewRouter()
	httpx.NewOrdersHandler(st, notifier, log).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("data_file", cfg.DataFile))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	notifier.Close()      // stop accepting, flush queued messages
	cancel()              // stop dispatcher loop
	notifier.WaitClosed() // drain
}
