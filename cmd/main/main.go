package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"auction-matcher/internal/auction/handler"
	"auction-matcher/internal/auction/hub"
	"auction-matcher/internal/auction/intake"
	"auction-matcher/internal/auction/model"
	"auction-matcher/internal/auction/store"
	"auction-matcher/internal/auction/worker"
	"auction-matcher/internal/config"
	"auction-matcher/internal/syncutil"
	serverhttp "auction-matcher/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)
	opt := cfg.Options()
	if syncutil.DeadlockEnabled {
		logger.Warn().Msg("deadlock detection enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lots := store.NewLotStore()
	queue := store.NewDonationQueue()
	similar := store.NewSimilarLots()
	grouper := worker.New(opt, logger)
	in := intake.New(lots, queue, opt, logger)
	ws := hub.New(logger)

	// любое изменение лотов уходит панелям и воркеру кластеризации;
	// опоздавшие снимки отсекаются по версии
	lots.OnChange(func(version uint64, snapshot []model.Lot) {
		ws.NotifyVersioned(hub.TypeLotsUpdated, version, snapshot)
		grouper.SubmitVersion(version, snapshot)
	})
	in.OnQueueChange(func(pending []intake.Pending) {
		ws.Notify(hub.TypeDonationsUpdated, pending)
	})
	ws.Greet(func() []hub.Notification {
		groups, _ := similar.Groups()
		return []hub.Notification{
			{Type: hub.TypeLotsUpdated, Data: lots.Snapshot()},
			{Type: hub.TypeDonationsUpdated, Data: in.Pending()},
			{Type: hub.TypeLotsSimilar, Data: groups},
		}
	})

	h := handler.New(handler.Deps{
		Lots:           lots,
		Similar:        similar,
		Intake:         in,
		Options:        opt,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Logger:         logger,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           serverhttp.NewRouter(cfg, h, ws, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", cfg.Addr()).
			Float64("match_threshold", opt.MatchThreshold).
			Float64("auto_assign_threshold", opt.AutoAssignThreshold).
			Float64("group_threshold", opt.GroupThreshold).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := grouper.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		similar.Consume(gctx, grouper.Results(), func(groups model.Groups) {
			ws.Notify(hub.TypeLotsSimilar, groups)
		})
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = ws.Close()
		return srv.Shutdown(shutdownCtx)
	})

	grouper.SubmitVersion(lots.Versioned())

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("bye")
}
