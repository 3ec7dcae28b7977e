package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/polyphrases/polyphrases/internal/handler"
	"github.com/polyphrases/polyphrases/internal/middleware"
	"github.com/polyphrases/polyphrases/internal/model"
	"github.com/polyphrases/polyphrases/internal/router"
	"github.com/polyphrases/polyphrases/internal/scheduler"
)

func runDispatch(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	newService, err := a.dispatchFactory(cmd.Context())
	if err != nil {
		return err
	}

	_, err = newService().Run(cmd.Context())
	return err
}

func runIllustrate(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	var day *time.Time
	if raw, _ := cmd.Flags().GetString("date"); raw != "" {
		loc, err := a.cfg.Dispatch.Location()
		if err != nil {
			return fmt.Errorf("invalid dispatch.timezone: %w", err)
		}
		parsed, err := time.ParseInLocation(model.DateLayout, raw, loc)
		if err != nil {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD: %w", raw, err)
		}
		day = &parsed
	}

	newService, err := a.illustrationFactory(cmd.Context())
	if err != nil {
		return err
	}

	_, err = newService().Run(cmd.Context(), day)
	return err
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	loc, err := a.cfg.Dispatch.Location()
	if err != nil {
		return fmt.Errorf("invalid dispatch.timezone: %w", err)
	}
	sched := scheduler.New(loc, a.log)

	if a.cfg.Schedule.Dispatch != "" {
		newDispatch, err := a.dispatchFactory(cmd.Context())
		if err != nil {
			return err
		}
		err = sched.Add("dispatch", a.cfg.Schedule.Dispatch, func(ctx context.Context) error {
			_, err := newDispatch().Run(ctx)
			return err
		})
		if err != nil {
			return err
		}
	}

	if a.cfg.Schedule.Illustrate != "" {
		newIllustration, err := a.illustrationFactory(cmd.Context())
		if err != nil {
			return err
		}
		err = sched.Add("illustrate", a.cfg.Schedule.Illustrate, func(ctx context.Context) error {
			_, err := newIllustration().Run(ctx, nil)
			return err
		})
		if err != nil {
			return err
		}
	}

	if sched.Entries() == 0 {
		return fmt.Errorf("no jobs scheduled, set schedule.dispatch or schedule.illustrate")
	}

	if addr := a.cfg.Schedule.HealthAddr; addr != "" {
		go serveOps(cmd.Context(), a, sched, addr)
	}

	return sched.Run(cmd.Context())
}

// serveOps exposes health and job status until ctx is done
func serveOps(ctx context.Context, a *app, sched *scheduler.Scheduler, addr string) {
	var rdb handler.HealthChecker
	if a.rdb != nil {
		rdb = a.rdb
	}
	h := handler.New(a.db, rdb, sched, a.log, rootCmd.Version)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router.New(h, middleware.New(a.log)),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info().Str("addr", addr).Msg("ops endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error().Err(err).Str("addr", addr).Msg("ops endpoint failed")
	}
}
