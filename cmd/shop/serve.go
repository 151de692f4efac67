package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Adnanskuyy/ShoppingABTest/bus"
	"github.com/Adnanskuyy/ShoppingABTest/experiment"
	"github.com/Adnanskuyy/ShoppingABTest/signals"
	"github.com/Adnanskuyy/ShoppingABTest/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a shopping session to a browser",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveFlags struct {
	addr    string
	refresh int
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "127.0.0.1:8080", "Address to listen on")
	serveCmd.Flags().IntVar(&serveFlags.refresh, "refresh", 1, "Page refresh interval in seconds while the session runs (0 disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ss, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer ss.close()
	if ss.settings.metricsAddr != serveFlags.addr {
		ss.serveMetrics(ss.settings.metricsAddr)
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	runner := experiment.NewRunner(ss.scene, experiment.RunnerOptions{Interval: ss.settings.tick})
	runDone := make(chan error, 1)
	runnerStopped := make(chan struct{})
	go func() {
		defer close(runnerStopped)
		runDone <- runner.Run(runCtx)
	}()
	defer func() {
		cancelRun()
		<-runnerStopped
	}()

	hooks := make(chan experiment.Result, 1)
	bus.Listen(ss.scene.Bus, signals.ExperimentEnded, func(signals.Ended) {
		if result, ok := ss.scene.Controller.Result(); ok {
			hooks <- result
		}
	})

	var initErr error
	if err := runner.Do(ctx, func() { initErr = ss.scene.Initialize(ctx) }); err != nil {
		return err
	}
	if initErr != nil {
		return initErr
	}

	mux := http.NewServeMux()
	mux.Handle("/web/", web.NewHandler(web.Options{
		Scene:    ss.scene,
		Executor: runner,
		Refresh:  serveFlags.refresh,
		Logger:   ss.logger.Named("web"),
	}))
	mux.Handle("/metrics", ss.metricsHandler())
	mux.Handle("/", http.RedirectHandler("/web/", http.StatusSeeOther))

	server := &http.Server{Addr: serveFlags.addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- server.ListenAndServe() }()
	fmt.Fprintf(cmd.OutOrStdout(), "%s http://%s/web/\n", styled(consoleLabel, "Serving"), serveFlags.addr)

	for {
		select {
		case result := <-hooks:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styled(consoleLabel, "Completion code:"), styled(consoleCode, result.Code))
			if err := ss.finish(ctx, &result, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				ss.logger.Warn("on-end hook failed", zap.Error(err))
			}
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case err := <-runDone:
			if ctx.Err() == nil {
				return err
			}
			return shutdown(server)
		case <-ctx.Done():
			return shutdown(server)
		}
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
