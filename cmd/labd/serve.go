package main

import (
	stdcontext "context"
	"errors"
	"net/http"
	"time"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/hemalytics/labd/pkg/lab/infrastructure/dependency"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx stdcontext.Context, logger applogger.Logger, listenAddr string) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	err = dependencyContainer.Janitor().Start(ctx)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    listenAddr,
		Handler: dependencyContainer.HTTPServer().Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancelFunc := stdcontext.WithTimeout(stdcontext.Background(), shutdownTimeout)
		defer cancelFunc()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening on " + listenAddr)
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
