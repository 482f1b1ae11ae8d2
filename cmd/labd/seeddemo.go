package main

import (
	stdcontext "context"
	"fmt"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/hemalytics/labd/pkg/lab/infrastructure/dependency"
)

func seedDemo(ctx stdcontext.Context, logger applogger.Logger) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	count, err := dependencyContainer.Analyses().SeedDemo(ctx)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("seeded %v demo analyses", count))
	return nil
}
