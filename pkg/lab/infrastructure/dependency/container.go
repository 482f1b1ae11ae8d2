package dependency

import (
	"context"
	"errors"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/hemalytics/labd/pkg/lab/application/model"
	"github.com/hemalytics/labd/pkg/lab/application/service"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/auth"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/httpapi"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/janitor"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/storage"
)

var dependencyContainer = struct{}{}

type Container interface {
	Analyses() service.Analyses
	Sessions() *auth.Manager
	HTTPServer() *httpapi.Server
	Janitor() *janitor.Janitor
}

func NewDependencyContainer(
	logger applogger.Logger,
	serverConfig model.Server,
) (Container, error) {
	store, err := storage.NewFileStore(serverConfig.DataFile)
	if err != nil {
		return nil, err
	}
	sessions := auth.NewManager(serverConfig.Accounts, serverConfig.SessionTTL)
	analysisService := service.NewAnalysisService(
		model.DefaultCatalog(),
		model.DefaultPatterns(),
		serverConfig.Retention,
		logger,
		store,
	)
	httpServer := httpapi.NewServer(logger, analysisService, sessions)
	retentionJanitor := janitor.New(logger, analysisService, serverConfig.RetentionSchedule)

	return &container{
		analyses:   analysisService,
		sessions:   sessions,
		httpServer: httpServer,
		janitor:    retentionJanitor,
	}, nil
}

type container struct {
	analyses   service.Analyses
	sessions   *auth.Manager
	httpServer *httpapi.Server
	janitor    *janitor.Janitor
}

func (c *container) Analyses() service.Analyses {
	return c.analyses
}

func (c *container) Sessions() *auth.Manager {
	return c.sessions
}

func (c *container) HTTPServer() *httpapi.Server {
	return c.httpServer
}

func (c *container) Janitor() *janitor.Janitor {
	return c.janitor
}

func ContainerFromContext(ctx context.Context) (Container, error) {
	v := ctx.Value(dependencyContainer)
	if c, ok := v.(Container); ok {
		return c, nil
	}
	return nil, errors.New("dependency container not found")
}

func ContainerToContext(ctx context.Context, c Container) context.Context {
	return context.WithValue(ctx, dependencyContainer, c)
}
