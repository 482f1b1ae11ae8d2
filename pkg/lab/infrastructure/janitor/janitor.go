package janitor

import (
	"context"

	"github.com/robfig/cron/v3"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/hemalytics/labd/pkg/lab/application/service"
)

// Janitor runs the retention purge on a cron schedule while the server
// context is alive.
type Janitor struct {
	logger   applogger.Logger
	analyses service.Analyses
	schedule string
}

func New(logger applogger.Logger, analyses service.Analyses, schedule string) *Janitor {
	return &Janitor{
		logger:   logger,
		analyses: analyses,
		schedule: schedule,
	}
}

func (j *Janitor) Start(ctx context.Context) error {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(j.schedule, func() {
		_, purgeErr := j.analyses.PurgeExpired(ctx)
		if purgeErr != nil {
			j.logger.Error(purgeErr, "retention purge failed")
		}
	})
	if err != nil {
		return err
	}
	scheduler.Start()
	go func() {
		<-ctx.Done()
		scheduler.Stop()
	}()
	return nil
}
