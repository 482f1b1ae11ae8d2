package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"
	"github.com/urfave/cli/v2"

	"github.com/hemalytics/labd/pkg/lab/infrastructure/config/serverconfig"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/dependency"
)

func main() {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	ctx = listenOSKillSignalsContext(ctx)
	mainLogger := logger.NewTextLogger()

	configPath := os.Getenv("LABD_CONFIG")
	if configPath == "" {
		configPath = "labd.json"
	}
	serverConfig, err := serverconfig.Load(configPath)
	if err != nil {
		mainLogger.FatalError(err, "failed load server config")
	}
	container, err := dependency.NewDependencyContainer(mainLogger, serverConfig)
	if err != nil {
		mainLogger.FatalError(err, "failed build dependency container")
	}
	ctx = dependency.ContainerToContext(ctx, container)

	app := &cli.App{
		Name: "labd",
		Commands: cli.Commands{
			&cli.Command{
				Name: "serve",
				Action: func(c *cli.Context) error {
					return serve(c.Context, mainLogger, serverConfig.ListenAddr)
				},
			},
			&cli.Command{
				Name: "simulate",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Value: "http://localhost:8501",
					},
					&cli.StringFlag{
						Name:     "user",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "count",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  "gender",
						Value: "male",
					},
					&cli.BoolFlag{
						Name:  "abnormal",
						Value: true,
					},
				},
				Action: func(c *cli.Context) error {
					return simulate(c.Context, mainLogger, simulateOptions{
						Addr:     c.String("addr"),
						User:     c.String("user"),
						Password: c.String("password"),
						Count:    c.Int("count"),
						Gender:   c.String("gender"),
						Abnormal: c.Bool("abnormal"),
					})
				},
			},
			&cli.Command{
				Name: "seed-demo",
				Action: func(c *cli.Context) error {
					return seedDemo(c.Context, mainLogger)
				},
			},
			&cli.Command{
				Name: "report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "patient",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return printReport(c.Context, c.String("patient"))
				},
			},
		},
	}
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		mainLogger.FatalError(err, "failed execute command "+strings.Join(os.Args, " "))
	}
}

func listenOSKillSignalsContext(ctx context.Context) context.Context {
	var cancelFunc context.CancelFunc
	ctx, cancelFunc = context.WithCancel(ctx)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-ch:
			cancelFunc()
		case <-ctx.Done():
			return
		}
	}()
	return ctx
}
