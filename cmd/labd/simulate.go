package main

import (
	stdcontext "context"
	"fmt"
	"strings"
	"time"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/hemalytics/labd/pkg/lab/application/model"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/analyzer"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/httpapi"
)

type simulateOptions struct {
	Addr     string
	User     string
	Password string
	Count    int
	Gender   string
	Abnormal bool
}

func simulate(ctx stdcontext.Context, logger applogger.Logger, options simulateOptions) error {
	simulator := analyzer.NewSimulator(model.DefaultCatalog(), time.Now().UnixNano())
	client, err := analyzer.DialFeed(ctx, options.Addr, options.User, options.Password)
	if err != nil {
		return err
	}
	defer client.Close()

	for i := 0; i < options.Count; i++ {
		patientID := fmt.Sprintf("SIM-%03d", i+1)
		ack, err := client.Push(httpapi.FeedBatch{
			PatientID:   patientID,
			PatientName: "Simulated patient " + patientID,
			Gender:      options.Gender,
			Results:     simulator.Generate(model.Gender(options.Gender), options.Abnormal),
		})
		if err != nil {
			return err
		}
		if !ack.Accepted {
			logger.Info(fmt.Sprintf("batch for %v rejected: %v", patientID, ack.Error))
			continue
		}
		message := fmt.Sprintf("batch for %v accepted as analysis %v", patientID, ack.AnalysisID)
		if len(ack.Warnings) > 0 {
			message += " (warnings: " + strings.Join(ack.Warnings, "; ") + ")"
		}
		logger.Info(message)
	}
	return nil
}
