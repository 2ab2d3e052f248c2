package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"maxloyalty.com/backoffice/infrastructure/communication"
	"maxloyalty.com/backoffice/infrastructure/devops"
	"maxloyalty.com/backoffice/infrastructure/filesystem"
	"maxloyalty.com/backoffice/infrastructure/mail"
	"maxloyalty.com/backoffice/logger"
	v1 "maxloyalty.com/backoffice/maxloyalty/v1"
	"maxloyalty.com/backoffice/reportjob"
	"maxloyalty.com/backoffice/utils"
)

const defaultParameter = "maxloyalty-console"

func newHandler(ctx context.Context) (*Handler, error) {
	parameter := os.Getenv("CONFIG_PARAMETER")
	if parameter == "" {
		parameter = defaultParameter
	}
	cfg, err := devops.LoadConfig(ctx, nil, parameter, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New("report-export", cfg.LogLevel)

	files, err := filesystem.Connect(ctx)
	if err != nil {
		return nil, err
	}
	mailer, err := mail.Connect(ctx)
	if err != nil {
		return nil, err
	}

	client := v1.NewMaxLoyaltyClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)
	return &Handler{
		job: &reportjob.Job{
			Source: client.Reports,
			Files:  files,
			Mail:   mailer,
			Config: cfg.Report,
			Log:    log,
		},
		notifier: communication.ConnectSlack(cfg.Slack),
		log:      log,
		now:      utils.MexicoCityNow,
	}, nil
}

func HandleRequest(ctx context.Context, raw json.RawMessage) (*ExportResult, error) {
	h, err := newHandler(ctx)
	if err != nil {
		return nil, err
	}
	return h.Handle(ctx, raw)
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
		return
	}

	// local run: EXPORT_EVENT='{"from":"2025-03-01","to":"2025-03-31"}' go run ./lambdas/report-export
	event := os.Getenv("EXPORT_EVENT")
	if event == "" {
		event = "{}"
	}
	res, err := HandleRequest(context.Background(), json.RawMessage(event))
	if err != nil {
		slog.Error("report export failed", "error", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
}
