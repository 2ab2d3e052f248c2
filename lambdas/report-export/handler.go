package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/report"
	"maxloyalty.com/backoffice/reportjob"
	"maxloyalty.com/backoffice/utils"
)

// ExportEvent is the manual invocation payload. Dates are yyyy-MM-dd; a
// missing period means the previous calendar month.
type ExportEvent struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Format  string   `json:"format"`
	GroupBy []string `json:"groupBy"`
	MailTo  []string `json:"mailTo"`
	Bucket  string   `json:"bucket"`
}

type ExportResult struct {
	FileName     string `json:"fileName"`
	Key          string `json:"key,omitempty"`
	MessageID    string `json:"messageId,omitempty"`
	Transactions int    `json:"transactions"`
}

type Handler struct {
	job      *reportjob.Job
	notifier listmanager.Notifier
	log      *slog.Logger
	now      func() time.Time
}

// ParseEvent accepts either an EventBridge schedule or an ExportEvent.
func ParseEvent(raw json.RawMessage) (ExportEvent, error) {
	var scheduled events.CloudWatchEvent
	if err := json.Unmarshal(raw, &scheduled); err == nil && scheduled.Source == "aws.events" {
		return ExportEvent{}, nil
	}
	var event ExportEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return ExportEvent{}, fmt.Errorf("failed to unmarshal export event: %w", err)
	}
	return event, nil
}

func (h *Handler) request(event ExportEvent) (reportjob.Request, error) {
	format, err := report.ParseFormat(event.Format)
	if err != nil {
		return reportjob.Request{}, err
	}
	req := reportjob.Request{
		Format:      format,
		GroupBy:     event.GroupBy,
		MailTo:      event.MailTo,
		Bucket:      event.Bucket,
		GeneratedBy: "report-export",
	}

	if event.From == "" && event.To == "" {
		req.From, req.To = reportjob.PreviousMonth(h.now().In(utils.MexicoCityTZ))
		return req, nil
	}
	if req.From, err = time.ParseInLocation(time.DateOnly, event.From, utils.MexicoCityTZ); err != nil {
		return req, fmt.Errorf("from: %w", err)
	}
	if req.To, err = time.ParseInLocation(time.DateOnly, event.To, utils.MexicoCityTZ); err != nil {
		return req, fmt.Errorf("to: %w", err)
	}
	return req, nil
}

func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (*ExportResult, error) {
	event, err := ParseEvent(raw)
	if err != nil {
		return nil, err
	}
	req, err := h.request(event)
	if err != nil {
		return nil, err
	}
	h.log.InfoContext(ctx, "export report", "from", req.From.Format(time.DateOnly), "to", req.To.Format(time.DateOnly), "format", req.Format)

	res, err := h.job.Run(ctx, req)
	if err != nil {
		h.log.ErrorContext(ctx, "export report", "error", err)
		h.notify(ctx, listmanager.Alert{Level: listmanager.LevelError, Message: "Falló el reporte de transacciones", Details: []string{err.Error()}})
		return nil, err
	}

	h.notify(ctx, listmanager.Alert{
		Level:   listmanager.LevelInfo,
		Message: fmt.Sprintf("Reporte %s generado con %d transacciones", res.FileName, res.Count),
	})
	return &ExportResult{
		FileName:     res.FileName,
		Key:          res.Key,
		MessageID:    res.MessageID,
		Transactions: res.Count,
	}, nil
}

func (h *Handler) notify(ctx context.Context, alert listmanager.Alert) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.Notify(ctx, alert); err != nil {
		h.log.WarnContext(ctx, "notify", "error", err)
	}
}
