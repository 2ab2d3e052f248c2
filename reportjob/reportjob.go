// Package reportjob builds the transaction report of a period and
// publishes it: archived in S3 and mailed through SES.
package reportjob

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"maxloyalty.com/backoffice/config"
	"maxloyalty.com/backoffice/infrastructure/mail"
	"maxloyalty.com/backoffice/report"
)

// Source fetches the transactions of a period, both ends inclusive.
type Source interface {
	Transactions(ctx context.Context, from, to time.Time) ([]report.Transaction, error)
}

type FileWriter interface {
	WriteFile(ctx context.Context, bucket, key, contentType string, data []byte) error
}

type MailSender interface {
	SendEmail(ctx context.Context, info *mail.EmailInfo) (string, error)
}

type Job struct {
	Source Source
	// Files and Mail are optional; without them the report is only built.
	Files  FileWriter
	Mail   MailSender
	Config config.Report
	Log    *slog.Logger
	Now    func() time.Time
}

type Request struct {
	From        time.Time
	To          time.Time
	Format      report.Format
	GroupBy     []string
	GeneratedBy string
	// Bucket and MailTo override the configured ones.
	Bucket string
	MailTo []string
}

type Result struct {
	FileName    string
	ContentType string
	Data        []byte
	Count       int
	Key         string
	MessageID   string
}

func (j *Job) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *Job) log() *slog.Logger {
	if j.Log != nil {
		return j.Log
	}
	return slog.New(slog.DiscardHandler)
}

// Build fetches and renders the report without publishing it.
func (j *Job) Build(ctx context.Context, req Request) (*Result, error) {
	if req.To.Before(req.From) {
		return nil, fmt.Errorf("period ends %s before it starts %s", req.To.Format(time.DateOnly), req.From.Format(time.DateOnly))
	}
	groupBy := req.GroupBy
	if groupBy == nil {
		groupBy = j.Config.GroupBy
	}
	keys, err := report.KeysByName(groupBy)
	if err != nil {
		return nil, err
	}

	txs, err := j.Source.Transactions(ctx, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	doc := report.Document{
		Meta: report.Metadata{
			Title:       report.DefaultTitle,
			Company:     j.Config.Company,
			From:        req.From,
			To:          req.To,
			GeneratedAt: j.now(),
			GeneratedBy: req.GeneratedBy,
		},
		Transactions: txs,
		GroupKeys:    keys,
	}
	data, err := report.Render(doc, req.Format)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", req.Format, err)
	}
	return &Result{
		FileName:    report.FileName(doc.Meta, req.Format),
		ContentType: req.Format.ContentType(),
		Data:        data,
		Count:       len(txs),
	}, nil
}

// Run builds the report, archives it when a bucket is known and mails it
// when there are recipients.
func (j *Job) Run(ctx context.Context, req Request) (*Result, error) {
	res, err := j.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	log := j.log()

	bucket := cmp.Or(req.Bucket, j.Config.Bucket)
	if bucket != "" && j.Files != nil {
		res.Key = j.Config.Prefix + res.FileName
		if err := j.Files.WriteFile(ctx, bucket, res.Key, res.ContentType, res.Data); err != nil {
			return res, fmt.Errorf("archive report: %w", err)
		}
		log.InfoContext(ctx, "report archived", "bucket", bucket, "key", res.Key)
	}

	to := req.MailTo
	if len(to) == 0 {
		to = j.Config.MailTo
	}
	if len(to) > 0 && j.Mail != nil {
		res.MessageID, err = j.Mail.SendEmail(ctx, &mail.EmailInfo{
			From:    j.Config.MailFrom,
			To:      to,
			Subject: fmt.Sprintf("%s %s", report.DefaultTitle, strings.TrimSuffix(res.FileName, "."+string(req.Format))),
			Text:    fmt.Sprintf("Se adjunta el reporte con %d transacciones.", res.Count),
			Attachments: []mail.Attachment{
				{Filename: res.FileName, ContentType: res.ContentType, Content: res.Data},
			},
		})
		if err != nil {
			return res, fmt.Errorf("mail report: %w", err)
		}
		log.InfoContext(ctx, "report mailed", "to", to, "message_id", res.MessageID)
	}
	return res, nil
}

// PreviousMonth is the last full calendar month before now.
func PreviousMonth(now time.Time) (from, to time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -1, 0), first.AddDate(0, 0, -1)
}
