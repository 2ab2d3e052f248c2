package cli

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"maxloyalty.com/backoffice/infrastructure/filesystem"
	"maxloyalty.com/backoffice/infrastructure/mail"
	"maxloyalty.com/backoffice/report"
	"maxloyalty.com/backoffice/reportjob"
)

func reportCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export and archive the transaction report",
	}
	cmd.AddCommand(transactionsReportCommand(app), archiveCommand(app))
	return cmd
}

type reportOptions struct {
	from    string
	to      string
	format  string
	out     string
	group   []string
	bucket  string
	mailTo  []string
	archive bool
}

func (o *reportOptions) request() (reportjob.Request, error) {
	var req reportjob.Request
	if o.from == "" || o.to == "" {
		return req, errors.New("--from and --to are required")
	}
	from, err := time.Parse(time.DateOnly, o.from)
	if err != nil {
		return req, fmt.Errorf("--from: %w", err)
	}
	to, err := time.Parse(time.DateOnly, o.to)
	if err != nil {
		return req, fmt.Errorf("--to: %w", err)
	}
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return req, err
	}
	return reportjob.Request{
		From:        from,
		To:          to,
		Format:      format,
		GroupBy:     o.group,
		GeneratedBy: os.Getenv("USER"),
		Bucket:      o.bucket,
		MailTo:      o.mailTo,
	}, nil
}

func transactionsReportCommand(app *App) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Render the transactions of a period as PDF or XLSX",
		Example: `  maxconsole report transactions --from 2025-03-01 --to 2025-03-31 --format xlsx --group canal,tipo_combustible
  maxconsole report transactions --from 2025-03-01 --to 2025-03-31 --archive --mail-to finanzas@maxloyalty.mx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			job := &reportjob.Job{
				Source: app.Client.Reports,
				Config: app.Config.Report,
				Log:    app.Log,
			}
			if opts.archive || opts.bucket != "" {
				files, err := filesystem.Connect(ctx)
				if err != nil {
					return err
				}
				job.Files = files
			}
			if len(opts.mailTo) > 0 {
				mailer, err := mail.Connect(ctx)
				if err != nil {
					return err
				}
				job.Mail = mailer
			}

			res, err := job.Run(ctx, req)
			if err != nil {
				return err
			}

			out := cmp.Or(opts.out, res.FileName)
			if err := os.WriteFile(out, res.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s: %d transacciones\n", out, res.Count)
			if res.Key != "" {
				fmt.Fprintf(app.Out, "archivado en %s\n", res.Key)
			}
			if res.MessageID != "" {
				fmt.Fprintf(app.Out, "enviado por correo (%s)\n", res.MessageID)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.from, "from", "", "first day, YYYY-MM-DD")
	flags.StringVar(&opts.to, "to", "", "last day, YYYY-MM-DD")
	flags.StringVar(&opts.format, "format", "pdf", "pdf or xlsx")
	flags.StringVarP(&opts.out, "out", "o", "", "output file (default transacciones_<from>_<to>.<format>)")
	flags.StringSliceVar(&opts.group, "group", nil, "summary keys: canal, tipo_combustible, estacion")
	flags.BoolVar(&opts.archive, "archive", false, "also upload the file to the configured report bucket")
	flags.StringVar(&opts.bucket, "s3-bucket", "", "upload to this bucket instead of the configured one")
	flags.StringSliceVar(&opts.mailTo, "mail-to", nil, "mail the report to these addresses")
	return cmd
}

func archiveCommand(app *App) *cobra.Command {
	var bucket, prefix, out string
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Browse the archived reports",
	}
	cmd.PersistentFlags().StringVar(&bucket, "bucket", "", "report bucket (default from configuration)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List archived report keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, b, err := connectArchive(cmd, app, bucket)
			if err != nil {
				return err
			}
			keys, err := fs.ListFiles(cmd.Context(), b, cmp.Or(prefix, app.Config.Report.Prefix))
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(app.Out, k)
			}
			return nil
		},
	}
	list.Flags().StringVar(&prefix, "prefix", "", "key prefix (default from configuration)")

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Download an archived report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, b, err := connectArchive(cmd, app, bucket)
			if err != nil {
				return err
			}
			f, err := os.Create(cmp.Or(out, filepath.Base(args[0])))
			if err != nil {
				return err
			}
			defer f.Close()
			return fs.ReadFile(cmd.Context(), b, args[0], f)
		},
	}
	get.Flags().StringVarP(&out, "out", "o", "", "output file (default the key's base name)")

	cmd.AddCommand(list, get)
	return cmd
}

func connectArchive(cmd *cobra.Command, app *App, bucket string) (*filesystem.S3FileSystem, string, error) {
	bucket = cmp.Or(bucket, app.Config.Report.Bucket)
	if bucket == "" {
		return nil, "", errors.New("no report bucket configured, use --bucket")
	}
	fs, err := filesystem.Connect(cmd.Context())
	if err != nil {
		return nil, "", err
	}
	return fs, bucket, nil
}
