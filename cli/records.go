package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"maxloyalty.com/backoffice/console"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/utils"
)

func resourceArg(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing resource, one of: %s", strings.Join(resourceNames(), ", "))
	}
	_, err := lookupEntity(args[0])
	return err
}

func idArg(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func listCommand(app *App) *cobra.Command {
	var (
		search string
		page   int
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List the records of a resource",
		Example: `  maxconsole list clientes --search bajío
  maxconsole list tarjetas --page 2 --limit 20`,
		Args: cobra.MatchAll(cobra.ExactArgs(1), resourceArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _ := lookupEntity(args[0])
			return e.List(cmd.Context(), app, page, limit, search)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search term")
	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().IntVar(&limit, "limit", 0, "rows per page (default per resource)")
	return cmd
}

type formFlags struct {
	set   []string
	files []string
}

func (f *formFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "field=value, repeatable")
	cmd.Flags().StringArrayVar(&f.files, "file", nil, "field=path of a file to upload, repeatable")
}

func (f *formFlags) parse() (map[string]string, []listmanager.Upload, error) {
	values, err := utils.ParseKeyValue(f.set)
	if err != nil {
		return nil, nil, err
	}
	files, err := utils.ParseKeyValue(f.files)
	if err != nil {
		return nil, nil, err
	}
	uploads, err := readUploads(files)
	if err != nil {
		return nil, nil, err
	}
	return values, uploads, nil
}

func createCommand(app *App) *cobra.Command {
	form := &formFlags{}
	cmd := &cobra.Command{
		Use:     "create <resource>",
		Short:   "Create a record",
		Example: `  maxconsole create conductores --set nombre=Ana --set licencia=B123 --file foto=ana.jpg`,
		Args:    cobra.MatchAll(cobra.ExactArgs(1), resourceArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, uploads, err := form.parse()
			if err != nil {
				return err
			}
			e, _ := lookupEntity(args[0])
			return e.Create(cmd.Context(), app, values, uploads)
		},
	}
	form.bind(cmd)
	return cmd
}

func updateCommand(app *App) *cobra.Command {
	form := &formFlags{}
	cmd := &cobra.Command{
		Use:     "update <resource> <id>",
		Short:   "Update a record",
		Example: `  maxconsole update clientes 3 --set correo=compras@norte.mx`,
		Args:    cobra.MatchAll(cobra.ExactArgs(2), resourceArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[1])
			if err != nil {
				return err
			}
			values, uploads, err := form.parse()
			if err != nil {
				return err
			}
			e, _ := lookupEntity(args[0])
			return e.Update(cmd.Context(), app, id, values, uploads)
		},
	}
	form.bind(cmd)
	return cmd
}

func deleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), resourceArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[1])
			if err != nil {
				return err
			}
			e, _ := lookupEntity(args[0])
			return e.Delete(cmd.Context(), app, id)
		},
	}
}

func importRows(cmd *cobra.Command, app *App, resource, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := utils.ParseCSVRows(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	e, err := lookupEntity(resource)
	if err != nil {
		return err
	}
	created, err := e.Import(cmd.Context(), app, rows)
	fmt.Fprintf(app.Out, "%d de %d registros creados\n", created, len(rows))
	return err
}

func importCommand(app *App) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "import <resource>",
		Short: "Create one record per row of a CSV file",
		Long: `The CSV header names the fields. Rows are created in order and the
import stops at the first row that fails; rows before it stay created.`,
		Args: cobra.MatchAll(cobra.ExactArgs(1), resourceArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importRows(cmd, app, args[0], path)
		},
	}
	cmd.Flags().StringVar(&path, "csv", "", "CSV file to import")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func cardsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Card actions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate <id>",
		Short: "Switch a card off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			d, _ := console.Lookup(console.ResCards)
			m := listmanager.New(console.ManagerConfig[console.Card](d, app.Client.Cards.Resource, app.Notifier, app.Log))
			return m.SubmitPatch(cmd.Context(), id, map[string]any{"active": false})
		},
	})
	return cmd
}

func walletsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Wallet actions",
	}
	var path string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Create wallets from a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return importRows(cmd, app, console.ResWallets, path)
		},
	}
	importCmd.Flags().StringVar(&path, "csv", "", "CSV file to import")
	_ = importCmd.MarkFlagRequired("csv")
	cmd.AddCommand(importCmd)
	return cmd
}
