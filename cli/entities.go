package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"maxloyalty.com/backoffice/console"
	"maxloyalty.com/backoffice/listmanager"
	v1 "maxloyalty.com/backoffice/maxloyalty/v1"
	"maxloyalty.com/backoffice/utils"
)

// entity runs the list page of one resource through its list manager.
type entity interface {
	Descriptor() console.Descriptor
	List(ctx context.Context, app *App, page, limit int, search string) error
	Create(ctx context.Context, app *App, values map[string]string, uploads []listmanager.Upload) error
	Update(ctx context.Context, app *App, id int, values map[string]string, uploads []listmanager.Upload) error
	Delete(ctx context.Context, app *App, id int) error
	Import(ctx context.Context, app *App, rows []map[string]string) (int, error)
}

type entityOf[T listmanager.Record] struct {
	name     string
	resource func(*v1.MaxLoyaltyClient) *v1.Resource[T]
}

var entities = map[string]entity{
	console.ResClients:     entityOf[console.Client]{console.ResClients, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Client] { return c.Clients }},
	console.ResCompanies:   entityOf[console.Company]{console.ResCompanies, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Company] { return c.Companies }},
	console.ResCards:       entityOf[console.Card]{console.ResCards, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Card] { return c.Cards.Resource }},
	console.ResDrivers:     entityOf[console.Driver]{console.ResDrivers, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Driver] { return c.Drivers }},
	console.ResVehicles:    entityOf[console.Vehicle]{console.ResVehicles, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Vehicle] { return c.Vehicles }},
	console.ResCostCenters: entityOf[console.CostCenter]{console.ResCostCenters, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.CostCenter] { return c.CostCenters }},
	console.ResMembers:     entityOf[console.Member]{console.ResMembers, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Member] { return c.Members }},
	console.ResShifts:      entityOf[console.Shift]{console.ResShifts, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Shift] { return c.Shifts }},
	console.ResPoints:      entityOf[console.Point]{console.ResPoints, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Point] { return c.Points }},
	console.ResPermissions: entityOf[console.Permission]{console.ResPermissions, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Permission] { return c.Permissions.Resource }},
	console.ResWallets:     entityOf[console.Wallet]{console.ResWallets, func(c *v1.MaxLoyaltyClient) *v1.Resource[console.Wallet] { return c.Wallets }},
}

func resourceNames() []string {
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupEntity(name string) (entity, error) {
	e, ok := entities[name]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q, one of: %s", name, strings.Join(resourceNames(), ", "))
	}
	return e, nil
}

func (e entityOf[T]) Descriptor() console.Descriptor {
	d, _ := console.Lookup(e.name)
	return d
}

func (e entityOf[T]) manager(app *App) *listmanager.Manager[T] {
	return listmanager.New(console.ManagerConfig[T](e.Descriptor(), e.resource(app.Client), app.Notifier, app.Log))
}

func (e entityOf[T]) List(ctx context.Context, app *App, page, limit int, search string) error {
	m := e.manager(app)
	m.SetItemsPerPage(limit)
	m.SetSearch(search)
	if err := m.Fetch(ctx); err != nil {
		return err
	}
	if page > 1 && m.GoTo(page) && e.Descriptor().Strategy == listmanager.ServerPagination {
		if err := m.Fetch(ctx); err != nil {
			return err
		}
	}
	return printTable(app.Out, e.Descriptor().Columns, m.Visible(), m.CurrentPage(), m.TotalPages())
}

func (e entityOf[T]) Create(ctx context.Context, app *App, values map[string]string, uploads []listmanager.Upload) error {
	m := e.manager(app)
	m.OpenCreate()
	return e.submit(ctx, m, values, uploads, m.SubmitCreate)
}

// Update edits the record with the given id. Fields not named in values
// keep their current value; secrets stay unchanged unless set.
func (e entityOf[T]) Update(ctx context.Context, app *App, id int, values map[string]string, uploads []listmanager.Upload) error {
	record, err := e.find(ctx, app, id)
	if err != nil {
		return err
	}
	m := e.manager(app)
	m.OpenEdit(record)
	return e.submit(ctx, m, values, uploads, m.SubmitUpdate)
}

func (e entityOf[T]) submit(ctx context.Context, m *listmanager.Manager[T], values map[string]string, uploads []listmanager.Upload, submit func(context.Context) error) error {
	var setErr error
	if err := m.EditDraft(func(draft *T) { setErr = assignAll(draft, values) }); err != nil {
		return err
	}
	if setErr != nil {
		m.Cancel()
		return setErr
	}
	for _, u := range uploads {
		if err := m.Attach(u); err != nil {
			return err
		}
	}
	return submit(ctx)
}

func (e entityOf[T]) Delete(ctx context.Context, app *App, id int) error {
	var record T
	if err := listmanager.SetField(&record, "id", strconv.Itoa(id)); err != nil {
		return err
	}
	m := e.manager(app)
	m.OpenDelete(record)
	return m.SubmitDelete(ctx)
}

// Import creates one record per CSV row, columns named by field. It stops
// at the first failing row; rows before it stay created.
func (e entityOf[T]) Import(ctx context.Context, app *App, rows []map[string]string) (int, error) {
	drafts := make([]T, 0, len(rows))
	for i, row := range rows {
		var draft T
		if err := assignAll(&draft, row); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		drafts = append(drafts, draft)
	}
	return e.manager(app).SubmitBatch(ctx, drafts)
}

// findPageSize is the page size find walks the server list with.
var findPageSize = 100

// find walks the list page by page until the record turns up. A backend
// that ignores paging repeats its first page, which ends the walk.
func (e entityOf[T]) find(ctx context.Context, app *App, id int) (T, error) {
	var zero T
	resource := e.resource(app.Client)
	seen, first := 0, 0
	for page := 1; ; page++ {
		res, err := resource.List(ctx, listmanager.Query{Page: page, Limit: findPageSize})
		if err != nil {
			return zero, err
		}
		for _, r := range res.Items {
			if r.GetID() == id {
				return r, nil
			}
		}
		seen += len(res.Items)
		if len(res.Items) != findPageSize || (res.Total >= 0 && seen >= res.Total) {
			break
		}
		if page == 1 {
			first = res.Items[0].GetID()
		} else if res.Items[0].GetID() == first {
			break
		}
	}
	return zero, fmt.Errorf("%s %d not found", e.name, id)
}

func assignAll(record any, values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := listmanager.SetField(record, name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// readUploads turns field=path pairs into uploads.
func readUploads(files map[string]string) ([]listmanager.Upload, error) {
	uploads := make([]listmanager.Upload, 0, len(files))
	for field, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, listmanager.Upload{Field: field, Filename: filepath.Base(path), Content: content})
	}
	sort.Slice(uploads, func(i, j int) bool { return uploads[i].Field < uploads[j].Field })
	return uploads, nil
}

func printTable[T any](w io.Writer, columns []string, rows []T, page, pages int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i], _ = listmanager.GetField(row, col)
			if cells[i] == "true" || cells[i] == "false" {
				cells[i] = utils.FormatBoolean(cells[i] == "true", "sí", "no")
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Página %d de %d\n", page, max(pages, 1))
	return err
}
