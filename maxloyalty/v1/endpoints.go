package v1

import (
	"context"
	"fmt"
	"time"

	"maxloyalty.com/backoffice/console"
	"maxloyalty.com/backoffice/maxloyalty/v1/common"
	"maxloyalty.com/backoffice/permissions"
	"maxloyalty.com/backoffice/report"
)

type CardEndpoint struct {
	*Resource[console.Card]
}

// Deactivate switches a card off with a partial update.
func (this *CardEndpoint) Deactivate(ctx context.Context, id int) error {
	return this.Patch(ctx, id, map[string]any{"active": false})
}

type PermissionEndpoint struct {
	*Resource[console.Permission]
}

func (this *PermissionEndpoint) routesPath(userID int) string {
	return fmt.Sprintf("%s/usuario/%d", this.path(), userID)
}

// Load returns the route tree of a user with the current grants.
func (this *PermissionEndpoint) Load(ctx context.Context, userID int) ([]permissions.Route, error) {
	resp, err := this.transport.Get(ctx, this.routesPath(userID), nil)
	if err != nil {
		return nil, err
	}
	routes, _, err := common.DecodeList[permissions.Route](resp.Data)
	if err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	return routes, nil
}

// SavePermissions replaces the whole permission set of a user.
func (this *PermissionEndpoint) SavePermissions(ctx context.Context, userID int, grants []permissions.Grant) error {
	_, err := this.transport.PutJSON(ctx, this.routesPath(userID), grants)
	return err
}

type ReportEndpoint struct {
	transport *Transport
}

// Transactions fetches every transaction between two dates, inclusive.
func (this *ReportEndpoint) Transactions(ctx context.Context, from, to time.Time) ([]report.Transaction, error) {
	resp, err := this.transport.Get(ctx, "/api/reportes/transacciones", map[string]string{
		"desde": from.Format(time.DateOnly),
		"hasta": to.Format(time.DateOnly),
	})
	if err != nil {
		return nil, err
	}
	txs, _, err := common.DecodeList[report.Transaction](resp.Data)
	if err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}

