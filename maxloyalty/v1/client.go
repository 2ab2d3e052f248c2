package v1

import (
	"context"
	"time"

	"maxloyalty.com/backoffice/console"
)

type MaxLoyaltyClient struct {
	Transport   *Transport
	Clients     *Resource[console.Client]
	Companies   *Resource[console.Company]
	Cards       *CardEndpoint
	Drivers     *Resource[console.Driver]
	Vehicles    *Resource[console.Vehicle]
	CostCenters *Resource[console.CostCenter]
	Members     *Resource[console.Member]
	Shifts      *Resource[console.Shift]
	Points      *Resource[console.Point]
	Permissions *PermissionEndpoint
	Wallets     *Resource[console.Wallet]
	Reports     *ReportEndpoint
}

// NewMaxLoyaltyClient initializes the API client
func NewMaxLoyaltyClient(baseURL string, token string, timeout time.Duration) *MaxLoyaltyClient {
	t := NewTransport(baseURL, token, timeout)
	return &MaxLoyaltyClient{
		Transport:   t,
		Clients:     NewResource[console.Client](t, console.ResClients),
		Companies:   NewResource[console.Company](t, console.ResCompanies),
		Cards:       &CardEndpoint{NewResource[console.Card](t, console.ResCards)},
		Drivers:     NewResource[console.Driver](t, console.ResDrivers),
		Vehicles:    NewResource[console.Vehicle](t, console.ResVehicles),
		CostCenters: NewResource[console.CostCenter](t, console.ResCostCenters),
		Members:     NewResource[console.Member](t, console.ResMembers),
		Shifts:      NewResource[console.Shift](t, console.ResShifts),
		Points:      NewResource[console.Point](t, console.ResPoints),
		Permissions: &PermissionEndpoint{NewResource[console.Permission](t, console.ResPermissions)},
		Wallets:     NewResource[console.Wallet](t, console.ResWallets),
		Reports:     &ReportEndpoint{transport: t},
	}
}

// Ping checks that the API answers.
func (c *MaxLoyaltyClient) Ping(ctx context.Context) error {
	_, err := c.Transport.Get(ctx, "/health", nil)
	return err
}
