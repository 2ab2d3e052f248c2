package web

import (
	"gorm.io/gorm"
	"maxloyalty.com/backoffice/console"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/store"
	"maxloyalty.com/backoffice/store/gormstore"
	"maxloyalty.com/backoffice/store/memory"
)

// Stores holds one store per served resource.
type Stores struct {
	Clients      store.Store[console.Client]
	Companies    store.Store[console.Company]
	Cards        store.Store[console.Card]
	Drivers      store.Store[console.Driver]
	Vehicles     store.Store[console.Vehicle]
	CostCenters  store.Store[console.CostCenter]
	Members      store.Store[console.Member]
	Shifts       store.Store[console.Shift]
	Points       store.Store[console.Point]
	Permissions  store.Store[console.Permission]
	Wallets      store.Store[console.Wallet]
	Transactions store.Transactions
}

// MemoryStores keeps everything in process, starting from seed.
func MemoryStores(seed Seed) *Stores {
	return &Stores{
		Clients:      memory.New(seed.Clients...),
		Companies:    memory.New(seed.Companies...),
		Cards:        memory.New(seed.Cards...),
		Drivers:      memory.New(seed.Drivers...),
		Vehicles:     memory.New(seed.Vehicles...),
		CostCenters:  memory.New(seed.CostCenters...),
		Members:      memory.New(seed.Members...),
		Shifts:       memory.New(seed.Shifts...),
		Points:       memory.New(seed.Points...),
		Permissions:  memory.New(seed.Permissions...),
		Wallets:      memory.New(seed.Wallets...),
		Transactions: memory.NewTransactions(seed.Transactions...),
	}
}

// GormStores serves every resource from its MySQL table. Search runs over
// the columns the list page shows.
func GormStores(db *gorm.DB) *Stores {
	return &Stores{
		Clients:      gormTable[console.Client](db, console.ResClients),
		Companies:    gormTable[console.Company](db, console.ResCompanies),
		Cards:        gormTable[console.Card](db, console.ResCards),
		Drivers:      gormTable[console.Driver](db, console.ResDrivers),
		Vehicles:     gormTable[console.Vehicle](db, console.ResVehicles),
		CostCenters:  gormTable[console.CostCenter](db, console.ResCostCenters),
		Members:      gormTable[console.Member](db, console.ResMembers),
		Shifts:       gormTable[console.Shift](db, console.ResShifts),
		Points:       gormTable[console.Point](db, console.ResPoints),
		Permissions:  gormTable[console.Permission](db, console.ResPermissions),
		Wallets:      gormTable[console.Wallet](db, console.ResWallets),
		Transactions: gormstore.NewTransactions(db),
	}
}

func gormTable[T listmanager.Record](db *gorm.DB, name string) store.Store[T] {
	d, _ := console.Lookup(name)
	return gormstore.New[T](db, d.Columns)
}
