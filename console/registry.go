package console

import (
	"log/slog"

	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/permissions"
	"maxloyalty.com/backoffice/utils"
)

// Descriptor is how one entity page lists and edits its records.
type Descriptor struct {
	Name           string
	Title          string
	Strategy       listmanager.Strategy
	ServerSearch   bool
	ItemsPerPage   int
	OptionalOnEdit []string
	// Secret fields are never shown back in the edit form and are kept
	// unchanged by the backend when submitted blank.
	Secret  []string
	Columns []string
}

const (
	ResClients     = "clientes"
	ResCompanies   = "empresas"
	ResCards       = "tarjetas"
	ResDrivers     = "conductores"
	ResVehicles    = "vehiculos"
	ResCostCenters = "centros-costo"
	ResMembers     = "miembros"
	ResShifts      = "turnos"
	ResPoints      = "puntos"
	ResPermissions = "permisos"
	ResWallets     = "billeteras"
)

var Resources = []Descriptor{
	{Name: ResClients, Title: "Clientes", Strategy: listmanager.ClientPagination,
		Columns: []string{"id", "nombre", "rfc", "correo", "telefono", "activo"}},
	{Name: ResCompanies, Title: "Empresas", Strategy: listmanager.ClientPagination,
		Columns: []string{"id", "nombre", "rfc", "cliente_nombre", "correo"}},
	{Name: ResCards, Title: "Tarjetas", Strategy: listmanager.ServerPagination, ServerSearch: true,
		Columns: []string{"id", "numero", "cliente_nombre", "conductor_nombre", "vehiculo_placas", "limite_diario", "active"}},
	{Name: ResDrivers, Title: "Conductores", Strategy: listmanager.ClientPagination,
		OptionalOnEdit: []string{"password"}, Secret: []string{"password"},
		Columns: []string{"id", "nombre", "apellido", "licencia", "empresa_nombre", "usuario"}},
	{Name: ResVehicles, Title: "Vehículos", Strategy: listmanager.ClientPagination,
		Columns: []string{"id", "placas", "marca", "modelo", "anio", "tipo_combustible", "empresa_nombre"}},
	{Name: ResCostCenters, Title: "Centros de costo", Strategy: listmanager.ClientPagination,
		Columns: []string{"id", "codigo", "nombre", "empresa_nombre", "presupuesto"}},
	{Name: ResMembers, Title: "Miembros", Strategy: listmanager.ClientPagination,
		OptionalOnEdit: []string{"password"}, Secret: []string{"password"},
		Columns: []string{"id", "nombre", "correo", "usuario", "rol"}},
	{Name: ResShifts, Title: "Turnos", Strategy: listmanager.ClientPagination,
		Columns: []string{"id", "nombre", "estacion", "hora_inicio", "hora_fin", "responsable"}},
	{Name: ResPoints, Title: "Puntos", Strategy: listmanager.ServerPagination, ServerSearch: true, ItemsPerPage: 20,
		Columns: []string{"id", "cliente_nombre", "concepto", "puntos", "fecha", "referencia"}},
	{Name: ResPermissions, Title: "Permisos", Strategy: listmanager.ClientPagination,
		Columns: []string{"id", "usuario_nombre", "ruta_nombre", "permitido"}},
	{Name: ResWallets, Title: "Billeteras", Strategy: listmanager.ServerPagination,
		Columns: []string{"id", "cliente_nombre", "nombre", "saldo", "moneda", "activa"}},
}

// Lookup finds a descriptor by resource name.
func Lookup(name string) (Descriptor, bool) {
	d := utils.Find(Resources, func(d *Descriptor) bool { return d.Name == name })
	if d == nil {
		return Descriptor{}, false
	}
	return *d, true
}

// ManagerConfig builds the list manager configuration of an entity page.
func ManagerConfig[T listmanager.Record](d Descriptor, res listmanager.Resource[T], notifier listmanager.Notifier, log *slog.Logger) listmanager.Config[T] {
	return listmanager.Config[T]{
		Name:           d.Name,
		Resource:       res,
		Strategy:       d.Strategy,
		ServerSearch:   d.ServerSearch,
		ItemsPerPage:   d.ItemsPerPage,
		OptionalOnEdit: d.OptionalOnEdit,
		PrepareEdit:    func(r T) T { return ClearSecrets(d, r) },
		Notifier:       notifier,
		Logger:         log,
	}
}

// ClearSecrets returns a copy of record with its secret fields blanked.
func ClearSecrets[T any](d Descriptor, record T) T {
	for _, name := range d.Secret {
		_ = listmanager.SetField(&record, name, "")
	}
	return record
}

// Menu is the route catalogue permissions are granted on.
var Menu = []permissions.Route{
	{ID: 1, Name: "Catálogos", Path: "/catalogos"},
	{ID: 2, Name: "Clientes", Path: "/clientes", ParentID: utils.Ptr(1)},
	{ID: 3, Name: "Empresas", Path: "/empresas", ParentID: utils.Ptr(1)},
	{ID: 4, Name: "Centros de costo", Path: "/centros-costo", ParentID: utils.Ptr(1)},
	{ID: 5, Name: "Flotilla", Path: "/flotilla"},
	{ID: 6, Name: "Tarjetas", Path: "/tarjetas", ParentID: utils.Ptr(5)},
	{ID: 7, Name: "Conductores", Path: "/conductores", ParentID: utils.Ptr(5)},
	{ID: 8, Name: "Vehículos", Path: "/vehiculos", ParentID: utils.Ptr(5)},
	{ID: 9, Name: "Lealtad", Path: "/lealtad"},
	{ID: 10, Name: "Puntos", Path: "/puntos", ParentID: utils.Ptr(9)},
	{ID: 11, Name: "Billeteras", Path: "/billeteras", ParentID: utils.Ptr(9)},
	{ID: 12, Name: "Administración", Path: "/administracion"},
	{ID: 13, Name: "Miembros", Path: "/miembros", ParentID: utils.Ptr(12)},
	{ID: 14, Name: "Turnos", Path: "/turnos", ParentID: utils.Ptr(12)},
	{ID: 15, Name: "Permisos", Path: "/permisos", ParentID: utils.Ptr(12)},
	{ID: 16, Name: "Reportes", Path: "/reportes"},
	{ID: 17, Name: "Transacciones", Path: "/reportes/transacciones", ParentID: utils.Ptr(16)},
}
