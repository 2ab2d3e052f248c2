package web

import (
	"time"

	"maxloyalty.com/backoffice/console"
	"maxloyalty.com/backoffice/report"
)

// Seed is the initial content of the in-memory stores.
type Seed struct {
	Clients      []console.Client
	Companies    []console.Company
	Cards        []console.Card
	Drivers      []console.Driver
	Vehicles     []console.Vehicle
	CostCenters  []console.CostCenter
	Members      []console.Member
	Shifts       []console.Shift
	Points       []console.Point
	Permissions  []console.Permission
	Wallets      []console.Wallet
	Transactions []report.Transaction
}

// DemoSeed is a small coherent data set for local work.
func DemoSeed(now time.Time) Seed {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Seed{
		Clients: []console.Client{
			{Base: console.Base{ID: 1}, Nombre: "Transportes del Norte", RFC: "TNO010101AB1", Correo: "contacto@tnorte.mx", Telefono: "8112345678", Activo: true},
			{Base: console.Base{ID: 2}, Nombre: "Logística Bajío", RFC: "LBA020202CD2", Correo: "admin@lbajio.mx", Activo: true},
		},
		Companies: []console.Company{
			{Base: console.Base{ID: 1}, Nombre: "TN Carga", RFC: "TNC030303EF3", ClienteID: 1, ClienteNombre: "Transportes del Norte"},
		},
		Cards: []console.Card{
			{Base: console.Base{ID: 1}, Numero: "5012345678901234", ClienteID: 1, ClienteNombre: "Transportes del Norte", LimiteDiario: 3000, Active: true},
			{Base: console.Base{ID: 2}, Numero: "5012345678905678", ClienteID: 2, ClienteNombre: "Logística Bajío", LimiteDiario: 1500, Active: true},
		},
		Drivers: []console.Driver{
			{Base: console.Base{ID: 1}, Nombre: "Juan", Apellido: "Pérez", Licencia: "NL-99812", EmpresaID: 1, EmpresaNombre: "TN Carga", Usuario: "jperez", Password: "secreto123"},
		},
		Vehicles: []console.Vehicle{
			{Base: console.Base{ID: 1}, Placas: "NLA-1234", Marca: "Kenworth", Modelo: "T680", Anio: 2021, TipoCombustible: "diesel", CapacidadTanque: 400, EmpresaID: 1, EmpresaNombre: "TN Carga"},
		},
		CostCenters: []console.CostCenter{
			{Base: console.Base{ID: 1}, Nombre: "Ruta Monterrey", Codigo: "CC-MTY", EmpresaID: 1, EmpresaNombre: "TN Carga", Presupuesto: 50000},
		},
		Members: []console.Member{
			{Base: console.Base{ID: 1}, Nombre: "Administrador", Correo: "admin@maxloyalty.mx", Usuario: "admin", Password: "cambiar123", Rol: "admin"},
		},
		Shifts: []console.Shift{
			{Base: console.Base{ID: 1}, Nombre: "Matutino", Estacion: "Centro", HoraInicio: "06:00", HoraFin: "14:00"},
		},
		Points: []console.Point{
			{Base: console.Base{ID: 1}, ClienteID: 1, ClienteNombre: "Transportes del Norte", Concepto: "Carga diésel", Puntos: 120, Fecha: day},
		},
		Permissions: []console.Permission{
			{Base: console.Base{ID: 1}, UsuarioID: 1, UsuarioNombre: "Administrador", RutaID: 1, RutaNombre: "Catálogos", Permitido: true},
			{Base: console.Base{ID: 2}, UsuarioID: 1, UsuarioNombre: "Administrador", RutaID: 2, RutaNombre: "Clientes", Permitido: true},
		},
		Wallets: []console.Wallet{
			{Base: console.Base{ID: 1}, ClienteID: 1, ClienteNombre: "Transportes del Norte", Nombre: "Principal", Saldo: 25000, Moneda: "MXN", Activa: true},
		},
		Transactions: []report.Transaction{
			{ID: 1, Fecha: day, Canal: "tarjeta", TipoCombustible: "diesel", Monto: 2400, Descuento: 48, Unidades: 100, ClienteNombre: "Transportes del Norte", Estacion: "Centro"},
			{ID: 2, Fecha: day, Canal: "app", TipoCombustible: "magna", Monto: 900, Descuento: 18, Unidades: 40, ClienteNombre: "Logística Bajío", Estacion: "Norte"},
		},
	}
}
