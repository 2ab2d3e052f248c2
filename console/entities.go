// Package console holds the back-office entity records and the registry
// describing how each one is listed and edited.
package console

import "time"

// Base carries the numeric id every record is addressed by.
type Base struct {
	ID int `json:"id" form:"id" gorm:"primaryKey;autoIncrement;column:id"`
}

func (b Base) GetID() int { return b.ID }

type Client struct {
	Base
	Nombre    string `json:"nombre" form:"nombre" gorm:"size:255;not null;column:nombre" validate:"required"`
	RFC       string `json:"rfc" form:"rfc" gorm:"size:13;not null;column:rfc" validate:"required,min=12,max=13"`
	Correo    string `json:"correo" form:"correo" gorm:"size:255;column:correo" validate:"required,email"`
	Telefono  string `json:"telefono" form:"telefono" gorm:"size:20;column:telefono" validate:"omitempty,numeric"`
	Direccion string `json:"direccion" form:"direccion" gorm:"size:255;column:direccion"`
	Activo    bool   `json:"activo" form:"activo" gorm:"column:activo"`
}

func (Client) TableName() string { return "clientes" }

type Company struct {
	Base
	Nombre        string `json:"nombre" form:"nombre" gorm:"size:255;not null;column:nombre" validate:"required"`
	RFC           string `json:"rfc" form:"rfc" gorm:"size:13;column:rfc" validate:"required,min=12,max=13"`
	ClienteID     int    `json:"cliente_id" form:"cliente_id" gorm:"column:cliente_id" validate:"required"`
	ClienteNombre string `json:"cliente_nombre" form:"cliente_nombre" gorm:"size:255;column:cliente_nombre"`
	Telefono      string `json:"telefono" form:"telefono" gorm:"size:20;column:telefono" validate:"omitempty,numeric"`
	Correo        string `json:"correo" form:"correo" gorm:"size:255;column:correo" validate:"omitempty,email"`
	Logo          string `json:"logo,omitempty" upload:"logo" gorm:"type:longtext;column:logo"`
}

func (Company) TableName() string { return "empresas" }

type Card struct {
	Base
	Numero          string  `json:"numero" form:"numero" gorm:"size:16;not null;column:numero" validate:"required,numeric,len=16"`
	ClienteID       int     `json:"cliente_id" form:"cliente_id" gorm:"column:cliente_id" validate:"required"`
	ClienteNombre   string  `json:"cliente_nombre" form:"cliente_nombre" gorm:"size:255;column:cliente_nombre"`
	ConductorID     int     `json:"conductor_id" form:"conductor_id" gorm:"column:conductor_id"`
	ConductorNombre string  `json:"conductor_nombre" form:"conductor_nombre" gorm:"size:255;column:conductor_nombre"`
	VehiculoID      int     `json:"vehiculo_id" form:"vehiculo_id" gorm:"column:vehiculo_id"`
	VehiculoPlacas  string  `json:"vehiculo_placas" form:"vehiculo_placas" gorm:"size:20;column:vehiculo_placas"`
	LimiteDiario    float64 `json:"limite_diario" form:"limite_diario" gorm:"column:limite_diario" validate:"min=0"`
	Active          bool    `json:"active" form:"active" gorm:"column:active"`
}

func (Card) TableName() string { return "tarjetas" }

type Driver struct {
	Base
	Nombre        string `json:"nombre" form:"nombre" gorm:"size:255;not null;column:nombre" validate:"required"`
	Apellido      string `json:"apellido" form:"apellido" gorm:"size:255;column:apellido" validate:"required"`
	Licencia      string `json:"licencia" form:"licencia" gorm:"size:50;column:licencia" validate:"required"`
	Telefono      string `json:"telefono" form:"telefono" gorm:"size:20;column:telefono" validate:"omitempty,numeric"`
	EmpresaID     int    `json:"empresa_id" form:"empresa_id" gorm:"column:empresa_id" validate:"required"`
	EmpresaNombre string `json:"empresa_nombre" form:"empresa_nombre" gorm:"size:255;column:empresa_nombre"`
	Usuario       string `json:"usuario" form:"usuario" gorm:"size:100;column:usuario" validate:"required"`
	Password      string `json:"password,omitempty" form:"password" gorm:"size:255;column:password" validate:"required,min=8"`
	Foto          string `json:"foto,omitempty" upload:"foto" gorm:"type:longtext;column:foto"`
}

func (Driver) TableName() string { return "conductores" }

type Vehicle struct {
	Base
	Placas            string  `json:"placas" form:"placas" gorm:"size:20;not null;column:placas" validate:"required"`
	Marca             string  `json:"marca" form:"marca" gorm:"size:100;column:marca" validate:"required"`
	Modelo            string  `json:"modelo" form:"modelo" gorm:"size:100;column:modelo" validate:"required"`
	Anio              int     `json:"anio" form:"anio" gorm:"column:anio" validate:"required,min=1950,max=2100"`
	TipoCombustible   string  `json:"tipo_combustible" form:"tipo_combustible" gorm:"size:20;column:tipo_combustible" validate:"required,oneof=magna premium diesel"`
	CapacidadTanque   float64 `json:"capacidad_tanque" form:"capacidad_tanque" gorm:"column:capacidad_tanque" validate:"min=0"`
	EmpresaID         int     `json:"empresa_id" form:"empresa_id" gorm:"column:empresa_id" validate:"required"`
	EmpresaNombre     string  `json:"empresa_nombre" form:"empresa_nombre" gorm:"size:255;column:empresa_nombre"`
	CentroCostoID     int     `json:"centro_costo_id" form:"centro_costo_id" gorm:"column:centro_costo_id"`
	CentroCostoNombre string  `json:"centro_costo_nombre" form:"centro_costo_nombre" gorm:"size:255;column:centro_costo_nombre"`
}

func (Vehicle) TableName() string { return "vehiculos" }

type CostCenter struct {
	Base
	Nombre        string  `json:"nombre" form:"nombre" gorm:"size:255;not null;column:nombre" validate:"required"`
	Codigo        string  `json:"codigo" form:"codigo" gorm:"size:50;column:codigo" validate:"required"`
	EmpresaID     int     `json:"empresa_id" form:"empresa_id" gorm:"column:empresa_id" validate:"required"`
	EmpresaNombre string  `json:"empresa_nombre" form:"empresa_nombre" gorm:"size:255;column:empresa_nombre"`
	Presupuesto   float64 `json:"presupuesto" form:"presupuesto" gorm:"column:presupuesto" validate:"min=0"`
}

func (CostCenter) TableName() string { return "centros_costo" }

// Member is a back-office user.
type Member struct {
	Base
	Nombre   string `json:"nombre" form:"nombre" gorm:"size:255;not null;column:nombre" validate:"required"`
	Correo   string `json:"correo" form:"correo" gorm:"size:255;column:correo" validate:"required,email"`
	Telefono string `json:"telefono" form:"telefono" gorm:"size:20;column:telefono" validate:"omitempty,numeric"`
	Usuario  string `json:"usuario" form:"usuario" gorm:"size:100;column:usuario" validate:"required"`
	Password string `json:"password,omitempty" form:"password" gorm:"size:255;column:password" validate:"required,min=8"`
	Rol      string `json:"rol" form:"rol" gorm:"size:20;column:rol" validate:"required,oneof=admin supervisor operador"`
}

func (Member) TableName() string { return "miembros" }

type Shift struct {
	Base
	Nombre      string `json:"nombre" form:"nombre" gorm:"size:100;not null;column:nombre" validate:"required"`
	Estacion    string `json:"estacion" form:"estacion" gorm:"size:100;column:estacion" validate:"required"`
	HoraInicio  string `json:"hora_inicio" form:"hora_inicio" gorm:"size:5;column:hora_inicio" validate:"required,len=5"`
	HoraFin     string `json:"hora_fin" form:"hora_fin" gorm:"size:5;column:hora_fin" validate:"required,len=5"`
	Responsable string `json:"responsable" form:"responsable" gorm:"size:255;column:responsable"`
}

func (Shift) TableName() string { return "turnos" }

// Point is one movement of a client's loyalty balance.
type Point struct {
	Base
	ClienteID     int       `json:"cliente_id" form:"cliente_id" gorm:"column:cliente_id" validate:"required"`
	ClienteNombre string    `json:"cliente_nombre" form:"cliente_nombre" gorm:"size:255;column:cliente_nombre"`
	Concepto      string    `json:"concepto" form:"concepto" gorm:"size:255;column:concepto" validate:"required"`
	Puntos        int       `json:"puntos" form:"puntos" gorm:"column:puntos" validate:"required"`
	Fecha         time.Time `json:"fecha" form:"fecha" gorm:"column:fecha"`
	Referencia    string    `json:"referencia" form:"referencia" gorm:"size:100;column:referencia"`
}

func (Point) TableName() string { return "puntos" }

// Permission is one stored grant of a route to a member.
type Permission struct {
	Base
	UsuarioID     int    `json:"usuario_id" form:"usuario_id" gorm:"column:usuario_id;uniqueIndex:idx_usuario_ruta" validate:"required"`
	UsuarioNombre string `json:"usuario_nombre" form:"usuario_nombre" gorm:"size:255;column:usuario_nombre"`
	RutaID        int    `json:"ruta_id" form:"ruta_id" gorm:"column:ruta_id;uniqueIndex:idx_usuario_ruta" validate:"required"`
	RutaNombre    string `json:"ruta_nombre" form:"ruta_nombre" gorm:"size:255;column:ruta_nombre"`
	Permitido     bool   `json:"permitido" form:"permitido" gorm:"column:permitido"`
}

func (Permission) TableName() string { return "permisos" }

type Wallet struct {
	Base
	ClienteID     int     `json:"cliente_id" form:"cliente_id" gorm:"column:cliente_id" validate:"required"`
	ClienteNombre string  `json:"cliente_nombre" form:"cliente_nombre" gorm:"size:255;column:cliente_nombre"`
	Nombre        string  `json:"nombre" form:"nombre" gorm:"size:255;column:nombre" validate:"required"`
	Saldo         float64 `json:"saldo" form:"saldo" gorm:"column:saldo" validate:"min=0"`
	Moneda        string  `json:"moneda" form:"moneda" gorm:"size:3;column:moneda" validate:"required,len=3"`
	Activa        bool    `json:"activa" form:"activa" gorm:"column:activa"`
}

func (Wallet) TableName() string { return "billeteras" }
