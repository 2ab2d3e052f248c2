// Package report turns a fetched list of transactions into grouped totals
// and renders them as a PDF table or an XLSX workbook. Everything happens
// in memory in one pass.
package report

import (
	"fmt"
	"time"

	"maxloyalty.com/backoffice/utils"
)

type Transaction struct {
	ID              int       `json:"id"`
	Fecha           time.Time `json:"fecha"`
	Canal           string    `json:"canal"`
	TipoCombustible string    `json:"tipo_combustible"`
	Monto           float64   `json:"monto"`
	Descuento       float64   `json:"descuento"`
	Unidades        float64   `json:"unidades"`
	ClienteNombre   string    `json:"cliente_nombre"`
	Estacion        string    `json:"estacion"`
}

func (t Transaction) GetID() int { return t.ID }

// Key extracts one categorical value of a transaction.
type Key struct {
	Name  string
	Label string
	Value func(Transaction) string
}

var (
	ByChannel  = Key{Name: "canal", Label: "Canal", Value: func(t Transaction) string { return t.Canal }}
	ByFuelType = Key{Name: "tipo_combustible", Label: "Combustible", Value: func(t Transaction) string { return t.TipoCombustible }}
	ByStation  = Key{Name: "estacion", Label: "Estación", Value: func(t Transaction) string { return t.Estacion }}
)

// KeyByName resolves "canal", "tipo_combustible" or "estacion".
func KeyByName(name string) (Key, error) {
	for _, k := range []Key{ByChannel, ByFuelType, ByStation} {
		if k.Name == name {
			return k, nil
		}
	}
	return Key{}, fmt.Errorf("unknown group key %q", name)
}

type Summary struct {
	Keys             []string `json:"keys"`
	TotalMonto       float64  `json:"totalMonto"`
	TotalDescuento   float64  `json:"totalDescuento"`
	TotalUnidades    float64  `json:"totalUnidades"`
	TransactionCount int      `json:"transactionCount"`
}

func (s *Summary) add(t Transaction) {
	s.TotalMonto += t.Monto
	s.TotalDescuento += t.Descuento
	s.TotalUnidades += t.Unidades
	s.TransactionCount++
}

// Group sums the transactions per combination of key values. Groups come
// out in the order their first transaction appears.
func Group(txs []Transaction, keys ...Key) []Summary {
	order, groups := utils.GroupBy(txs, func(t Transaction) string {
		var id string
		for _, k := range keys {
			id += k.Value(t) + "\x00"
		}
		return id
	})

	out := make([]Summary, 0, len(order))
	for _, id := range order {
		members := groups[id]
		s := Summary{Keys: make([]string, len(keys))}
		for i, k := range keys {
			s.Keys[i] = k.Value(members[0])
		}
		for _, t := range members {
			s.add(t)
		}
		out = append(out, s)
	}
	return out
}

// Totals is the grand total line.
func Totals(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		s.add(t)
	}
	return s
}

type Metadata struct {
	Title       string
	Company     string
	From        time.Time
	To          time.Time
	GeneratedAt time.Time
	GeneratedBy string
}

func (m Metadata) period() string {
	return fmt.Sprintf("%s al %s", m.From.Format("02/01/2006"), m.To.Format("02/01/2006"))
}

func (m Metadata) generated() string {
	s := m.GeneratedAt.In(utils.MexicoCityTZ).Format("02/01/2006 15:04")
	if m.GeneratedBy != "" {
		s += " por " + m.GeneratedBy
	}
	return s
}

// DefaultTitle heads the transaction report.
const DefaultTitle = "Reporte de transacciones"

// Document is what both writers render.
type Document struct {
	Meta         Metadata
	Transactions []Transaction
	// GroupKeys, when set, adds a grouped summary section.
	GroupKeys []Key
}

func (d Document) groups() []Summary {
	if len(d.GroupKeys) == 0 {
		return nil
	}
	return Group(d.Transactions, d.GroupKeys...)
}

var columns = []struct {
	title string
	width float64
}{
	{"Fecha", 32},
	{"Cliente", 52},
	{"Estación", 40},
	{"Canal", 26},
	{"Combustible", 26},
	{"Unidades", 24},
	{"Monto", 28},
	{"Descuento", 28},
}

func row(t Transaction) []string {
	return []string{
		t.Fecha.In(utils.MexicoCityTZ).Format("02/01/2006 15:04"),
		t.ClienteNombre,
		t.Estacion,
		t.Canal,
		t.TipoCombustible,
		fmt.Sprintf("%.2f", t.Unidades),
		utils.FormatMoney(t.Monto),
		utils.FormatMoney(t.Descuento),
	}
}
