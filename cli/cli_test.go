package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maxloyalty.com/backoffice/config"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/permissions"
	"maxloyalty.com/backoffice/security"
	"maxloyalty.com/backoffice/store"
	"maxloyalty.com/backoffice/web"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

var testDay = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	stores *web.Stores
	url    string
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("MAXLOYALTY_SIGNING_SECRET", testSecret)

	secret, err := security.DecodeSecret(testSecret)
	require.NoError(t, err)
	token, err := security.CreateIdentityToken(&security.Identity{ID: 1, UserName: "admin", Role: "admin"}, testSecret, time.Hour)
	require.NoError(t, err)

	cfg := config.Default()
	stores := web.MemoryStores(web.DemoSeed(testDay))
	srv := httptest.NewServer(web.NewRouter(web.Dependencies{
		Server:  cfg.Server,
		Auth:    cfg.Auth,
		Company: "Max Loyalty",
		Secret:  secret,
		Stores:  stores,
	}))
	t.Cleanup(srv.Close)
	return &testEnv{stores: stores, url: srv.URL, token: token}
}

// run executes the root command against the test server.
func (env *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(append([]string{"--api", env.url, "--token", env.token, "--log-level", "error"}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestListCommand(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "client paginated",
			args:     []string{"list", "clientes"},
			contains: []string{"NOMBRE", "Transportes del Norte", "Logística Bajío", "Página 1 de 1"},
		},
		{
			name:     "search",
			args:     []string{"list", "clientes", "--search", "bajío"},
			contains: []string{"Logística Bajío"},
			excludes: []string{"Transportes del Norte"},
		},
		{
			name:     "server paginated",
			args:     []string{"list", "tarjetas", "--page", "2", "--limit", "1"},
			contains: []string{"5012345678905678", "Página 2 de 2"},
			excludes: []string{"5012345678901234"},
		},
		{
			name:     "secrets hidden",
			args:     []string{"list", "conductores"},
			contains: []string{"jperez"},
			excludes: []string{"secreto123"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := env.run(t, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestUnknownResource(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "list", "gasolineras")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resource")
}

func TestCreateCommand(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, stderr, err := env.run(t, "create", "clientes",
		"--set", "nombre=Gasolineras Unidas",
		"--set", "rfc=GUN040404GH4",
		"--set", "correo=hola@gunidas.mx",
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, listmanager.MsgCreated)

	clients, total, err := env.stores.Clients.List(ctx, store.Query{Search: "unidas"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "GUN040404GH4", clients[0].RFC)
}

func TestCreateCommandWithUpload(t *testing.T) {
	env := newTestEnv(t)
	photo := writeFile(t, "ana.jpg", "jpeg bytes")

	_, _, err := env.run(t, "create", "conductores",
		"--set", "nombre=Ana",
		"--set", "apellido=López",
		"--set", "licencia=NL-1000",
		"--set", "empresa_id=1",
		"--set", "usuario=alopez",
		"--set", "password=contraseña1",
		"--file", "foto="+photo,
	)
	require.NoError(t, err)

	drivers, _, err := env.stores.Drivers.List(context.Background(), store.Query{Search: "alopez"})
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("jpeg bytes")), drivers[0].Foto)
}

func TestCreateCommandRejectsInvalidDraft(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := env.run(t, "create", "clientes", "--set", "nombre=Sin RFC")
	require.Error(t, err)
	assert.Contains(t, stderr, listmanager.MsgCompleteFields)

	_, total, err := env.stores.Clients.List(context.Background(), store.Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestCreateCommandBadPair(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "create", "clientes", "--set", "nombre")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field=value")
}

func TestUpdateCommandKeepsPassword(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "update", "conductores", "1", "--set", "telefono=8110000000")
	require.NoError(t, err)

	driver, err := env.stores.Drivers.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "8110000000", driver.Telefono)
	assert.Equal(t, "secreto123", driver.Password)
	assert.Equal(t, "Juan", driver.Nombre)
}

func TestUpdateCommandUnknownID(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "update", "clientes", "99", "--set", "nombre=X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpdateCommandFindsLaterPage(t *testing.T) {
	env := newTestEnv(t)
	defer func(size int) { findPageSize = size }(findPageSize)
	findPageSize = 1

	_, _, err := env.run(t, "update", "tarjetas", "2", "--set", "limite_diario=2000")
	require.NoError(t, err)

	card, err := env.stores.Cards.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, card.LimiteDiario)
	assert.Equal(t, "5012345678905678", card.Numero)

	_, _, err = env.run(t, "update", "tarjetas", "3", "--set", "limite_diario=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDeleteCommand(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := env.run(t, "delete", "clientes", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, listmanager.MsgDeleted)

	_, err = env.stores.Clients.Get(context.Background(), 2)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = env.run(t, "delete", "clientes", "x")
	assert.Error(t, err)
}

func TestCardsDeactivate(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := env.run(t, "cards", "deactivate", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, listmanager.MsgPatched)

	card, err := env.stores.Cards.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, card.Active)
}

func TestImportCommand(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		output  string
		created int
		wantErr bool
	}{
		{
			name: "all rows",
			csv: "nombre,rfc,correo\n" +
				"Fletes Sur,FSU050505IJ5,fletes@sur.mx\n" +
				"Autotransportes Golfo,AGO060606KL6,info@golfo.mx\n",
			output:  "2 de 2 registros creados",
			created: 2,
		},
		{
			name: "stops at first bad row",
			csv: "nombre,rfc,correo\n" +
				"Fletes Sur,FSU050505IJ5,fletes@sur.mx\n" +
				"Sin correo,AGO060606KL6,\n" +
				"Autotransportes Golfo,AGO060606KL7,info@golfo.mx\n",
			output:  "1 de 3 registros creados",
			created: 1,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			path := writeFile(t, "clientes.csv", tt.csv)

			out, _, err := env.run(t, "import", "clientes", "--csv", path)
			if tt.wantErr {
				var batchErr *listmanager.BatchError
				require.True(t, errors.As(err, &batchErr), "got %v", err)
				assert.Equal(t, 1, batchErr.Index)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, tt.output)

			_, total, err := env.stores.Clients.List(context.Background(), store.Query{})
			require.NoError(t, err)
			assert.Equal(t, 2+tt.created, total)
		})
	}
}

func TestWalletsImport(t *testing.T) {
	env := newTestEnv(t)
	path := writeFile(t, "billeteras.csv", "cliente_id,nombre,saldo,moneda,activa\n2,Viáticos,1200.50,MXN,true\n")

	out, _, err := env.run(t, "wallets", "import", "--csv", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 de 1 registros creados")

	wallets, _, err := env.stores.Wallets.List(context.Background(), store.Query{Search: "viáticos"})
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, 1200.50, wallets[0].Saldo)
	assert.True(t, wallets[0].Activa)
}

func TestPermissionsShow(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "permissions", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[x]  1 Catálogos (/catalogos)")
	assert.Contains(t, out, "    [x]  2 Clientes (/clientes)")
	assert.Contains(t, out, "[ ]  5 Flotilla (/flotilla)")
}

func TestPermissionsToggle(t *testing.T) {
	env := newTestEnv(t)

	out, stderr, err := env.run(t, "permissions", "toggle", "1", "5", "6")
	require.NoError(t, err)
	assert.Contains(t, stderr, permissions.MsgSaved)
	assert.Contains(t, out, "    [x]  6 Tarjetas (/tarjetas)")

	rows, _, err := env.stores.Permissions.List(context.Background(), store.Query{})
	require.NoError(t, err)
	granted := map[int]bool{}
	for _, r := range rows {
		if r.UsuarioID == 1 {
			granted[r.RutaID] = r.Permitido
		}
	}
	assert.True(t, granted[5])
	assert.True(t, granted[6])
	assert.False(t, granted[7])
}

func TestPermissionsToggleOrphanChild(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "permissions", "toggle", "1", "10")
	assert.ErrorIs(t, err, permissions.ErrParentDisabled)

	_, _, err = env.run(t, "permissions", "toggle", "1", "999")
	assert.ErrorIs(t, err, permissions.ErrUnknownRoute)
}

func TestReportTransactions(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(t.TempDir(), "reporte.xlsx")

	stdout, _, err := env.run(t, "report", "transactions",
		"--from", "2025-03-01", "--to", "2025-03-31",
		"--format", "xlsx", "--group", "canal,estacion", "--out", out,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 transacciones")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestReportTransactionsInvalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing period", []string{"--from", "2025-03-01"}},
		{"bad date", []string{"--from", "01/03/2025", "--to", "2025-03-31"}},
		{"bad format", []string{"--from", "2025-03-01", "--to", "2025-03-31", "--format", "csv"}},
		{"inverted period", []string{"--from", "2025-03-31", "--to", "2025-03-01"}},
		{"unknown group", []string{"--from", "2025-03-01", "--to", "2025-03-31", "--group", "color"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.run(t, append([]string{"report", "transactions"}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestTokenCommand(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "token", "--id", "7", "--user", "ana", "--ttl", "1h")
	require.NoError(t, err)

	secret, err := security.DecodeSecret(testSecret)
	require.NoError(t, err)
	claims, err := security.ParseIdentityToken(string(bytes.TrimSpace([]byte(out))), secret)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.Identity.ID)
	assert.Equal(t, "ana", claims.UserName)
}

func TestOpenStores(t *testing.T) {
	cfg := config.Default()

	stores, err := openStores(context.Background(), cfg)
	require.NoError(t, err)
	_, total, err := stores.Clients.List(context.Background(), store.Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	cfg.Server.Store = "postgres"
	_, err = openStores(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown store")
}
