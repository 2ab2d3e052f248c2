package listmanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(res *memResource, strategy Strategy, perPage int) (*Manager[person], *recorder) {
	n := &recorder{}
	m := New(Config[person]{
		Name:           "personas",
		Resource:       res,
		Strategy:       strategy,
		ItemsPerPage:   perPage,
		OptionalOnEdit: []string{"password"},
		PrepareEdit: func(p person) person {
			p.Password = ""
			return p
		},
		Notifier: n,
	})
	return m, n
}

func ids(items []person) []int {
	out := []int{}
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestSearchScenario(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 1, Nombre: "Ana"}, person{ID: 2, Nombre: "Beto"})
	m, _ := newTestManager(res, ClientPagination, 1)
	require.NoError(t, m.Fetch(ctx))

	m.SetSearch("an")

	assert.Equal(t, []int{1}, ids(m.Visible()))
	assert.Equal(t, 1, m.TotalPages())
	assert.False(t, m.Next())
	assert.Equal(t, 1, m.CurrentPage())
}

func TestSearchResetsPagination(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 1, Nombre: "a"}, person{ID: 2, Nombre: "b"}, person{ID: 3, Nombre: "c"})
	m, _ := newTestManager(res, ClientPagination, 1)
	require.NoError(t, m.Fetch(ctx))

	assert.True(t, m.Next())
	assert.True(t, m.Next())
	assert.Equal(t, 3, m.CurrentPage())
	assert.False(t, m.Next())

	m.SetSearch("")
	assert.Equal(t, 1, m.CurrentPage())

	m.GoTo(2)
	m.SetSearch("b")
	assert.Equal(t, 1, m.CurrentPage())
	assert.False(t, m.Prev())
}

func TestClientPaginationFetchesWithoutPaging(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 1, Nombre: "a"}, person{ID: 2, Nombre: "b"}, person{ID: 3, Nombre: "c"})
	m, _ := newTestManager(res, ClientPagination, 2)
	require.NoError(t, m.Fetch(ctx))

	assert.Equal(t, Query{}, res.queries[0])
	assert.Equal(t, []int{1, 2}, ids(m.Visible()))
	assert.True(t, m.Next())
	assert.Equal(t, []int{3}, ids(m.Visible()))
	assert.Equal(t, 1, res.count("list"))
}

func TestServerPaginationDoesNotReslice(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 1, Nombre: "a"}, person{ID: 2, Nombre: "b"}, person{ID: 3, Nombre: "c"})
	m, _ := newTestManager(res, ServerPagination, 2)
	require.NoError(t, m.Fetch(ctx))
	assert.Equal(t, Query{Page: 1, Limit: 2}, res.queries[0])
	assert.Equal(t, 2, m.TotalPages())

	require.True(t, m.Next())
	require.NoError(t, m.Fetch(ctx))

	// page 2 of the server holds one row; a second local slice at page 2
	// would have hidden it.
	assert.Equal(t, Query{Page: 2, Limit: 2}, res.queries[1])
	assert.Equal(t, []int{3}, ids(m.Visible()))
}

func TestServerSearchIsSentToBackend(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 1, Nombre: "Ana"}, person{ID: 2, Nombre: "Beto"})
	n := &recorder{}
	m := New(Config[person]{Name: "personas", Resource: res, Strategy: ServerPagination, ServerSearch: true, ItemsPerPage: 5, Notifier: n})

	m.SetSearch("beto")
	require.NoError(t, m.Fetch(ctx))

	assert.Equal(t, Query{Page: 1, Limit: 5, Search: "beto"}, res.queries[0])
	assert.Equal(t, []int{2}, ids(m.Visible()))
}

func TestFetchFailureKeepsItems(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 1, Nombre: "Ana"})
	m, n := newTestManager(res, ClientPagination, 10)
	require.NoError(t, m.Fetch(ctx))

	res.failList = errors.New("connection refused")
	err := m.Fetch(ctx)

	assert.Error(t, err)
	assert.Equal(t, []int{1}, ids(m.Items()))
	assert.Equal(t, LevelError, n.last().Level)
	assert.Equal(t, MsgFetchError, n.last().Message)
}

func TestOpenCreateAndEditReplaceDraft(t *testing.T) {
	res := newMemResource()
	m, _ := newTestManager(res, ClientPagination, 10)
	stored := person{ID: 9, Nombre: "Ana", Correo: "ana@mail.com", Password: "secreto"}

	m.OpenEdit(stored)
	assert.Equal(t, ModeEdit, m.Mode())
	assert.Equal(t, person{ID: 9, Nombre: "Ana", Correo: "ana@mail.com"}, m.Draft())
	require.NotNil(t, m.SelectedForEdit())
	assert.Equal(t, stored, *m.SelectedForEdit())

	m.OpenCreate()
	assert.Equal(t, ModeCreate, m.Mode())
	assert.Equal(t, 0, m.Draft().ID)
	assert.Equal(t, person{}, m.Draft())
	assert.Nil(t, m.SelectedForEdit())

	require.NoError(t, m.EditDraft(func(p *person) { p.Nombre = "Nuevo" }))
	m.OpenEdit(stored)
	assert.Equal(t, "Ana", m.Draft().Nombre)
}

func TestCancelIsIdempotent(t *testing.T) {
	res := newMemResource()
	m, n := newTestManager(res, ClientPagination, 10)
	m.OpenDelete(person{ID: 3})

	m.Cancel()
	assert.Equal(t, ModeClosed, m.Mode())
	assert.Nil(t, m.SelectedForDelete())
	before := m.Draft()

	m.Cancel()
	assert.Equal(t, ModeClosed, m.Mode())
	assert.Equal(t, before, m.Draft())
	assert.Empty(t, n.alerts)
}

func TestSubmitCreateRequiresFields(t *testing.T) {
	ctx := context.Background()
	res := newMemResource()
	m, n := newTestManager(res, ClientPagination, 10)

	m.OpenCreate()
	require.NoError(t, m.EditDraft(func(p *person) { p.Nombre = ""; p.Password = "x" }))
	err := m.SubmitCreate(ctx)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "nombre", ve.Violations[0].Field)
	assert.Equal(t, 0, res.count("create"))
	assert.Equal(t, MsgCompleteFields, n.last().Message)
	assert.Equal(t, ModeCreate, m.Mode())
}

func TestSubmitCreateSuccess(t *testing.T) {
	ctx := context.Background()
	res := newMemResource()
	m, n := newTestManager(res, ClientPagination, 10)

	m.OpenCreate()
	require.NoError(t, m.EditDraft(func(p *person) { p.Nombre = "Ana"; p.Password = "x" }))
	require.NoError(t, m.Attach(Upload{Field: "foto", Filename: "a.png", Content: []byte{1}}))
	require.NoError(t, m.Attach(Upload{Field: "foto", Filename: "b.png", Content: []byte{2}}))
	require.NoError(t, m.SubmitCreate(ctx))

	assert.Equal(t, ModeClosed, m.Mode())
	assert.Equal(t, MsgCreated, n.last().Message)
	assert.Equal(t, []int{1}, ids(m.Items()))
	require.Len(t, res.uploads, 1)
	assert.Equal(t, "b.png", res.uploads[0].Filename)
}

func TestSubmitUpdateKeepsBlankPassword(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 4, Nombre: "Ana", Password: "x"})
	m, _ := newTestManager(res, ClientPagination, 10)
	require.NoError(t, m.Fetch(ctx))

	m.OpenEdit(m.Items()[0])
	require.NoError(t, m.EditDraft(func(p *person) { p.Nombre = "Ana María" }))
	require.NoError(t, m.SubmitUpdate(ctx))

	assert.Equal(t, "Ana María", m.Items()[0].Nombre)
	assert.Equal(t, 1, res.count("update"))
}

func TestSubmitFailureShowsServerMessage(t *testing.T) {
	ctx := context.Background()
	res := newMemResource()
	res.failCreate = func(person) error { return apiErr{msg: "El correo ya existe"} }
	m, n := newTestManager(res, ClientPagination, 10)

	m.OpenCreate()
	require.NoError(t, m.EditDraft(func(p *person) { p.Nombre = "Ana"; p.Password = "x" }))
	err := m.SubmitCreate(ctx)

	assert.Error(t, err)
	assert.Equal(t, "El correo ya existe", n.last().Message)
	assert.Equal(t, ModeCreate, m.Mode(), "modal stays open after a failed submit")

	res.failCreate = func(person) error { return errors.New("boom") }
	assert.Error(t, m.SubmitCreate(ctx))
	assert.Equal(t, MsgGenericError, n.last().Message)
}

func TestSubmitUpdateInWrongMode(t *testing.T) {
	res := newMemResource()
	m, _ := newTestManager(res, ClientPagination, 10)
	m.OpenCreate()

	assert.ErrorIs(t, m.SubmitUpdate(context.Background()), ErrWrongMode)
	assert.Equal(t, 0, res.count("update"))
}

func TestDeleteScenario(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 4, Nombre: "a"}, person{ID: 5, Nombre: "b"})
	m, n := newTestManager(res, ClientPagination, 10)
	require.NoError(t, m.Fetch(ctx))

	m.OpenDelete(person{ID: 5})
	require.NoError(t, m.SubmitDelete(ctx))

	assert.Equal(t, []int{4}, ids(m.Visible()))
	assert.Equal(t, MsgDeleted, n.last().Message)
	assert.Nil(t, m.SelectedForDelete())
}

func TestDeleteNeedsSelection(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 5, Nombre: "b"})
	m, _ := newTestManager(res, ClientPagination, 10)

	assert.ErrorIs(t, m.SubmitDelete(ctx), ErrNoSelection)

	m.OpenEdit(person{ID: 5})
	assert.ErrorIs(t, m.SubmitDelete(ctx), ErrNoSelection)

	m.OpenDelete(person{ID: 5})
	m.Cancel()
	assert.ErrorIs(t, m.SubmitDelete(ctx), ErrNoSelection)

	assert.Equal(t, 0, res.count("delete"))
}

func TestDeleteTwiceOnlySendsOnce(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 5, Nombre: "b"})
	m, _ := newTestManager(res, ClientPagination, 10)

	m.OpenDelete(person{ID: 5})
	require.NoError(t, m.SubmitDelete(ctx))
	assert.ErrorIs(t, m.SubmitDelete(ctx), ErrNoSelection)
	assert.Equal(t, 1, res.count("delete"))
}

func TestConcurrentSubmitIsRejected(t *testing.T) {
	ctx := context.Background()
	res := newMemResource()
	res.entered = make(chan struct{})
	res.block = make(chan struct{})
	m, _ := newTestManager(res, ClientPagination, 10)

	m.OpenCreate()
	require.NoError(t, m.EditDraft(func(p *person) { p.Nombre = "Ana"; p.Password = "x" }))

	done := make(chan error)
	go func() { done <- m.SubmitCreate(ctx) }()

	select {
	case <-res.entered:
	case <-time.After(time.Second):
		t.Fatal("create was never called")
	}

	assert.ErrorIs(t, m.SubmitCreate(ctx), ErrBusy)
	assert.ErrorIs(t, m.SubmitPatch(ctx, 1, nil), ErrBusy)

	close(res.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, res.count("create"))
}

func TestSubmitPatch(t *testing.T) {
	ctx := context.Background()
	res := newMemResource(person{ID: 8, Nombre: "Tarjeta"})
	m, n := newTestManager(res, ClientPagination, 10)

	require.NoError(t, m.SubmitPatch(ctx, 8, map[string]any{"active": false}))

	assert.Equal(t, map[string]any{"active": false}, res.patches[8])
	assert.Equal(t, MsgPatched, n.last().Message)
	assert.Equal(t, 1, res.count("list"))
}

func TestSubmitBatchStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	res := newMemResource()
	res.failCreate = func(p person) error {
		if p.Nombre == "falla" {
			return apiErr{msg: "saldo inválido"}
		}
		return nil
	}
	m, n := newTestManager(res, ClientPagination, 10)

	drafts := []person{
		{Nombre: "uno", Password: "x"},
		{Nombre: "dos", Password: "x"},
		{Nombre: "falla", Password: "x"},
		{Nombre: "cuatro", Password: "x"},
	}
	created, err := m.SubmitBatch(ctx, drafts)

	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, be.Index)
	assert.Equal(t, 3, res.count("create"))
	assert.Equal(t, []int{1, 2}, ids(m.Items()), "created rows are kept")
	assert.Equal(t, "saldo inválido", n.last().Message)
}

func TestSubmitBatchSuccess(t *testing.T) {
	ctx := context.Background()
	res := newMemResource()
	m, _ := newTestManager(res, ClientPagination, 10)

	created, err := m.SubmitBatch(ctx, []person{{Nombre: "uno", Password: "x"}, {Nombre: "dos", Password: "x"}})

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Len(t, m.Items(), 2)
}
