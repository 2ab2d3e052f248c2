package permissions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/utils"
)

type saverFunc func(ctx context.Context, userID int, grants []Grant) error

func (f saverFunc) SavePermissions(ctx context.Context, userID int, grants []Grant) error {
	return f(ctx, userID, grants)
}

type apiErr struct{ msg string }

func (e *apiErr) Error() string       { return "api: " + e.msg }
func (e *apiErr) UserMessage() string { return e.msg }

func menu() []Route {
	return []Route{
		{ID: 1, Name: "Catálogos", Path: "/catalogos", Permitted: true},
		{ID: 2, Name: "Clientes", Path: "/clientes", ParentID: utils.Ptr(1), Permitted: true},
		{ID: 3, Name: "Empresas", Path: "/empresas", ParentID: utils.Ptr(1), Permitted: false},
		{ID: 4, Name: "Reportes", Path: "/reportes", Permitted: false},
		{ID: 5, Name: "Transacciones", Path: "/reportes/transacciones", ParentID: utils.Ptr(4), Permitted: false},
	}
}

func TestTogglingParentOffCascadesAndCollapses(t *testing.T) {
	tree := NewTree(menu())
	tree.Expand(1)
	require.True(t, tree.IsExpanded(1))

	v, err := tree.Toggle(1)
	require.NoError(t, err)
	assert.False(t, v)

	assert.False(t, tree.Enabled(1))
	assert.False(t, tree.Enabled(2))
	assert.False(t, tree.Enabled(3))
	assert.False(t, tree.IsExpanded(1))
	assert.Equal(t, []Grant{
		{RouteID: 1, Permitted: false},
		{RouteID: 2, Permitted: false},
		{RouteID: 3, Permitted: false},
		{RouteID: 4, Permitted: false},
		{RouteID: 5, Permitted: false},
	}, tree.Pending())
}

func TestTogglingParentOnLeavesChildren(t *testing.T) {
	tree := NewTree(menu())

	v, err := tree.Toggle(4)
	require.NoError(t, err)
	assert.True(t, v)
	assert.False(t, tree.Enabled(5))

	v, err = tree.Toggle(5)
	require.NoError(t, err)
	assert.True(t, v)
}

func TestChildNeedsEnabledParent(t *testing.T) {
	tree := NewTree(menu())

	_, err := tree.Toggle(5)
	assert.ErrorIs(t, err, ErrParentDisabled)
	assert.False(t, tree.Enabled(5))

	_, err = tree.Toggle(99)
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestChildToggleIsIndependentOfSiblings(t *testing.T) {
	tree := NewTree(menu())

	v, err := tree.Toggle(3)
	require.NoError(t, err)
	assert.True(t, v)
	assert.True(t, tree.Enabled(2))
	assert.True(t, tree.Dirty())

	v, err = tree.Toggle(3)
	require.NoError(t, err)
	assert.False(t, v)
	assert.False(t, tree.Dirty())
}

func TestParentCyclesBecomeRoots(t *testing.T) {
	tests := []struct {
		name   string
		routes []Route
		roots  []int
	}{
		{
			name:   "own parent",
			routes: []Route{{ID: 1, Name: "Catálogos", ParentID: utils.Ptr(1), Permitted: true}},
			roots:  []int{1},
		},
		{
			name: "two route loop",
			routes: []Route{
				{ID: 1, Name: "Catálogos", ParentID: utils.Ptr(2), Permitted: true},
				{ID: 2, Name: "Clientes", ParentID: utils.Ptr(1), Permitted: true},
			},
			roots: []int{2},
		},
		{
			name: "missing parent",
			routes: []Route{
				{ID: 1, Name: "Catálogos", ParentID: utils.Ptr(99), Permitted: true},
			},
			roots: []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewTree(tt.routes)

			var roots []int
			for _, r := range tree.Roots() {
				roots = append(roots, r.ID)
			}
			assert.Equal(t, tt.roots, roots)

			for _, r := range tt.routes {
				if tree.Enabled(r.ID) {
					_, err := tree.Toggle(r.ID)
					require.NoError(t, err)
				}
			}
			for _, r := range tt.routes {
				assert.False(t, tree.Enabled(r.ID))
			}
		})
	}
}

func TestExpandedSet(t *testing.T) {
	tree := NewTree(menu())

	assert.True(t, tree.ToggleExpanded(1))
	assert.True(t, tree.ToggleExpanded(4))
	assert.True(t, tree.IsExpanded(1))
	assert.True(t, tree.IsExpanded(4))

	assert.False(t, tree.ToggleExpanded(1))
	assert.False(t, tree.IsExpanded(1))

	// leaves never expand
	assert.False(t, tree.ToggleExpanded(2))
	tree.Expand(2)
	assert.False(t, tree.IsExpanded(2))

	tree.Collapse(4)
	assert.False(t, tree.IsExpanded(4))
}

func TestRootsAndChildren(t *testing.T) {
	routes := append(menu(), Route{ID: 6, Name: "Huérfana", ParentID: utils.Ptr(42)})
	tree := NewTree(routes)

	roots := tree.Roots()
	ids := utils.Map(roots, func(r Route) int { return r.ID })
	assert.Equal(t, []int{1, 4, 6}, ids)

	_, err := tree.Toggle(1)
	require.NoError(t, err)
	children := tree.Children(1)
	require.Len(t, children, 2)
	assert.False(t, children[0].Permitted)
}

func TestSaveSendsWholeSetAndCommits(t *testing.T) {
	var rec []listmanager.Alert
	notifier := listmanager.NotifierFunc(func(_ context.Context, a listmanager.Alert) error {
		rec = append(rec, a)
		return nil
	})
	tree := NewTree(menu(), WithNotifier(notifier))
	_, err := tree.Toggle(1)
	require.NoError(t, err)

	calls := 0
	var sent []Grant
	err = tree.Save(context.Background(), saverFunc(func(_ context.Context, userID int, grants []Grant) error {
		calls++
		assert.Equal(t, 7, userID)
		sent = grants
		return nil
	}), 7)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Len(t, sent, 5)
	assert.False(t, tree.Dirty())
	assert.False(t, tree.Enabled(2))
	require.Len(t, rec, 1)
	assert.Equal(t, MsgSaved, rec[0].Message)
}

func TestSaveFailureKeepsPending(t *testing.T) {
	var rec []listmanager.Alert
	notifier := listmanager.NotifierFunc(func(_ context.Context, a listmanager.Alert) error {
		rec = append(rec, a)
		return nil
	})
	tree := NewTree(menu(), WithNotifier(notifier))
	_, err := tree.Toggle(1)
	require.NoError(t, err)

	err = tree.Save(context.Background(), saverFunc(func(context.Context, int, []Grant) error {
		return &apiErr{msg: "Sin autorización"}
	}), 7)
	require.Error(t, err)
	var ae *apiErr
	assert.True(t, errors.As(err, &ae))

	assert.True(t, tree.Dirty())
	assert.False(t, tree.Enabled(1))
	require.Len(t, rec, 1)
	assert.Equal(t, listmanager.LevelError, rec[0].Level)
	assert.Equal(t, "Sin autorización", rec[0].Message)

	tree.Reset()
	assert.True(t, tree.Enabled(1))
	assert.True(t, tree.Enabled(2))
}
