// Package permissions edits the route permissions of one back-office user.
// Routes form a two level menu; a child can only be granted while its
// parent is, and revoking a parent revokes its children.
package permissions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"maxloyalty.com/backoffice/listmanager"
)

const MsgSaved = "Permisos actualizados correctamente"

var (
	ErrUnknownRoute   = errors.New("unknown route")
	ErrParentDisabled = errors.New("parent route is not permitted")
)

type Route struct {
	ID        int    `json:"id"`
	Name      string `json:"nombre"`
	Path      string `json:"ruta"`
	ParentID  *int   `json:"padre_id,omitempty"`
	Permitted bool   `json:"permitido"`
}

// Grant is one entry of the bulk permission update.
type Grant struct {
	RouteID   int  `json:"ruta_id"`
	Permitted bool `json:"permitido"`
}

// Saver persists the whole permission set of a user in one request.
type Saver interface {
	SavePermissions(ctx context.Context, userID int, grants []Grant) error
}

type Option func(*Tree)

func WithNotifier(n listmanager.Notifier) Option {
	return func(t *Tree) { t.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) { t.log = l }
}

type Tree struct {
	mu       sync.Mutex
	routes   []Route
	index    map[int]int
	parent   map[int]int
	children map[int][]int
	pending  map[int]bool
	expanded map[int]bool

	notifier listmanager.Notifier
	log      *slog.Logger
}

// NewTree keeps the routes in the order given.
func NewTree(routes []Route, opts ...Option) *Tree {
	t := &Tree{
		routes:   append([]Route(nil), routes...),
		index:    make(map[int]int, len(routes)),
		parent:   map[int]int{},
		children: map[int][]int{},
		pending:  map[int]bool{},
		expanded: map[int]bool{},
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	for i, r := range t.routes {
		t.index[r.ID] = i
	}
	// A parent that is missing, or that would close a cycle, makes the
	// route a root.
	for _, r := range t.routes {
		if r.ParentID == nil {
			continue
		}
		p := *r.ParentID
		if _, ok := t.index[p]; !ok || t.descendsFrom(p, r.ID) {
			continue
		}
		t.parent[r.ID] = p
		t.children[p] = append(t.children[p], r.ID)
	}
	return t
}

// descendsFrom reports whether ancestor is id or above it.
func (t *Tree) descendsFrom(id, ancestor int) bool {
	for {
		if id == ancestor {
			return true
		}
		p, ok := t.parent[id]
		if !ok {
			return false
		}
		id = p
	}
}

func (t *Tree) parentLocked(id int) (int, bool) {
	p, ok := t.parent[id]
	return p, ok
}

// Roots lists the top level routes.
func (t *Tree) Roots() []Route {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Route
	for _, r := range t.routes {
		if _, ok := t.parentLocked(r.ID); !ok {
			out = append(out, t.effectiveLocked(r))
		}
	}
	return out
}

func (t *Tree) Children(id int) []Route {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Route, 0, len(t.children[id]))
	for _, c := range t.children[id] {
		out = append(out, t.effectiveLocked(t.routes[t.index[c]]))
	}
	return out
}

func (t *Tree) effectiveLocked(r Route) Route {
	if v, ok := t.pending[r.ID]; ok {
		r.Permitted = v
	}
	return r
}

// Enabled is the pending value of a route if it was toggled, else the
// loaded one.
func (t *Tree) Enabled(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabledLocked(id)
}

func (t *Tree) enabledLocked(id int) bool {
	if v, ok := t.pending[id]; ok {
		return v
	}
	i, ok := t.index[id]
	return ok && t.routes[i].Permitted
}

// Toggle flips a route and returns its new value. Revoking a parent revokes
// all of its descendants and collapses its submenu.
func (t *Tree) Toggle(id int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.index[id]; !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownRoute, id)
	}
	if p, ok := t.parentLocked(id); ok && !t.enabledLocked(p) {
		return false, fmt.Errorf("%w: route %d", ErrParentDisabled, id)
	}

	value := !t.enabledLocked(id)
	t.pending[id] = value
	if !value {
		t.revokeDescendantsLocked(id)
		delete(t.expanded, id)
	}
	return value, nil
}

func (t *Tree) revokeDescendantsLocked(id int) {
	for _, c := range t.children[id] {
		t.pending[c] = false
		t.revokeDescendantsLocked(c)
	}
}

func (t *Tree) Expand(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.children[id]) > 0 {
		t.expanded[id] = true
	}
}

func (t *Tree) Collapse(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.expanded, id)
}

func (t *Tree) ToggleExpanded(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.expanded[id] {
		delete(t.expanded, id)
		return false
	}
	if len(t.children[id]) == 0 {
		return false
	}
	t.expanded[id] = true
	return true
}

func (t *Tree) IsExpanded(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expanded[id]
}

// Dirty reports whether any route was toggled since load or the last save.
func (t *Tree) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, v := range t.pending {
		if t.routes[t.index[id]].Permitted != v {
			return true
		}
	}
	return false
}

// Pending is the full permission set as it would be saved, in route order.
func (t *Tree) Pending() []Grant {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pendingLocked()
}

func (t *Tree) pendingLocked() []Grant {
	out := make([]Grant, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, Grant{RouteID: r.ID, Permitted: t.enabledLocked(r.ID)})
	}
	return out
}

// Save sends the whole set in one request. On success the pending values
// become the loaded ones; on failure they stay pending.
func (t *Tree) Save(ctx context.Context, saver Saver, userID int) error {
	t.mu.Lock()
	grants := t.pendingLocked()
	t.mu.Unlock()

	if err := saver.SavePermissions(ctx, userID, grants); err != nil {
		t.log.ErrorContext(ctx, "save permissions", "user", userID, "error", err)
		t.notify(ctx, listmanager.Alert{Level: listmanager.LevelError, Message: listmanager.UserMessage(err)})
		return fmt.Errorf("save permissions of user %d: %w", userID, err)
	}

	t.mu.Lock()
	for _, g := range grants {
		t.routes[t.index[g.RouteID]].Permitted = g.Permitted
		if v, ok := t.pending[g.RouteID]; ok && v == g.Permitted {
			delete(t.pending, g.RouteID)
		}
	}
	t.mu.Unlock()

	t.log.InfoContext(ctx, "permissions saved", "user", userID, "routes", len(grants))
	t.notify(ctx, listmanager.Alert{Level: listmanager.LevelInfo, Message: MsgSaved})
	return nil
}

// Reset drops every pending change.
func (t *Tree) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = map[int]bool{}
}

func (t *Tree) notify(ctx context.Context, alert listmanager.Alert) {
	if t.notifier == nil {
		return
	}
	if err := t.notifier.Notify(ctx, alert); err != nil {
		t.log.WarnContext(ctx, "notify", "error", err)
	}
}
