// Package listmanager holds the state machine behind every back-office
// listing: a searchable, paginated table of one entity type with
// create/edit/delete modals.
package listmanager

import "context"

// Record is a flat entity row identified by a numeric id.
type Record interface {
	GetID() int
}

// Mode tells which modal is open. At most one is open at any time.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeDelete:
		return "delete"
	}
	return "closed"
}

// Strategy picks where pagination happens. The two are never combined:
// re-slicing a page the server already limited drops rows.
type Strategy int

const (
	// ClientPagination fetches the whole collection once and pages locally.
	ClientPagination Strategy = iota
	// ServerPagination sends page/limit and renders the page as received.
	ServerPagination
)

func (s Strategy) String() string {
	if s == ServerPagination {
		return "server"
	}
	return "client"
}

// Upload is a file picked in a form, sent as a raw multipart file field.
type Upload struct {
	Field    string
	Filename string
	Content  []byte
}

type Query struct {
	Page   int
	Limit  int
	Search string
}

// Page is one response of a list call. Total is -1 when the backend does
// not report it.
type Page[T any] struct {
	Items []T
	Total int
}

// Resource is the REST collection a manager talks to.
type Resource[T Record] interface {
	List(ctx context.Context, q Query) (Page[T], error)
	Create(ctx context.Context, record T, uploads []Upload) (T, error)
	Update(ctx context.Context, record T, uploads []Upload) (T, error)
	Delete(ctx context.Context, id int) error
	Patch(ctx context.Context, id int, changes map[string]any) error
}
