package listmanager

import (
	"context"
	"errors"
	"sync"
)

type person struct {
	ID       int    `json:"id"`
	Nombre   string `json:"nombre" validate:"required"`
	Correo   string `json:"correo" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

func (p person) GetID() int { return p.ID }

type apiErr struct{ msg string }

func (e apiErr) Error() string       { return "api: " + e.msg }
func (e apiErr) UserMessage() string { return e.msg }

// memResource is an in-memory Resource that counts calls.
type memResource struct {
	mu      sync.Mutex
	rows    []person
	nextID  int
	calls   map[string]int
	queries []Query
	uploads []Upload
	patches map[int]map[string]any

	failList   error
	failCreate func(p person) error
	failDelete error
	entered    chan struct{}
	block      chan struct{}
}

func newMemResource(rows ...person) *memResource {
	next := 1
	for _, r := range rows {
		next = max(next, r.ID+1)
	}
	return &memResource{rows: rows, nextID: next, calls: map[string]int{}, patches: map[int]map[string]any{}}
}

func (r *memResource) count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *memResource) List(_ context.Context, q Query) (Page[person], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["list"]++
	r.queries = append(r.queries, q)
	if r.failList != nil {
		return Page[person]{}, r.failList
	}
	rows := Filter(r.rows, q.Search)
	total := len(rows)
	if q.Limit > 0 {
		rows = Paginate(rows, q.Page, q.Limit)
	}
	return Page[person]{Items: append([]person(nil), rows...), Total: total}, nil
}

func (r *memResource) Create(_ context.Context, p person, uploads []Upload) (person, error) {
	if r.block != nil {
		r.entered <- struct{}{}
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["create"]++
	if r.failCreate != nil {
		if err := r.failCreate(p); err != nil {
			return person{}, err
		}
	}
	p.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, p)
	r.uploads = append(r.uploads, uploads...)
	return p, nil
}

func (r *memResource) Update(_ context.Context, p person, uploads []Upload) (person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["update"]++
	for i := range r.rows {
		if r.rows[i].ID == p.ID {
			r.rows[i] = p
			r.uploads = append(r.uploads, uploads...)
			return p, nil
		}
	}
	return person{}, apiErr{msg: "no encontrado"}
}

func (r *memResource) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["delete"]++
	if r.failDelete != nil {
		return r.failDelete
	}
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (r *memResource) Patch(_ context.Context, id int, changes map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["patch"]++
	r.patches[id] = changes
	return nil
}

type recorder struct {
	mu     sync.Mutex
	alerts []Alert
}

func (n *recorder) Notify(_ context.Context, a Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return nil
}

func (n *recorder) last() Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.alerts) == 0 {
		return Alert{}
	}
	return n.alerts[len(n.alerts)-1]
}
