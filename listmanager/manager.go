package listmanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

const DefaultItemsPerPage = 10

// Config is the per-entity description a Manager is built from.
type Config[T Record] struct {
	Name     string
	Resource Resource[T]
	Strategy Strategy
	// ServerSearch sends the search term to the backend. Only meaningful
	// with ServerPagination; otherwise the fetched page is filtered locally.
	ServerSearch   bool
	ItemsPerPage   int
	OptionalOnEdit []string
	// NewDraft seeds the create form. It must leave the id at zero.
	NewDraft func() T
	// PrepareEdit copies a record into the edit form, blanking secrets.
	PrepareEdit func(T) T
	Notifier    Notifier
	Logger      *slog.Logger
}

// Manager is the list/search/paginate/modal state of one entity page.
// It is safe for concurrent use; network calls run without the lock held.
type Manager[T Record] struct {
	cfg Config[T]
	log *slog.Logger

	mu           sync.Mutex
	items        []T
	total        int
	searchTerm   string
	currentPage  int
	itemsPerPage int

	mode              Mode
	draft             T
	uploads           []Upload
	selectedForEdit   *T
	selectedForDelete *T

	busy     bool
	fetchSeq uint64
}

func New[T Record](cfg Config[T]) *Manager[T] {
	if cfg.ItemsPerPage < 1 {
		cfg.ItemsPerPage = DefaultItemsPerPage
	}
	if cfg.Notifier == nil {
		cfg.Notifier = discard{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Manager[T]{
		cfg:          cfg,
		log:          log.With("resource", cfg.Name),
		total:        -1,
		currentPage:  1,
		itemsPerPage: cfg.ItemsPerPage,
	}
}

// =========================================================================
// Listing

// Fetch reloads the collection. On failure the current items stay as they
// are. A response that arrives after a newer Fetch started is dropped.
func (m *Manager[T]) Fetch(ctx context.Context) error {
	m.mu.Lock()
	m.fetchSeq++
	seq := m.fetchSeq
	q := m.queryLocked()
	m.mu.Unlock()

	page, err := m.cfg.Resource.List(ctx, q)
	if err != nil {
		m.log.ErrorContext(ctx, "fetch list", "page", q.Page, "limit", q.Limit, "error", err)
		m.notify(ctx, Alert{Level: LevelError, Message: MsgFetchError, Details: []string{UserMessage(err)}})
		return fmt.Errorf("fetch %s: %w", m.cfg.Name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.fetchSeq {
		m.log.DebugContext(ctx, "stale list response dropped", "seq", seq)
		return nil
	}
	m.items = page.Items
	m.total = page.Total
	m.log.DebugContext(ctx, "list fetched", "count", len(page.Items), "total", page.Total)
	return nil
}

func (m *Manager[T]) queryLocked() Query {
	if m.cfg.Strategy != ServerPagination {
		return Query{}
	}
	q := Query{Page: m.currentPage, Limit: m.itemsPerPage}
	if m.cfg.ServerSearch {
		q.Search = m.searchTerm
	}
	return q
}

// Items is the collection returned by the last successful fetch.
func (m *Manager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.items...)
}

func (m *Manager[T]) filteredLocked() []T {
	if m.cfg.Strategy == ServerPagination && m.cfg.ServerSearch {
		return m.items
	}
	return Filter(m.items, m.searchTerm)
}

// Visible is what the table renders right now.
func (m *Manager[T]) Visible() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	filtered := m.filteredLocked()
	if m.cfg.Strategy == ServerPagination {
		return append([]T(nil), filtered...)
	}
	return append([]T(nil), Paginate(filtered, m.currentPage, m.itemsPerPage)...)
}

func (m *Manager[T]) totalPagesLocked() int {
	if m.cfg.Strategy != ServerPagination {
		return TotalPages(len(m.filteredLocked()), m.itemsPerPage)
	}
	if m.total >= 0 && (m.cfg.ServerSearch || m.searchTerm == "") {
		return TotalPages(m.total, m.itemsPerPage)
	}
	// Unknown total: a full page means there may be another one.
	if len(m.items) >= m.itemsPerPage {
		return m.currentPage + 1
	}
	return m.currentPage
}

func (m *Manager[T]) TotalPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalPagesLocked()
}

func (m *Manager[T]) CurrentPage() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentPage
}

func (m *Manager[T]) ItemsPerPage() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemsPerPage
}

func (m *Manager[T]) SearchTerm() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchTerm
}

// SetSearch changes the search term and always goes back to page 1.
func (m *Manager[T]) SetSearch(term string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchTerm = term
	m.currentPage = 1
}

func (m *Manager[T]) SetItemsPerPage(n int) {
	if n < 1 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemsPerPage = n
	m.currentPage = 1
}

// GoTo moves to page, clamped to [1, TotalPages]. It reports whether the
// page changed; with server pagination the caller must Fetch again.
func (m *Manager[T]) GoTo(page int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.goToLocked(page)
}

func (m *Manager[T]) goToLocked(page int) bool {
	last := max(m.totalPagesLocked(), 1)
	page = min(max(page, 1), last)
	if page == m.currentPage {
		return false
	}
	m.currentPage = page
	return true
}

func (m *Manager[T]) Next() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.goToLocked(m.currentPage + 1)
}

func (m *Manager[T]) Prev() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.goToLocked(m.currentPage - 1)
}

// =========================================================================
// Modals

func (m *Manager[T]) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *Manager[T]) OpenCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	m.mode = ModeCreate
	if m.cfg.NewDraft != nil {
		m.draft = m.cfg.NewDraft()
	}
}

func (m *Manager[T]) OpenEdit(record T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	m.mode = ModeEdit
	selected := record
	m.selectedForEdit = &selected
	if m.cfg.PrepareEdit != nil {
		m.draft = m.cfg.PrepareEdit(record)
	} else {
		m.draft = record
	}
}

func (m *Manager[T]) OpenDelete(record T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	m.mode = ModeDelete
	selected := record
	m.selectedForDelete = &selected
}

// Cancel closes whatever modal is open. Calling it again does nothing.
func (m *Manager[T]) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Manager[T]) resetLocked() {
	var zero T
	m.mode = ModeClosed
	m.draft = zero
	m.uploads = nil
	m.selectedForEdit = nil
	m.selectedForDelete = nil
}

func (m *Manager[T]) Draft() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

func (m *Manager[T]) SelectedForEdit() *T {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selectedForEdit == nil {
		return nil
	}
	r := *m.selectedForEdit
	return &r
}

func (m *Manager[T]) SelectedForDelete() *T {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selectedForDelete == nil {
		return nil
	}
	r := *m.selectedForDelete
	return &r
}

// EditDraft mutates the open create or edit form.
func (m *Manager[T]) EditDraft(fn func(*T)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != ModeCreate && m.mode != ModeEdit {
		return ErrWrongMode
	}
	fn(&m.draft)
	return nil
}

// Attach adds a file to the open form, replacing a previous file picked
// for the same field.
func (m *Manager[T]) Attach(u Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != ModeCreate && m.mode != ModeEdit {
		return ErrWrongMode
	}
	for i := range m.uploads {
		if m.uploads[i].Field == u.Field {
			m.uploads[i] = u
			return nil
		}
	}
	m.uploads = append(m.uploads, u)
	return nil
}

// =========================================================================
// Submits

// begin marks the manager busy after checking the mode, and hands back a
// snapshot of the form.
func (m *Manager[T]) begin(want Mode) (T, []Upload, *T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.busy {
		return zero, nil, nil, ErrBusy
	}
	if m.mode != want {
		if want == ModeDelete {
			return zero, nil, nil, ErrNoSelection
		}
		return zero, nil, nil, ErrWrongMode
	}
	if want == ModeDelete && m.selectedForDelete == nil {
		return zero, nil, nil, ErrNoSelection
	}
	m.busy = true
	var selected *T
	if m.selectedForDelete != nil {
		r := *m.selectedForDelete
		selected = &r
	}
	return m.draft, append([]Upload(nil), m.uploads...), selected, nil
}

func (m *Manager[T]) finish(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if ok {
		m.resetLocked()
	}
}

func (m *Manager[T]) SubmitCreate(ctx context.Context) error {
	return m.submitForm(ctx, ModeCreate, MsgCreated, m.cfg.Resource.Create)
}

func (m *Manager[T]) SubmitUpdate(ctx context.Context) error {
	return m.submitForm(ctx, ModeEdit, MsgUpdated, m.cfg.Resource.Update)
}

type saveFunc[T Record] func(ctx context.Context, record T, uploads []Upload) (T, error)

func (m *Manager[T]) submitForm(ctx context.Context, mode Mode, okMsg string, save saveFunc[T]) error {
	draft, uploads, _, err := m.begin(mode)
	if err != nil {
		return err
	}

	if violations := Validate(draft, mode, m.cfg.OptionalOnEdit); len(violations) > 0 {
		m.finish(false)
		details := make([]string, 0, len(violations))
		for _, v := range violations {
			details = append(details, v.Message)
		}
		m.notify(ctx, Alert{Level: LevelError, Message: MsgCompleteFields, Details: details})
		return &ValidationError{Violations: violations}
	}

	saved, err := save(ctx, draft, uploads)
	if err != nil {
		m.finish(false)
		m.log.ErrorContext(ctx, "submit "+mode.String(), "id", draft.GetID(), "error", err)
		m.notify(ctx, Alert{Level: LevelError, Message: UserMessage(err)})
		return fmt.Errorf("%s %s: %w", mode, m.cfg.Name, err)
	}

	m.finish(true)
	m.log.InfoContext(ctx, "submit "+mode.String(), "id", saved.GetID())
	m.notify(ctx, Alert{Level: LevelInfo, Message: okMsg})
	m.refresh(ctx)
	return nil
}

// SubmitDelete deletes the record chosen with OpenDelete. Without a
// selection it returns ErrNoSelection and sends nothing.
func (m *Manager[T]) SubmitDelete(ctx context.Context) error {
	_, _, selected, err := m.begin(ModeDelete)
	if err != nil {
		return err
	}

	id := (*selected).GetID()
	if err := m.cfg.Resource.Delete(ctx, id); err != nil {
		m.finish(false)
		m.log.ErrorContext(ctx, "submit delete", "id", id, "error", err)
		m.notify(ctx, Alert{Level: LevelError, Message: UserMessage(err)})
		return fmt.Errorf("delete %s %d: %w", m.cfg.Name, id, err)
	}

	m.finish(true)
	m.log.InfoContext(ctx, "submit delete", "id", id)
	m.notify(ctx, Alert{Level: LevelInfo, Message: MsgDeleted})
	m.refresh(ctx)
	return nil
}

// SubmitPatch sends a partial update for one row, outside of any modal
// (e.g. deactivating a card from the table).
func (m *Manager[T]) SubmitPatch(ctx context.Context, id int, changes map[string]any) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return ErrBusy
	}
	m.busy = true
	m.mu.Unlock()

	err := m.cfg.Resource.Patch(ctx, id, changes)

	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()

	if err != nil {
		m.log.ErrorContext(ctx, "submit patch", "id", id, "error", err)
		m.notify(ctx, Alert{Level: LevelError, Message: UserMessage(err)})
		return fmt.Errorf("patch %s %d: %w", m.cfg.Name, id, err)
	}

	m.log.InfoContext(ctx, "submit patch", "id", id)
	m.notify(ctx, Alert{Level: LevelInfo, Message: MsgPatched})
	m.refresh(ctx)
	return nil
}

// BatchError reports how far a batch create got before failing. Records
// created before the failure stay created.
type BatchError struct {
	Index     int
	Committed int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch stopped at item %d after %d created: %v", e.Index, e.Committed, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// SubmitBatch creates drafts one after another and stops at the first
// failure. It returns the number of records created.
func (m *Manager[T]) SubmitBatch(ctx context.Context, drafts []T) (int, error) {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return 0, ErrBusy
	}
	m.busy = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.busy = false
		m.mu.Unlock()
	}()

	committed := 0
	for i, draft := range drafts {
		if violations := Validate(draft, ModeCreate, nil); len(violations) > 0 {
			err := &BatchError{Index: i, Committed: committed, Err: &ValidationError{Violations: violations}}
			m.notify(ctx, Alert{Level: LevelError, Message: MsgCompleteFields, Details: []string{err.Error()}})
			m.refresh(ctx)
			return committed, err
		}
		if _, err := m.cfg.Resource.Create(ctx, draft, nil); err != nil {
			m.log.ErrorContext(ctx, "batch create", "index", i, "committed", committed, "error", err)
			m.notify(ctx, Alert{Level: LevelError, Message: UserMessage(err), Details: []string{fmt.Sprintf("%d registros creados antes del error", committed)}})
			m.refresh(ctx)
			return committed, &BatchError{Index: i, Committed: committed, Err: err}
		}
		committed++
	}

	m.log.InfoContext(ctx, "batch create", "committed", committed)
	m.notify(ctx, Alert{Level: LevelInfo, Message: fmt.Sprintf("%d registros creados correctamente", committed)})
	m.refresh(ctx)
	return committed, nil
}

// refresh reloads after a successful mutation. Its failure is already
// logged and alerted by Fetch, the mutation itself stands.
func (m *Manager[T]) refresh(ctx context.Context) {
	if err := m.Fetch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		m.log.WarnContext(ctx, "refresh after submit", "error", err)
	}
}

func (m *Manager[T]) notify(ctx context.Context, alert Alert) {
	if err := m.cfg.Notifier.Notify(ctx, alert); err != nil {
		m.log.WarnContext(ctx, "notify", "message", alert.Message, "error", err)
	}
}
