// Package paginate abstracts load-more data flows over page-based and
// cursor-based backends. One Paginator type covers both: the fetch strategy
// and the accumulation policy (replace or append) are chosen at
// construction, and the fetched slice plus its metadata live in an injected
// view driver so rendering stays decoupled from fetching.
package paginate

import (
	"context"
	"errors"
	"log/slog"
)

var (
	// ErrNotInitialized reports a load before Init.
	ErrNotInitialized = errors.New("paginate: paginator not initialized")
	// ErrNoSuchPage reports page navigation outside [1, LastPage].
	ErrNoSuchPage = errors.New("paginate: page out of range")
	// ErrExhausted reports a cursor load when no further pages exist.
	ErrExhausted = errors.New("paginate: no next page")
	// ErrPageStrategyOnly reports page navigation on a cursor paginator.
	ErrPageStrategyOnly = errors.New("paginate: page navigation requires the page strategy")
)

// PageResult is one page-based fetch result.
type PageResult struct {
	Data  []any
	Total int
}

// CursorResult is one cursor-based fetch result. A nil State token signals
// that no further pages exist.
type CursorResult struct {
	Data  []any
	Total int
	State *string
}

// PageSource is the page-based data driver contract.
type PageSource interface {
	Page(ctx context.Context, page, size int) (PageResult, error)
}

// CursorSource is the cursor-based data driver contract. The first fetch
// receives a nil token.
type CursorSource interface {
	Cursor(ctx context.Context, state *string) (CursorResult, error)
}

// View is the view-driver contract: the component holding the currently
// displayed slice and its metadata.
type View interface {
	SetData(data []any)
	Data() []any
	SetTotal(n int)
	Total() int
}

// PageView extends View with page bookkeeping.
type PageView interface {
	View
	CurrentPage() int
	SetPage(p int)
	PageSize() int
	SetPageSize(n int)
}

// Accumulation selects what a load does with previously displayed data.
type Accumulation int

const (
	// Replace swaps the view's data for the fetched slice.
	Replace Accumulation = iota
	// Append extends the view's data with the fetched slice; the infinite
	// scroll behavior.
	Append
)

// Option configures a Paginator.
type Option func(*Paginator)

// WithAccumulation sets the accumulation policy (default Replace).
func WithAccumulation(a Accumulation) Option {
	return func(p *Paginator) { p.accumulate = a }
}

// WithPageSize sets the page size used by the page strategy (default 10).
func WithPageSize(n int) Option {
	return func(p *Paginator) { p.pageSize = n }
}

// WithLogger sets the fetch trace logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Paginator) {
		if l != nil {
			p.logger = l
		}
	}
}

// Paginator orchestrates fetch-and-accumulate cycles. Construct it with
// NewPage, NewCursor, or NewInfiniteScroller; a zero Paginator is not
// usable.
type Paginator struct {
	pageSrc   PageSource
	cursorSrc CursorSource
	view      View
	pageView  PageView // non-nil iff page strategy

	accumulate  Accumulation
	pageSize    int
	initialized bool

	// cursor strategy state
	token   *string
	fetched bool

	logger *slog.Logger
}

// NewPage builds a page-strategy paginator over the given source and view.
func NewPage(src PageSource, view PageView, opts ...Option) *Paginator {
	p := &Paginator{pageSrc: src, view: view, pageView: view, pageSize: 10, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewInfiniteScroller builds a page-strategy paginator whose loads append
// instead of replacing.
func NewInfiniteScroller(src PageSource, view PageView, opts ...Option) *Paginator {
	opts = append([]Option{WithAccumulation(Append)}, opts...)
	return NewPage(src, view, opts...)
}

// NewCursor builds a cursor-strategy paginator. Cursor loads always append.
func NewCursor(src CursorSource, view View, opts ...Option) *Paginator {
	p := &Paginator{cursorSrc: src, view: view, accumulate: Append, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init performs the first load and moves the paginator to its initialized
// state. The transition is one-way; calling Init again just reloads.
func (p *Paginator) Init(ctx context.Context) error {
	p.initialized = true
	if p.pageView != nil {
		p.pageView.SetPageSize(p.pageSize)
		return p.loadPage(ctx, 1)
	}
	return p.loadCursor(ctx)
}

// Initialized reports whether Init has run.
func (p *Paginator) Initialized() bool { return p.initialized }

// Flush clears the view's held data without touching the data driver, the
// current page, or the cursor token.
func (p *Paginator) Flush() {
	p.view.SetData(nil)
}

// SetPage loads the given 1-based page. It returns ErrPageStrategyOnly on a
// cursor paginator.
func (p *Paginator) SetPage(ctx context.Context, page int) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	if p.pageView == nil {
		return ErrPageStrategyOnly
	}
	if page < 1 || (p.view.Total() > 0 && page > p.LastPage()) {
		return ErrNoSuchPage
	}
	return p.loadPage(ctx, page)
}

// ToNextPage advances one page.
func (p *Paginator) ToNextPage(ctx context.Context) error {
	if p.pageView == nil {
		return ErrPageStrategyOnly
	}
	return p.SetPage(ctx, p.pageView.CurrentPage()+1)
}

// ToPreviousPage steps back one page.
func (p *Paginator) ToPreviousPage(ctx context.Context) error {
	if p.pageView == nil {
		return ErrPageStrategyOnly
	}
	return p.SetPage(ctx, p.pageView.CurrentPage()-1)
}

// ToFirstPage loads page 1.
func (p *Paginator) ToFirstPage(ctx context.Context) error {
	return p.SetPage(ctx, 1)
}

// ToLastPage loads the last page.
func (p *Paginator) ToLastPage(ctx context.Context) error {
	return p.SetPage(ctx, p.LastPage())
}

// LoadNext fetches the next chunk: the next page under the page strategy, or
// the next cursor batch. Under Append accumulation results extend the view.
func (p *Paginator) LoadNext(ctx context.Context) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	if !p.HasNextPage() {
		return ErrExhausted
	}
	if p.pageView != nil {
		return p.loadPage(ctx, p.pageView.CurrentPage()+1)
	}
	return p.loadCursor(ctx)
}

// HasNextPage reports whether a further chunk exists: a non-null token under
// the cursor strategy, a page below LastPage under the page strategy. Before
// the first cursor fetch it is true.
func (p *Paginator) HasNextPage() bool {
	if p.pageView != nil {
		return p.pageView.CurrentPage() < p.LastPage()
	}
	if !p.fetched {
		return true
	}
	return p.token != nil
}

// Refresh restarts from the beginning: the token (or page) resets, the view
// flushes, and the first chunk reloads.
func (p *Paginator) Refresh(ctx context.Context) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	p.token = nil
	p.fetched = false
	p.Flush()
	if p.pageView != nil {
		return p.loadPage(ctx, 1)
	}
	return p.loadCursor(ctx)
}

// LastPage returns ceil(total/pageSize), at least 1. On a cursor paginator it
// is always 1; pages have no meaning there.
func (p *Paginator) LastPage() int {
	if p.pageView == nil {
		return 1
	}
	size := p.pageView.PageSize()
	if size <= 0 {
		return 1
	}
	last := (p.view.Total() + size - 1) / size
	if last < 1 {
		last = 1
	}
	return last
}

// Pages lists the page numbers from 1 through LastPage.
func (p *Paginator) Pages() []int {
	out := make([]int, p.LastPage())
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// CurrentState returns the cursor token held after the last fetch, nil when
// exhausted or not yet fetched.
func (p *Paginator) CurrentState() *string { return p.token }

func (p *Paginator) loadPage(ctx context.Context, page int) error {
	size := p.pageView.PageSize()
	res, err := p.pageSrc.Page(ctx, page, size)
	if err != nil {
		p.logger.Warn("page load failed", "page", page, "size", size, "error", err)
		return err
	}
	p.pageView.SetPage(page)
	p.view.SetTotal(res.Total)
	p.apply(res.Data)
	return nil
}

func (p *Paginator) loadCursor(ctx context.Context) error {
	res, err := p.cursorSrc.Cursor(ctx, p.token)
	if err != nil {
		p.logger.Warn("cursor load failed", "error", err)
		return err
	}
	p.token = res.State
	p.fetched = true
	p.view.SetTotal(res.Total)
	p.apply(res.Data)
	return nil
}

func (p *Paginator) apply(data []any) {
	if p.accumulate == Append {
		p.view.SetData(append(p.view.Data(), data...))
		return
	}
	p.view.SetData(data)
}
