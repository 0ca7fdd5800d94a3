package paginate_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Hank-IT/blueprint-core/paginate"
)

// fakePages serves total items named "item-<n>" in pages.
type fakePages struct {
	total int
	calls int
}

func (s *fakePages) Page(_ context.Context, page, size int) (paginate.PageResult, error) {
	s.calls++
	start := (page - 1) * size
	var data []any
	for i := start; i < start+size && i < s.total; i++ {
		data = append(data, fmt.Sprintf("item-%d", i))
	}
	return paginate.PageResult{Data: data, Total: s.total}, nil
}

// fakeCursor serves batches and terminates with a nil token.
type fakeCursor struct {
	batches [][]any
	calls   int
}

func (s *fakeCursor) Cursor(_ context.Context, state *string) (paginate.CursorResult, error) {
	idx := 0
	if state != nil {
		fmt.Sscanf(*state, "b%d", &idx)
	}
	s.calls++
	res := paginate.CursorResult{Data: s.batches[idx], Total: 6}
	if idx+1 < len(s.batches) {
		next := fmt.Sprintf("b%d", idx+1)
		res.State = &next
	}
	return res, nil
}

func TestPagePaginator_LastPageMath(t *testing.T) {
	src := &fakePages{total: 25}
	view := paginate.NewSliceView()
	p := paginate.NewPage(src, view, paginate.WithPageSize(10))
	if err := p.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := p.LastPage(); got != 3 {
		t.Fatalf("total=25 size=10 must give last page 3, got %d", got)
	}
	if got := p.Pages(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected pages %v", got)
	}
}

func TestPagePaginator_NextPageReplacesViewData(t *testing.T) {
	src := &fakePages{total: 25}
	view := paginate.NewSliceView()
	p := paginate.NewPage(src, view, paginate.WithPageSize(10))
	_ = p.Init(context.Background())

	if err := p.ToNextPage(context.Background()); err != nil {
		t.Fatalf("next: %v", err)
	}
	if view.CurrentPage() != 2 {
		t.Fatalf("expected page 2, got %d", view.CurrentPage())
	}
	if len(view.Data()) != 10 || view.Data()[0] != "item-10" {
		t.Fatalf("page load must replace view data, got %v", view.Data())
	}
}

func TestPagePaginator_NavigationBounds(t *testing.T) {
	src := &fakePages{total: 25}
	view := paginate.NewSliceView()
	p := paginate.NewPage(src, view, paginate.WithPageSize(10))
	_ = p.Init(context.Background())

	if err := p.ToPreviousPage(context.Background()); err != paginate.ErrNoSuchPage {
		t.Fatalf("previous from page 1 must fail, got %v", err)
	}
	if err := p.ToLastPage(context.Background()); err != nil {
		t.Fatalf("to last: %v", err)
	}
	if err := p.ToNextPage(context.Background()); err != paginate.ErrNoSuchPage {
		t.Fatalf("next from last page must fail, got %v", err)
	}
	if err := p.ToFirstPage(context.Background()); err != nil {
		t.Fatalf("to first: %v", err)
	}
	if view.CurrentPage() != 1 {
		t.Fatalf("expected page 1, got %d", view.CurrentPage())
	}
}

func TestInfiniteScroller_LoadNextAppends(t *testing.T) {
	src := &fakePages{total: 25}
	view := paginate.NewSliceView()
	p := paginate.NewInfiniteScroller(src, view, paginate.WithPageSize(10))
	_ = p.Init(context.Background())

	if err := p.LoadNext(context.Background()); err != nil {
		t.Fatalf("load next: %v", err)
	}
	if len(view.Data()) != 20 {
		t.Fatalf("infinite scroll must append, got %d items", len(view.Data()))
	}
	if view.Data()[0] != "item-0" || view.Data()[10] != "item-10" {
		t.Fatalf("appended data out of order: %v", view.Data()[:2])
	}

	_ = p.LoadNext(context.Background())
	if err := p.LoadNext(context.Background()); err != paginate.ErrExhausted {
		t.Fatalf("loading past the end must fail, got %v", err)
	}
}

func TestPaginator_FlushClearsOnlyViewData(t *testing.T) {
	src := &fakePages{total: 25}
	view := paginate.NewSliceView()
	p := paginate.NewPage(src, view, paginate.WithPageSize(10))
	_ = p.Init(context.Background())
	_ = p.ToNextPage(context.Background())

	p.Flush()
	if len(view.Data()) != 0 {
		t.Fatalf("flush must clear the view data")
	}
	if view.CurrentPage() != 2 {
		t.Fatalf("flush must not touch the current page")
	}
	if src.calls != 2 {
		t.Fatalf("flush must not hit the data driver, calls=%d", src.calls)
	}
}

func TestCursorPaginator_TokenDrivesHasNextPage(t *testing.T) {
	src := &fakeCursor{batches: [][]any{{"a", "b"}, {"c", "d"}, {"e", "f"}}}
	view := paginate.NewSliceView()
	p := paginate.NewCursor(src, view)
	if err := p.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !p.HasNextPage() {
		t.Fatalf("a held token must mean more pages")
	}

	_ = p.LoadNext(context.Background())
	_ = p.LoadNext(context.Background())
	if p.HasNextPage() {
		t.Fatalf("a nil token must mean exhaustion")
	}
	if len(view.Data()) != 6 {
		t.Fatalf("cursor loads must accumulate, got %d", len(view.Data()))
	}
	if err := p.LoadNext(context.Background()); err != paginate.ErrExhausted {
		t.Fatalf("loading past the end must fail, got %v", err)
	}
}

func TestCursorPaginator_RefreshResetsTokenAndFlushes(t *testing.T) {
	src := &fakeCursor{batches: [][]any{{"a", "b"}, {"c", "d"}}}
	view := paginate.NewSliceView()
	p := paginate.NewCursor(src, view)
	_ = p.Init(context.Background())
	_ = p.LoadNext(context.Background())

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(view.Data()) != 2 {
		t.Fatalf("refresh must flush and reload the first batch, got %v", view.Data())
	}
	if !p.HasNextPage() {
		t.Fatalf("refresh must restart the cursor")
	}
}

func TestCursorPaginator_RejectsPageNavigation(t *testing.T) {
	src := &fakeCursor{batches: [][]any{{"a", "b"}}}
	p := paginate.NewCursor(src, paginate.NewSliceView())
	if err := p.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := p.SetPage(context.Background(), 2); err != paginate.ErrPageStrategyOnly {
		t.Fatalf("SetPage on a cursor paginator must fail, got %v", err)
	}
	if err := p.ToNextPage(context.Background()); err != paginate.ErrPageStrategyOnly {
		t.Fatalf("ToNextPage on a cursor paginator must fail, got %v", err)
	}
	if err := p.ToPreviousPage(context.Background()); err != paginate.ErrPageStrategyOnly {
		t.Fatalf("ToPreviousPage on a cursor paginator must fail, got %v", err)
	}
	if err := p.ToLastPage(context.Background()); err != paginate.ErrPageStrategyOnly {
		t.Fatalf("ToLastPage on a cursor paginator must fail, got %v", err)
	}
	if got := p.LastPage(); got != 1 {
		t.Fatalf("LastPage on a cursor paginator must be 1, got %d", got)
	}
}

func TestPaginator_RequiresInit(t *testing.T) {
	p := paginate.NewPage(&fakePages{total: 5}, paginate.NewSliceView())
	if err := p.SetPage(context.Background(), 1); err != paginate.ErrNotInitialized {
		t.Fatalf("loads before Init must fail, got %v", err)
	}
	if p.Initialized() {
		t.Fatalf("paginator must start uninitialized")
	}
}
