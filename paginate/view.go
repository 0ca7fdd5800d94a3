package paginate

// SliceView is the default in-memory view driver.
type SliceView struct {
	data     []any
	total    int
	page     int
	pageSize int
}

// NewSliceView returns an empty view driver.
func NewSliceView() *SliceView {
	return &SliceView{page: 1}
}

func (v *SliceView) SetData(data []any) { v.data = data }
func (v *SliceView) Data() []any        { return v.data }
func (v *SliceView) SetTotal(n int)     { v.total = n }
func (v *SliceView) Total() int         { return v.total }
func (v *SliceView) CurrentPage() int   { return v.page }
func (v *SliceView) SetPage(p int)      { v.page = p }
func (v *SliceView) PageSize() int      { return v.pageSize }
func (v *SliceView) SetPageSize(n int)  { v.pageSize = n }
