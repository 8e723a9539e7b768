package repoargs

// ItemsPage параметры постраничной выборки предметов категории.
// IncludeHidden запрашивается только для модераторов каталога.
type ItemsPage struct {
	CategoryID    int64
	Limit         uint
	Offset        uint
	IncludeHidden bool
}
