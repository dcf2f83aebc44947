package db

// KNNQuery is the input for vector nearest-neighbor search.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for BM25 relevance search over one or more TEXT fields.
type TextQuery struct {
	IndexName    string
	Fields       []string // TEXT fields to match against, e.g. name|description
	Query        string
	TopK         int
	ReturnFields []string
}

// ListQuery is the input for paginated listing with a deterministic order.
type ListQuery struct {
	IndexName    string
	Query        string // FT query string, "*" for unfiltered
	Offset       int
	Limit        int
	SortBy       string // SORTABLE field name; empty for index order
	SortDesc     bool
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single record hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// Reducer is a single REDUCE step of an FT.AGGREGATE GROUPBY.
type Reducer struct {
	Func string // COUNT, AVG, SUM, ...
	Arg  string // property name, empty for COUNT
	As   string
}

// AggregateQuery is the input for a grouped aggregation.
type AggregateQuery struct {
	IndexName string
	Query     string
	GroupBy   string // property to group on
	Reducers  []Reducer
	SortBy    string
	SortDesc  bool
	Limit     int
}

// AggregateResult holds one row per group, keyed by property/reducer alias.
type AggregateResult struct {
	Rows []map[string]string
}
