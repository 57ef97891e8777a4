package loader

// Record is one raw candidate row. Missing columns are absent keys, NULL values are nil.
type Record map[string]any

// RecordSet is the raw output of a Source.
type RecordSet struct {
	Fields map[string]bool // union of column names seen in the input
	Rows   []Record
}

// Source defines the interface for reading the scored candidate stream.
type Source interface {
	Load() (*RecordSet, error)
	Name() string
}

// StaticSource serves fixed in-memory records for development and testing.
type StaticSource struct {
	Records []Record
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Load() (*RecordSet, error) {
	return newRecordSet(s.Records), nil
}

func newRecordSet(rows []Record) *RecordSet {
	rs := &RecordSet{Fields: make(map[string]bool), Rows: rows}
	for _, r := range rows {
		for k := range r {
			rs.Fields[k] = true
		}
	}
	return rs
}
