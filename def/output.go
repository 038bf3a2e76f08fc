package def

// Outputer receives the records of a query response, one JSON document each.
type Outputer interface {
	WriteRecord(endpoint string, record []byte) error
	Close() error
}
