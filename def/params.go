package def

const (
	// DefaultBaseURL is the production absence.io host.
	DefaultBaseURL = "https://app.absence.io"
	// APIPrefix precedes the entity endpoint in every query path.
	APIPrefix = "/api/v2/"

	// DATA_BASE is the MongoDB database the mock backend reads.
	DATA_BASE = "absence"
	// HistoryBucket is the bolt bucket holding sent queries.
	HistoryBucket = "queries"

	// DefaultLimit is applied by the mock backend when a request carries limit 0.
	DefaultLimit = 50
)
