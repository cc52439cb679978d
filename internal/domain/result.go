package domain

// WriteResult mirrors what a single store write reports back to the caller.
type WriteResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	InsertedID    int64 `json:"insertedId,omitempty"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	DeletedCount  int64 `json:"deletedCount,omitempty"`
}

func Inserted(id int64) *WriteResult {
	return &WriteResult{Acknowledged: true, InsertedID: id}
}

func Updated(rows int64) *WriteResult {
	return &WriteResult{Acknowledged: true, MatchedCount: rows, ModifiedCount: rows}
}

func Deleted(rows int64) *WriteResult {
	return &WriteResult{Acknowledged: true, DeletedCount: rows}
}
