package model

// QueryResult is the uniform envelope returned by DSL execution, whether
// the query ran as native SQL or through the in-process evaluator.
// Validation failures arrive here as OK=false with a descriptive Error;
// they are not Go errors because tool callers always need a renderable
// response.
type QueryResult struct {
	OK        bool     `json:"ok"`
	Rows      []Row    `json:"rows,omitempty"`
	Columns   []string `json:"columns,omitempty"`
	TotalRows int      `json:"total_rows,omitempty"`
	Truncated bool     `json:"truncated,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ErrorResult builds a failed QueryResult from a validation or execution
// error message.
func ErrorResult(msg string) *QueryResult {
	return &QueryResult{OK: false, Error: msg}
}
