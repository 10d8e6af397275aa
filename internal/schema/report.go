package schema

// TableResult is the outcome of describing one table.
// Err is nil when Columns were read successfully.
type TableResult struct {
	Name    string
	Columns []string
	Err     error
}

// OK reports whether the table was described successfully
func (r TableResult) OK() bool {
	return r.Err == nil
}

// Report collects the per-table results of one extraction run
type Report struct {
	Results []TableResult
}

// Add appends a table result to the report
func (r *Report) Add(result TableResult) {
	r.Results = append(r.Results, result)
}

// Schema projects the successfully described tables, in report order
func (r *Report) Schema() *Schema {
	s := &Schema{Tables: make([]Table, 0, len(r.Results))}
	for _, res := range r.Results {
		if !res.OK() {
			continue
		}
		s.Tables = append(s.Tables, Table{Name: res.Name, Columns: res.Columns})
	}
	return s
}

// Failures returns the tables that could not be described
func (r *Report) Failures() []TableResult {
	var failed []TableResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}
