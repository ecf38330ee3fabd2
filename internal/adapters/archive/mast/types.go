package mast

// Filter restricts one archive parameter to a list of allowed values
type Filter struct {
	ParamName string   `json:"paramName"`
	Values    []string `json:"values"`
}

// Params carries the column selection and filters of a filtered query
type Params struct {
	Columns string   `json:"columns"`
	Filters []Filter `json:"filters"`
}

// Request is the structured query sent to the invoke endpoint
type Request struct {
	Service string `json:"service"`
	Format  string `json:"format"`
	Params  Params `json:"params"`
}

// Field describes one result column
type Field struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// ResultSet is the decoded body of a fetch: ordered field descriptors plus rows.
// Row values keep their JSON shape (numbers as json.Number)
type ResultSet struct {
	Fields []Field          `json:"fields"`
	Data   []map[string]any `json:"data"`
}

// Names returns the field names in archive order
func (rs ResultSet) Names() []string {
	out := make([]string, len(rs.Fields))
	for i, f := range rs.Fields {
		out[i] = f.Name
	}
	return out
}

// PlannedFilters selects planned (not yet executed) observations: calib_level -1
func PlannedFilters() []Filter {
	return []Filter{{ParamName: "calib_level", Values: []string{"-1"}}}
}

// wireResult is the raw response shape; pointers tell a missing key from an empty one
type wireResult struct {
	Status string            `json:"status"`
	Msg    string            `json:"msg"`
	Fields *[]Field          `json:"fields"`
	Data   *[]map[string]any `json:"data"`
}
