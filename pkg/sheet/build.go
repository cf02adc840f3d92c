package sheet

// BuildRow builds a row ordered like headers from submitted parameters.
// For each header the first submitted value is used; a header with no value
// or an empty value gets MissingValue. Parameters that match no header are
// ignored.
func BuildRow(headers []string, params map[string][]string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		row[i] = MissingValue
		if vals := params[h]; len(vals) > 0 && vals[0] != "" {
			row[i] = vals[0]
		}
	}
	return row
}

// FirstValues flattens multi-valued parameters to their first value, the
// shape echoed back in AppendResult.Data.
func FirstValues(params map[string][]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, vals := range params {
		if len(vals) > 0 {
			out[k] = vals[0]
		} else {
			out[k] = ""
		}
	}
	return out
}
