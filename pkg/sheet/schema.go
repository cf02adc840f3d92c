package sheet

import "fmt"

// Redis key pattern helpers
//
// Key pattern: tally:{instance_name}:sheet:{sheet_name}:{part}
// Channel pattern: tally:{instance_name}:sheet:{sheet_name}:row_events

// HeadersKey returns the Redis key holding a sheet's header row.
// Pattern: tally:{instance_name}:sheet:{sheet_name}:headers
func HeadersKey(instanceName, sheetName string) string {
	return fmt.Sprintf("tally:%s:sheet:%s:headers", instanceName, sheetName)
}

// RowsKey returns the Redis key of the list holding a sheet's data rows.
// Pattern: tally:{instance_name}:sheet:{sheet_name}:rows
func RowsKey(instanceName, sheetName string) string {
	return fmt.Sprintf("tally:%s:sheet:%s:rows", instanceName, sheetName)
}

// SheetsKey returns the Redis key of the set of sheet names.
// Pattern: tally:{instance_name}:sheets
func SheetsKey(instanceName string) string {
	return fmt.Sprintf("tally:%s:sheets", instanceName)
}

// RowEventsChannel returns the Pub/Sub channel for a sheet's row events.
// Pattern: tally:{instance_name}:sheet:{sheet_name}:row_events
func RowEventsChannel(instanceName, sheetName string) string {
	return fmt.Sprintf("tally:%s:sheet:%s:row_events", instanceName, sheetName)
}
