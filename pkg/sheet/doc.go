// Package sheet provides a header-keyed tabular store: named sheets made of
// one header row and an ordered list of data rows.
//
// # Overview
//
// A sheet behaves like a single spreadsheet tab. The first row holds the
// column names (headers); every following row is a row-value array of cell
// strings, one per header. Reads never return the header as data, and
// appends always produce a row as wide as the header.
//
// Rows submitted as key/value parameters are converted with BuildRow, which
// looks up each header name in the parameters and substitutes a single
// space for any missing or empty field.
//
// # Backends
//
// Store is the storage contract. Two implementations are provided:
//
//   - Client stores sheets in Redis and publishes a RowEvent on every
//     append. Subscribers receive events via SubscribeRowEvents.
//   - SQLiteStore stores sheets in a local SQLite database. It does not
//     publish events.
//
// # Redis Schema
//
// All Redis keys and Pub/Sub channels are namespaced by instance name so
// several tally instances can share one Redis server.
//
// Headers:    tally:{instance}:sheet:{name}:headers
// Rows:       tally:{instance}:sheet:{name}:rows
// Sheet set:  tally:{instance}:sheets
// Row events: tally:{instance}:sheet:{name}:row_events
//
// # Usage Example
//
//	client, err := sheet.NewClient(&redis.Options{Addr: "localhost:6379"}, "default")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	headers, err := client.Headers(ctx, "Sheet1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	row := sheet.BuildRow(headers, map[string][]string{"First": {"Ada"}})
//	event, err := client.AppendRow(ctx, "Sheet1", row)
package sheet
