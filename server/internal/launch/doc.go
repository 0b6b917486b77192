// Package launch holds the immutable launch table and the loaders that build
// it from a CSV export or a SQLite database.
//
// A Table is constructed once with NewTable (or LoadFile) and never modified.
// All accessors either return values or fresh copies, so a *Table can be read
// from any number of goroutines without locking.
//
// CSV files are matched by header name, not position:
//
//	Launch Site, Payload Mass (kg), Booster Version, class   (required)
//	Flight Number                                            (optional)
//
// Other columns are ignored. SQLite tables use the snake_case column names
// launch_site, payload_mass_kg, booster_version, class and optionally
// flight_number.
package launch
