// Package output renders command results as a table, JSON or YAML.
//
// Tables are built by reflection from structs and slices of structs.
// Field headers come from json tags; a `table:"-"` tag hides a field,
// `table:"wide"` shows it only with --wide and `table:"bytes"` prints an
// integer as a human-readable size.
package output
