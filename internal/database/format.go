package database

import "strings"

// FormatRows renders a header line of comma-joined column names followed by
// one comma-joined line per row. Cells are joined verbatim; embedded commas
// are not escaped or quoted.
func FormatRows(columns []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(columns, ","))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

// FormatShowTables renders table names under the header MySQL itself uses
// for SHOW TABLES output. The header is derived from the configured database
// name, not from the result's column metadata.
func FormatShowTables(tables []string, database string) string {
	lines := make([]string, 0, len(tables)+1)
	lines = append(lines, "Tables_in_"+database)
	lines = append(lines, tables...)
	return strings.Join(lines, "\n")
}
