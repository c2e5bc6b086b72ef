package staging

import (
	"fmt"
	"sort"
	"strings"
)

// stateNames maps the state abbreviations found in the source feeds to the
// standardized names used from staging onward. Unknown codes pass through
// trimmed.
var stateNames = map[string]string{
	"AZ": "Arizona",
	"CA": "California",
	"CO": "Colorado",
	"FL": "Florida",
	"GA": "Georgia",
	"IL": "Illinois",
	"NY": "New York",
	"OR": "Oregon",
	"TX": "Texas",
	"WA": "Washington",
}

// orderStatusNames maps the numeric order status codes to canonical labels.
var orderStatusNames = map[string]string{
	"1": "Pending",
	"2": "Processing",
	"3": "Rejected",
	"4": "Completed",
}

// activeNames maps the staff active flag to canonical labels.
var activeNames = map[string]string{
	"0": "Inactive",
	"1": "Active",
}

// caseExpr builds a CASE expression standardizing a raw TEXT column against
// a code->label mapping. Codes not in the mapping fall through trimmed, and
// empty values become NULL. Keys are emitted in sorted order so the
// generated SQL is deterministic.
func caseExpr(col string, mapping map[string]string) string {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "CASE btrim(%s)", col)
	for _, k := range keys {
		fmt.Fprintf(&b, " WHEN '%s' THEN '%s'", k, strings.ReplaceAll(mapping[k], "'", "''"))
	}
	fmt.Fprintf(&b, " ELSE NULLIF(btrim(%s), '') END", col)
	return b.String()
}

// textExpr trims a raw TEXT column and maps empty strings to NULL.
func textExpr(col string) string {
	return fmt.Sprintf("NULLIF(btrim(%s), '')", col)
}

// intExpr casts a cleaned raw column to INTEGER.
func intExpr(col string) string {
	return textExpr(col) + "::INTEGER"
}

// numericExpr casts a cleaned raw column to NUMERIC.
func numericExpr(col string) string {
	return textExpr(col) + "::NUMERIC"
}

// dateExpr casts a cleaned raw column to DATE.
func dateExpr(col string) string {
	return textExpr(col) + "::DATE"
}

// fullNameExpr concatenates trimmed name parts, skipping NULLs.
func fullNameExpr(first, last string) string {
	return fmt.Sprintf("concat_ws(' ', %s, %s)", textExpr(first), textExpr(last))
}
