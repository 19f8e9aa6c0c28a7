// Package columns maps canonical price fields to the actual column names of a table.
//
// CSV files written by different providers (or different versions of the same one)
// spell their headers differently: "Close", "close", "Adj Close", "adj_close".
// An AliasSet lists, per canonical field, the accepted spellings in priority order.
package columns

import "strings"

// Field is a canonical price field name.
type Field string

const (
	High  Field = "high"
	Low   Field = "low"
	Close Field = "close"
)

// Aliases pairs a canonical field with its accepted spellings, most preferred first.
type Aliases struct {
	Field Field
	Names []string
}

// AliasSet is an ordered list of fields to resolve.
type AliasSet []Aliases

// SummaryAliases is used for high/low/close statistics.
var SummaryAliases = AliasSet{
	{Field: High, Names: []string{"high", "h"}},
	{Field: Low, Names: []string{"low", "l"}},
	{Field: Close, Names: []string{"close", "adj close", "adj_close", "closing"}},
}

// CompareAliases is used when comparing mean closes; "closing" is intentionally not accepted.
var CompareAliases = AliasSet{
	{Field: Close, Names: []string{"close", "adj close", "adj_close"}},
}

// Resolve returns the first column matching one of names, trying names in order.
// Matching ignores case and surrounding whitespace. The returned string is the
// column name exactly as it appears in columns. ok is false when nothing matches.
func Resolve(cols []string, names []string) (actual string, ok bool) {
	for _, n := range names {
		want := strings.ToLower(strings.TrimSpace(n))
		for _, c := range cols {
			if strings.ToLower(strings.TrimSpace(c)) == want {
				return c, true
			}
		}
	}
	return "", false
}

// ResolveAll resolves every field of set against cols.
// Unresolved fields are returned in missing, in set order.
func ResolveAll(cols []string, set AliasSet) (resolved map[Field]string, missing []Field) {
	resolved = make(map[Field]string, len(set))
	for _, a := range set {
		if c, ok := Resolve(cols, a.Names); ok {
			resolved[a.Field] = c
			continue
		}
		missing = append(missing, a.Field)
	}
	return resolved, missing
}
