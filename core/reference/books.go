// Package reference extracts and normalizes scripture citations from free text.
//
// Citations come in two shapes ("Matthew 5:3-8", "Matthew 5, 3-8") and may use
// English or Vietnamese book names. The package resolves book tokens against a
// curated bilingual alias table; actual verse lookup lives in core/scripture.
package reference

import "strings"

// Entry describes one book of the corpus: its canonical number, its Vietnamese
// short and long names, and the lower-cased English aliases that refer to it.
type Entry struct {
	Number  int
	Short   string
	Long    string
	Aliases []string
}

// entries is the book table in canonical order. LookupAlias scans it top to
// bottom and returns the first containment match, so the ordering is a
// deliberate tie-break and must not be rearranged.
var entries = []Entry{
	{1, "Kn", "Khởi Nguyên", []string{"genesis", "gen"}},
	{2, "Xh", "Xuất Hành", []string{"exodus", "exod"}},
	{3, "Lv", "Lê Vi", []string{"leviticus", "lev"}},
	{4, "Ds", "Dân Số", []string{"numbers", "num"}},
	{5, "Tl", "Thứ Luật", []string{"deuteronomy", "deut"}},
	{40, "Mt", "Mátthêu", []string{"matthew", "matt", "mt"}},
	{41, "Mk", "Máccô", []string{"mark", "mk"}},
	{42, "Lc", "Luca", []string{"luke", "lk"}},
	{43, "Ga", "Gioan", []string{"john", "jn"}},
	{44, "Cv", "Công vụ Tông đồ", []string{"acts"}},
	{45, "Rm", "Thư Rôma", []string{"romans", "rom"}},
	{46, "1Cr", "Thư 1 Côrintô", []string{"1 corinthians", "1 cor"}},
	{47, "2Cr", "Thư 2 Côrintô", []string{"2 corinthians", "2 cor"}},
	{48, "Gl", "Thư Galát", []string{"galatians", "gal"}},
	{49, "Ep", "Thư Êphêsô", []string{"ephesians", "eph"}},
	{50, "Pl", "Thư Philípphê", []string{"philippians", "phil"}},
	{51, "Cl", "Thư Côlôxê", []string{"colossians", "col"}},
	{52, "1Tx", "Thư 1 Thêxalônica", []string{"1 thessalonians", "1 thess"}},
	{53, "2Tx", "Thư 2 Thêxalônica", []string{"2 thessalonians", "2 thess"}},
	{54, "1Tm", "Thư 1 Timôthê", []string{"1 timothy", "1 tim"}},
	{55, "2Tm", "Thư 2 Timôthê", []string{"2 timothy", "2 tim"}},
	{56, "Tt", "Thư Titô", []string{"titus", "tt"}},
	{57, "Plm", "Thư Philêmon", []string{"philemon", "phlm"}},
	{58, "Dt", "Thư Do Thái", []string{"hebrews", "heb"}},
	{59, "Gc", "Thư Giacôbê", []string{"james", "jas"}},
	{60, "1Pr", "Thư 1 Phêrô", []string{"1 peter", "1 pet"}},
	{61, "2Pr", "Thư 2 Phêrô", []string{"2 peter", "2 pet"}},
	{62, "1Ga", "Thư 1 Gioan", []string{"1 john", "1 jn"}},
	{63, "2Ga", "Thư 2 Gioan", []string{"2 john", "2 jn"}},
	{64, "3Ga", "Thư 3 Gioan", []string{"3 john", "3 jn"}},
	{65, "Gđ", "Thư Giuđa", []string{"jude"}},
	{66, "Kh", "Khải Huyền", []string{"revelation", "rev"}},
}

// aliasNames maps lower-cased free-text book tokens to the corpus name used by
// the verse store (long names for spelled-out tokens, short names for
// abbreviations). Lookup is exact-key only; an unmapped token passes through
// unchanged at the caller.
var aliasNames = map[string]string{
	// Old Testament
	"genesis":     "Khởi Nguyên",
	"gen":         "Kn",
	"exodus":      "Xuất Hành",
	"exod":        "Xh",
	"leviticus":   "Lê Vi",
	"lev":         "Lv",
	"numbers":     "Dân Số",
	"num":         "Ds",
	"deuteronomy": "Thứ Luật",
	"deut":        "Tl",

	// New Testament
	"matthew":          "Mátthêu",
	"matt":             "Mt",
	"mt":               "Mt",
	"mark":             "Máccô",
	"mk":               "Mk",
	"luke":             "Luca",
	"lk":               "Lc",
	"john":             "Gioan",
	"jn":               "Ga",
	"acts":             "Công vụ Tông đồ",
	"romans":           "Thư Rôma",
	"rom":              "Rm",
	"1 corinthians":    "Thư 1 Côrintô",
	"1 cor":            "1Cr",
	"2 corinthians":    "Thư 2 Côrintô",
	"2 cor":            "2Cr",
	"galatians":        "Thư Galát",
	"gal":              "Gl",
	"ephesians":        "Thư Êphêsô",
	"eph":              "Ep",
	"philippians":      "Thư Philípphê",
	"phil":             "Pl",
	"colossians":       "Thư Côlôxê",
	"col":              "Cl",
	"1 thessalonians":  "Thư 1 Thêxalônica",
	"1 thess":          "1Tx",
	"2 thessalonians":  "Thư 2 Thêxalônica",
	"2 thess":          "2Tx",
	"1 timothy":        "Thư 1 Timôthê",
	"1 tim":            "1Tm",
	"2 timothy":        "Thư 2 Timôthê",
	"2 tim":            "2Tm",
	"titus":            "Thư Titô",
	"tt":               "Tt",
	"philemon":         "Thư Philêmon",
	"phlm":             "Plm",
	"hebrews":          "Thư Do Thái",
	"heb":              "Dt",
	"james":            "Thư Giacôbê",
	"jas":              "Gc",
	"1 peter":          "Thư 1 Phêrô",
	"1 pet":            "1Pr",
	"2 peter":          "Thư 2 Phêrô",
	"2 pet":            "2Pr",
	"1 john":           "Thư 1 Gioan",
	"1 jn":             "1Ga",
	"2 john":           "Thư 2 Gioan",
	"2 jn":             "2Ga",
	"3 john":           "Thư 3 Gioan",
	"3 jn":             "3Ga",
	"jude":             "Thư Giuđa",
	"revelation":       "Khải Huyền",
	"rev":              "Kh",
}

// Normalize maps a free-text book token to the corpus name the verse store
// knows it by. The second return is false when the token is unmapped, which
// means "use the original token as-is", not an error.
func Normalize(token string) (string, bool) {
	name, ok := aliasNames[strings.ToLower(strings.TrimSpace(token))]
	return name, ok
}

// LookupAlias finds the first book entry whose short name, long name, or alias
// set contains the given text (case-insensitive). First match in table order
// wins; short aliases that are substrings of several names resolve to the
// earliest entry.
func LookupAlias(text string) (Entry, bool) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return Entry{}, false
	}
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Short), needle) ||
			strings.Contains(strings.ToLower(e.Long), needle) {
			return e, true
		}
		for _, a := range e.Aliases {
			if strings.Contains(a, needle) {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// Books returns the alias table in canonical order.
func Books() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
