package scanner

import (
	"path"
	"sort"
	"strings"

	"github.com/quantmind-br/docmanifest/internal/domain"
)

// IdentifierFromPath derives a document identifier from the filename stem
// of a slash-separated path: JFK.pdf, charts/jfk .pdf and JFK.PDF all
// yield "JFK". Backslashes are part of the filename.
func IdentifierFromPath(p string) string {
	base := path.Base(p)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return NormalizeIdentifier(stem)
}

// NormalizeIdentifier trims whitespace and uppercases s
func NormalizeIdentifier(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// comparePaths orders slash-separated paths component by component, so a
// directory's files sort together ahead of siblings sharing its prefix
func comparePaths(a, b string) int {
	pa := strings.Split(a, "/")
	pb := strings.Split(b, "/")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := strings.Compare(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	return len(pa) - len(pb)
}

// sortPaths sorts slash-separated paths in place with comparePaths
func sortPaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return comparePaths(paths[i], paths[j]) < 0
	})
}

// Sorted returns the records ordered by identifier
func Sorted(records map[string]*domain.DocumentRecord) []*domain.DocumentRecord {
	out := make([]*domain.DocumentRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identifier < out[j].Identifier
	})
	return out
}
