package metadata

import (
	"fmt"
	"sort"

	"github.com/quantmind-br/docmanifest/internal/domain"
	"github.com/quantmind-br/docmanifest/internal/scanner"
	"github.com/quantmind-br/docmanifest/internal/utils"
)

// Merge reconciles template items with scanned records, in template order.
// Items without a usable identifier are skipped; items whose identifier has
// no scanned record are skipped with a warning.
func Merge(tmpl *Template, records map[string]*domain.DocumentRecord, logger *utils.Logger) []Match {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	logger = logger.WithComponent("metadata")

	matches := make([]Match, 0, len(tmpl.Items))
	referenced := make(map[string]bool, len(tmpl.Items))

	for i, item := range tmpl.Items {
		fields, ok := item.(map[string]any)
		if !ok {
			logger.Debug().Int("index", i).Msg("Skipping template item that is not an object")
			continue
		}

		id := identifierOf(fields)
		if id == "" {
			logger.Debug().Int("index", i).Msg("Skipping template item without identifier")
			continue
		}

		rec, ok := records[id]
		if !ok {
			logger.Warn().Str("identifier", id).Msg("Template lists identifier with no document, skipping it")
			continue
		}

		referenced[id] = true
		matches = append(matches, Match{Record: rec, Fields: fields, Keys: tmpl.keysAt(i)})
	}

	if unreferenced := missingFrom(records, referenced); len(unreferenced) > 0 {
		logger.Debug().Strs("identifiers", unreferenced).Msg("Documents not listed in template are not published")
	}

	return matches
}

// identifierOf returns the normalized identifier of a template item
func identifierOf(fields map[string]any) string {
	switch v := fields[domain.FieldIdentifier].(type) {
	case nil:
		return ""
	case string:
		return scanner.NormalizeIdentifier(v)
	default:
		return scanner.NormalizeIdentifier(fmt.Sprint(v))
	}
}

func missingFrom(records map[string]*domain.DocumentRecord, referenced map[string]bool) []string {
	var out []string
	for id := range records {
		if !referenced[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
