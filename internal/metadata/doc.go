// Package metadata loads template documents that describe known
// identifiers and merges them with scanned documents. A template lets
// operators supply descriptive fields and control manifest order.
//
// # Template Format
//
// Templates can be written in JSON or YAML:
//
//	{
//	  "identifiers": [
//	    {"identifier": "JFK", "name": "John F. Kennedy Intl", "city": "New York"},
//	    {"identifier": "LAX", "secondaryCode": "KLAX"}
//	  ]
//	}
//
// Any field besides identifier is copied to the manifest entry as-is.
//
// # Usage
//
//	loader := metadata.NewLoader()
//	tmpl, err := loader.Load("templates/manifest_template.json")
//	if err != nil {
//	    return err
//	}
//	matches := metadata.Merge(tmpl, records, logger)
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrNoIdentifiers: the identifiers list is missing or not a list
//   - ErrInvalidFormat: file is not valid YAML/JSON
//   - ErrFileNotFound: template file does not exist
//   - ErrUnsupportedExt: unsupported file extension
package metadata
