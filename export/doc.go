// Package export converts structure records to and from interchange
// formats.
//
// # Formats
//
// Marshal supports JSON, YAML, CSV and XML; Unmarshal supports JSON, YAML
// and CSV. Anything else fails with core.ErrUnsupportedFormat.
//
//	payload, err := export.Marshal(records, export.FormatJSON)
//	items, err := export.Unmarshal(export.FormatCSV, payload)
//
// CSV output is headered with the first record's keys and exports of an
// empty structure produce empty output. XML nests one <record> element
// per row; nested values are flattened to their string form, so XML is
// lossy for composite fields.
//
// Imported records carry their target structure in a per-record
// "_structure" key (a CSV column of the same name); records without one
// route to the "default" structure.
//
// # Remote locations
//
// OpenReader and OpenWriter resolve payload locations: plain paths,
// file:// URLs, http(s):// sources (read-only) and s3:// objects via the
// AWS SDK. RemoteConfig supplies S3 credentials, region and an optional
// S3-compatible endpoint.
package export
