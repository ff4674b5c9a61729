// Package fields extracts a configurable subset of values from a Nextcloud
// serverinfo response.
//
// A Table maps each (section, field) pair to a Path into the decoded JSON
// document. A Mapper validates a caller's Selection against the table once at
// startup and then resolves it against every polled document:
//
//	m := fields.NewMapper(fields.DefaultTable())
//	if err := m.Validate(sel); err != nil {
//		return err // CONFIG error
//	}
//	res := m.Resolve(doc, sel) // res["status"]["status_code"] == int64(200)
//
// Paths that cannot be followed resolve to nil; resolution never fails.
package fields
