package property

import (
	"github.com/craigmc08/drg-editor/internal/format"
)

// Context carries read-only access to everything a property needs to
// resolve against: the summary, the name/import/export tables, and the
// struct-pattern registry. The asset facade builds one from its own tables
// and passes it by pointer through every deserialize/serialize call — there
// is no package-level
// registry or table anywhere in this package, which is what makes processing
// multiple assets concurrently trivially safe.
type Context struct {
	Summary  *format.FileSummary
	Names    *format.NameTable
	Imports  *format.Imports
	Exports  *format.Exports
	Patterns *StructPatterns
}
