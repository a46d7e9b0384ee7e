package asset

import (
	"github.com/craigmc08/drg-editor/internal/format"
)

// AddImport adds an import funneled through add-if-absent name insertion,
// matching spec.md §8 scenario 5: inserts the class package, class, and
// object names if absent, appends one import table entry if absent, and
// returns the signed reference index -(index+1) a caller can embed directly
// in an Outer/ClassIndex/etc. field. Calling this twice with the same name
// is idempotent and returns the same index both times.
func (a *Asset) AddImport(classPackage, className, name string, outer format.Reference) int32 {
	cp := a.Names.ParseAndAdd(classPackage)
	cn := a.Names.ParseAndAdd(className)
	nm := a.Names.ParseAndAdd(name)
	idx := a.Imports.Add(format.Import{
		ClassPackage: cp,
		ClassName:    cn,
		Outer:        outer,
		Name:         nm,
	})
	return -(idx + 1)
}

// ImportReferenceFor returns the Reference for an import by object name,
// adding it first via AddImport if absent.
func (a *Asset) ImportReferenceFor(classPackage, className, name string, outer format.Reference) format.Reference {
	a.AddImport(classPackage, className, name, outer)
	nameRef := a.Names.ParseAndAdd(name)
	return format.ImportReference(nameRef)
}
