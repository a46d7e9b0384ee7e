package format

import (
	"github.com/pkg/errors"
)

// PreloadDependencies is the flat list of References the engine must resolve
// before this asset's exports can serialize; it sits right before the body
// file in the header layout (summary.PreloadDependencyOffset).
type PreloadDependencies struct {
	refs []Reference
}

// NewPreloadDependencies returns an empty list.
func NewPreloadDependencies() *PreloadDependencies {
	return &PreloadDependencies{}
}

// Len is the number of entries.
func (p *PreloadDependencies) Len() int {
	return len(p.refs)
}

// All exposes the underlying slice.
func (p *PreloadDependencies) All() []Reference {
	return p.refs
}

// Add appends a reference.
func (p *PreloadDependencies) Add(ref Reference) {
	p.refs = append(p.refs, ref)
}

// ReadPreloadDependencies reads summary.PreloadDependencyCount references
// starting at the current position, which must equal
// summary.PreloadDependencyOffset.
func ReadPreloadDependencies(r *ByteReader, summary *FileSummary, imports *Imports, exports *Exports) (*PreloadDependencies, error) {
	if err := CheckPosition("PreloadDependencies", int64(summary.PreloadDependencyOffset), r.Position()); err != nil {
		return nil, err
	}
	refs := make([]Reference, 0, summary.PreloadDependencyCount)
	for i := uint32(0); i < summary.PreloadDependencyCount; i++ {
		ref, err := ReadReference(r, imports, exports)
		if err != nil {
			return nil, errors.Wrapf(err, "preload_dependencies[%d]", i)
		}
		refs = append(refs, ref)
	}
	return &PreloadDependencies{refs: refs}, nil
}

// Write serializes every reference in order.
func (p *PreloadDependencies) Write(w ioWriter, imports *Imports, exports *Exports) error {
	for i, ref := range p.refs {
		if err := ref.Write(w, imports, exports); err != nil {
			return errors.Wrapf(err, "preload_dependencies[%d]", i)
		}
	}
	return nil
}

// ByteSize is the number of bytes Write will emit: 4 bytes per reference.
func (p *PreloadDependencies) ByteSize() int {
	return 4 * len(p.refs)
}
