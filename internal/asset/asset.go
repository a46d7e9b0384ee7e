// Package asset is the facade tying the format primitives and the property
// codec together into a whole asset: read-from-path, write-to-path, the
// offset recalculation pass, and the mutation helpers that fund through
// add-if-absent name/import/export helpers. Nothing in format or
// format/property imports this package.
package asset

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/craigmc08/drg-editor/internal/format"
	"github.com/craigmc08/drg-editor/internal/format/property"
)

// Asset is one logical header+body pair, fully parsed into memory.
type Asset struct {
	Summary *format.FileSummary
	Names   *format.NameTable
	Imports *format.Imports
	Exports *format.Exports
	Depends format.OpaqueRegion
	AssetRegistry format.OpaqueRegion
	Preload *format.PreloadDependencies
	Patterns *property.StructPatterns

	// Properties holds one property bag per export, in export-table order.
	Properties []property.Properties

	originalHeader []byte
	originalBody   []byte
}

// ctx builds the property.Context this asset's codec calls resolve against.
// Cheap to construct; never stored long-term since Exports/Imports pointers
// never change identity across a recalculation.
func (a *Asset) ctx() *property.Context {
	return &property.Context{
		Summary:  a.Summary,
		Names:    a.Names,
		Imports:  a.Imports,
		Exports:  a.Exports,
		Patterns: a.Patterns,
	}
}

// ReadFromPath reads the paired header (basePath+headerExt) and body
// (basePath+bodyExt) files and parses them into an Asset. patterns may be
// nil only if the asset contains no StructProperty values; attempting to
// deserialize a struct without one is fatal (spec.md §4.7: "attempts to
// serialize a struct before initialisation are fatal").
func ReadFromPath(basePath, headerExt, bodyExt string, patterns *property.StructPatterns) (*Asset, error) {
	headerBytes, err := os.ReadFile(basePath + headerExt)
	if err != nil {
		return nil, errors.Wrapf(err, "reading header file %s%s", basePath, headerExt)
	}
	bodyBytes, err := os.ReadFile(basePath + bodyExt)
	if err != nil {
		return nil, errors.Wrapf(err, "reading body file %s%s", basePath, bodyExt)
	}

	a := &Asset{
		Patterns:       patterns,
		originalHeader: headerBytes,
		originalBody:   bodyBytes,
	}

	hr := format.NewByteReader(headerBytes)

	a.Summary, err = format.ReadFileSummary(hr)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary")
	}

	a.Names, err = format.ReadNameTable(hr, a.Summary)
	if err != nil {
		return nil, errors.Wrap(err, "NameTable")
	}

	rawImports, rawImportOuters, err := format.ReadImports(hr, a.Summary)
	if err != nil {
		return nil, errors.Wrap(err, "Imports")
	}

	rawExports, rawExportRefs, err := format.ReadExports(hr, a.Summary)
	if err != nil {
		return nil, errors.Wrap(err, "Exports")
	}

	if err := rawImports.ResolveOuters(rawImportOuters, rawImports, rawExports); err != nil {
		return nil, errors.Wrap(err, "Imports outer resolution")
	}
	if err := rawExports.ResolveRefs(rawExportRefs, rawImports, rawExports); err != nil {
		return nil, errors.Wrap(err, "Exports reference resolution")
	}
	a.Imports = rawImports
	a.Exports = rawExports

	a.Depends, err = format.ReadDependsRegion(hr, a.Summary)
	if err != nil {
		return nil, errors.Wrap(err, "Depends")
	}
	a.AssetRegistry, err = format.ReadAssetRegistryRegion(hr, a.Summary)
	if err != nil {
		return nil, errors.Wrap(err, "AssetRegistry")
	}
	a.Preload, err = format.ReadPreloadDependencies(hr, a.Summary, a.Imports, a.Exports)
	if err != nil {
		return nil, errors.Wrap(err, "PreloadDependencies")
	}

	ctx := a.ctx()
	br := format.NewByteReader(bodyBytes)
	a.Properties = make([]property.Properties, 0, a.Exports.Len())
	for i, exp := range a.Exports.All() {
		objectName := a.Names.String(exp.ObjectName)
		props, err := property.DeserializeProperties(br, &exp, objectName, ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "export[%d] %q properties", i, objectName)
		}
		a.Properties = append(a.Properties, props)
	}

	if remaining := br.RemainingBytes(); remaining != 4 {
		return nil, errors.Errorf("body file: expected exactly 4 trailing sentinel bytes after the last export, found %d", remaining)
	}
	var tagCopy [4]byte
	if _, err := br.Read(tagCopy[:]); err != nil {
		return nil, errors.Wrap(err, "body file trailing sentinel")
	}
	if tagCopy != a.Summary.Tag {
		return nil, errors.Errorf("body file trailing sentinel %x does not match summary tag %x", tagCopy, a.Summary.Tag)
	}

	return a, nil
}

// serialize recomputes offsets and renders both files' bytes.
func (a *Asset) serialize() (header []byte, body []byte, err error) {
	a.RecalculateOffsets()
	ctx := a.ctx()

	var hbuf bytes.Buffer
	if err := a.Summary.Write(&hbuf); err != nil {
		return nil, nil, errors.Wrap(err, "FileSummary")
	}
	if err := a.Names.Write(&hbuf); err != nil {
		return nil, nil, errors.Wrap(err, "NameTable")
	}
	if err := a.Imports.Write(&hbuf, a.Imports, a.Exports); err != nil {
		return nil, nil, errors.Wrap(err, "Imports")
	}
	if err := a.Exports.Write(&hbuf, a.Imports, a.Exports); err != nil {
		return nil, nil, errors.Wrap(err, "Exports")
	}
	if err := a.Depends.Write(&hbuf); err != nil {
		return nil, nil, errors.Wrap(err, "Depends")
	}
	if err := a.AssetRegistry.Write(&hbuf); err != nil {
		return nil, nil, errors.Wrap(err, "AssetRegistry")
	}
	if err := a.Preload.Write(&hbuf, a.Imports, a.Exports); err != nil {
		return nil, nil, errors.Wrap(err, "PreloadDependencies")
	}

	var bbuf bytes.Buffer
	for i, props := range a.Properties {
		if err := props.Serialize(&bbuf, ctx); err != nil {
			return nil, nil, errors.Wrapf(err, "export[%d] properties", i)
		}
	}
	if _, err := bbuf.Write(a.Summary.Tag[:]); err != nil {
		return nil, nil, err
	}

	return hbuf.Bytes(), bbuf.Bytes(), nil
}

// WriteToPath recalculates offsets and writes both files to basePath.
func (a *Asset) WriteToPath(basePath, headerExt, bodyExt string) error {
	header, body, err := a.serialize()
	if err != nil {
		return errors.Wrap(err, "serializing asset")
	}
	if err := os.WriteFile(basePath+headerExt, header, 0o644); err != nil {
		return errors.Wrapf(err, "writing header file %s%s", basePath, headerExt)
	}
	if err := os.WriteFile(basePath+bodyExt, body, 0o644); err != nil {
		return errors.Wrapf(err, "writing body file %s%s", basePath, bodyExt)
	}
	return nil
}

// RoundTripSelfTest re-serializes the asset as read and byte-compares both
// files against the originally-read bytes, the "Exit status contract"
// standard self-check (spec.md §6). It reports the first divergent offset in
// hex on mismatch.
func (a *Asset) RoundTripSelfTest() error {
	header, body, err := a.serialize()
	if err != nil {
		return errors.Wrap(err, "serializing asset for self-test")
	}
	if err := compareBytes("header", a.originalHeader, header); err != nil {
		return err
	}
	if err := compareBytes("body", a.originalBody, body); err != nil {
		return err
	}
	log.Debug().Msg("round-trip self-test passed")
	return nil
}

func compareBytes(section string, want, got []byte) error {
	if len(want) != len(got) {
		return errors.Errorf("%s: round-trip length mismatch: original %d bytes, re-serialized %d bytes", section, len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			return errors.Errorf("%s: round-trip byte mismatch at offset %#X: original %#x, re-serialized %#x", section, i, want[i], got[i])
		}
	}
	return nil
}
