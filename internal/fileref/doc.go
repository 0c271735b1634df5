// Package fileref models references to external files and decodes them into
// typed values.
//
// A Reference carries only a location. It becomes decodable once it is bound
// to a target type: the Codecs registry maps that type to a loader, and a
// storage.Storage supplies the bytes. Writers are registered the same way and
// are chosen by the concrete type of the value being saved.
package fileref
