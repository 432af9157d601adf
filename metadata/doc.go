// Package metadata models the CLI metadata object graph the importer
// operates on: modules, types, members, signature trees, CIL bodies, and
// the descriptor rows that tie them together.
//
// The model is handle-based. Every descriptor is a pointer; identity is
// pointer identity, and each row-backed descriptor carries the row id its
// owning module assigned through Module.UpdateRowID. The package does not
// read or write the binary PE/metadata format; a reader produces this
// graph and a writer consumes it.
//
// # Sums over open hierarchies
//
// Metadata is full of closed variant sets: a type is a TypeDef, TypeRef,
// or TypeSpec; a method reference is a MethodDef, MemberRef, or
// MethodSpec; a signature node is one of the element kinds of
// ECMA-335 II.23.1.16. Each set is a small marker interface with the
// variants enumerated next to it, meant to be consumed with an exhaustive
// type switch:
//
//	switch t := typ.(type) {
//	case *metadata.TypeDef:
//	case *metadata.TypeRef:
//	case *metadata.TypeSpec:
//	}
//
// # Canonical corlib signatures
//
// Every module owns one CorLibTypeSig per primitive element type
// (Module.CorLib). Code that translates signatures between modules maps
// primitives onto the destination module's canonical set rather than
// copying nodes, so pointer comparison tests canonical identity.
//
// # Signature comparison
//
// SigComparer compares signatures structurally and ignores resolution
// scope: a reference to Lib.Point in one module equals a reference to
// Lib.Point in another. Overload tables use the IgnoreReturnType form.
package metadata
