// Package clrimporter merges freshly compiled CLI modules into existing
// assemblies.
//
// Given a compiler's output for a user's edit of one method, the library
// rewrites the compiled module's richly cross-referenced metadata graph
// into the target module's identity space: types, members, signatures,
// custom attributes, instruction operands, and exception-handler targets
// all translate, while members that already exist in the target are kept
// as stubs and references to them are redirected.
//
// # Architecture Overview
//
// The library is organized into a few packages with distinct
// responsibilities:
//
//	clr-importer/        Root package documentation
//	├── importer/        The import pipeline: plan, populate, wire
//	├── metadata/        CLI metadata object model (types, members, signatures, CIL)
//	├── errors/          Structured error types
//	└── cmd/merge/       CLI over built-in import scenarios
//
// # Quick Start
//
// Import a compiled module into a target:
//
//	im := importer.New(targetModule, importer.WithLoader(loader))
//	res, err := im.Import(compiledBytes, debugFile, editedMethod)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, mt := range res.MergedTypes {
//	    // apply in-place changes to the target
//	}
//	for _, nt := range res.NewTypes {
//	    // add fresh types to the target
//	}
//
// Recoverable problems arrive as res.Diagnostics with stable IMxxxx
// codes; partial success is a legitimate outcome.
package clrimporter
