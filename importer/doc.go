// Package importer merges a freshly compiled module into an existing
// target module.
//
// Given the compiler's output for a user's edit of one method, the
// importer translates every type, member, signature, custom attribute,
// instruction operand, and exception-handler target from the compiled
// module's identity space into the target module's, and produces
// descriptor objects a downstream merger applies:
//
//	im := importer.New(targetModule, importer.WithLoader(loader))
//	res, err := im.Import(compiledBytes, debugFile, editedMethod)
//	if err != nil {
//	    // fatal; res.Diagnostics says why
//	}
//	// res.MergedTypes: target types modified in place
//	// res.NewTypes: fresh types to add to the target
//
// # How types are decided
//
// The edited method's declaring-type chain anchors the merge. Its
// outermost type merges onto the matching target type in place; members
// present on both sides become stubs redirecting to the target
// originals. The global <Module> type merges with renaming, so new
// global helpers that collide with existing names come out as "name_0",
// "name_1", and so on. Every other compiled top-level type becomes a
// fresh target type, renamed with a "__N__" prefix if its name is taken.
//
// # Passes
//
// One Import call runs three passes: plan (decide merge-vs-new per type
// and register identity maps), populate (create members and translate
// signatures), and wire (import method bodies and operand references
// once every member identity is known). Forward references resolve
// through the identity maps built during planning; registering a fresh
// shell before translating its components makes cyclic type graphs safe.
//
// # Errors
//
// Recoverable problems (an unsupported rename, an unresolvable
// reference) accumulate as Diagnostic values with stable IMxxxx codes
// and do not stop the import; partial success is a legitimate outcome.
// Fatal inconsistencies abort through a sentinel recovered at the Import
// entry, returning the accumulated diagnostics and an error matching
// errors.KindAborted.
//
// An Importer is single-use and confined to the calling goroutine.
package importer
