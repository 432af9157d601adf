package importer

import (
	"go.uber.org/zap"

	clrerrors "github.com/wippyai/clr-importer/errors"
	"github.com/wippyai/clr-importer/metadata"
)

// DebugFileFormat identifies the symbol format accompanying a compiled
// module.
type DebugFileFormat int

const (
	DebugFormatNone DebugFileFormat = iota
	DebugFormatPdb
	DebugFormatPortablePdb
	DebugFormatEmbedded
)

// String returns the format name.
func (f DebugFileFormat) String() string {
	switch f {
	case DebugFormatNone:
		return "none"
	case DebugFormatPdb:
		return "pdb"
	case DebugFormatPortablePdb:
		return "portable-pdb"
	case DebugFormatEmbedded:
		return "embedded"
	default:
		return "unknown"
	}
}

// DebugFile is the raw symbol file produced next to a compiled module.
// Only None and Pdb are supported; the other formats fail the import with
// a dedicated diagnostic.
type DebugFile struct {
	Format DebugFileFormat
	Raw    []byte
}

// Loader turns the compiler's raw output bytes into a parsed module. The
// metadata reader library plugs in here; the importer itself never
// touches the binary format.
type Loader func(raw []byte, debug *DebugFile) (*metadata.Module, error)

// Option configures an Importer.
type Option func(*Importer)

// WithLoader sets the source-module loader.
func WithLoader(l Loader) Option {
	return func(im *Importer) { im.loader = l }
}

// WithKeepImportedRVA keeps field RVAs from the compiled module instead
// of zeroing them.
func WithKeepImportedRVA() Option {
	return func(im *Importer) { im.keepImportedRVA = true }
}

// WithLogger sets a logger for this importer instead of the package
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(im *Importer) { im.log = l }
}

// Importer merges selected types and members of a freshly compiled module
// into a pre-existing target module, translating every reference from the
// source module's identity space into the target's.
//
// An Importer is single-use: create one per Import call. One Import call
// executes on its calling thread and owns every identity map exclusively.
type Importer struct {
	target *metadata.Module
	source *metadata.Module

	loader          Loader
	keepImportedRVA bool
	log             *zap.Logger

	comparer         metadata.SigComparer // full comparison, return types included
	overloadComparer metadata.SigComparer // return types ignored

	diags []Diagnostic

	// Identity maps, keyed by source-module handles.
	typeDefMap map[*metadata.TypeDef]ImportedType
	typeRefMap map[*metadata.TypeRef]metadata.TypeDefOrRef
	asmRefMap  map[*metadata.AssemblyRef]*metadata.AssemblyRef
	modRefMap  map[*metadata.ModuleRef]*metadata.ModuleRef
	methodMap  map[*metadata.MethodDef]*metadata.MethodDef
	fieldMap   map[*metadata.FieldDef]*metadata.FieldDef
	propMap    map[*metadata.PropertyDef]*metadata.PropertyDef
	eventMap   map[*metadata.EventDef]*metadata.EventDef

	// stubs are members present in both modules, treated as the target
	// originals. Their bodies are never imported, except for the edited
	// method.
	stubs map[any]struct{}

	// editedMethods maps the compiled edited method to the target method
	// whose body it replaces.
	editedMethods map[*metadata.MethodDef]*metadata.MethodDef
	editedOrder   []*metadata.MethodDef

	// bodyDict is the per-body scratch map from source handles (locals,
	// parameters, instructions) to their target counterparts. It is
	// cleared at the start of every body import.
	bodyDict map[any]any

	// allImported is every planned type in plan order; the top-level
	// slices are the result views.
	allImported    []ImportedType
	newTopLevel    []*NewImportedType
	mergedTopLevel []*MergedImportedType

	// usedTopLevelNames tracks names taken in the target's top-level
	// namespace, including names assigned to fresh types this import.
	usedTopLevelNames map[[2]string]struct{}
}

// New creates an importer targeting the given module.
func New(target *metadata.Module, opts ...Option) *Importer {
	im := &Importer{
		target:            target,
		log:               Logger(),
		overloadComparer:  metadata.SigComparer{IgnoreReturnType: true},
		typeDefMap:        make(map[*metadata.TypeDef]ImportedType),
		typeRefMap:        make(map[*metadata.TypeRef]metadata.TypeDefOrRef),
		asmRefMap:         make(map[*metadata.AssemblyRef]*metadata.AssemblyRef),
		modRefMap:         make(map[*metadata.ModuleRef]*metadata.ModuleRef),
		methodMap:         make(map[*metadata.MethodDef]*metadata.MethodDef),
		fieldMap:          make(map[*metadata.FieldDef]*metadata.FieldDef),
		propMap:           make(map[*metadata.PropertyDef]*metadata.PropertyDef),
		eventMap:          make(map[*metadata.EventDef]*metadata.EventDef),
		stubs:             make(map[any]struct{}),
		editedMethods:     make(map[*metadata.MethodDef]*metadata.MethodDef),
		usedTopLevelNames: make(map[[2]string]struct{}),
	}
	for _, o := range opts {
		o(im)
	}
	return im
}

// abortError is the distinguished sentinel raised on fatal errors and
// recovered at the public Import entry.
type abortError struct {
	err error
}

// abort raises the abort sentinel. The diagnostic explaining the failure
// must already have been recorded where one applies.
func (im *Importer) abort(cause error) {
	im.log.Error("import aborted", zap.Error(cause))
	panic(abortError{err: cause})
}

// errorf records an error diagnostic and continues.
func (im *Importer) errorf(code string, args ...any) {
	d := newDiagnostic(SeverityError, code, args...)
	im.log.Warn("import diagnostic", zap.String("code", d.Code), zap.String("message", d.Message))
	im.diags = append(im.diags, d)
}

// Import merges the compiled module into the target module. targetMethod
// is the method whose body the user edited; its declaring-type chain
// anchors the merge.
//
// Recoverable problems accumulate as diagnostics and processing
// continues; partial success returns a usable result alongside error
// diagnostics. Fatal inconsistencies return a result carrying only the
// diagnostics, with an error matching errors.KindAborted.
func (im *Importer) Import(raw []byte, debug *DebugFile, targetMethod *metadata.MethodDef) (res *ImportResult, err error) {
	defer func() {
		// The loaded source image is a large transient allocation;
		// release it on every exit path.
		im.source = nil
		im.bodyDict = nil
		if r := recover(); r != nil {
			ab, ok := r.(abortError)
			if !ok {
				panic(r)
			}
			res = &ImportResult{Diagnostics: im.diags}
			err = clrerrors.Aborted(ab.err)
		}
	}()

	if debug != nil && debug.Format != DebugFormatNone && debug.Format != DebugFormatPdb {
		im.errorf(CodeUnsupportedDebugFormat, debug.Format)
		im.abort(clrerrors.Unsupported(clrerrors.PhaseLoad, "debug file format "+debug.Format.String()))
	}

	if im.loader == nil {
		return nil, clrerrors.New(clrerrors.PhaseLoad, clrerrors.KindInvalidData, "no loader configured")
	}
	source, lerr := im.loader(raw, debug)
	if lerr != nil {
		return nil, clrerrors.Load("load compiled module", lerr)
	}
	im.source = source

	im.log.Debug("import starting",
		zap.String("source", source.Name),
		zap.String("target", im.target.Name),
		zap.String("method", targetMethod.FullName()))

	im.plan(targetMethod)
	im.populate()
	im.renameDuplicates()
	im.wire()
	im.finishEditedMethods()

	res = im.buildResult()
	im.log.Debug("import finished",
		zap.Int("new_types", len(res.NewTypes)),
		zap.Int("merged_types", len(res.MergedTypes)),
		zap.Int("diagnostics", len(res.Diagnostics)))
	return res, nil
}

func (im *Importer) buildResult() *ImportResult {
	res := &ImportResult{
		Diagnostics: im.diags,
		NewTypes:    im.newTopLevel,
	}
	for _, mt := range im.mergedTopLevel {
		if mt.IsEmpty() {
			continue
		}
		res.MergedTypes = append(res.MergedTypes, mt)
	}
	return res
}

// renameDuplicates runs the name deduplicator over every merged type in
// rename mode.
func (im *Importer) renameDuplicates() {
	for _, it := range im.allImported {
		if mt, ok := it.(*MergedImportedType); ok && mt.RenameDuplicates {
			im.deduplicateNames(mt)
		}
	}
}

// wire imports method bodies and overrides once every member identity is
// known. Stub bodies are never imported.
func (im *Importer) wire() {
	for _, it := range im.allImported {
		src := it.SourceType()
		for _, sm := range src.Methods {
			tm, ok := im.methodMap[sm]
			if !ok {
				continue
			}
			if _, isStub := im.stubs[sm]; isStub {
				continue
			}
			for _, o := range sm.Overrides {
				tm.Overrides = append(tm.Overrides, &metadata.MethodOverride{
					Body:        im.resolveMethod(o.Body),
					Declaration: im.resolveMethod(o.Declaration),
				})
			}
			tm.Body = im.importMethodBody(sm, tm)
		}
	}
}

// finishEditedMethods attaches an EditedMethodBody for every edited
// method and remaps its parameter operands onto the target method's
// parameter handles.
func (im *Importer) finishEditedMethods() {
	for _, sm := range im.editedOrder {
		tm := im.editedMethods[sm]
		body := im.importMethodBody(sm, tm)
		mt, ok := im.typeDefMap[sm.DeclaringType].(*MergedImportedType)
		if !ok {
			im.abort(clrerrors.Internal(clrerrors.PhaseImport, sm.FullName(),
				"edited method's declaring type is not a merged type"))
		}
		mt.EditedMethodBodies = append(mt.EditedMethodBodies, &EditedMethodBody{
			TargetMethod:   tm,
			Body:           body,
			ImplAttributes: sm.ImplAttributes,
		})
	}
}
