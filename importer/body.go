package importer

import (
	clrerrors "github.com/wippyai/clr-importer/errors"
	"github.com/wippyai/clr-importer/metadata"
)

// importMethodBody rebuilds a source method's body for a target method.
// srcMethod and tgtMethod differ for ordinary imports; for the edited
// method, tgtMethod is the original target method whose parameter
// handles the rebuilt instructions must reference.
//
// Returns nil when the source method has no body, clearing the target's.
func (im *Importer) importMethodBody(srcMethod, tgtMethod *metadata.MethodDef) *metadata.CilBody {
	srcBody := srcMethod.Body
	if srcBody == nil {
		return nil
	}

	body := &metadata.CilBody{
		KeepOldMaxStack: srcBody.KeepOldMaxStack,
		InitLocals:      srcBody.InitLocals,
		HeaderSize:      srcBody.HeaderSize,
		MaxStack:        srcBody.MaxStack,
		LocalVarSigTok:  srcBody.LocalVarSigTok,
	}

	// Fresh scratch map per body: locals, parameters, and instructions
	// of this body only.
	im.bodyDict = make(map[any]any)

	for _, sl := range srcBody.Variables {
		nl := &metadata.Local{Index: sl.Index, Name: sl.Name, Type: im.importTypeSig(sl.Type)}
		body.Variables = append(body.Variables, nl)
		im.bodyDict[sl] = nl
	}

	im.mapParameters(srcMethod, tgtMethod)

	for _, si := range srcBody.Instructions {
		ni := si.Clone()
		body.Instructions = append(body.Instructions, ni)
		im.bodyDict[si] = ni
	}

	for _, sh := range srcBody.ExceptionHandlers {
		body.ExceptionHandlers = append(body.ExceptionHandlers, &metadata.ExceptionHandler{
			TryStart:     im.mappedInstr(sh.TryStart),
			TryEnd:       im.mappedInstr(sh.TryEnd),
			FilterStart:  im.mappedInstr(sh.FilterStart),
			HandlerStart: im.mappedInstr(sh.HandlerStart),
			HandlerEnd:   im.mappedInstr(sh.HandlerEnd),
			CatchType:    im.importTypeDefOrRef(sh.CatchType),
			HandlerType:  sh.HandlerType,
		})
	}

	for _, ni := range body.Instructions {
		im.translateOperand(ni)
	}

	return body
}

// mapParameters registers source-parameter to target-parameter mappings
// in the body scratch map. The implicit this is skipped on either side
// independently; the two methods may differ in static-ness, but toggling
// static on the edited method itself is unsupported and diagnosed.
func (im *Importer) mapParameters(srcMethod, tgtMethod *metadata.MethodDef) {
	srcParams := srcMethod.Parameters
	tgtParams := tgtMethod.Parameters

	srcHasThis := len(srcParams) > 0 && srcParams[0].IsHiddenThis()
	tgtHasThis := len(tgtParams) > 0 && tgtParams[0].IsHiddenThis()

	if srcHasThis != tgtHasThis {
		if tm, edited := im.editedMethods[srcMethod]; edited && tm == tgtMethod {
			im.errorf(CodeEditedMethodStaticMismatch, tgtMethod.FullName())
		}
	}

	sp := srcParams
	if srcHasThis {
		sp = sp[1:]
	}
	tp := tgtParams
	if tgtHasThis {
		tp = tp[1:]
	}

	if len(sp) != len(tp) {
		im.abort(clrerrors.Internal(clrerrors.PhaseBody, srcMethod.FullName(),
			"parameter counts do not match"))
	}

	if srcHasThis && tgtHasThis {
		im.bodyDict[srcParams[0]] = tgtParams[0]
	}
	for i := range sp {
		im.bodyDict[sp[i]] = tp[i]
	}
}

func (im *Importer) mappedInstr(i *metadata.Instruction) *metadata.Instruction {
	if i == nil {
		return nil
	}
	if m, ok := im.bodyDict[i]; ok {
		return m.(*metadata.Instruction)
	}
	return nil
}

// translateOperand rewrites one cloned instruction's operand into the
// target identity space. Handles mapped in the body scratch map (locals,
// parameters, branch targets) substitute directly; metadata operands
// dispatch on the opcode's declared operand kind; primitive constants
// stay as they are.
func (im *Importer) translateOperand(ni *metadata.Instruction) {
	op := ni.Operand
	if op == nil {
		return
	}
	if targets, ok := op.([]*metadata.Instruction); ok {
		nt := make([]*metadata.Instruction, len(targets))
		for i, t := range targets {
			if m, ok := im.bodyDict[t]; ok {
				nt[i] = m.(*metadata.Instruction)
			} else {
				nt[i] = t
			}
		}
		ni.Operand = nt
		return
	}
	if mapped, ok := im.bodyDict[op]; ok {
		ni.Operand = mapped
		return
	}

	switch ni.OpCode.Operand {
	case metadata.OperandType:
		if t, ok := op.(metadata.TypeDefOrRef); ok {
			ni.Operand = im.importTypeDefOrRef(t)
		}
	case metadata.OperandMethod:
		if m, ok := op.(metadata.IMethod); ok {
			ni.Operand = im.resolveMethod(m)
		}
	case metadata.OperandField:
		if f, ok := op.(metadata.IField); ok {
			ni.Operand = im.resolveField(f)
		}
	case metadata.OperandSig:
		if s, ok := op.(metadata.CallingConventionSig); ok {
			ni.Operand = im.importCallConvSig(s)
		}
	case metadata.OperandToken:
		// ldtoken takes a type, method, or field; a MemberRef is
		// disambiguated by its signature class.
		switch tk := op.(type) {
		case *metadata.MemberRef:
			if tk.IsFieldRef() {
				ni.Operand = im.resolveField(tk)
			} else {
				ni.Operand = im.resolveMethod(tk)
			}
		case metadata.TypeDefOrRef:
			ni.Operand = im.importTypeDefOrRef(tk)
		case metadata.IMethod:
			ni.Operand = im.resolveMethod(tk)
		case metadata.IField:
			ni.Operand = im.resolveField(tk)
		}
	default:
		// Primitive constants (ints, floats, strings) are left intact.
	}
}
