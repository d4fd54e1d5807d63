package diag

// Code identifies the class of a Diagnostic. Codes are grouped into
// ranges by the subsystem that raises them:
//
//	S0001-S0099  lexer / parser (syntax)
//	T0001-T0099  type checker
//	R0001-R0099  pass-manager / runtime pipeline
//	V0001-V0099  SIMD vectorization
//	P0001-P0099  parallel work distribution
//	W0001-W0099  warnings (any subsystem)
type Code string

const (
	// Syntax errors (S0xxx)
	SUnexpectedToken Code = "S0001"
	SUnterminated    Code = "S0002"

	// Checker errors (T0xxx)
	TUndefinedVariable  Code = "T0001"
	TUndefinedFunction  Code = "T0002"
	TTypeMismatch       Code = "T0003"
	TInvalidReturnType  Code = "T0004"
	TFieldNotFound      Code = "T0005"
	TDuplicateField     Code = "T0006"
	TMissingField       Code = "T0007"
	TInvalidBinaryOp    Code = "T0008"
	TDuplicateDecl      Code = "T0009"
	TInvalidArguments   Code = "T0010"
	TInvalidAssignment  Code = "T0011"
	TInvalidOperation   Code = "T0012"
	TUninitialized      Code = "T0013"
	TMissingReturn      Code = "T0014"
	TUnreachableCode    Code = "T0015"
	TUndefinedImport    Code = "T0016"
	TNotCallable        Code = "T0017"
	TArityMismatch      Code = "T0018"

	// Pass-manager errors (R0xxx)
	RPassFailed       Code = "R0001"
	RInvariantBroken  Code = "R0002"
	RBrokenCFGLink    Code = "R0003"

	// SIMD errors (V0xxx)
	VUnsupportedOp      Code = "V0001"
	VMisalignedAccess   Code = "V0002"
	VUnsupportedElement Code = "V0003"
	VDivisionByZero     Code = "V0004"

	// Work-distribution errors (P0xxx)
	PInvalidRange     Code = "P0001"
	PBarrierTimeout   Code = "P0002"
	PWorkerPanicked   Code = "P0003"

	// Warnings (W0xxx)
	WUnusedVariable   Code = "W0001"
	WUnreachableCode  Code = "W0002"
	WUnusedImport     Code = "W0003"
)

var descriptions = map[Code]string{
	SUnexpectedToken: "token does not fit any production at this point in the grammar",
	SUnterminated:    "a string or comment was not closed before the end of the file",

	TUndefinedVariable: "variable is used but not defined in the current scope",
	TUndefinedFunction: "function is called but not declared or imported",
	TTypeMismatch:      "expression type does not match the expected type",
	TInvalidReturnType: "returned value type does not match the declared return type",
	TFieldNotFound:     "struct has no field with this name",
	TDuplicateField:    "duplicate field in struct literal",
	TMissingField:      "struct literal is missing a required field",
	TInvalidBinaryOp:   "operator is not defined for these operand types",
	TDuplicateDecl:     "name is already declared in this scope",
	TInvalidArguments:  "call arguments do not match the function's parameters",
	TInvalidAssignment: "assignment target is not an lvalue",
	TInvalidOperation:  "operator is not defined for this operand type",
	TUninitialized:     "variable is read before it is assigned a value",
	TMissingReturn:     "function declares a return type but a path has no return",
	TUnreachableCode:   "statement can never be reached",
	TUndefinedImport:   "import path does not resolve to a known package",
	TNotCallable:       "callee is not a function",
	TArityMismatch:     "call passes the wrong number of arguments",
	RPassFailed:        "optimization pass returned an error",
	RInvariantBroken:   "IR invariant violated after a pass ran",
	RBrokenCFGLink:     "basic block predecessor/successor links are inconsistent",
	VUnsupportedOp:     "vector operation is not supported for this element type",
	VMisalignedAccess:  "vector load/store address does not meet the required alignment",
	VUnsupportedElement: "element type has no vector lane representation",
	VDivisionByZero:    "vector division by a lane containing zero",
	PInvalidRange:      "work range end is before start, or step is zero",
	PBarrierTimeout:    "barrier wait exceeded its timeout and was force-reset",
	PWorkerPanicked:    "a pool worker recovered from a panic while running a task",
	WUnusedVariable:    "variable is declared but never read",
	WUnreachableCode:   "statement can never be reached",
	WUnusedImport:      "import is never referenced",
}

// Description returns the human-readable description registered for code,
// or a generic fallback if none is registered.
func Description(code Code) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "unclassified diagnostic"
}

// IsWarning reports whether code falls in the W0xxx warning range.
func IsWarning(code Code) bool {
	return len(code) > 0 && code[0] == 'W'
}

// Category returns the subsystem name for code's leading letter.
func Category(code Code) string {
	if len(code) == 0 {
		return "unknown"
	}
	switch code[0] {
	case 'S':
		return "syntax"
	case 'T':
		return "checker"
	case 'R':
		return "pass-manager"
	case 'V':
		return "vectorization"
	case 'P':
		return "work-distribution"
	case 'W':
		return "warning"
	default:
		return "unknown"
	}
}
