package importer

import "fmt"

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic codes. Recoverable problems carry one of these and travel in
// the ImportResult; they never abort the import on their own.
const (
	CodeDeclaringTypeNotFound      = "IM0001" // declaring type of the edited method missing in source
	CodeEditedMethodNotFound       = "IM0002" // edited method missing in source
	CodeTypeRefNotFound            = "IM0003" // type reference targeting the target module unresolved
	CodeMethodNotFound             = "IM0004" // referenced method missing in both modules
	CodeFieldNotFound              = "IM0005" // referenced field missing in both modules
	CodeRenameVirtualProperty      = "IM0006" // renaming a virtual property unsupported
	CodeRenameVirtualEvent         = "IM0007" // renaming a virtual event unsupported
	CodeRenameVirtualMethod        = "IM0008" // renaming a virtual method unsupported
	CodeEditedMethodStaticMismatch = "IM0009" // toggling static on the edited method unsupported
	CodeUnsupportedDebugFormat     = "IM0010" // portable or embedded symbols unsupported
)

// diagMessages are the message formats per code. Localization is the
// caller's concern; these are the invariant-culture strings.
var diagMessages = map[string]string{
	CodeDeclaringTypeNotFound:      "could not find the declaring type of the edited method in the compiled module: %s",
	CodeEditedMethodNotFound:       "could not find the edited method in the compiled module: %s",
	CodeTypeRefNotFound:            "could not resolve a type reference targeting the edited module: %s",
	CodeMethodNotFound:             "could not find referenced method: %s",
	CodeFieldNotFound:              "could not find referenced field: %s",
	CodeRenameVirtualProperty:      "renaming virtual property %s is not supported",
	CodeRenameVirtualEvent:         "renaming virtual event %s is not supported",
	CodeRenameVirtualMethod:        "renaming virtual method %s is not supported",
	CodeEditedMethodStaticMismatch: "changing whether the edited method %s is static is not supported",
	CodeUnsupportedDebugFormat:     "debug file format %s is not supported",
}

// Diagnostic is one recoverable error or warning produced during an
// import.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
}

// String returns "severity CODE: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
}

func newDiagnostic(sev Severity, code string, args ...any) Diagnostic {
	format, ok := diagMessages[code]
	if !ok {
		format = "%v"
	}
	return Diagnostic{Severity: sev, Code: code, Message: fmt.Sprintf(format, args...)}
}
