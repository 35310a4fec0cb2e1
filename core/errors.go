package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/billing-go/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingRequiredField = "missing_required_field"
	CodeNullRequiredField    = "null_required_field"
	CodeTypeMismatch         = "type_mismatch"
	CodeInvalidEnumValue     = "invalid_enum_value"
	CodeUnresolvedUnion      = "unresolved_union_variant"
	CodeUnionDecodeFailure   = "union_decode_failure"
	CodeIOFailure            = "io_failure"
	CodeAPIError             = "api_error"
	CodeUndeclaredField      = "undeclared_field"
	CodeEncodeFailure        = "encode_failure"
)

// Issue represents a single field-level failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /thresholds/0/value).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected type, offending raw value, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"string"}) for
	// i18n and observability.
	Params map[string]any
}

// Issues is a collection of field errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is/As reach wrapped transport or
// decoder errors.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// coded is implemented by errors outside this package (transport failures)
// that participate in the issue-code taxonomy.
type coded interface {
	IssueCode() string
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if iss, ok := AsIssues(err); ok {
		for _, it := range iss {
			if it.Code == code {
				return true
			}
		}
	}
	var c coded
	if errors.As(err, &c) {
		return c.IssueCode() == code
	}
	return false
}

// issueAt creates a single-issue error at the given pointer.
func issueAt(path, code, hint string, cause error, params map[string]any) Issues {
	return Issues{Issue{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, stringParams(params)),
		Hint:    hint,
		Cause:   cause,
		Params:  params,
	}}
}

func stringParams(p map[string]any) map[string]string {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// fieldPointer renders the JSON Pointer of a top-level field.
func fieldPointer(name string) string {
	return "/" + escapePointer(name)
}

func escapePointer(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// rebase prefixes every issue path in err with base. Errors that are not
// Issues are wrapped as a type mismatch at base.
func rebase(base string, err error) error {
	if err == nil {
		return nil
	}
	child, ok := AsIssues(err)
	if !ok {
		return issueAt(base, CodeTypeMismatch, "", err, nil)
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// MissingRequiredField reports an absent required field.
func MissingRequiredField(name string) error {
	return issueAt(fieldPointer(name), CodeMissingRequiredField, name, nil, map[string]any{"field": name})
}

// NullRequiredField reports a required, non-nullable field that was null.
func NullRequiredField(name string) error {
	return issueAt(fieldPointer(name), CodeNullRequiredField, name, nil, map[string]any{"field": name})
}

// TypeMismatch reports a raw value that could not be decoded as expected.
func TypeMismatch(name, expected string, cause error) error {
	return issueAt(fieldPointer(name), CodeTypeMismatch, "expected "+expected, cause, map[string]any{"field": name, "expected": expected})
}

// InvalidEnumValue reports an OpenEnum raw value outside the known variants.
func InvalidEnumValue(enum string, raw any) error {
	return issueAt("/", CodeInvalidEnumValue, fmt.Sprintf("%s: %v", enum, raw), nil, map[string]any{"enum": enum, "raw": raw})
}

// UnresolvedUnionVariant reports validation of a union that fell back to its
// unknown variant.
func UnresolvedUnionVariant(union, tag string) error {
	hint := union
	if tag != "" {
		hint = union + ": unknown tag '" + tag + "'"
	}
	return issueAt("/", CodeUnresolvedUnion, hint, nil, map[string]any{"union": union, "tag": tag})
}

// UnionDecodeFailure reports a recognized tag whose payload did not decode,
// keeping every inner issue after the summary entry.
func UnionDecodeFailure(union, tag string, inner error) error {
	out := issueAt("/", CodeUnionDecodeFailure, union+": tag '"+tag+"'", inner, map[string]any{"union": union, "tag": tag})
	if child, ok := AsIssues(inner); ok {
		out = AppendIssues(out, child...)
	}
	return out
}
