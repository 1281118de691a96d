package domain

import "fmt"

// IssueKind enumerates the user-facing diagnostic kinds a compilation can
// attribute to a design object (§7).
type IssueKind string

const (
	IssueExpressionSyntaxError    IssueKind = "expression_syntax_error"
	IssueExpressionError          IssueKind = "expression_error"
	IssueUnusedInput              IssueKind = "unused_input"
	IssueUnknownParameter         IssueKind = "unknown_parameter"
	IssueDuplicateName            IssueKind = "duplicate_name"
	IssueEmptyName                IssueKind = "empty_name"
	IssueMissingRequiredParameter IssueKind = "missing_required_parameter"
	IssueComputationCycle         IssueKind = "computation_cycle"
	IssueInvalidAttributeValue    IssueKind = "invalid_attribute_value"
	IssueUnsupportedDelayValue    IssueKind = "unsupported_delay_value_type"
)

// String returns the string representation of k.
func (k IssueKind) String() string {
	return string(k)
}

// Issue is a single, object-attributable compilation diagnostic (§3, §7).
type Issue struct {
	ObjectID ObjectID
	HasID    bool
	Kind     IssueKind
	Hint     string
}

// NewIssue builds an Issue attributed to id.
func NewIssue(id ObjectID, kind IssueKind, hint string) Issue {
	return Issue{ObjectID: id, HasID: true, Kind: kind, Hint: hint}
}

// Error implements the error interface so an Issue can be used on its own
// (e.g. wrapped by an InternalError cause) as well as inside a collection.
func (i Issue) Error() string {
	if i.HasID {
		return fmt.Sprintf("%s on %s: %s", i.Kind, i.ObjectID, i.Hint)
	}
	return fmt.Sprintf("%s: %s", i.Kind, i.Hint)
}

// CompilationIssueCollection groups issues by the object they were raised
// against (§3). A nil or empty collection means compilation succeeded.
type CompilationIssueCollection struct {
	byObject map[ObjectID][]Issue
	order    []ObjectID
}

// NewCompilationIssueCollection creates an empty collection.
func NewCompilationIssueCollection() *CompilationIssueCollection {
	return &CompilationIssueCollection{byObject: make(map[ObjectID][]Issue)}
}

// Add attributes issue to id, recording id's first-seen order.
func (c *CompilationIssueCollection) Add(id ObjectID, kind IssueKind, hint string) {
	if _, seen := c.byObject[id]; !seen {
		c.order = append(c.order, id)
	}
	c.byObject[id] = append(c.byObject[id], NewIssue(id, kind, hint))
}

// IsEmpty reports whether no issues were ever recorded.
func (c *CompilationIssueCollection) IsEmpty() bool {
	return c == nil || len(c.byObject) == 0
}

// For returns the issues attributed to id, in the order they were added.
func (c *CompilationIssueCollection) For(id ObjectID) []Issue {
	if c == nil {
		return nil
	}
	return c.byObject[id]
}

// All returns every issue across every object, grouped by first-seen object
// order and then by per-object insertion order.
func (c *CompilationIssueCollection) All() []Issue {
	if c == nil {
		return nil
	}
	var out []Issue
	for _, id := range c.order {
		out = append(out, c.byObject[id]...)
	}
	return out
}

// Count returns the total number of issues across all objects.
func (c *CompilationIssueCollection) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, issues := range c.byObject {
		n += len(issues)
	}
	return n
}

// CompilerError is the error returned by a failed compilation (§7). Exactly
// one of Issues or Cause is set.
type CompilerError struct {
	Issues *CompilationIssueCollection
	Cause  *InternalError
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("compiler internal error: %s", e.Cause.Error())
	}
	n := e.Issues.Count()
	if n == 1 {
		return "compilation failed: 1 issue"
	}
	return fmt.Sprintf("compilation failed: %d issues", n)
}

// Unwrap exposes the internal cause, when present, for errors.As/errors.Is.
func (e *CompilerError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// NewIssuesError wraps a non-empty issue collection as a CompilerError.
func NewIssuesError(issues *CompilationIssueCollection) *CompilerError {
	return &CompilerError{Issues: issues}
}

// NewInternalCompilerError wraps a violated precondition on the input frame
// as a CompilerError.
func NewInternalCompilerError(cause *InternalError) *CompilerError {
	return &CompilerError{Cause: cause}
}

// InternalErrorKind enumerates preconditions on the input ValidatedFrame that,
// if violated, indicate a bug in the frame/validator rather than a user
// modelling mistake (§7).
type InternalErrorKind string

const (
	ErrAttributeExpectationFailure InternalErrorKind = "attribute_expectation_failure"
	ErrFormulaCompilationFailure   InternalErrorKind = "formula_compilation_failure"
	ErrStructureTypeMismatch       InternalErrorKind = "structure_type_mismatch"
	ErrObjectNotFound              InternalErrorKind = "object_not_found"
)

// InternalError represents a violated precondition on the input frame — a bug
// in the upstream validator/frame store, not a user-facing modelling issue.
type InternalError struct {
	Kind     InternalErrorKind
	ObjectID ObjectID
	HasID    bool
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	if e.HasID {
		return fmt.Sprintf("internal error (%s) on %s: %s", e.Kind, e.ObjectID, e.Message)
	}
	return fmt.Sprintf("internal error (%s): %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *InternalError) Unwrap() error {
	return e.Cause
}

// NewInternalError builds an InternalError not attributed to a specific
// object (e.g. a malformed frame-wide invariant).
func NewInternalError(kind InternalErrorKind, message string) *InternalError {
	return &InternalError{Kind: kind, Message: message}
}

// NewObjectInternalError builds an InternalError attributed to id.
func NewObjectInternalError(kind InternalErrorKind, id ObjectID, message string) *InternalError {
	return &InternalError{Kind: kind, ObjectID: id, HasID: true, Message: message}
}

// SimulationError is returned by the simulation kernel when a step cannot be
// evaluated (§7 Runtime). The caller receives any states already produced,
// plus this error describing the one that failed.
type SimulationError struct {
	ObjectID ObjectID
	HasID    bool
	Step     uint64
	Cause    error
}

// Error implements the error interface.
func (e *SimulationError) Error() string {
	if e.HasID {
		return fmt.Sprintf("simulation error at step %d on %s: %v", e.Step, e.ObjectID, e.Cause)
	}
	return fmt.Sprintf("simulation error at step %d: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying evaluation cause.
func (e *SimulationError) Unwrap() error {
	return e.Cause
}

// NewSimulationError builds a SimulationError attributed to id at step.
func NewSimulationError(id ObjectID, step uint64, cause error) *SimulationError {
	return &SimulationError{ObjectID: id, HasID: true, Step: step, Cause: cause}
}

// ValueError reports a failed coercion or operation on a Variant (§3).
type ValueError struct {
	Message string
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	return e.Message
}

// NewValueError builds a ValueError with the given message.
func NewValueError(format string, args ...any) *ValueError {
	return &ValueError{Message: fmt.Sprintf(format, args...)}
}

// FunctionError reports a failed built-in function application (§4.9, §4.10).
type FunctionError struct {
	Function string
	Message  string
}

// Error implements the error interface.
func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %s: %s", e.Function, e.Message)
}

// NewFunctionError builds a FunctionError for fn.
func NewFunctionError(fn, format string, args ...any) *FunctionError {
	return &FunctionError{Function: fn, Message: fmt.Sprintf(format, args...)}
}
