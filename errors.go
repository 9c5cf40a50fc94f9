package xmlctx

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrNotFound indicates no registered context covers the requested type.
	ErrNotFound = errors.New("context not found")

	// ErrInitialization indicates a Register call failed and nothing was published.
	ErrInitialization = errors.New("context initialization failed")

	// ErrScan indicates type discovery failed for a package.
	ErrScan = errors.New("type scan failed")

	// ErrBuild indicates a context could not be built from a type set.
	ErrBuild = errors.New("context build failed")

	// ErrInvalidPackage indicates a malformed dotted package name.
	ErrInvalidPackage = errors.New("invalid package name")

	// ErrDeclaration indicates a type could not be declared in a Catalog.
	ErrDeclaration = errors.New("invalid type declaration")

	// ErrEmptyDocument indicates a document ended before any element.
	ErrEmptyDocument = errors.New("document contains no element")

	// ErrRootElementMismatch indicates the document root differs from the expected name.
	ErrRootElementMismatch = errors.New("root element mismatch")

	// ErrUnboundType indicates a value whose type is not part of the context.
	ErrUnboundType = errors.New("type not bound to context")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")
)

// Registration stages reported by InitializationError.
const (
	StageScan  = "scan"
	StageBuild = "build"
)

// InitializationError reports a failed Register call.
// It unwraps to ErrInitialization and to the underlying cause.
type InitializationError struct {
	BasePackage string
	Stage       string // StageScan or StageBuild
	Namespace   string // set when a namespace context failed to build
	Cause       error
}

func (e *InitializationError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("%s: base package %q: %s namespace %q: %v", ErrInitialization, e.BasePackage, e.Stage, e.Namespace, e.Cause)
	}
	return fmt.Sprintf("%s: base package %q: %s: %v", ErrInitialization, e.BasePackage, e.Stage, e.Cause)
}

func (e *InitializationError) Unwrap() []error {
	return []error{ErrInitialization, e.Cause}
}

// BuildError reports a context build failure for a set of types.
type BuildError struct {
	Types []string // full names of the requested types
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s for %d type(s): %v", ErrBuild, len(e.Types), e.Cause)
}

func (e *BuildError) Unwrap() []error {
	return []error{ErrBuild, e.Cause}
}

// NotFoundError reports a type that no registered context covers.
type NotFoundError struct {
	Type        string // full name of the requested type
	Package     string // dotted package of the requested type
	BasePackage string // registered ancestor, empty when none matched
}

func (e *NotFoundError) Error() string {
	if e.BasePackage != "" {
		return fmt.Sprintf("%s: %s is not indexed under base package %q", ErrNotFound, e.Type, e.BasePackage)
	}
	return fmt.Sprintf("%s: no registered ancestor of package %q for %s", ErrNotFound, e.Package, e.Type)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RootElementError reports a document whose root element is not the expected one.
type RootElementError struct {
	Expected string
	Actual   string
}

func (e *RootElementError) Error() string {
	return fmt.Sprintf("%s: document root <%s> does not match declared <%s>", ErrRootElementMismatch, e.Actual, e.Expected)
}

func (e *RootElementError) Unwrap() error {
	return ErrRootElementMismatch
}

// DeclarationError reports a type rejected by a Catalog.
type DeclarationError struct {
	Type    string
	Package string
	Reason  string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrDeclaration, e.Type, e.Reason)
}

func (e *DeclarationError) Unwrap() error {
	return ErrDeclaration
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal, ErrUnboundType)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}

// newBuildError creates a BuildError naming every requested type.
func newBuildError(types []Type, cause error) error {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.FullName()
	}
	return &BuildError{Types: names, Cause: cause}
}

// validatePackage checks a dotted package name has no empty segments.
func validatePackage(pkg string) error {
	if pkg == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPackage)
	}
	for _, seg := range strings.Split(pkg, ".") {
		if seg == "" || strings.TrimSpace(seg) != seg {
			return fmt.Errorf("%w: %q", ErrInvalidPackage, pkg)
		}
	}
	return nil
}
