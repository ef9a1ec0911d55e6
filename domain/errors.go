package domain

import "fmt"

// Error codes for domain errors
const (
	ErrCodeConfigError   = "CONFIG_ERROR"
	ErrCodeNoProjectRoot = "NO_PROJECT_ROOT"
	ErrCodePathNotFound  = "PATH_NOT_FOUND"
	ErrCodeEngineMissing = "ENGINE_MISSING"
	ErrCodeEngineError   = "ENGINE_ERROR"
	ErrCodeAnalysisError = "ANALYSIS_ERROR"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeOutputError   = "OUTPUT_ERROR"
)

// DomainError represents a domain-specific error with a stable code
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewNoProjectRootError creates an error for a missing project marker
func NewNoProjectRootError(startDir string) error {
	return NewDomainError(ErrCodeNoProjectRoot,
		fmt.Sprintf("no project root found above %s (expected package.json or tsconfig.json)", startDir), nil)
}

// NewPathNotFoundError creates an error for an explicit path that does
// not exist on disk
func NewPathNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodePathNotFound, fmt.Sprintf("path not found: %s", path), cause)
}

// NewEngineMissingError creates an error for an absent engine dependency
func NewEngineMissingError(binary string) error {
	return NewDomainError(ErrCodeEngineMissing,
		fmt.Sprintf("%s is not installed or not on PATH", binary), nil)
}

// NewEngineError creates an error for an engine invocation failure
func NewEngineError(message string, cause error) error {
	return NewDomainError(ErrCodeEngineError, message, cause)
}

// NewAnalysisError creates a general analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}
