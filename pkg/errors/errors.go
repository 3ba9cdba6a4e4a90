package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeNoData     Code = "NO_DATA"
	CodeSchema     Code = "SCHEMA_ERROR"
	CodeRender     Code = "RENDER_ERROR"
	CodeInternal   Code = "INTERNAL_ERROR"
	CodeDependency Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	ExitCode       int
	Retryable      bool
	Skippable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		ExitCode:       2,
		Retryable:      false,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		ExitCode:       1,
		Retryable:      false,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeNoData: {
		ExitCode:       0,
		Retryable:      false,
		Skippable:      true,
		PublicMessage:  "no data received from the API",
		DetailsAllowed: true,
	},
	CodeSchema: {
		ExitCode:       0,
		Retryable:      false,
		Skippable:      true,
		PublicMessage:  "expected field missing from API records",
		DetailsAllowed: true,
	},
	CodeRender: {
		ExitCode:       1,
		Retryable:      false,
		PublicMessage:  "chart rendering failed",
		DetailsAllowed: true,
	},
	CodeInternal: {
		ExitCode:       1,
		Retryable:      false,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
	CodeDependency: {
		ExitCode:       1,
		Retryable:      true,
		PublicMessage:  "store API unavailable",
		DetailsAllowed: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is reports whether target is an *Error carrying the same code, so package
// sentinels match any error raised with their code.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	var typed *Error
	if !stdErrors.As(target, &typed) || typed == nil {
		return false
	}
	return typed.code == e.code
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of the outermost typed error in the chain, or
// CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}
