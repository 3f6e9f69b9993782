// Package errors defines the code-tagged error types shared by the bot's components.
package errors

import (
	"errors"
	"fmt"
)

// Standard error codes for the application.
const (
	CodeUnknown = "UNKNOWN"
	CodeConfig  = "CONFIG"
	CodeBind    = "BIND"
	CodeConnect = "CONNECT"
)

// ApplicationError is the interface that all our custom errors implement.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error represents a basic application error.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}

	return e.message
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the code of the first ApplicationError in err's chain,
// or CodeUnknown if it doesn't carry one.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}

	return CodeUnknown
}

// ConfigError reports configuration that could not be loaded or failed validation.
type ConfigError struct {
	base Error
}

func (e *ConfigError) Error() string {
	return e.base.Error()
}

func (e *ConfigError) Code() string {
	return e.base.Code()
}

func (e *ConfigError) Unwrap() error {
	return e.base.Unwrap()
}

func NewConfigError(message string, cause error) error {
	return &ConfigError{
		base: Error{
			code:    CodeConfig,
			message: message,
			err:     cause,
		},
	}
}

// BindError reports that the liveness listener could not claim its address.
// It is always fatal: the operator has to pick another port.
type BindError struct {
	base Error
	Addr string
}

func (e *BindError) Error() string {
	return e.base.Error()
}

func (e *BindError) Code() string {
	return e.base.Code()
}

func (e *BindError) Unwrap() error {
	return e.base.Unwrap()
}

func NewBindError(addr string, cause error) error {
	return &BindError{
		base: Error{
			code:    CodeBind,
			message: fmt.Sprintf("failed to bind liveness listener on %s", addr),
			err:     cause,
		},
		Addr: addr,
	}
}

// ConnectError reports a failure to create or open the chat platform session.
type ConnectError struct {
	base Error
}

func (e *ConnectError) Error() string {
	return e.base.Error()
}

func (e *ConnectError) Code() string {
	return e.base.Code()
}

func (e *ConnectError) Unwrap() error {
	return e.base.Unwrap()
}

func NewConnectError(message string, cause error) error {
	return &ConnectError{
		base: Error{
			code:    CodeConnect,
			message: message,
			err:     cause,
		},
	}
}
