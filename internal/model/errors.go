package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrServiceUnavailable   = errors.New("service unavailable")
	ErrNoResults            = errors.New("no results found")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
	ErrDownloadLinkNotFound = errors.New("download link not found")
	ErrMissingDependency    = errors.New("missing dependency")
	ErrConversionFailed     = errors.New("conversion failed")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTransport            = errors.New("service request failed")
	ErrUnsupportedBackend   = errors.New("unsupported backend")
	ErrNoTrack              = errors.New("no track produced")
)

// ServiceUnavailableError reports a backend that is not configured or
// failed to initialize. Err holds the initialization failure, if any.
type ServiceUnavailableError struct {
	Service string
	Err     error
}

func (e *ServiceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %q unavailable: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("service %q unavailable", e.Service)
}

func (e *ServiceUnavailableError) Is(target error) bool { return target == ErrServiceUnavailable }
func (e *ServiceUnavailableError) Unwrap() error        { return e.Err }

// NoResultsError reports a search that returned nothing.
type NoResultsError struct {
	Query   string
	Service string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no results found for %q on %s", e.Query, e.Service)
}

func (e *NoResultsError) Is(target error) bool { return target == ErrNoResults }

// InvalidIdentifierError reports an identifier that is syntactically
// invalid for its backend. It is never retried.
type InvalidIdentifierError struct {
	Service string
	ID      string
	Err     error
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s identifier %q", e.Service, e.ID)
}

func (e *InvalidIdentifierError) Is(target error) bool { return target == ErrInvalidIdentifier }
func (e *InvalidIdentifierError) Unwrap() error        { return e.Err }

// DownloadLinkNotFoundError reports a track whose resolver found no stream.
type DownloadLinkNotFoundError struct {
	Service string
	ID      string
}

func (e *DownloadLinkNotFoundError) Error() string {
	return fmt.Sprintf("download link not found for %s track %q", e.Service, e.ID)
}

func (e *DownloadLinkNotFoundError) Is(target error) bool { return target == ErrDownloadLinkNotFound }

// MissingDependencyError reports an executable that could not be located.
// This is an environment problem, not a transient failure.
type MissingDependencyError struct {
	Name       string
	SearchPath string
}

func (e *MissingDependencyError) Error() string {
	if e.SearchPath != "" {
		return fmt.Sprintf("%s not found in %s", e.Name, e.SearchPath)
	}
	return fmt.Sprintf("%s not found in PATH", e.Name)
}

func (e *MissingDependencyError) Is(target error) bool { return target == ErrMissingDependency }

// ConversionError reports a transcoder run that exited unsuccessfully.
// Stderr is the transcoder's diagnostic output, verbatim.
type ConversionError struct {
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("conversion failed: %v", e.Err)
	}
	return fmt.Sprintf("conversion failed: %v: %s", e.Err, msg)
}

func (e *ConversionError) Is(target error) bool { return target == ErrConversionFailed }
func (e *ConversionError) Unwrap() error        { return e.Err }

// AuthError reports rejected credentials or an unusable session.
type AuthError struct {
	Service string
	Reason  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %s", e.Service, e.Reason)
}

func (e *AuthError) Is(target error) bool { return target == ErrAuthenticationFailed }

// TransportError reports a request that did not complete with a usable
// response. StatusCode is 0 when no response was received.
type TransportError struct {
	Service    string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s request %s failed: HTTP %d", e.Service, e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s request %s failed: %v", e.Service, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s request %s failed", e.Service, e.URL)
	}
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
func (e *TransportError) Unwrap() error        { return e.Err }

// IsNotFound reports whether err is a transport error with status 404.
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == 404
}
