package hue

import (
	"errors"
	"fmt"
)

// bridge error types
const (
	ErrorTypeUnauthorizedUser       = 1
	ErrorTypeInvalidJSON            = 2
	ErrorTypeResourceNotAvailable   = 3
	ErrorTypeMethodNotAvailable     = 4
	ErrorTypeMissingParameters      = 5
	ErrorTypeParameterNotAvailable  = 6
	ErrorTypeInvalidValue           = 7
	ErrorTypeParameterUnavailable   = 8
	ErrorTypeParameterNotModifiable = 9
	ErrorTypeTooManyItems           = 11
	ErrorTypePortalRequired         = 12
	ErrorTypeLinkButtonNotPressed   = 101
	ErrorTypeInternal               = 901
)

var ErrorDescriptions = map[int]string{
	ErrorTypeUnauthorizedUser:       "Unauthorized User",
	ErrorTypeInvalidJSON:            "Invalid JSON",
	ErrorTypeResourceNotAvailable:   "Resource not available",
	ErrorTypeMethodNotAvailable:     "Method not available for resource",
	ErrorTypeMissingParameters:      "Missing parameters in body",
	ErrorTypeParameterNotAvailable:  "Parameter not available",
	ErrorTypeInvalidValue:           "Invalid value for parameter",
	ErrorTypeParameterUnavailable:   "Parameter not available",
	ErrorTypeParameterNotModifiable: "Parameter is not modifiable",
	ErrorTypeTooManyItems:           "Too many items in list",
	ErrorTypePortalRequired:         "Portal connection required",
	ErrorTypeLinkButtonNotPressed:   "Link button not pressed",
	ErrorTypeInternal:               "Internal error",
}

var (
	ErrConnectionRefused     = errors.New("connection refused by bridge, ensure the bridge address is correct")
	ErrAuthorizationRequired = errors.New("authorization required, press the bridge link button and try again")
	ErrUnsupportedAttribute  = errors.New("unsupported attribute")
	ErrUnknownAttribute      = errors.New("unknown attribute")
	ErrInvalidPayload        = errors.New("invalid payload")
	ErrReservedGroup         = errors.New("group 0 is reserved by the bridge and cannot be deleted")
)

// BridgeError is an error reported by the bridge in a response body.
type BridgeError struct {
	Type        int
	Address     string
	Description string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("bridge error %d (%s): %s", e.Type, e.Address, e.Description)
}

// Is reports authorization-class errors as ErrAuthorizationRequired.
func (e *BridgeError) Is(target error) bool {
	if target != ErrAuthorizationRequired {
		return false
	}
	return e.Type == ErrorTypeUnauthorizedUser || e.Type == ErrorTypeLinkButtonNotPressed
}

// HTTPError is returned when the bridge's web server answers with a status >= 400.
type HTTPError struct {
	StatusCode int
	Reason     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("bridge responded with HTTP %d %s", e.StatusCode, e.Reason)
}

// TransportError wraps any network-level failure other than a refused connection.
type TransportError struct {
	Method string
	URI    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URI, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError means the bridge answered with something other than the expected JSON.
type MalformedResponseError struct {
	Body []byte
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed bridge response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
