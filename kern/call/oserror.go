package call

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// ErrorClass is the coarse failure category carried by every failed kernel
// call.
type ErrorClass uint8

const (
	ErrClassNone ErrorClass = iota
	ErrClassBadHandle
	ErrClassNotFound
	ErrClassDeniedAccess
	ErrClassExhaustedQuota
	ErrClassDataOverflow
	ErrClassAlreadyRegistered
	ErrClassInvalidArg
	ErrClassUnsupported
)

var errorClassNames = [...]string{
	"None", "BadHandle", "NotFound", "DeniedAccess", "ExhaustedQuota",
	"DataOverflow", "AlreadyRegistered", "InvalidArg", "Unsupported",
}

func (c ErrorClass) String() string {
	if int(c) < len(errorClassNames) {
		return errorClassNames[c]
	}
	return fmt.Sprintf("ErrorClass(%d)", uint8(c))
}

// MessageLenMax is the fixed size of the error message buffer crossing the
// trap frame.
const MessageLenMax = 64

// OsError describes a failed kernel call: which class of failure, which
// function path raised it, against which handle and from which task.
//
// The message travels as a fixed NUL-padded Latin-1 byte buffer, the only
// string representation the trap frame can carry.
type OsError struct {
	Class    ErrorClass
	Path     FnPath
	Handle   uint32
	ProcID   uint32
	ThreadID uint32

	message [MessageLenMax]byte
}

// NewOsError builds an OsError, truncating msg to the buffer size.
func NewOsError(class ErrorClass, path FnPath, handle uint32, msg string) *OsError {
	e := &OsError{Class: class, Path: path, Handle: handle}
	e.SetMessage(msg)
	return e
}

// SetMessage stores msg into the fixed buffer, truncating past the limit.
func (e *OsError) SetMessage(msg string) {
	for i := range e.message {
		e.message[i] = 0
	}
	copy(e.message[:], msg)
}

// MessageBytes returns the raw NUL-padded message buffer.
func (e *OsError) MessageBytes() []byte { return e.message[:] }

// Message decodes the message buffer. The buffer crosses the kernel
// boundary as Latin-1 bytes, so it is decoded through the charmap rather
// than trusted to be UTF-8.
func (e *OsError) Message() string {
	n := 0
	for n < len(e.message) && e.message[n] != 0 {
		n++
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(e.message[:n])
	if err != nil {
		return string(e.message[:n])
	}
	return string(decoded)
}

func (e *OsError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("%s: %s (handle %d)", e.Path, e.Class, e.Handle)
	}
	return fmt.Sprintf("%s: %s: %s (handle %d)", e.Path, e.Class, msg, e.Handle)
}
