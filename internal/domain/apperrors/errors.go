// Package apperrors defines the closed set of domain error variants returned
// by command handlers and aggregates. The HTTP layer owns the mapping from
// Kind to status code; nothing in here knows about transport.
package apperrors

import "errors"

type Kind string

const (
	KindEmptyField            Kind = "empty_field"
	KindInvalidUsernameLength Kind = "invalid_username_length"
	KindDuplicateEmail        Kind = "duplicate_email"
	KindDuplicateUsername     Kind = "duplicate_username"
	KindPasswordNotMatch      Kind = "password_not_match"
	KindMemberNotFound        Kind = "member_not_found"
	KindProductNotFound       Kind = "product_not_found"
	KindInvalidPrice          Kind = "invalid_price"
	KindInvalidCategory       Kind = "invalid_category"
	KindInvalidArgument       Kind = "invalid_argument"
	KindInternal              Kind = "internal"
)

// Error carries a Kind plus a human-readable message. Field is set for
// per-field failures (empty field, invalid price) and empty otherwise.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func EmptyField(field string) *Error {
	return &Error{Kind: KindEmptyField, Field: field, Message: field + " is required"}
}

func InvalidUsernameLength() *Error {
	return &Error{Kind: KindInvalidUsernameLength, Field: "username", Message: "Username must be 10 characters or less"}
}

func DuplicateEmail() *Error {
	return &Error{Kind: KindDuplicateEmail, Field: "email", Message: "email is already in use"}
}

func DuplicateUsername() *Error {
	return &Error{Kind: KindDuplicateUsername, Field: "username", Message: "username is already in use"}
}

func PasswordNotMatch() *Error {
	return &Error{Kind: KindPasswordNotMatch, Message: "password does not match"}
}

func MemberNotFound() *Error {
	return &Error{Kind: KindMemberNotFound, Message: "member not found"}
}

func ProductNotFound() *Error {
	return &Error{Kind: KindProductNotFound, Message: "product not found"}
}

func InvalidPrice(msg string) *Error {
	return &Error{Kind: KindInvalidPrice, Field: "price", Message: msg}
}

func InvalidCategory(msg string) *Error {
	return &Error{Kind: KindInvalidCategory, Field: "category_id", Message: msg}
}

func InvalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

// Internal wraps an infrastructure failure (storage, hashing, broker) so it
// propagates unchanged through the command layer without gaining meaning.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: err}
}

// KindOf reports the Kind of err, or KindInternal for anything outside the
// closed set.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
