package links

import "errors"

var (
	// ErrNotFound is returned when no link exists for a code, or a search
	// matches nothing.
	ErrNotFound = errors.New("short link not found")

	// ErrInvalidURL is returned for target URLs that are not absolute
	// http/https URLs with a host.
	ErrInvalidURL = errors.New("target url must be an absolute http or https url")

	// ErrInvalidAlias is returned for custom aliases containing anything
	// other than letters and digits.
	ErrInvalidAlias = errors.New("custom alias must contain only letters and digits")

	// ErrAliasReserved is returned when the custom alias collides with a
	// routing keyword.
	ErrAliasReserved = errors.New("custom alias is reserved")

	// ErrAliasTaken is returned when the custom alias is already in use.
	ErrAliasTaken = errors.New("custom alias is already in use")

	// ErrForbidden is returned when the requesting identity does not own
	// the link it is trying to mutate.
	ErrForbidden = errors.New("you have no access to this link")

	// ErrCodeTaken is returned by stores when an insert violates the
	// uniqueness constraint on code.
	ErrCodeTaken = errors.New("code already exists")
)
