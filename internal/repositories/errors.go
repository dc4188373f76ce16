package repositories

import "errors"

// ErrNotFound reports that a lookup matched no rows. Callers check it
// with errors.Is to tell an absent record apart from a transport or
// database failure.
var ErrNotFound = errors.New("record not found")
