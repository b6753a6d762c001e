package tags

import "errors"

// ErrInvalidSource is returned when decoding an unknown tag source value.
var ErrInvalidSource = errors.New("invalid tag source")
