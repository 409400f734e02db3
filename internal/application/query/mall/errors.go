package mall

import "errors"

// ErrNotFound is returned for unknown or inactive products.
var ErrNotFound = errors.New("mall: not found")
