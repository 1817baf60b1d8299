package history

import "errors"

var ErrNotFound = errors.New("command not found")
