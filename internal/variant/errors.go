package variant

import "errors"

var errUnsupportedType = errors.New("variant: unsupported field type")
