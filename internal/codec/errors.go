package codec

import "errors"

var ErrUnknownScheme = errors.New("unknown remote scheme")
