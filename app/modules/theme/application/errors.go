package themeservice

import "errors"

var ErrUnknownTheme = errors.New("unknown theme")
