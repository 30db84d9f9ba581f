package storage

import (
	"errors"
)

var ErrLinkNotFound = errors.New("link not found in the storage")
var ErrTargetAlreadyShortened = errors.New("target URL has already been shortened")
var ErrKeyTaken = errors.New("short key is taken by another URL")
