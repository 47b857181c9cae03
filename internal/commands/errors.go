package commands

import "github.com/pkg/errors"

// ErrNotInitialized is returned when an operation needs the bound client and
// none is set, or the bound client has already been reclaimed.
var ErrNotInitialized = errors.New("bot is not initialized: bind a client before registering or syncing commands")
