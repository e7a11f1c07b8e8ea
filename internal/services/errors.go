package services

import "errors"

// Report service errors
var (
	ErrStoreNotLoaded = errors.New("table store not loaded")
	ErrNoWriter       = errors.New("no report writer configured")
)
