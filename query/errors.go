package query

import (
	"github.com/pkg/errors"
)

var (
	ErrPoolNotFound          = errors.New("pool not found")
	ErrUnknownChain          = errors.New("unknown chain")
	ErrNoDecimals            = errors.New("unknown asset decimals")
	ErrMissingInboundInfo    = errors.New("missing inbound info")
	ErrInvalidQuoteParams    = errors.New("invalid quote params")
	ErrNoAddress             = errors.New("no address given")
	ErrMAYANameRegistered    = errors.New("MAYAName already registered")
	ErrMAYANameNotRegistered = errors.New("can not update an unregistered MAYAName")
)
