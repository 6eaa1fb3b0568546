package memo

import (
	"errors"
	"fmt"
)

// ErrUsage is the root of every caller-fixable error returned by this package.
// Check with errors.Is(err, ErrUsage).
var ErrUsage = errors.New("memo: usage error")

var (
	// ErrUnregisteredMethod is returned when reset/preset/lookup names a method
	// that was never registered on the owner's registry.
	ErrUnregisteredMethod = fmt.Errorf("%w: method not registered for memoization", ErrUsage)

	// ErrInvalidMethodName is returned when a method name is not a Go identifier.
	ErrInvalidMethodName = fmt.Errorf("%w: method name is not an identifier", ErrUsage)

	// ErrMissingResult is returned by Preset without a result callback.
	ErrMissingResult = fmt.Errorf("%w: preset requires a result callback", ErrUsage)

	// ErrArgsWithoutMethod is returned when arguments are given to a reset
	// without a method name.
	ErrArgsWithoutMethod = fmt.Errorf("%w: arguments given without a method name", ErrUsage)

	// ErrAlreadyRegistered is returned on a second registration of the same name.
	ErrAlreadyRegistered = fmt.Errorf("%w: method already registered", ErrUsage)

	// ErrBlockParameter is returned when registering a callable that takes a block.
	ErrBlockParameter = fmt.Errorf("%w: block-taking methods cannot be memoized", ErrUsage)

	// ErrArgumentMismatch is returned when call arguments do not fit the
	// registered parameter list.
	ErrArgumentMismatch = fmt.Errorf("%w: arguments do not match parameters", ErrUsage)

	// ErrUnhashableArgument is returned for an argument that is neither
	// comparable nor a fmt.Stringer.
	ErrUnhashableArgument = fmt.Errorf("%w: argument is neither comparable nor a fmt.Stringer", ErrUsage)

	// ErrDetachedOwner is returned by every operation on an Owner that was not
	// created through Registry.NewOwner.
	ErrDetachedOwner = fmt.Errorf("%w: owner has no cache state", ErrUsage)

	// ErrSnapshotMismatch is returned when restoring a snapshot taken from a
	// different owner type.
	ErrSnapshotMismatch = fmt.Errorf("%w: snapshot does not belong to this owner type", ErrUsage)
)
