package domain

import "errors"

var (
	// ErrTradeNotFound is returned when the requested trade id is unknown.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrTradeNotActive is returned when an operation requires the trade to
	// be in Active status.
	ErrTradeNotActive = errors.New("trade must be in active status")
	// ErrTradeNotAccepted is returned when an operation requires the trade
	// to be in Accepted status.
	ErrTradeNotAccepted = errors.New("trade must be in accepted status")
	// ErrTradeNotCancellable is returned when cancelling a trade that is
	// neither Active nor Accepted.
	ErrTradeNotCancellable = errors.New("trade can no longer be cancelled")
	// ErrTradeExpired is returned when an operation is attempted at or past
	// the trade expiration time.
	ErrTradeExpired = errors.New("trade is expired")
	// ErrTradeNotExpired is returned when expiring a trade whose expiration
	// time has not been reached.
	ErrTradeNotExpired = errors.New("trade expiration time not reached")
	// ErrUnauthorized is returned when the caller is not the proposer or
	// recipient required by the operation.
	ErrUnauthorized = errors.New("caller is not allowed to perform this operation")
	// ErrInvalidAccount ...
	ErrInvalidAccount = errors.New("account must be a valid non-zero address")
	// ErrSameParty is returned when proposer and recipient coincide.
	ErrSameParty = errors.New("proposer and recipient must be distinct accounts")
	// ErrEmptyAssetList ...
	ErrEmptyAssetList = errors.New("asset list must not be empty")
	// ErrDuplicateAsset ...
	ErrDuplicateAsset = errors.New("asset list contains duplicate references")
	// ErrInvalidAssetRef ...
	ErrInvalidAssetRef = errors.New("asset reference is not valid")
	// ErrInvalidExpiryTime is returned when the expiration time of a new
	// trade is not strictly in the future.
	ErrInvalidExpiryTime = errors.New("expiration time must be in the future")
	// ErrAssetReserved is returned when an asset is already committed to
	// another trade in depositable status.
	ErrAssetReserved = errors.New("asset is already reserved by another trade")
	// ErrInsufficientFeePaid is returned when the supplied fee payment is
	// lower than the expected protocol fee.
	ErrInsufficientFeePaid = errors.New("paid amount does not cover the protocol fee")
	// ErrFeeMismatch is returned when the supplied fee payment exceeds the
	// expected protocol fee. Overpayments are rejected, not refunded.
	ErrFeeMismatch = errors.New("paid amount must match the protocol fee exactly")
	// ErrNotHolder is returned when the depositor no longer holds an asset
	// it must deposit.
	ErrNotHolder = errors.New("caller is not the holder of the asset")
	// ErrNotApproved is returned when the escrow lacks transfer approval on
	// an asset at deposit time.
	ErrNotApproved = errors.New("escrow is not approved to transfer the asset")
	// ErrUnknownAsset is returned by the registry when a collection/token
	// pair cannot be resolved.
	ErrUnknownAsset = errors.New("unknown asset reference")
	// ErrAlreadyDeposited ...
	ErrAlreadyDeposited = errors.New("caller already deposited")
)
