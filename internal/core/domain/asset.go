package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var collectionRegexp = regexp.MustCompile(`^0x[0-9A-Fa-f]{40}$`)

const zeroAddress = "0x0000000000000000000000000000000000000000"

// AssetRef identifies one discrete ownership token as the pair
// (collection identifier, token id). It is immutable once embedded in a
// trade.
type AssetRef struct {
	Collection string
	TokenID    uint64
}

// Key returns the canonical form of the reference, used as key of the
// asset reservation index.
func (a AssetRef) Key() string {
	return fmt.Sprintf("%s:%d", strings.ToLower(a.Collection), a.TokenID)
}

func (a AssetRef) String() string {
	return a.Key()
}

// Validate returns an error if the collection identifier is not a well
// formed non-zero address.
func (a AssetRef) Validate() error {
	if !collectionRegexp.MatchString(a.Collection) {
		return ErrInvalidAssetRef
	}
	if strings.EqualFold(a.Collection, zeroAddress) {
		return ErrInvalidAssetRef
	}
	return nil
}

// ParseAssetRef parses the canonical "collection:tokenID" form.
func ParseAssetRef(s string) (AssetRef, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return AssetRef{}, ErrInvalidAssetRef
	}
	tokenID, err := strconv.ParseUint(s[i+1:], 10, 64)
	if err != nil {
		return AssetRef{}, ErrInvalidAssetRef
	}
	asset := AssetRef{Collection: s[:i], TokenID: tokenID}
	if err := asset.Validate(); err != nil {
		return AssetRef{}, err
	}
	return asset, nil
}

// ValidateAccount returns an error if the given account identifier is not
// a well formed non-zero address.
func ValidateAccount(account string) error {
	if !collectionRegexp.MatchString(account) {
		return ErrInvalidAccount
	}
	if strings.EqualFold(account, zeroAddress) {
		return ErrInvalidAccount
	}
	return nil
}

// validateAssetList checks that a list is non-empty, that every reference
// is well formed and that no reference appears twice. The seen set is
// shared between the offered and requested lists of the same trade so
// that an asset cannot appear on both sides.
func validateAssetList(assets []AssetRef, seen map[string]struct{}) error {
	if len(assets) == 0 {
		return ErrEmptyAssetList
	}
	for _, asset := range assets {
		if err := asset.Validate(); err != nil {
			return err
		}
		key := asset.Key()
		if _, ok := seen[key]; ok {
			return ErrDuplicateAsset
		}
		seen[key] = struct{}{}
	}
	return nil
}
