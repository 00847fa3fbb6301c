package application

import (
	"github.com/barter-network/barterd/internal/core/domain"
)

// AssetInfo is the portable form of an asset reference.
type AssetInfo struct {
	Collection string `json:"collection"`
	TokenID    uint64 `json:"token_id"`
}

func (a AssetInfo) toDomain() domain.AssetRef {
	return domain.AssetRef{Collection: a.Collection, TokenID: a.TokenID}
}

// AssetInfoList converts a list of portable asset references to their
// domain form.
func AssetInfoList(assets []AssetInfo) []domain.AssetRef {
	list := make([]domain.AssetRef, 0, len(assets))
	for _, a := range assets {
		list = append(list, a.toDomain())
	}
	return list
}

// TradeInfo is the read-only view of a trade returned by the query
// surface. Status reports the effective status at read time: a trade past
// its expiration is reported as Expired even if the stored status has not
// been written through yet.
type TradeInfo struct {
	ID                 uint64      `json:"id"`
	Proposer           string      `json:"proposer"`
	Recipient          string      `json:"recipient"`
	OfferedAssets      []AssetInfo `json:"offered_assets"`
	RequestedAssets    []AssetInfo `json:"requested_assets"`
	ExpirationTime     int64       `json:"expiration_time"`
	Status             string      `json:"status"`
	StatusCode         int         `json:"status_code"`
	ProposerDeposited  bool        `json:"proposer_deposited"`
	RecipientDeposited bool        `json:"recipient_deposited"`
	SupersededBy       uint64      `json:"superseded_by,omitempty"`
	FeePaid            uint64      `json:"fee_paid"`
	FeeRefunded        bool        `json:"fee_refunded"`
	CreatedAt          int64       `json:"created_at"`
}

func tradeInfo(t *domain.Trade, now int64) TradeInfo {
	status := t.EffectiveStatus(now)
	return TradeInfo{
		ID:                 t.ID,
		Proposer:           t.Proposer,
		Recipient:          t.Recipient,
		OfferedAssets:      assetInfoList(t.OfferedAssets),
		RequestedAssets:    assetInfoList(t.RequestedAssets),
		ExpirationTime:     t.ExpirationTime,
		Status:             status.String(),
		StatusCode:         int(status),
		ProposerDeposited:  t.ProposerDeposited,
		RecipientDeposited: t.RecipientDeposited,
		SupersededBy:       t.SupersededBy,
		FeePaid:            t.FeePaid,
		FeeRefunded:        t.FeeRefunded,
		CreatedAt:          t.CreatedAt,
	}
}

func assetInfoList(assets []domain.AssetRef) []AssetInfo {
	list := make([]AssetInfo, 0, len(assets))
	for _, a := range assets {
		list = append(list, AssetInfo{Collection: a.Collection, TokenID: a.TokenID})
	}
	return list
}
