package domain

// TradeStatus represents the different statuses that a trade can assume.
// The numeric values follow the order exposed by the public interface and
// must not be reordered.
type TradeStatus int

const (
	// TradeStatusActive is the initial status of a proposed trade.
	TradeStatusActive TradeStatus = iota
	// TradeStatusAccepted means the recipient agreed and both sides may
	// deposit their assets.
	TradeStatusAccepted
	// TradeStatusExecuted means both deposits arrived and the swap settled.
	TradeStatusExecuted
	// TradeStatusCancelled means one of the parties withdrew the trade.
	TradeStatusCancelled
	// TradeStatusExpired means the expiration time passed before execution.
	TradeStatusExpired
	// TradeStatusCounterOffered means the trade was superseded by a
	// counter-offer and its life continues through the linked trade.
	TradeStatusCounterOffered
)

func (s TradeStatus) String() string {
	switch s {
	case TradeStatusActive:
		return "Active"
	case TradeStatusAccepted:
		return "Accepted"
	case TradeStatusExecuted:
		return "Executed"
	case TradeStatusCancelled:
		return "Cancelled"
	case TradeStatusExpired:
		return "Expired"
	case TradeStatusCounterOffered:
		return "CounterOffered"
	default:
		return "Unknown"
	}
}

// IsTerminal returns whether no further transition is possible from the
// status.
func (s TradeStatus) IsTerminal() bool {
	return s == TradeStatusExecuted || s == TradeStatusCancelled ||
		s == TradeStatusExpired
}

// IsDepositable returns whether a trade in this status commits its asset
// references in the reservation index.
func (s TradeStatus) IsDepositable() bool {
	return s == TradeStatusActive || s == TradeStatusAccepted
}

// Trade is the data structure representing a barter trade entity.
type Trade struct {
	ID                 uint64
	Proposer           string
	Recipient          string
	OfferedAssets      []AssetRef
	RequestedAssets    []AssetRef
	ExpirationTime     int64
	Status             TradeStatus
	ProposerDeposited  bool
	RecipientDeposited bool
	// SupersededBy holds the id of the counter-offer that replaced this
	// trade, 0 if none. Trade ids start from 1.
	SupersededBy uint64
	FeePaid      uint64
	FeeRefunded  bool
	CreatedAt    int64
}

// NewTrade validates the provided arguments and returns a trade in Active
// status. The id is assigned by the ledger on insertion.
func NewTrade(
	proposer, recipient string,
	offered, requested []AssetRef,
	expirationTime int64, feePaid uint64, now int64,
) (*Trade, error) {
	if err := ValidateAccount(proposer); err != nil {
		return nil, err
	}
	if err := ValidateAccount(recipient); err != nil {
		return nil, err
	}
	if proposer == recipient {
		return nil, ErrSameParty
	}

	seen := make(map[string]struct{})
	if err := validateAssetList(offered, seen); err != nil {
		return nil, err
	}
	if err := validateAssetList(requested, seen); err != nil {
		return nil, err
	}

	if expirationTime <= now {
		return nil, ErrInvalidExpiryTime
	}

	return &Trade{
		Proposer:        proposer,
		Recipient:       recipient,
		OfferedAssets:   offered,
		RequestedAssets: requested,
		ExpirationTime:  expirationTime,
		Status:          TradeStatusActive,
		FeePaid:         feePaid,
		CreatedAt:       now,
	}, nil
}

// Accept brings the trade from the Active to the Accepted status. Only the
// recipient can accept.
func (t *Trade) Accept(caller string, now int64) error {
	if t.IsExpired(now) {
		return ErrTradeExpired
	}
	if t.Status != TradeStatusActive {
		return ErrTradeNotActive
	}
	if caller != t.Recipient {
		return ErrUnauthorized
	}

	t.Status = TradeStatusAccepted
	return nil
}

// Cancel brings the trade from the Active or Accepted status to the
// Cancelled terminal status. Either party can cancel.
func (t *Trade) Cancel(caller string, now int64) error {
	if t.IsExpired(now) {
		return ErrTradeExpired
	}
	if !t.Status.IsDepositable() {
		return ErrTradeNotCancellable
	}
	if !t.IsParty(caller) {
		return ErrUnauthorized
	}

	t.Status = TradeStatusCancelled
	t.FeeRefunded = true
	return nil
}

// MarkDeposited records the caller's side of the escrow as deposited and
// returns whether the flag actually changed. A repeated deposit from the
// same party is a no-op, so the custody move cannot be applied twice.
func (t *Trade) MarkDeposited(caller string, now int64) (bool, error) {
	if t.IsExpired(now) {
		return false, ErrTradeExpired
	}
	if t.Status != TradeStatusAccepted {
		return false, ErrTradeNotAccepted
	}
	if !t.IsParty(caller) {
		return false, ErrUnauthorized
	}

	switch caller {
	case t.Proposer:
		if t.ProposerDeposited {
			return false, nil
		}
		t.ProposerDeposited = true
	case t.Recipient:
		if t.RecipientDeposited {
			return false, nil
		}
		t.RecipientDeposited = true
	}
	return true, nil
}

// Execute brings the trade from the Accepted status with both sides
// deposited to the Executed terminal status.
func (t *Trade) Execute() error {
	if t.Status != TradeStatusAccepted {
		return ErrTradeNotAccepted
	}
	if !t.BothDeposited() {
		return ErrTradeNotAccepted
	}

	t.Status = TradeStatusExecuted
	return nil
}

// CounterOffer marks the trade as superseded by the trade with the given
// id. The original asset sets are left untouched, only the status flips
// and the link is recorded. The paid fee is returned since the protocol
// itself invalidated the proposal.
func (t *Trade) CounterOffer(caller string, newTradeID uint64, now int64) error {
	if t.IsExpired(now) {
		return ErrTradeExpired
	}
	if t.Status != TradeStatusActive {
		return ErrTradeNotActive
	}
	if caller != t.Recipient {
		return ErrUnauthorized
	}

	t.Status = TradeStatusCounterOffered
	t.SupersededBy = newTradeID
	t.FeeRefunded = true
	return nil
}

// Expire brings a non-terminal trade to the Expired terminal status once
// its expiration time has been reached.
func (t *Trade) Expire(now int64) error {
	if t.Status.IsTerminal() {
		return nil
	}
	if now < t.ExpirationTime {
		return ErrTradeNotExpired
	}

	t.Status = TradeStatusExpired
	t.FeeRefunded = true
	return nil
}

// IsExpired returns whether the expiration time has been reached while the
// trade is still in a non-terminal status. The stored status may lag
// behind: expiration is evaluated lazily at every entry point instead of
// by a background timer.
func (t *Trade) IsExpired(now int64) bool {
	return !t.Status.IsTerminal() && now >= t.ExpirationTime
}

// EffectiveStatus returns the status the trade logically has at the given
// time, mapping any stale non-terminal status past expiration to Expired.
func (t *Trade) EffectiveStatus(now int64) TradeStatus {
	if t.IsExpired(now) {
		return TradeStatusExpired
	}
	return t.Status
}

// BothDeposited returns whether both parties escrowed their assets.
func (t *Trade) BothDeposited() bool {
	return t.ProposerDeposited && t.RecipientDeposited
}

// IsParty returns whether the account is the proposer or the recipient.
func (t *Trade) IsParty(account string) bool {
	return account == t.Proposer || account == t.Recipient
}

// DepositAssetsFor returns the assets the given party must escrow: the
// proposer deposits the offered list, the recipient the requested one.
func (t *Trade) DepositAssetsFor(account string) []AssetRef {
	switch account {
	case t.Proposer:
		return t.OfferedAssets
	case t.Recipient:
		return t.RequestedAssets
	default:
		return nil
	}
}

// HasDeposited returns whether the given party already escrowed its side.
func (t *Trade) HasDeposited(account string) bool {
	switch account {
	case t.Proposer:
		return t.ProposerDeposited
	case t.Recipient:
		return t.RecipientDeposited
	default:
		return false
	}
}

// AllAssets returns the offered and requested lists as a single slice.
func (t *Trade) AllAssets() []AssetRef {
	all := make([]AssetRef, 0, len(t.OfferedAssets)+len(t.RequestedAssets))
	all = append(all, t.OfferedAssets...)
	all = append(all, t.RequestedAssets...)
	return all
}
