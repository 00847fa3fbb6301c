package httpinterface

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barter-network/barterd/internal/core/application"
	"github.com/barter-network/barterd/internal/core/domain"
	"github.com/barter-network/barterd/internal/core/ports"
)

// handler bundles the HTTP endpoints exposing the trade protocol surface
// consumed by the presentation layer.
type handler struct {
	tradeSvc application.TradeService
	registry ports.NftRegistry
	pubsub   ports.PubSub
}

// NewHandler returns a mux exposing the trade protocol REST API.
func NewHandler(
	tradeSvc application.TradeService,
	registry ports.NftRegistry,
	pubsub ports.PubSub,
) http.Handler {
	h := &handler{tradeSvc: tradeSvc, registry: registry, pubsub: pubsub}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/trades", h.trades)
	mux.HandleFunc("/v1/trades/", h.tradeResources)
	mux.HandleFunc("/v1/accounts/", h.accountResources)
	mux.HandleFunc("/v1/fee", h.fee)
	mux.HandleFunc("/v1/registry/mint", h.registryMint)
	mux.HandleFunc("/v1/registry/approvals", h.registryApprovals)
	mux.HandleFunc("/v1/registry/owner", h.registryOwner)
	mux.HandleFunc("/v1/webhooks", h.webhooks)
	mux.HandleFunc("/v1/webhooks/", h.webhookResources)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

type proposeTradeRequest struct {
	Proposer        string                  `json:"proposer"`
	Recipient       string                  `json:"recipient"`
	OfferedAssets   []application.AssetInfo `json:"offered_assets"`
	RequestedAssets []application.AssetInfo `json:"requested_assets"`
	ExpirationTime  int64                   `json:"expiration_time"`
	FeePaid         uint64                  `json:"fee_paid"`
}

func (h *handler) trades(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var payload proposeTradeRequest
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		tradeID, err := h.tradeSvc.ProposeTrade(
			r.Context(),
			payload.Proposer, payload.Recipient,
			application.AssetInfoList(payload.OfferedAssets),
			application.AssetInfoList(payload.RequestedAssets),
			payload.ExpirationTime, payload.FeePaid,
		)
		countOperation("propose_trade", err)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]uint64{"trade_id": tradeID})

	case http.MethodGet:
		trades, err := h.tradeSvc.ListTrades(r.Context())
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, trades)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) tradeResources(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/trades"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	tradeID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid trade id"))
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		trade, err := h.tradeSvc.GetTrade(r.Context(), tradeID)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, trade)
		return
	}

	switch parts[1] {
	case "accept":
		h.acceptTrade(w, r, tradeID)
	case "deposit":
		h.depositNFTs(w, r, tradeID)
	case "cancel":
		h.cancelTrade(w, r, tradeID)
	case "counter-offer":
		h.counterOffer(w, r, tradeID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type callerRequest struct {
	Caller string `json:"caller"`
}

func (h *handler) acceptTrade(
	w http.ResponseWriter, r *http.Request, tradeID uint64,
) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload callerRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err := h.tradeSvc.AcceptTrade(r.Context(), payload.Caller, tradeID)
	countOperation("accept_trade", err)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) depositNFTs(
	w http.ResponseWriter, r *http.Request, tradeID uint64,
) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload callerRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err := h.tradeSvc.DepositNFTs(r.Context(), payload.Caller, tradeID)
	countOperation("deposit_nfts", err)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) cancelTrade(
	w http.ResponseWriter, r *http.Request, tradeID uint64,
) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload callerRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err := h.tradeSvc.CancelTrade(r.Context(), payload.Caller, tradeID)
	countOperation("cancel_trade", err)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type counterOfferRequest struct {
	Caller          string                  `json:"caller"`
	OfferedAssets   []application.AssetInfo `json:"offered_assets"`
	RequestedAssets []application.AssetInfo `json:"requested_assets"`
	ExpirationTime  int64                   `json:"expiration_time"`
	FeePaid         uint64                  `json:"fee_paid"`
}

func (h *handler) counterOffer(
	w http.ResponseWriter, r *http.Request, tradeID uint64,
) {
	switch r.Method {
	case http.MethodPost:
		var payload counterOfferRequest
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		counterID, err := h.tradeSvc.CreateCounterOffer(
			r.Context(),
			payload.Caller, tradeID,
			application.AssetInfoList(payload.OfferedAssets),
			application.AssetInfoList(payload.RequestedAssets),
			payload.ExpirationTime, payload.FeePaid,
		)
		countOperation("create_counter_offer", err)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]uint64{"trade_id": counterID})

	case http.MethodGet:
		counterID, err := h.tradeSvc.GetCounterOffer(r.Context(), tradeID)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]uint64{"trade_id": counterID})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) accountResources(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/accounts"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[1] != "active-trades" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tradeIDs, err := h.tradeSvc.GetUserActiveTrades(r.Context(), parts[0])
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]uint64{"trade_ids": tradeIDs})
}

func (h *handler) fee(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{
		"fee_per_nft": h.tradeSvc.FeePerNFT(),
	})
}

type mintRequest struct {
	Owner      string `json:"owner"`
	Collection string `json:"collection"`
	TokenID    uint64 `json:"token_id"`
}

func (h *handler) registryMint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload mintRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	asset := domain.AssetRef{
		Collection: payload.Collection, TokenID: payload.TokenID,
	}
	if err := h.registry.Mint(r.Context(), payload.Owner, asset); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type approvalRequest struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

func (h *handler) registryApprovals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload approvalRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	operator := payload.Operator
	if operator == "" {
		operator = application.EscrowAccount
	}
	if err := h.registry.SetApprovalForAll(
		r.Context(), payload.Owner, operator, payload.Approved,
	); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) registryOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tokenID, err := strconv.ParseUint(r.URL.Query().Get("token_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid token id"))
		return
	}
	asset := domain.AssetRef{
		Collection: r.URL.Query().Get("collection"), TokenID: tokenID,
	}

	owner, err := h.registry.OwnerOf(r.Context(), asset)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"owner": owner})
}

type subscribeRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

func (h *handler) webhooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.pubsub == nil {
		writeError(
			w, http.StatusServiceUnavailable, application.ErrPubSubNotInitialized,
		)
		return
	}
	var payload subscribeRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.pubsub.Subscribe(payload.Topic, payload.Endpoint, payload.Secret)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *handler) webhookResources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.pubsub == nil {
		writeError(
			w, http.StatusServiceUnavailable, application.ErrPubSubNotInitialized,
		)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/webhooks"), "/")
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := h.pubsub.Unsubscribe(id); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(body io.Reader, target interface{}) error {
	return json.NewDecoder(body).Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
