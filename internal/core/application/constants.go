package application

const (
	// EscrowAccount is the protocol account holding custody of deposited
	// assets until execution.
	EscrowAccount = "0x00000000000000000000000000000000e5c40000"

	// Topics of the trade lifecycle events published to subscribed clients.
	TopicTradeProposed       = "trade_proposed"
	TopicTradeAccepted       = "trade_accepted"
	TopicTradeCounterOffered = "trade_counter_offered"
	TopicTradeDeposited      = "trade_deposited"
	TopicTradeExecuted       = "trade_executed"
	TopicTradeCancelled      = "trade_cancelled"
	TopicTradeExpired        = "trade_expired"
)

// Topics returns all the event topics supported by the trade service.
func Topics() []string {
	return []string{
		TopicTradeProposed,
		TopicTradeAccepted,
		TopicTradeCounterOffered,
		TopicTradeDeposited,
		TopicTradeExecuted,
		TopicTradeCancelled,
		TopicTradeExpired,
	}
}
