package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var gettrade = cli.Command{
	Name:  "trade",
	Usage: "show the details of a trade",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "trade_id",
			Usage: "the id of the trade to show",
		},
	},
	Action: getTradeAction,
}

func getTradeAction(ctx *cli.Context) error {
	url := apiURL(ctx, fmt.Sprintf("/v1/trades/%d", ctx.Uint64("trade_id")))
	reply, err := doRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

var listtrades = cli.Command{
	Name:   "listtrades",
	Usage:  "list all trades known to the daemon",
	Action: listTradesAction,
}

func listTradesAction(ctx *cli.Context) error {
	reply, err := doRequest(http.MethodGet, apiURL(ctx, "/v1/trades"), nil)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

var activetrades = cli.Command{
	Name:  "activetrades",
	Usage: "list the ids of the active trades for an account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "account",
			Usage: "the account to list active trades for",
		},
	},
	Action: activeTradesAction,
}

func activeTradesAction(ctx *cli.Context) error {
	url := apiURL(ctx, fmt.Sprintf(
		"/v1/accounts/%s/active-trades", ctx.String("account"),
	))
	reply, err := doRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

var fee = cli.Command{
	Name:   "fee",
	Usage:  "show the per-asset trade fee in base units",
	Action: feeAction,
}

func feeAction(ctx *cli.Context) error {
	reply, err := doRequest(http.MethodGet, apiURL(ctx, "/v1/fee"), nil)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
