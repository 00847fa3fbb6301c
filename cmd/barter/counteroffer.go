package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var counteroffer = cli.Command{
	Name:  "counter",
	Usage: "counter an active trade with new terms",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "trade_id",
			Usage: "the id of the trade to counter",
		},
		&cli.StringFlag{
			Name:  "caller",
			Usage: "the recipient of the original trade",
		},
		&cli.StringSliceFlag{
			Name:  "offer",
			Usage: "an offered asset in collection:tokenID format, repeatable",
		},
		&cli.StringSliceFlag{
			Name:  "request",
			Usage: "a requested asset in collection:tokenID format, repeatable",
		},
		&cli.Int64Flag{
			Name:  "expiration",
			Usage: "unix timestamp after which the counter-offer expires",
		},
		&cli.Uint64Flag{
			Name:  "fee",
			Usage: "the fee paid in base units for the counter-offer",
		},
	},
	Action: counterOfferAction,
}

func counterOfferAction(ctx *cli.Context) error {
	offered, err := parseAssets(ctx.StringSlice("offer"))
	if err != nil {
		return err
	}
	requested, err := parseAssets(ctx.StringSlice("request"))
	if err != nil {
		return err
	}

	url := apiURL(ctx, fmt.Sprintf(
		"/v1/trades/%d/counter-offer", ctx.Uint64("trade_id"),
	))
	reply, err := doRequest(http.MethodPost, url, map[string]interface{}{
		"caller":           ctx.String("caller"),
		"offered_assets":   offered,
		"requested_assets": requested,
		"expiration_time":  ctx.Int64("expiration"),
		"fee_paid":         ctx.Uint64("fee"),
	})
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

var getcounteroffer = cli.Command{
	Name:  "countered-by",
	Usage: "show the id of the counter-offer that superseded a trade",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "trade_id",
			Usage: "the id of the superseded trade",
		},
	},
	Action: getCounterOfferAction,
}

func getCounterOfferAction(ctx *cli.Context) error {
	url := apiURL(ctx, fmt.Sprintf(
		"/v1/trades/%d/counter-offer", ctx.Uint64("trade_id"),
	))
	reply, err := doRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
