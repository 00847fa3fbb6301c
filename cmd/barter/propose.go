package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var propose = cli.Command{
	Name:  "propose",
	Usage: "propose a new trade to another account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "proposer",
			Usage: "the account proposing the trade",
		},
		&cli.StringFlag{
			Name:  "recipient",
			Usage: "the account the trade is proposed to",
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
			Usage: "unix timestamp after which the trade expires",
		},
		&cli.Uint64Flag{
			Name:  "fee",
			Usage: "the fee paid in base units, must match fee_per_nft * total assets",
		},
	},
	Action: proposeAction,
}

func proposeAction(ctx *cli.Context) error {
	offered, err := parseAssets(ctx.StringSlice("offer"))
	if err != nil {
		return err
	}
	requested, err := parseAssets(ctx.StringSlice("request"))
	if err != nil {
		return err
	}

	reply, err := doRequest(http.MethodPost, apiURL(ctx, "/v1/trades"), map[string]interface{}{
		"proposer":         ctx.String("proposer"),
		"recipient":        ctx.String("recipient"),
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
