package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var deposit = cli.Command{
	Name:  "deposit",
	Usage: "deposit your side of an accepted trade into escrow",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "trade_id",
			Usage: "the id of the trade to deposit for",
		},
		&cli.StringFlag{
			Name:  "caller",
			Usage: "the account depositing its assets",
		},
	},
	Action: depositAction,
}

func depositAction(ctx *cli.Context) error {
	url := apiURL(ctx, fmt.Sprintf("/v1/trades/%d/deposit", ctx.Uint64("trade_id")))
	if _, err := doRequest(http.MethodPost, url, map[string]string{
		"caller": ctx.String("caller"),
	}); err != nil {
		return err
	}

	fmt.Println("assets deposited")
	return nil
}
