package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var cancel = cli.Command{
	Name:  "cancel",
	Usage: "cancel a trade you are a party of",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "trade_id",
			Usage: "the id of the trade to cancel",
		},
		&cli.StringFlag{
			Name:  "caller",
			Usage: "the account cancelling the trade",
		},
	},
	Action: cancelAction,
}

func cancelAction(ctx *cli.Context) error {
	url := apiURL(ctx, fmt.Sprintf("/v1/trades/%d/cancel", ctx.Uint64("trade_id")))
	if _, err := doRequest(http.MethodPost, url, map[string]string{
		"caller": ctx.String("caller"),
	}); err != nil {
		return err
	}

	fmt.Println("trade cancelled")
	return nil
}
