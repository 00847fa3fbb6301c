package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var accept = cli.Command{
	Name:  "accept",
	Usage: "accept a trade as its recipient",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "trade_id",
			Usage: "the id of the trade to accept",
		},
		&cli.StringFlag{
			Name:  "caller",
			Usage: "the account accepting the trade",
		},
	},
	Action: acceptAction,
}

func acceptAction(ctx *cli.Context) error {
	url := apiURL(ctx, fmt.Sprintf("/v1/trades/%d/accept", ctx.Uint64("trade_id")))
	if _, err := doRequest(http.MethodPost, url, map[string]string{
		"caller": ctx.String("caller"),
	}); err != nil {
		return err
	}

	fmt.Println("trade accepted")
	return nil
}
