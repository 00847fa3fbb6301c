package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var addwebhook = cli.Command{
	Name:  "addwebhook",
	Usage: "add a webhook registered for some trade event",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "the endpoint where to notify the webhook",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "the eventual secret to authenticate requests",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "event",
			Usage: "the trade event for which the webhook gets notified",
		},
	},
	Action: addWebhookAction,
}

func addWebhookAction(ctx *cli.Context) error {
	reply, err := doRequest(
		http.MethodPost, apiURL(ctx, "/v1/webhooks"),
		map[string]string{
			"topic":    ctx.String("event"),
			"endpoint": ctx.String("endpoint"),
			"secret":   ctx.String("secret"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

var removewebhook = cli.Command{
	Name:  "removewebhook",
	Usage: "remove a webhook by its id",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "the id of the webhook to remove",
		},
	},
	Action: removeWebhookAction,
}

func removeWebhookAction(ctx *cli.Context) error {
	url := apiURL(ctx, fmt.Sprintf("/v1/webhooks/%s", ctx.String("id")))
	if _, err := doRequest(http.MethodDelete, url, nil); err != nil {
		return err
	}

	fmt.Println("webhook removed")
	return nil
}
