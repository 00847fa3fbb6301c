package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var mint = cli.Command{
	Name:  "mint",
	Usage: "mint an asset to an account in the local registry",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "the account receiving the minted asset",
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "the collection address of the asset",
		},
		&cli.Uint64Flag{
			Name:  "token_id",
			Usage: "the token id of the asset",
		},
	},
	Action: mintAction,
}

func mintAction(ctx *cli.Context) error {
	if _, err := doRequest(
		http.MethodPost, apiURL(ctx, "/v1/registry/mint"),
		map[string]interface{}{
			"owner":      ctx.String("owner"),
			"collection": ctx.String("collection"),
			"token_id":   ctx.Uint64("token_id"),
		},
	); err != nil {
		return err
	}

	fmt.Println("asset minted")
	return nil
}

var approve = cli.Command{
	Name:  "approve",
	Usage: "grant or revoke the escrow approval for all assets of an account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "the account granting the approval",
		},
		&cli.StringFlag{
			Name:  "operator",
			Usage: "the operator account, defaults to the escrow account",
		},
		&cli.BoolFlag{
			Name:  "revoke",
			Usage: "revoke the approval instead of granting it",
		},
	},
	Action: approveAction,
}

func approveAction(ctx *cli.Context) error {
	if _, err := doRequest(
		http.MethodPost, apiURL(ctx, "/v1/registry/approvals"),
		map[string]interface{}{
			"owner":    ctx.String("owner"),
			"operator": ctx.String("operator"),
			"approved": !ctx.Bool("revoke"),
		},
	); err != nil {
		return err
	}

	if ctx.Bool("revoke") {
		fmt.Println("approval revoked")
	} else {
		fmt.Println("approval granted")
	}
	return nil
}
