package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "barter operator CLI"
	app.Usage = "Command line interface for barterd daemon operators"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "rpcserver",
			Usage:   "the address of the barterd daemon to connect to",
			Value:   "http://localhost:7070",
			EnvVars: []string{"BARTER_RPCSERVER"},
		},
	}
	app.Commands = append(
		app.Commands,
		&propose,
		&accept,
		&deposit,
		&cancel,
		&counteroffer,
		&gettrade,
		&getcounteroffer,
		&listtrades,
		&activetrades,
		&fee,
		&mint,
		&approve,
		&addwebhook,
		&removewebhook,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[barter] %v\n", err)
	os.Exit(1)
}
