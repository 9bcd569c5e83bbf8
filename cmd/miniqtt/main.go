// Command miniqtt is a small CLI over the miniqtt convenience façade,
// demonstrating connect/publish/subscribe/keepalive end to end against a
// real broker.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "miniqtt",
		Usage: "drive an MQTT v3.1.1 broker from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "broker",
				Aliases: []string{"b"},
				Value:   "localhost:1883",
				Usage:   "broker address, host:port",
			},
			&cli.StringFlag{
				Name:    "client-id",
				Aliases: []string{"c"},
				Usage:   "MQTT client id (default: random, truncated to 23 bytes)",
			},
			&cli.IntFlag{
				Name:  "keepalive",
				Value: 30,
				Usage: "keepalive interval in seconds (0 disables it)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log dispatcher traces to stderr",
			},
		},
		Commands: []*cli.Command{
			publishCommand,
			subscribeCommand,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
