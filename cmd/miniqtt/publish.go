package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/asoderlund/miniqtt"
)

var publishCommand = &cli.Command{
	Name:      "publish",
	Usage:     "connect, publish one message, and disconnect",
	ArgsUsage: "<topic> <message>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "qos",
			Value: 0,
			Usage: "publish QoS (0-2; only 0 is delivered end to end)",
		},
		&cli.BoolFlag{
			Name:  "retain",
			Usage: "set the retain flag",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 2 {
			return fmt.Errorf("publish: expected <topic> <message>, got %d arguments", cmd.Args().Len())
		}
		topic := cmd.Args().Get(0)
		message := cmd.Args().Get(1)

		facade, conn, err := dialFacade(ctx, cmd, nil)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := facade.Session().Dispatch(miniqtt.PublishAction{Request: miniqtt.PublishRequest{
			Topic:   topic,
			Message: []byte(message),
			QoS:     uint8(cmd.Int("qos")),
			Retain:  cmd.Bool("retain"),
		}}).Err(); err != nil {
			return fmt.Errorf("publishing to %q: %w", topic, err)
		}

		return facade.Disconnect()
	},
}
