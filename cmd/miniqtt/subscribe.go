package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/asoderlund/miniqtt"
	"github.com/asoderlund/miniqtt/internal/streamio"
)

var subscribeCommand = &cli.Command{
	Name:      "subscribe",
	Usage:     "connect, subscribe to one topic filter, and print messages until interrupted",
	ArgsUsage: "<topic>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "qos",
			Value: 0,
			Usage: "requested subscribe QoS (0-2)",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 1 {
			return fmt.Errorf("subscribe: expected <topic>, got %d arguments", cmd.Args().Len())
		}
		topic := cmd.Args().Get(0)

		onMessage := func(status miniqtt.Status, msg miniqtt.Message) {
			if status != miniqtt.StatusSuccessful {
				fmt.Printf("miniqtt: delivery error: %s\n", status)
				return
			}
			if msg.Topic == "" {
				fmt.Println("miniqtt: subscribe acknowledged")
				return
			}
			fmt.Printf("%s: %s\n", msg.Topic, msg.Payload)
		}

		facade, conn, err := dialFacade(ctx, cmd, onMessage)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := facade.Subscribe(topic, uint8(cmd.Int("qos"))); err != nil {
			return fmt.Errorf("subscribing to %q: %w", topic, err)
		}

		// Dispatch is not safe for concurrent use (doc.go's Concurrency
		// section), so both the inbound frame reads and the keepalive
		// ticks are driven from this single goroutine: ReadFrame runs its
		// blocking read on its own internal goroutine but only ever hands
		// the result back here, where Dispatch is the sole caller.
		reader := streamio.NewFrameReader(conn)
		keepalive := time.NewTicker(time.Second)
		defer keepalive.Stop()

		frames := make(chan []byte)
		errc := make(chan error, 1)
		go func() {
			for {
				frame, err := reader.ReadFrame(ctx)
				if err != nil {
					errc <- err
					return
				}
				select {
				case frames <- frame:
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return facade.Disconnect()
			case err := <-errc:
				return err
			case frame := <-frames:
				if err := facade.Receive(frame); err != nil {
					return fmt.Errorf("handling inbound packet: %w", err)
				}
			case <-keepalive.C:
				if err := facade.Keepalive(1000); err != nil {
					return fmt.Errorf("keepalive tick: %w", err)
				}
			}
		}
	},
}
