package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/asoderlund/miniqtt"
)

// dialFacade connects to the broker named by the "broker" flag, opens a
// miniqtt.Facade around the resulting net.Conn, and blocks for the
// connect handshake. The caller owns closing the returned net.Conn.
func dialFacade(ctx context.Context, cmd *cli.Command, onMessage miniqtt.SubscribeCallback) (*miniqtt.Facade, net.Conn, error) {
	broker := cmd.String("broker")
	conn, err := net.Dial("tcp", broker)
	if err != nil {
		return nil, nil, fmt.Errorf("dialing %s: %w", broker, err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cmd.Bool("debug") {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	facade := miniqtt.Open(conn, conn.Write, nil, onMessage, logger)

	clientID := cmd.String("client-id")
	if clientID == "" {
		clientID = uuid.NewString()[:23]
	}

	params := miniqtt.ConnectParams{
		ClientID:         clientID,
		CleanSession:     true,
		KeepAliveSeconds: uint16(cmd.Int("keepalive")),
	}

	if err := facade.Connect(ctx, params, 10*time.Second); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("connecting as %q: %w", clientID, err)
	}

	return facade, conn, nil
}
