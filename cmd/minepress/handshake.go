package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minepress/minepress/client"
	"github.com/minepress/minepress/packet"
	"github.com/minepress/minepress/transport"
	"github.com/minepress/minepress/util"
	"github.com/spf13/cobra"
)

func handshakeCmd() *cobra.Command {
	var (
		configPath string
		login      bool
		timeout    time.Duration
		opts       = util.DefaultOpts()
	)

	cmd := &cobra.Command{
		Use:   "handshake [addr]",
		Short: "Send a handshake to a server and print the frames it answers with",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				loaded, err := util.LoadOpts(configPath)
				if err != nil {
					return err
				}
				opts = loaded
			}
			if len(args) == 1 {
				opts.Addr = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("port") {
				opts.Port, _ = flags.GetUint16("port")
			}
			if flags.Changed("transport") {
				opts.Transport, _ = flags.GetString("transport")
			}
			if flags.Changed("protocol-version") {
				opts.ProtocolVersion, _ = flags.GetInt32("protocol-version")
			}

			next := packet.NextStateStatus
			if login {
				next = packet.NextStateLogin
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runHandshake(ctx, opts, next)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a yaml options file")
	cmd.Flags().Uint16P("port", "p", util.DefaultPort, "Server port")
	cmd.Flags().StringP("transport", "t", "tcp", "Transport: tcp, quic, kcp or spectral")
	cmd.Flags().Int32("protocol-version", opts.ProtocolVersion, "Protocol version to announce")
	cmd.Flags().BoolVar(&login, "login", false, "Request the login phase instead of status")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Second*10, "Dial timeout")
	return cmd
}

func runHandshake(ctx context.Context, opts *util.Opts, next packet.NextState) error {
	logger := slog.Default()
	t, err := transport.FromName(opts.Transport, logger)
	if err != nil {
		return err
	}

	c := client.New(opts, logger, t)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer c.Close()

	if err := c.Handshake(next); err != nil {
		return fmt.Errorf("failed to write handshake: %w", err)
	}
	logger.Info("sent handshake", "protocol_version", opts.ProtocolVersion, "next_state", next)

	packets, err := c.Conn().ReadPackets(c.State())
	if err != nil {
		if errors.Is(err, io.EOF) {
			logger.Info("server closed the connection")
			return nil
		}
		return err
	}
	for _, pk := range packets {
		fmt.Printf("id=0x%02x size=%d compressed=%v\n", pk.ID, len(pk.Payload), pk.WasCompressed)
	}
	return nil
}
