package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lanemu/pkg/capture"
	"lanemu/pkg/config"
	"lanemu/pkg/link"
	"lanemu/pkg/medium"
	"lanemu/pkg/node"
	"lanemu/pkg/observability"
)

func newRunCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scripted two-node exchange over a shared medium",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*cfgPath)
		},
	}
}

// run is the demonstration driver: pure orchestration, no logic of its own
// beyond wiring the configured endpoints to one medium and exchanging the
// scripted greeting.
func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	zap.L().Info("lanemu started", zap.String("app", cfg.AppName))

	med := medium.New()

	if cfg.Capture.Enable {
		capLog, err := capture.Open(cfg.Capture.Path)
		if err != nil {
			return err
		}
		defer capLog.Close()
		med.Tap(func(ev medium.Event) {
			if err := capLog.Record(ev); err != nil {
				zap.L().Warn("capture failed", zap.Error(err))
			}
		})
		zap.L().Info("frame capture enabled", zap.String("path", cfg.Capture.Path))
	}

	nodes := make([]*node.Node, 0, len(cfg.Nodes))
	for _, nc := range cfg.Nodes {
		addr, err := link.ParseAddress(nc.Address)
		if err != nil {
			return err
		}
		nodes = append(nodes, node.New(nc.Name, addr, med, logger))
		zap.L().Info("endpoint registered", zap.String("name", nc.Name), zap.String("addr", addr.String()))
	}

	a, b := nodes[0], nodes[1]
	travel := time.Duration(cfg.Demo.TravelTimeMS) * time.Millisecond

	if err := a.Send(b.Name(), b.Addr(), cfg.Demo.Message); err != nil {
		return err
	}
	time.Sleep(travel) // simulated propagation, not a contract

	if err := deliverPending(b); err != nil {
		return err
	}

	if err := b.Send(a.Name(), a.Addr(), cfg.Demo.Reply); err != nil {
		return err
	}
	time.Sleep(travel)

	if err := deliverPending(a); err != nil {
		return err
	}

	zap.L().Info("exchange complete")
	return nil
}

// deliverPending drains n's mailbox, logging each delivery and flagging any
// frame that fails checksum verification.
func deliverPending(n *node.Node) error {
	if !n.HasIncoming() {
		zap.L().Info("no messages pending", zap.String("node", n.Name()))
		return nil
	}
	for n.HasIncoming() {
		d, err := n.Receive()
		if err != nil {
			return err
		}
		zap.L().Info("message received",
			zap.String("node", n.Name()),
			zap.String("from", d.From.String()),
			zap.String("text", d.Text()),
			zap.Bool("checksum_ok", d.ChecksumOK))
	}
	return nil
}
