package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mezonai/forktips/branch"
	"github.com/mezonai/forktips/config"
	"github.com/mezonai/forktips/events"
	"github.com/mezonai/forktips/exception"
	"github.com/mezonai/forktips/jsonx"
	"github.com/mezonai/forktips/logx"
	"github.com/mezonai/forktips/mem_blockstore"
	"github.com/mezonai/forktips/monitoring"
	"github.com/mezonai/forktips/replay"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	replayChainPath  string
	replayConfigPath string
	replayConcurrent bool
	replayProduceOn  string
	replayProduceN   int
	replayLeader     string
	replayHold       bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Feed a block tree into a fresh registry and print the tracked tips",
	Long: `Replay loads a chain file describing a tree of blocks, offers every block to a
new registry (parents before children) and prints the resulting tips as JSON.

With --produce, the branch headed by the named block is then advanced directly
through its handle, the way a block producer extends its own branch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runReplay(ctx, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&replayChainPath, "chain", config.DefaultChainPath, "Path to the chain file")
	replayCmd.Flags().StringVar(&replayConfigPath, "config", config.DefaultConfigPath, "Path to config.ini")
	replayCmd.Flags().BoolVar(&replayConcurrent, "concurrent", false, "Offer blocks of the same depth concurrently")
	replayCmd.Flags().StringVar(&replayProduceOn, "produce", "", "Name of a tip to extend directly after the replay")
	replayCmd.Flags().IntVar(&replayProduceN, "count", 3, "Number of blocks to produce with --produce")
	replayCmd.Flags().StringVar(&replayLeader, "leader", "local", "Leader ID stamped on produced blocks")
	replayCmd.Flags().BoolVar(&replayHold, "hold", false, "Keep serving metrics until interrupted")
}

func runReplay(ctx context.Context, out io.Writer) error {
	cfg, err := config.LoadNodeConfig(replayConfigPath)
	if err != nil {
		return err
	}
	chain, err := config.LoadChainConfig(replayChainPath)
	if err != nil {
		return err
	}

	monitoring.InitMetrics()
	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics.ListenAddr)
	}

	eventBus := events.NewEventBusWithBuffer(cfg.Events.BufferSize)
	subID, eventCh := eventBus.Subscribe()
	exception.SafeGo("replay-event-log", func() {
		for ev := range eventCh {
			logx.Debug("REPLAY", fmt.Sprintf("Event %s | tip=%s", ev.Type(), ev.TipHash().Short()))
		}
	})
	defer eventBus.Unsubscribe(subID)

	registry := branch.NewRegistry(eventBus, cfg.Registry.BranchConfig())
	replayer, err := replay.New(registry, mem_blockstore.NewMemBlockStore(), chain, time.Now())
	if err != nil {
		return err
	}
	if err := replayer.Run(ctx, replayConcurrent); err != nil {
		return err
	}
	if replayProduceOn != "" {
		if _, err := replayer.Produce(ctx, replayProduceOn, replayLeader, replayProduceN); err != nil {
			return err
		}
	}

	if err := jsonx.WriteIndented(out, replayer.Tips()); err != nil {
		return errors.Wrap(err, "write tips")
	}

	if replayHold && cfg.Metrics.Enabled {
		logx.Info("CMD", "Holding for metrics scrapes, interrupt to exit")
		<-ctx.Done()
	}
	return nil
}

func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	monitoring.RegisterMetrics(mux)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	exception.SafeGoWithPanic("metrics-server", func() {
		logx.Info("CMD", fmt.Sprintf("Serving metrics on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("CMD", "Metrics server stopped:", err)
		}
	})
}
