package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/logging"
	"github.com/smazurov/subjectlink/internal/nats"
	"github.com/smazurov/subjectlink/internal/provider"
	"github.com/spf13/cobra"
)

// CreateWatchCmd creates the watch command.
func CreateWatchCmd() *cobra.Command {
	var natsURL string
	var frames bool
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "watch [subject]",
		Short: "Print subjects published on NATS",
		Long: `Subscribes to the subject hierarchy on a NATS server, asks running publishers ` +
			`for their static data and prints every record it receives. Pass a subject name ` +
			`to print only that subject.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loggingConfig := logging.Config{Level: "info", Format: "text"}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("watch")

			var only livelink.SubjectName
			if len(args) == 1 {
				only = livelink.SubjectName(args[0])
			}

			printer := provider.NewPrinter(provider.NewMemory(), cmd.OutOrStdout(), only, frames)
			mirror := nats.NewMirror(natsURL, printer, logging.GetLogger("nats"))
			if err := mirror.Start(); err != nil {
				logger.Error("Failed to connect to NATS", "url", natsURL, "error", err)
				return err
			}
			defer mirror.Stop()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats-url", "nats://127.0.0.1:4222", "NATS server URL")
	cmd.Flags().BoolVar(&frames, "frames", false, "Print every frame, not only static data and removals")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Use JSON log format")

	return cmd
}
