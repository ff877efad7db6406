package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"gitlab.com/gomidi/midi/v2"

	"github.com/auricle-labs/seqtap/internal/adapters/rtseq"
	"github.com/auricle-labs/seqtap/internal/app"
	"github.com/auricle-labs/seqtap/internal/cliconfig"
	"github.com/auricle-labs/seqtap/internal/domain"
	"github.com/auricle-labs/seqtap/internal/queue"
	seqlog "github.com/auricle-labs/seqtap/pkg/log"
)

const longHelp = `seqtap registers a MIDI input port with the system sequencer, keeps it
connected to a designated sender port, and prints every incoming event.

The sender can be designated by number, by name, or a mix of both:
  28:0                  client and port number
  Launchkey:MIDI 1      client and port name
  28:MIDI 1             client number, port name
  announce              a bare port name, any client

While running, a background monitor re-establishes the connection whenever
the receiver port loses its subscriber (hot-unplug, server restart).`

var exampleUsage = `  seqtap --connect "Launchkey:MIDI 1"
  seqtap --client-name mysynth --connect 28:0
  seqtap ports`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "seqtap",
		Short:   "Receive MIDI events from the system sequencer",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			log.Info().Interface("config", cfg).Msg("configuration")
			return runListener(cmd.Context(), cfg, cfgPath, log)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: ~/.seqtap/config.toml)")
	root.Flags().StringVar(&cfg.ClientName, "client-name", cfg.ClientName, "name this session registers with the sound server")
	root.Flags().StringVar(&cfg.PortName, "port-name", cfg.PortName, "name of the receiver port")
	root.Flags().StringVar(&cfg.ConnectTo, "connect", cfg.ConnectTo, "designation of a sender port to keep connected")
	root.Flags().DurationVar(&cfg.MonitorInterval, "monitor-interval", cfg.MonitorInterval, "pause between connection-monitor ticks")
	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "how often due events are drained")
	root.Flags().IntVar(&cfg.QueueCapacity, "queue-capacity", cfg.QueueCapacity, "receiver queue capacity")
	root.Flags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")

	root.AddCommand(newPortsCommand(&cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("seqtap")
		os.Exit(1)
	}
}

// loadConfig layers file, environment and flag configuration: flags win over
// environment, environment wins over the file.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	return cfg.Validate()
}

func runListener(ctx context.Context, cfg cliconfig.Config, cfgPath string, log zerolog.Logger) error {
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	logger := seqlog.NewZerologAdapterWithLogger(log)

	seq := rtseq.New(logger)
	client := app.New(seq, queue.New(cfg.QueueCapacity, logger),
		app.WithLogger(logger),
		app.WithMonitorInterval(cfg.MonitorInterval),
	)
	defer client.Close()

	if err := client.Open(cfg.ClientName); err != nil {
		return fmt.Errorf("open client: %w", err)
	}
	if err := client.NewReceiverPort(cfg.PortName, cfg.ConnectTo); err != nil {
		return fmt.Errorf("create receiver port: %w", err)
	}
	if err := client.Activate(); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	log.Info().
		Str("client", client.ClientName()).
		Str("port", client.PortName()).
		Str("connect_to", cfg.ConnectTo).
		Msg("listening")

	// Changing connect_to in the config file retargets the monitor without
	// restarting the process. Retargeting is only legal while not running,
	// so the session bounces through idle.
	watchPath := cfgPath
	if watchPath == "" {
		watchPath = cliconfig.DefaultConfigPath()
	}
	if watchPath != "" && cliconfig.FileExists(watchPath) {
		watcher := cliconfig.NewWatcher(watchPath, func(fc cliconfig.FileConfig) {
			if fc.ConnectTo == "" || fc.ConnectTo == cfg.ConnectTo {
				return
			}
			cfg.ConnectTo = fc.ConnectTo
			client.Stop()
			if err := client.SetConnectTarget(fc.ConnectTo); err != nil {
				log.Error().Err(err).Msg("retarget failed")
				return
			}
			if err := client.Activate(); err != nil {
				log.Error().Err(err).Msg("reactivate failed")
				return
			}
			log.Info().Str("connect_to", fc.ConnectTo).Msg("monitor retargeted")
		}, logger)
		if err := watcher.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("config watcher unavailable")
		} else {
			defer watcher.Stop()
		}
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("received signal, stopping...")
			client.Stop()
			return nil
		case <-ticker.C:
			err := client.RetrieveDue(func(ev midi.Message, at time.Time) error {
				printEvent(log, ev, at)
				return nil
			})
			if err != nil {
				log.Warn().Err(err).Msg("retrieve failed")
			}
		}
	}
}

func printEvent(log zerolog.Logger, ev midi.Message, at time.Time) {
	var ch, key, vel uint8
	switch {
	case ev.GetNoteStart(&ch, &key, &vel):
		log.Info().
			Time("at", at).
			Uint8("channel", ch).
			Uint8("key", key).
			Uint8("velocity", vel).
			Msg("note on")
	case ev.GetNoteEnd(&ch, &key):
		log.Info().
			Time("at", at).
			Uint8("channel", ch).
			Uint8("key", key).
			Msg("note off")
	default:
		log.Info().
			Time("at", at).
			Str("event", ev.String()).
			Msg("midi")
	}
}

// newPortsCommand lists every port known to the sequencer service.
func newPortsCommand(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List sequencer ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := seqlog.NewZerologAdapterWithLogger(cliconfig.Logger())
			seq := rtseq.New(logger)
			if _, err := seq.Open(cfg.ClientName); err != nil {
				return err
			}
			defer seq.Close()

			infos, err := seq.Ports()
			if err != nil {
				return err
			}
			for _, p := range infos {
				dir := "out"
				if p.Caps.Fulfills(domain.CapWrite) {
					dir = "in"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-3s %s : %s\n", p.ID, dir, p.ClientName, p.PortName)
			}
			return nil
		},
	}
}
