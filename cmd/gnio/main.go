package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Giulio2002/gnio"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries what every command shares once flags are parsed.
type app struct {
	v   *viper.Viper
	log zerolog.Logger
}

func main() {
	if err := newCmdMain().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCmdMain() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}
	a.v.SetEnvPrefix("GNIO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "gnio",
		Short:         "Buffer and channel file I/O",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Inherited persistent flags are merged into Flags by now.
			if err := a.bind(cmd.Flags()); err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("log-format"), a.v.GetString("log-level"))
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console or json)")
	flags.Int("chunk-size", gnio.TransferSize, "Buffer size used by buffered copies and transfers")

	cmd.AddCommand(
		a.cmdCopy(),
		a.cmdScatter(),
		a.cmdAppend(),
		a.cmdCat(),
		a.cmdVersion(),
	)
	return cmd
}

// bind exposes every flag of the running command through viper, so each one
// can also come from a GNIO_* environment variable.
func (a *app) bind(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err == nil && f.Name != "help" {
			err = a.v.BindPFlag(f.Name, f)
		}
	})
	return err
}

func newLogger(w io.Writer, format, level string) (zerolog.Logger, error) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("failed to parse log level: %w", err)
	}

	switch strings.ToLower(format) {
	case "console", "plain", "text":
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				if ll, ok := i.(string); ok {
					return strings.ToUpper(ll)
				}
				return "????"
			},
		}
	case "json":
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format: %s", format)
	}

	return zerolog.New(w).Level(logLevel).With().Timestamp().Logger(), nil
}

// chunkSize returns the configured buffer size.
func (a *app) chunkSize() (int, error) {
	n := a.v.GetInt("chunk-size")
	if n <= 0 {
		return 0, fmt.Errorf("chunk size must be positive, got %d", n)
	}
	return n, nil
}

// open opens path with the shared channel options and a transfer size of
// chunk bytes.
func (a *app) open(path string, flags gnio.OpenFlag, chunk int) (*gnio.Channel, error) {
	c, err := gnio.Open(path, flags, gnio.WithLogger(a.log), gnio.WithTransferSize(chunk))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return c, nil
}
