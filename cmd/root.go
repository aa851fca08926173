package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/playtime/minecraft-bootstrap/bootstrap"
	"github.com/playtime/minecraft-bootstrap/core"
)

var cfgFile string

// parsed is set once flags and arguments were accepted and a command is about to
// run. Errors returned before that point are usage errors.
var parsed bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "minecraft-bootstrap",
	Short:         "Prepare a Minecraft server directory from vanilla, a server pack or a CurseForge modpack",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogging(); err != nil {
			return usageError{err}
		}
		if err := initConfig(); err != nil {
			return usageError{err}
		}
		parsed = true
		return nil
	},
}

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	error
}

func (e usageError) Unwrap() error {
	return e.error
}

// Execute runs the root command and exits the process with the status code
// matching the outcome: 0 on success, 2 for usage errors and unimplemented
// features, 1 for everything else.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return 0
	case !parsed, errors.As(err, &ue), errors.Is(err, bootstrap.ErrNotImplemented):
		return 2
	}
	return 1
}

// underscoreToDash lets --accept_eula and --accept-eula name the same flag.
func underscoreToDash(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(underscoreToDash)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("user-agent", core.UserAgent, "User agent sent with every HTTP request")
	_ = viper.BindPFlag("user-agent", rootCmd.PersistentFlags().Lookup("user-agent"))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file holding install options (TOML, YAML or JSON)")
}

func initLogging() error {
	log.SetHandler(cli.New(os.Stderr))
	lvl, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return errors.WrapIf(err, "invalid --log-level")
	}
	log.SetLevel(lvl)
	return nil
}

// initConfig reads in the config file if one was given.
func initConfig() error {
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return errors.WrapIff(err, "failed to read config file %s", cfgFile)
	}
	log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	return nil
}

// newFetcher builds the HTTP fetcher for a run writing into destination.
func newFetcher(destination string) *core.Fetcher {
	s := core.DefaultSettings()
	if ua := viper.GetString("user-agent"); ua != "" {
		s.UserAgent = ua
	}
	return core.NewFetcher(s,
		core.WithProgress(core.NewProgressReporter(os.Stderr)),
		core.WithChunkSize(core.BlockSize(destination)),
	)
}

func run(ctx context.Context, cfg bootstrap.Config) error {
	res, err := bootstrap.New(newFetcher(cfg.Destination)).Run(ctx, cfg)
	if err != nil {
		return err
	}
	if res.Skipped {
		log.WithField("destination", res.Destination).Info("installation exists, nothing to do")
	}
	return nil
}
