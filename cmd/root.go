package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Zachkp/folio/internal/config"
)

var (
	cfgFile   string
	appConfig *config.Config
	v         *viper.Viper
)

// flag name -> config key
var flagKeys = map[string]string{
	"content":   "content",
	"log-level": "log_level",
	"watch":     "watch",
	"port":      "http.port",
	"mode":      "http.mode",
	"mouse":     "tui.mouse",
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Single-page portfolio with scroll-tracked navigation",
	Long: `folio serves a single-page portfolio in the browser or renders it in the
terminal. The navigation bar follows the section under the reader's eye, nav
links scroll smoothly to their section and project cards open a detail view.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("content", "", "content file (.yaml) or database (.db); embedded content when empty")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
}

func initializeConfig(cmd *cobra.Command) error {
	v = config.New(cfgFile)

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}

	cfg, err := config.Load(v, cfgFile != "")
	if err != nil {
		return err
	}
	appConfig = cfg
	return nil
}

// newLogger builds the JSON logger used by every command and makes it the
// default.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)
	return logger
}
