package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"aoba/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg     *config.Config
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "aoba",
	Short: "Discord bot with per-guild prefixes and custom commands",
	Long: `aoba connects to Discord and answers prefixed text commands.

Guild prefixes, custom commands and user balances are stored in PostgreSQL.
Run without a subcommand to start the bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}

		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded

		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		log.SetLevel(cfg.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCmd.RunE(cmd, args)
	},
}

func init() {
	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file instead of .env")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL")
	cobra.CheckErr(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("database-url")))

	rootCmd.AddCommand(runCmd, migrateCmd)
}

// Execute runs the root command until it returns or the process is signalled
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("Command failed")
		stop()
		os.Exit(1)
	}
}
