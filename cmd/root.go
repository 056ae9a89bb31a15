package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "careercoach",
	Short:         "AI career coach in your terminal",
	Long:          "careercoach is a terminal client for an AI tutor backend: chat with a coach, take topic quizzes, and track your progress.",
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default "+config.DefaultConfigPath()+")")
	pf.String("api", "", "Backend base URL (overrides CAREERCOACH_API_BASE_URL)")
	pf.String("user", "", "User id sent to the backend")
	pf.String("db", "", "Path to the local journal database")
	pf.String("log", "", "Path to the log file")
	pf.Bool("debug", false, "Enable debug logging")
	pf.Bool("no-splash", false, "Skip the welcome screen")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(devserverCmd)
}

// loadConfig resolves the effective configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(config.LoadOptions{
		ConfigPath: path,
		Flags:      cmd.Flags(),
	})
}
