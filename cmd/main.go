package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appID = "com.mindfulbreak.app"

type options struct {
	configPath      string
	preferencesPath string
	controlAddress  string
	logLevel        string
	headless        bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "mindfulbreak",
	Short: "Mindful Break - reminds you to step away from the screen",
	Long: `mindfulbreak runs a work/break cycle from the system tray. When a work
interval ends it asks whether you want a break and, if you do, opens a break
window with something calming to look at.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), opts)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default <user config dir>/MindfulBreak/config.json)")
	flags.StringVar(&opts.controlAddress, "control-addr", "", `control API address ("off" disables it; default: the single-instance port)`)
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides the config file)")
	rootCmd.Flags().StringVar(&opts.preferencesPath, "preferences", "", "preferences file (default <user config dir>/MindfulBreak/preferences.yaml)")
	rootCmd.Flags().BoolVar(&opts.headless, "headless", false, "run without a desktop UI; answer prompts through the control API")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(breakCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
