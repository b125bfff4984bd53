package cli

import (
	"github.com/spf13/cobra"
)

var rootCtx struct {
	configFile string
}

// RootCmd is the main command which contains all the tsoracle subcommands
var RootCmd = &cobra.Command{
	Use:   "tsoracle",
	Short: "tsoracle time oracle",
	Long: `
tsoracle keeps a single authoritative timestamp which authorized updaters push
forward and anyone can read.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(
		&rootCtx.configFile,
		"config",
		"",
		"Config file holding flag values. Flags can also be set through "+envPrefix+"_<FLAG> "+
			"environment variables",
	)

	updaterCmd.AddCommand(updaterAddCmd, updaterRemoveCmd, updaterCheckCmd)
	RootCmd.AddCommand(
		startCmd,
		statusCmd,
		timeCmd,
		staleCmd,
		updateCmd,
		updaterCmd,
		pauseCmd,
		unpauseCmd,
		eventsCmd,
	)
}
