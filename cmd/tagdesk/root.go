package main

import (
	"tagdesk/internal/config"
	"tagdesk/internal/log"
	"tagdesk/internal/tagstore"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tagdesk",
		Short: "Edit the tags of image folders",
		Long: `tagdesk edits the comma separated tag files kept next to images
(cat.png -> cat.txt), one image at a time or for a whole folder,
with optional AI taggers to suggest new tags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDebug(debug)

			var configErr error
			if cfgFile != "" {
				cfg, configErr = config.LoadConfigFile(cfgFile)
			} else {
				cfg, configErr = config.LoadConfig()
			}

			if configErr != nil {
				log.LogWithError(configErr).Warn("Using default settings")
				cfg = config.New()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/tagdesk/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewTagsCmd())
	rootCmd.AddCommand(NewBatchCmd())
	rootCmd.AddCommand(NewAutotagCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewLayoutCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewGUICmd())

	return rootCmd
}

// newStore returns a tag store for the loaded configuration
func newStore() *tagstore.Store {
	return tagstore.NewWithConfig(cfg)
}

// folderArg returns the folder named on the command line, or the
// configured default
func folderArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg != nil && cfg.Directories.Default != "" {
		return cfg.Directories.Default
	}
	return "."
}
