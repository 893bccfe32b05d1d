package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "empath",
	Short: "Conversational intake server for reporting sensitive incidents",
	Long: `Empath runs a turn-by-turn conversational intake service for reporting
sensitive incidents. Every message is safety-routed before anything else
happens, structured facts are collected opportunistically, and each reply
blends warm free-form text with at most one follow-up question.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".empath.yml", "config file path")
}
