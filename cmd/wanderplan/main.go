package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "wanderplan",
	Short: "wanderplan - AI trip itinerary planner",
	Long: `wanderplan turns travel preferences (destination, dates, budget, pace and
interests) into a day-by-day itinerary with a cost breakdown, generated by a
Gemini or OpenAI model.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(planCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wanderplan.yaml)")
	rootCmd.PersistentFlags().String("provider", "", "model provider: gemini or openai")
	rootCmd.PersistentFlags().String("model", "", "model name (provider default when empty)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level")

	_ = viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".wanderplan")
	}

	viper.SetEnvPrefix("WANDER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
