package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hennessytj/recdec/descent"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "recdec [file]",
	Short: "Recursive-descent validator for a toy imperative grammar",
	Long: "recdec reads a program from a file (or stdin when no file or \"-\" is given), " +
		"validates it against the fixed block/assign/if/while grammar and reports the number " +
		"of assignments and variable references. The first syntax error stops the run with a " +
		"status code naming the violated production.",
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: checkSettings,
	RunE:              runCheck,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: .recdec.{yaml,toml,json} in the working or home directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Trace grammar rules as they are tried")
	rootCmd.PersistentFlags().Bool("echo", false, "Echo each source line as it is read")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "Report format: text, json or yaml")
	rootCmd.PersistentFlags().Bool("color", false, "Colour text reports when the terminal supports it")
	rootCmd.PersistentFlags().Bool("nested-expr", false, "Accept nested expressions as operands of + and *")
	rootCmd.PersistentFlags().Int("max-token-length", descent.DefaultMaxTokenLength, "Longest accepted lexeme in bytes")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("echo", rootCmd.PersistentFlags().Lookup("echo"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("nested_expr", rootCmd.PersistentFlags().Lookup("nested-expr"))
	_ = viper.BindPFlag("max_token_length", rootCmd.PersistentFlags().Lookup("max-token-length"))
}

func initConfig() {
	viper.SetEnvPrefix("RECDEC")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".recdec")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config: %w", err)
		}
	}
}

// settings is the resolved configuration for one command run.
type settings struct {
	Verbose        bool
	Debug          bool
	Echo           bool
	Format         string
	Color          bool
	NestedExpr     bool
	MaxTokenLength int
	HistoryFile    string
}

func loadSettings() settings {
	return settings{
		Verbose:        viper.GetBool("verbose"),
		Debug:          viper.GetBool("debug"),
		Echo:           viper.GetBool("echo"),
		Format:         strings.ToLower(viper.GetString("format")),
		Color:          viper.GetBool("color"),
		NestedExpr:     viper.GetBool("nested_expr"),
		MaxTokenLength: viper.GetInt("max_token_length"),
		HistoryFile:    viper.GetString("history_file"),
	}
}

func (s settings) options() descent.Options {
	return descent.Options{
		NestedExpr:     s.NestedExpr,
		MaxTokenLength: s.MaxTokenLength,
	}
}

func (s settings) validate() error {
	switch s.Format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown report format %q (want text, json or yaml)", s.Format)
	}
	if s.MaxTokenLength < 1 {
		return fmt.Errorf("max token length must be positive, got %d", s.MaxTokenLength)
	}
	return nil
}

func checkSettings(_ *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}
	return loadSettings().validate()
}
