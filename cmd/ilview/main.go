package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "ilview [file]",
	Short:         "Render CIL method bodies as readable text",
	Long:          "Reads a JSON method description (raw instruction bytes, locals,\nprotected regions) and renders it as ILDASM-style text.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		processGlobalFlags()
		logger := newLogger()

		data, err := getInput(cmd, args)
		if err != nil {
			return err
		}
		body, err := parseMethod(data)
		if err != nil {
			return fmt.Errorf("parse input: %w", err)
		}
		logger.Debug().
			Int("code_bytes", len(body.Code)).
			Int("locals", len(body.Locals)).
			Int("regions", len(body.Regions)).
			Msg("input parsed")

		output, err := formatOutput(body, viper.GetString("output"))
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, output)
		return nil
	},
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	runID, _ := uuid.NewV4()
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", runID.String()).
		Logger()
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	rootCmd.Flags().StringP("code", "c", "", "Method description JSON to render")
	rootCmd.Flags().Bool("stdin", false, "Read the method description from stdin")
	rootCmd.Flags().StringP("output", "o", "text", "Output format (text, table, json)")
	rootCmd.Flags().Bool("no-color", false, "Disable colored output")
	rootCmd.Flags().Bool("validate", false, "Check region spans before rendering")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	viper.BindPFlags(rootCmd.Flags())
	viper.BindEnv("no-color", "NO_COLOR")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}
