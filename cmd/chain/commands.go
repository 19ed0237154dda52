package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/app"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/config"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/validator"
	"github.com/thesaherriaz/SPM-Groups-Project/pkg/utils"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Run the research blog chain from the command line",
		Long: `chain drives the same gap, question and methodology services as the
HTTP server and stores the resulting blog post in the configured database.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				utils.GetLogger().SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newRunCmd(),
		newModelsCmd(),
	)
	return cmd
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	logger := utils.GetLogger()
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		logger.SetLevel(utils.ParseLevel(cfg.LogLevel))
	}
	return cfg, logger, nil
}

func newRunCmd() *cobra.Command {
	var topic, runID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and store a blog post for a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := validator.ParseBlog(map[string]interface{}{"topic": topic, "run_id": runID})
			if err != nil {
				return err
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			result, err := application.Chain.Run(ctx, req.Topic, req.RunID)
			if err != nil {
				return err
			}

			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(result)
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Research topic")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run id for progress tracking (generated when empty)")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newModelsCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List generative models that support content generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateGemini(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			models, err := app.NewGeminiClient(cfg, logger).ListModels(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDISPLAY NAME")
			for _, model := range models {
				if model.SupportsGenerate() {
					fmt.Fprintf(w, "%s\t%s\n", model.Name, model.DisplayName)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	return cmd
}
