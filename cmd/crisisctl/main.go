// Command crisisctl runs the CrisisGuard assistants from a terminal.
//
// Usage:
//
//	crisisctl guide "there is a gas leak in my building"
//	crisisctl factcheck --type image "photo of flooded airport runway"
//	crisisctl classify "call 112 and move to the nearest shelter"
//	crisisctl quickstart
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/config"
	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/services"
)

// pipeline is the part of the assistant service the commands call.
type pipeline interface {
	CrisisGuide(ctx context.Context, message string) (*models.AssistantReply, error)
	FactCheck(ctx context.Context, message string, contentType models.ContentType) (*models.AssistantReply, error)
}

var (
	// Global flags
	verbose bool
	timeout time.Duration

	logger *zap.Logger

	// newPipeline is replaced in tests.
	newPipeline = providerPipeline
)

var rootCmd = &cobra.Command{
	Use:   "crisisctl",
	Short: "CrisisGuard assistant from the command line",
	Long: `crisisctl sends one message to the CrisisGuard crisis guide or
fact-checker and prints the reply. Provider settings come from the same
environment variables as the server (AI_PROVIDER, GEMINI_API_KEY, ARK_*).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			cfg := zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
			logger, err = cfg.Build()
		}
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// providerPipeline builds the assistant on the configured provider. The
// returned func releases the provider client.
func providerPipeline(ctx context.Context) (pipeline, func(), error) {
	ai := config.LoadAI()
	if timeout > 0 {
		ai.Timeout = timeout
	}

	gen, err := services.NewTextGenerator(ctx, ai.ProviderConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("AI provider initialization failed: %w", err)
	}
	return services.NewAssistantService(gen, nil, ai.Timeout, logger), gen.Close, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Provider timeout (default: AI_TIMEOUT_SECONDS)")

	factCheckCmd.Flags().StringVarP(&contentType, "type", "t", string(models.ContentText), "Content type: text or image")

	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(factCheckCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(quickStartCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
