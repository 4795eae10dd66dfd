package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

var (
	runPoolID    string
	runUserID    string
	runNoSERP    bool
	runNoCrawler bool
	runNoAgent   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Create and run a lead-gen job for a pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx, "run")
		if err != nil {
			return err
		}
		defer env.Close()

		providers := model.ProviderToggles{}
		if runNoSERP {
			off := false
			providers.SERP = &off
		}
		if runNoCrawler {
			off := false
			providers.Crawler = &off
		}
		if runNoAgent {
			off := false
			providers.AgenticAI = &off
		}

		job, err := env.Store.CreateJob(ctx, runPoolID, runUserID, providers)
		if err != nil {
			return eris.Wrap(err, "create job")
		}

		outcomes, err := env.Orchestrator.Run(ctx, job.ID)
		if err != nil {
			return eris.Wrap(err, "run job")
		}
		for _, oc := range outcomes {
			if oc.Err != nil {
				zap.L().Warn("stage finished with error",
					zap.String("stage", oc.Name),
					zap.Error(oc.Err),
				)
			}
		}

		final, err := env.Store.GetJob(ctx, job.ID)
		if err != nil {
			return eris.Wrap(err, "reload job")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(final)
	},
}

func init() {
	runCmd.Flags().StringVar(&runPoolID, "pool", "", "lead pool ID (required)")
	runCmd.Flags().StringVar(&runUserID, "user", "cli", "user ID recorded on the job")
	runCmd.Flags().BoolVar(&runNoSERP, "no-serp", false, "skip the SERP stage")
	runCmd.Flags().BoolVar(&runNoCrawler, "no-crawler", false, "skip the enrichment stage")
	runCmd.Flags().BoolVar(&runNoAgent, "no-agent", false, "disable the autonomous agent branch")
	_ = runCmd.MarkFlagRequired("pool")
	rootCmd.AddCommand(runCmd)
}
