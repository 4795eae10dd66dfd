package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadgen-cli/internal/icp"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	poolsName    string
	poolsICPPath string
	poolsUserID  string
)

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "Manage lead pools",
}

var poolsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a lead pool from a YAML ICP profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		var icpCfg *model.ICPConfig
		if poolsICPPath != "" {
			data, err := os.ReadFile(poolsICPPath)
			if err != nil {
				return eris.Wrap(err, "read icp profile")
			}
			var parsed model.ICPConfig
			if err := yaml.Unmarshal(data, &parsed); err != nil {
				return eris.Wrap(err, "parse icp profile")
			}
			icpCfg = &parsed

			insights := icp.AnalyzeICP(parsed)
			for _, w := range insights.Weaknesses {
				zap.L().Warn("icp profile weakness", zap.String("detail", w))
			}
			for _, rec := range insights.Recommendations {
				zap.L().Info("icp profile recommendation", zap.String("detail", rec))
			}
		}

		pool, err := st.CreatePool(ctx, poolsUserID, poolsName, icpCfg)
		if err != nil {
			return eris.Wrap(err, "create pool")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pool)
	},
}

var poolsShowCmd = &cobra.Command{
	Use:   "show <pool-id>",
	Short: "Show a pool and its candidate summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		pool, err := st.GetPool(ctx, args[0])
		if err != nil {
			return err
		}
		candidates, err := st.ListCandidates(ctx, store.CandidateFilter{PoolID: pool.ID})
		if err != nil {
			return eris.Wrap(err, "list candidates")
		}
		contacts, err := st.ListPoolContacts(ctx, pool.ID)
		if err != nil {
			return eris.Wrap(err, "list contacts")
		}

		out := struct {
			Pool       *model.LeadPool       `json:"pool"`
			Candidates int                   `json:"candidates"`
			Contacts   int                   `json:"contacts"`
			Top        []model.LeadCandidate `json:"top_candidates,omitempty"`
		}{Pool: pool, Candidates: len(candidates), Contacts: len(contacts)}
		if len(candidates) > 10 {
			out.Top = candidates[:10]
		} else {
			out.Top = candidates
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	poolsCreateCmd.Flags().StringVar(&poolsName, "name", "", "pool name (required)")
	poolsCreateCmd.Flags().StringVar(&poolsICPPath, "icp", "", "path to a YAML ICP profile")
	poolsCreateCmd.Flags().StringVar(&poolsUserID, "user", "cli", "user ID recorded on the pool")
	_ = poolsCreateCmd.MarkFlagRequired("name")

	poolsCmd.AddCommand(poolsCreateCmd)
	poolsCmd.AddCommand(poolsShowCmd)
	rootCmd.AddCommand(poolsCmd)
}
