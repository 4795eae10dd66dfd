package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/icp"
	"github.com/sells-group/leadgen-cli/internal/leadgen"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var scoreLimit int

var scoreCmd = &cobra.Command{
	Use:   "score <pool-id>",
	Short: "Rescore a pool's candidates and print the ranked results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		poolID := args[0]

		if err := cfg.Validate("score"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		engine := icp.NewDefaultScorer()
		rescorer := leadgen.NewRescorer(st, engine)
		companies, contacts, err := rescorer.RescorePool(ctx, poolID)
		if err != nil {
			return eris.Wrap(err, "rescore pool")
		}
		zap.L().Info("rescore complete",
			zap.String("pool_id", poolID),
			zap.Int("companies", companies),
			zap.Int("contacts", contacts),
		)

		pool, err := st.GetPool(ctx, poolID)
		if err != nil {
			return err
		}
		profile := model.ICPConfig{}
		if pool.ICP != nil {
			profile = *pool.ICP
		}

		candidates, err := st.ListCandidates(ctx, store.CandidateFilter{PoolID: poolID})
		if err != nil {
			return eris.Wrap(err, "list candidates")
		}

		ranked := engine.RankCompanies(candidates, profile)
		if scoreLimit > 0 && len(ranked) > scoreLimit {
			ranked = ranked[:scoreLimit]
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	},
}

func init() {
	scoreCmd.Flags().IntVar(&scoreLimit, "limit", 0, "print only the top N companies (0 = all)")
	rootCmd.AddCommand(scoreCmd)
}
