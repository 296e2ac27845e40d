package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/delaynet/delaynet"
	_ "github.com/delaynet/delaynet/linksim"
	"github.com/delaynet/delaynet/rpc"
)

var (
	runSpecPath   string
	runLinkSim    string
	runWorkers    string
	runSeed       int64
	runBucketX    float64
	runBucketB    int
	runQuerySize  uint64
	runQuerySrc   int
	runQueryDst   int
	runHasQuery   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a delay network from a spec file and optionally query it",
	Run: func(cmd *cobra.Command, args []string) {
		valid, err := loadSpec(runSpecPath)
		if err != nil {
			logrus.Fatal(err)
		}

		sim, err := delaynet.NewLinkSim(runLinkSim, nil)
		if err != nil {
			logrus.Fatal(err)
		}

		opts := delaynet.SimOpts{
			LinkSim:       sim,
			LinkSimName:   runLinkSim,
			Clustering:    delaynet.IdentityClustering{},
			Bucket:        delaynet.BucketOpts{X: runBucketX, B: runBucketB},
			RNG:           delaynet.NewPartitionedRNG(delaynet.NewSimulationKey(runSeed)),
		}

		if runWorkers != "" {
			opts.WorkerAddrs = strings.Split(runWorkers, ",")
			opts.Dispatcher = rpc.Client{}
			opts.LinkSim = nil
		}

		logrus.Infof("building delay network from %s (link sim %q)", runSpecPath, runLinkSim)
		dn, err := delaynet.Run(valid, delaynet.RunOpts{Sim: opts})
		if err != nil {
			logrus.Fatalf("orchestration failed: %v", err)
		}
		logrus.Info("delay network built")

		if runHasQuery {
			rng := delaynet.NewPartitionedRNG(delaynet.NewSimulationKey(runSeed)).ForSubsystem(delaynet.SubsystemQuery)
			src, dst := delaynet.NodeId(runQuerySrc), delaynet.NodeId(runQueryDst)
			size := delaynet.Bytes(runQuerySize)
			delay, ok := dn.Predict(size, src, dst, rng)
			if !ok {
				logrus.Fatalf("no prediction available for size=%d %s->%s", size, src, dst)
			}
			ideal, _ := dn.IdealFct(size, src, dst, rng)
			slowdown, _ := dn.Slowdown(size, src, dst, rng)
			fmt.Printf("predict=%s ideal_fct=%s slowdown=%.4f\n", delay, ideal, slowdown)
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&runSpecPath, "spec", "", "Path to a YAML spec file")
	runCmd.Flags().StringVar(&runLinkSim, "link-sim", "fifo", "Registered link simulator name")
	runCmd.Flags().StringVar(&runWorkers, "workers", "", "Comma-separated remote worker addresses (distributed mode); empty means local mode")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Master simulation seed")
	runCmd.Flags().Float64Var(&runBucketX, "bucket-x", delaynet.DefaultBucketFactor, "Size-bucketing ratio threshold")
	runCmd.Flags().IntVar(&runBucketB, "bucket-b", delaynet.DefaultBucketMinSize, "Size-bucketing minimum bucket length")
	runCmd.Flags().Uint64Var(&runQuerySize, "query-size", 0, "If set with --query-src/--query-dst, print a prediction for this flow size")
	runCmd.Flags().IntVar(&runQuerySrc, "query-src", -1, "Query source node ID")
	runCmd.Flags().IntVar(&runQueryDst, "query-dst", -1, "Query destination node ID")
	_ = runCmd.MarkFlagRequired("spec")

	runCmd.PreRun = func(cmd *cobra.Command, args []string) {
		runHasQuery = cmd.Flags().Changed("query-size")
	}
}
