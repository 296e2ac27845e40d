package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var validateSpecPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a spec file's topology and flows without simulating",
	Run: func(cmd *cobra.Command, args []string) {
		valid, err := loadSpec(validateSpecPath)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Printf("ok: %d nodes, %d flows\n", valid.Topology.NumNodes(), len(valid.Flows))
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateSpecPath, "spec", "", "Path to a YAML spec file")
	_ = validateCmd.MarkFlagRequired("spec")
}
