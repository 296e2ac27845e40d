package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/delaynet/delaynet/linksim"
	"github.com/delaynet/delaynet/rpc"
)

var workerAddr string

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a distributed link-simulation worker",
	Run: func(cmd *cobra.Command, args []string) {
		server, err := rpc.Listen(workerAddr)
		if err != nil {
			logrus.Fatal(err)
		}
		logrus.Infof("worker listening on %s", server.Addr())

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sig
			logrus.Info("shutdown signal received, draining connections")
			server.Shutdown()
		}()

		if err := server.Serve(); err != nil {
			logrus.Fatal(err)
		}
		logrus.Info("worker stopped")
	},
}

func init() {
	workerCmd.Flags().StringVar(&workerAddr, "addr", ":8080", "TCP address to listen on")
}
