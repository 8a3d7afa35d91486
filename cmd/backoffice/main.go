// Command backoffice runs the freight brokerage back-office API.
//
// @title                       Freight back-office API
// @version                     1.0
// @description                 Orders, dispatch, fee ledger and company roster for a freight brokerage.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Freight brokerage back office",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(newServeCmd(), newSettleCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "backoffice:", err)
		os.Exit(1)
	}
}
