package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "restaurant-console",
		Short:         "Reservation lifecycle and calendar service for restaurant staff",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newPurgeScanCmd())

	return root
}
