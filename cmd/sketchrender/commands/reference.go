package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankek/terraform-provider-sketch/internal/toolkit"
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Print the element format reference",
	Long:  toolkit.ReferenceToolDescription,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), toolkit.Reference())
	},
}

func init() {
	AddCommand(referenceCmd)
}
