package module

import (
	"module-keeper/internal/models"
	"module-keeper/internal/utils"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <module id>",
	Short: "Acknowledge a finished install or removal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp models.CheckResponse
		err := runAction("check", models.ModuleParams{ID: args[0]}, &resp, func() error {
			resp = openManager().BuildCheckResponse(args[0])
			return nil
		})
		if err != nil {
			return err
		}
		return utils.PrintJSON(resp)
	},
}

func init() {
	moduleCmd.AddCommand(checkCmd)
}
