package module

import (
	"fmt"

	"module-keeper/internal/models"
	"module-keeper/internal/utils"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <module id>",
	Short: "Show module details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showModule(args[0])
	},
}

func showModule(id string) error {
	var detail *models.ModuleDetail
	err := runAction("getModuleDetails", models.ModuleParams{ID: id}, &detail, func() (err error) {
		detail, err = openManager().ResolvePackageDetail(id)
		return err
	})
	if err != nil {
		return err
	}
	if detail == nil {
		return fmt.Errorf("module '%s' not found", id)
	}
	return utils.PrintJSON(detail)
}

func init() {
	moduleCmd.AddCommand(showCmd)
}
