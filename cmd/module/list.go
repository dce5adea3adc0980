package module

import (
	"fmt"

	"module-keeper/internal/models"
	"module-keeper/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var available bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed modules",
	Long:  "List installed modules with current and latest version. With --available list every module in the package index.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listModules()
	},
}

/**
 *	Fields displayed in list format
 */
type Module_Columns struct {
	ID      string  `json:"id"`
	Current *string `json:"current"`
	Latest  string  `json:"latest"`
	Update  bool    `json:"update"`
	License string  `json:"license"`
}

func listModules() error {
	action := "getInstalledModules"
	if available {
		action = "getAvailableModules"
	}
	var list []models.ModuleSummary
	err := runAction(action, nil, &list, func() (err error) {
		mm := openManager()
		if available {
			list, err = mm.ListAvailableSummaries()
		} else {
			list, err = mm.ListInstalledSummaries()
		}
		return err
	})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No modules found")
		return nil
	}

	var dataList []*orderedmap.OrderedMap
	for _, m := range list {
		row := Module_Columns{
			ID:      m.ID,
			Current: m.CurrentVersion,
			Latest:  m.LastVersion,
			Update:  m.UpdateAvailable,
		}
		for i, l := range m.License {
			if i > 0 {
				row.License += ","
			}
			row.License += l
		}
		recordMap, _ := utils.StructToOrderedMap(row)
		dataList = append(dataList, recordMap)
	}
	utils.PrintFormat(dataList)
	return nil
}

func init() {
	moduleCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&available, "available", "a", false, "list modules from the package index instead of installed ones")
}
