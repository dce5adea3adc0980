package module

import (
	"fmt"

	"module-keeper/internal/models"
	"module-keeper/internal/rpc"
	"module-keeper/internal/utils"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	apply   bool
)

var requireCmd = &cobra.Command{
	Use:   "require <module id>",
	Short: "Prepare the module-client request installing the latest version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := models.TargetParams{ID: args[0], URL: baseURL}
		var resp models.RequestResponse
		err := runAction("require", params, &resp, func() (err error) {
			resp, err = openManager().BuildRequireRequest(params.ID, params.URL)
			return err
		})
		if err != nil {
			return err
		}
		return emitRequest(resp)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <module id>",
	Short: "Prepare the module-client request removing a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := models.TargetParams{ID: args[0], URL: baseURL}
		var resp models.RequestResponse
		err := runAction("remove", params, &resp, func() error {
			resp = openManager().BuildRemoveRequest(params.ID, params.URL)
			return nil
		})
		if err != nil {
			return err
		}
		return emitRequest(resp)
	},
}

/**
 * Print a prepared request and optionally forward it
 * @param {models.RequestResponse} resp - Result of require or remove
 * @description
 * - With --apply a successful request is posted to urls.call and the reply printed
 */
func emitRequest(resp models.RequestResponse) error {
	if !apply {
		return utils.PrintJSON(resp)
	}
	if !resp.Success {
		return fmt.Errorf("nothing to apply, module not found in the package index")
	}
	reply, err := rpc.NewModuleClient(nil).Call(resp.Urls, resp.Params)
	if err != nil {
		return err
	}
	fmt.Printf("Module client accepted '%s %s'\n", resp.Params.Method, resp.Params.Name)
	return utils.PrintJSON(reply)
}

func init() {
	for _, c := range []*cobra.Command{requireCmd, removeCmd} {
		c.Flags().StringVarP(&baseURL, "url", "u", "", "scheme and host of the module client, without port")
		c.Flags().BoolVar(&apply, "apply", false, "forward the request to the module client")
		c.MarkFlagRequired("url")
		moduleCmd.AddCommand(c)
	}
}
