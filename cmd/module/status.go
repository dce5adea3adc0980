package module

import (
	"module-keeper/internal/rpc"
	"module-keeper/internal/utils"

	"github.com/spf13/cobra"
)

var statusURL string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the progress endpoint of the module client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		urls := openManager().RemoteUrls(statusURL)
		reply, err := rpc.NewModuleClient(nil).Status(urls)
		if err != nil {
			return err
		}
		return utils.PrintJSON(reply)
	},
}

func init() {
	moduleCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusURL, "url", "u", "", "scheme and host of the module client, without port")
	statusCmd.MarkFlagRequired("url")
}
