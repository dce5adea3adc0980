package misc

import (
	"fmt"

	"module-keeper/cmd/root"
	"module-keeper/internal/config"
	"module-keeper/internal/rpc"

	"github.com/spf13/cobra"
)

var reloadToken string

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload server configuration",
	Long:  `Reload server configuration by calling the reload API of the running module-keeper server`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reloadServerConfig()
	},
}

/**
 * Reload server configuration via the admin API
 * @returns {error} Connection errors or the error reported by the server
 * @description
 * - Calls POST /backend/module/api/v1/reload over server.socket when present, TCP otherwise
 */
func reloadServerConfig() error {
	cfg := config.Get()
	httpConfig := rpc.ServerHTTPConfig(&cfg)
	httpConfig.Token = reloadToken
	rpcClient := rpc.NewHTTPClient(httpConfig)
	defer rpcClient.Close()

	resp, err := rpcClient.Post("/backend/module/api/v1/reload", nil)
	if err != nil {
		return fmt.Errorf("failed to call module-keeper API: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("module-keeper API returned error(%d): %s", resp.StatusCode, resp.Error)
	}
	fmt.Printf("Successfully reloaded server configuration, status code: %d\n", resp.StatusCode)
	return nil
}

func init() {
	root.RootCmd.AddCommand(reloadCmd)
	reloadCmd.Flags().StringVar(&reloadToken, "token", "", "bearer token when auth.jwt_secret is set")
}
