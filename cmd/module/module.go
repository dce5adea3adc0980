package module

import (
	"module-keeper/cmd/root"
	"module-keeper/internal/config"
	"module-keeper/internal/rpc"
	"module-keeper/services"

	"github.com/spf13/cobra"
)

var (
	remote bool
	token  string
)

var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Module operations (list/show/require/remove etc.)",
	Long:  `Module operations against the local package repository, or against a running server with --remote`,
}

const moduleExample = `  module-keeper module list
  module-keeper module list --available
  module-keeper module show modera/foo-module
  module-keeper module require modera/foo-module --url http://admin.local
  module-keeper module require modera/foo-module --url http://admin.local --apply
  module-keeper module remove modera/foo-module --url http://admin.local --apply
  module-keeper module status --url http://admin.local
  module-keeper module list --remote --token <jwt>`

// openManager builds a module manager over the configured repository files
func openManager() *services.ModuleManager {
	cfg := config.Get()
	return services.OpenModuleManager(&cfg)
}

// actionClient talks to the module-keeper server named by server.socket or server.address
func actionClient() (*rpc.ActionClient, rpc.HTTPClient) {
	cfg := config.Get()
	httpConfig := rpc.ServerHTTPConfig(&cfg)
	httpConfig.Token = token
	client := rpc.NewHTTPClient(httpConfig)
	return rpc.NewActionClient(client), client
}

/**
 * Run an action locally or on the server
 * @param {string} action - Action name
 * @param {interface{}} params - Action params
 * @param {interface{}} out - Result pointer
 * @param {func() error} local - Local implementation filling out
 */
func runAction(action string, params interface{}, out interface{}, local func() error) error {
	if !remote {
		return local()
	}
	ac, client := actionClient()
	defer client.Close()
	return ac.Call(action, params, out)
}

func init() {
	root.RootCmd.AddCommand(moduleCmd)
	moduleCmd.PersistentFlags().BoolVarP(&remote, "remote", "r", false, "run through the module-keeper server instead of reading repository files")
	moduleCmd.PersistentFlags().StringVar(&token, "token", "", "bearer token for --remote when auth.jwt_secret is set")

	moduleCmd.Example = moduleExample
}
