package misc

import (
	"encoding/json"
	"fmt"

	"module-keeper/cmd/root"
	"module-keeper/internal/config"
	"module-keeper/internal/models"
	"module-keeper/internal/rpc"
	"module-keeper/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show health of the running server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showHealth()
	},
}

type Health_Columns struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Installed int    `json:"installed"`
	Available int    `json:"available"`
	Requests  int64  `json:"requests"`
	Errors    int64  `json:"errors"`
}

func showHealth() error {
	cfg := config.Get()
	client := rpc.NewHTTPClient(rpc.ServerHTTPConfig(&cfg))
	defer client.Close()

	resp, err := client.Get("/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to reach module-keeper: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("module-keeper returned error(%d): %s", resp.StatusCode, resp.Error)
	}
	var health models.HealthResponse
	if err := json.Unmarshal(resp.Body, &health); err != nil {
		return err
	}
	row, _ := utils.StructToOrderedMap(Health_Columns{
		Status:    health.Status,
		Version:   health.Version,
		Uptime:    health.Uptime,
		Installed: health.Metrics.InstalledModules,
		Available: health.Metrics.AvailableModules,
		Requests:  health.Metrics.TotalRequests,
		Errors:    health.Metrics.ErrorRequests,
	})
	utils.PrintFormat([]*orderedmap.OrderedMap{row})
	return nil
}

func init() {
	root.RootCmd.AddCommand(healthCmd)
}
