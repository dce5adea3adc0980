package services

import (
	"sync/atomic"
	"time"

	"module-keeper/internal/config"
	"module-keeper/internal/env"
	"module-keeper/internal/logger"
	"module-keeper/internal/models"
)

type Server struct {
	cfg       *config.AppConfig
	modules   atomic.Pointer[ModuleManager]
	startTime time.Time
}

/**
 * Create new server instance
 * @param {*config.AppConfig} cfg - Application configuration
 * @param {*ModuleManager} modules - Module manager serving the action API
 * @returns {*Server} Returns new server instance
 */
func NewServer(cfg *config.AppConfig, modules *ModuleManager) *Server {
	s := &Server{
		cfg:       cfg,
		startTime: time.Now(),
	}
	s.modules.Store(modules)
	return s
}

// Modules returns the module manager associated with this server
func (s *Server) Modules() *ModuleManager {
	return s.modules.Load()
}

// SetModules swaps the module manager, in-flight requests keep the previous one
func (s *Server) SetModules(mm *ModuleManager) {
	s.modules.Store(mm)
}

/**
 * Rebuild the module manager from a freshly loaded configuration
 * @param {*config.AppConfig} cfg - New configuration
 * @description
 * - Picks up changed repository paths, client port, logo and latest strategy
 */
func (s *Server) ReloadModules(cfg *config.AppConfig) {
	s.SetModules(OpenModuleManager(cfg))
	logger.Infof("Module repository reloaded from '%s'", cfg.Module.IndexPath())
}

/**
* Get health check response for the server
* @returns {models.HealthResponse} Returns health check response with server status and metrics
* @description
* - Calculates server uptime from start time
* - Counts installed and available modules, a repository failure degrades status to "DEGRADED"
* - Used for health check endpoint and monitoring
 */
func (s *Server) GetHealthz() models.HealthResponse {
	uptime := time.Since(s.startTime)
	status := "UP"

	installedCount := 0
	availableCount := 0
	repo := s.Modules().Repository()
	if installed, err := repo.GetInstalled(); err != nil {
		logger.Warnf("Healthz: list installed failed: %v", err)
		status = "DEGRADED"
	} else {
		installedCount = len(installed)
	}
	if available, err := repo.GetAvailable(); err != nil {
		logger.Warnf("Healthz: list available failed: %v", err)
		status = "DEGRADED"
	} else {
		availableCount = len(available)
	}

	return models.HealthResponse{
		Version:   env.Version,
		StartTime: s.startTime.Format(time.RFC3339),
		Status:    status,
		Uptime:    uptime.String(),
		Metrics: models.Metrics{
			TotalRequests:    GetTotalRequestCount(),
			ErrorRequests:    GetTotalErrorCount(),
			InstalledModules: installedCount,
			AvailableModules: availableCount,
		},
	}
}
