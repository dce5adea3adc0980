package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"module-keeper/cmd/root"
	"module-keeper/controllers"
	"module-keeper/internal/config"
	"module-keeper/internal/logger"
	"module-keeper/internal/middleware"
	"module-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var listenAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动HTTP服务",
	Long:  `Serve the module action API, /healthz and /metrics on the configured address and optional unix socket`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := startServer(ctx); err != nil {
			logger.Fatal(err)
		}
	},
}

/**
 * Build the gin engine with all routes mounted
 * @param {*config.AppConfig} cfg - Application configuration
 * @param {*services.Server} server - Server state shared by the controllers
 * @returns {*gin.Engine} Engine ready to serve
 * @description
 * - /healthz and /metrics are public
 * - Action and reload routes sit behind the bearer-token middleware when auth.jwt_secret is set
 */
func NewEngine(cfg *config.AppConfig, server *services.Server) *gin.Engine {
	gin.DefaultWriter = logger.Writer()
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.MetricsMiddleware())

	apiController := controllers.NewAPIController(server)
	apiController.RegisterRoutes(router)

	secured := router.Group("/", middleware.AuthMiddleware(cfg.Auth.JWTSecret))
	controllers.NewModuleController(server).RegisterRoutes(secured)
	apiController.RegisterAdminRoutes(secured)
	return router
}

func listenAddrs(cfg *config.AppConfig) []ListenAddr {
	addrs := []ListenAddr{{Network: "tcp", Address: cfg.Server.Address}}
	if cfg.Server.Socket != "" && IsUnixSocketSupported() {
		addrs = append(addrs, ListenAddr{Network: "unix", Address: cfg.Server.Socket})
	}
	return addrs
}

func startServer(ctx context.Context) error {
	cfg := config.Get()
	if listenAddr != "" {
		cfg.Server.Address = listenAddr
	}
	gin.SetMode(cfg.Server.Mode)

	server := services.NewServer(&cfg, services.OpenModuleManager(&cfg))
	httpServer := &http.Server{Handler: NewEngine(&cfg, server)}

	listeners, err := CreateListeners(listenAddrs(&cfg))
	if len(listeners) == 0 {
		return fmt.Errorf("no listener available: %w", err)
	}
	if err != nil {
		logger.Warnf("Serving on %d of %d addresses: %v", len(listeners), len(listenAddrs(&cfg)), err)
		err = nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(listeners))
	for _, l := range listeners {
		wg.Add(1)
		go func(l net.Listener) {
			defer wg.Done()
			logger.Infof("module-keeper listening on %s://%s", l.Addr().Network(), l.Addr().String())
			if err := httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(l)
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down module-keeper")
	case err = <-errCh:
		logger.Errorf("Listener failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		logger.Errorf("Shutdown failed: %v", serr)
	}
	wg.Wait()
	if cfg.Server.Socket != "" {
		os.Remove(cfg.Server.Socket)
	}
	return err
}

func init() {
	root.RootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVarP(&listenAddr, "address", "a", "", "listen address, overrides server.address")
}
