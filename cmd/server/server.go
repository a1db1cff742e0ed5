package server

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"speckeeper/cmd/root"
	"speckeeper/controllers"
	"speckeeper/internal/config"
	"speckeeper/internal/env"
	"speckeeper/internal/middleware"
	"speckeeper/services"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the HTTP server",
	Long:  "Serve the spec API, watch the spec directory for changes and push metrics",
	Run: func(cmd *cobra.Command, args []string) {
		env.Daemon = true
		if err := startServer(context.Background()); err != nil {
			fmt.Println(err)
		}
	},
}

func startServer(ctx context.Context) error {
	if _, portStr, err := net.SplitHostPort(config.Config.Server.Address); err == nil {
		env.ListenPort, _ = strconv.Atoi(portStr)
	}
	if config.Config.Server.Mode != "" {
		gin.SetMode(config.Config.Server.Mode)
	}
	router := gin.Default()
	router.Use(middleware.MetricsMiddleware())

	manager := services.GetSpecManager()

	specController := controllers.NewSpecController(manager)
	specController.RegisterRoutes(router)
	apiController := controllers.NewAPIController(manager)
	apiController.RegisterRoutes(router)

	watcher := services.NewSpecWatcher(manager, config.Config.Specs.Dir)
	go func() {
		if err := watcher.Run(ctx); err != nil {
			fmt.Printf("spec watcher stopped: %v\n", err)
		}
	}()
	go services.PushMetricsLoop(ctx, config.Config.Metrics.Pushgateway)

	return router.Run(config.Config.Server.Address)
}

func init() {
	root.RootCmd.AddCommand(serverCmd)
}
