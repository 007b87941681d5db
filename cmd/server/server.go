package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"toolkit-keeper/cmd/root"
	"toolkit-keeper/controllers"
	"toolkit-keeper/internal/config"
	"toolkit-keeper/internal/env"
	"toolkit-keeper/internal/logger"
	"toolkit-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动服务运行时守护进程",
	Long:  `加载工具包配置，驱动帧循环，并在 TCP 和 Unix socket 上提供 HTTP 接口`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return startServer(ctx, &config.Config)
	},
}

/**
 * Run daemon until ctx is cancelled
 * @param {context.Context} ctx - Cancelled on SIGINT/SIGTERM
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {error} Listener error if no listener could be created
 * @description
 * - A profile that fails to load leaves the runtime uninitialized; reload fixes it later
 * - HTTP servers are shut down before the frame loop tears the toolkit down
 */
func startServer(ctx context.Context, cfg *config.AppConfig) error {
	gin.SetMode(cfg.Server.Mode)
	server := services.NewDefaultServer(cfg)
	if err := server.Init(); err != nil {
		logger.Errorf("Toolkit not initialized: %v", err)
	}
	if err := server.StartWatching(); err != nil {
		logger.Warnf("Profile watching disabled: %v", err)
	}

	listeners, err := CreateListeners(listenAddrs(cfg))
	if len(listeners) == 0 {
		return err
	}

	router := controllers.NewRouter(server, cfg)
	httpServer := &http.Server{Handler: router}
	for _, l := range listeners {
		logger.Infof("Listening on %s://%s", l.Addr().Network(), l.Addr())
		go func(l net.Listener) {
			if err := httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("HTTP server on %s stopped: %v", l.Addr(), err)
			}
		}(l)
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() { loopDone <- server.Run(loopCtx) }()

	<-ctx.Done()
	logger.Info("Shutting down toolkit-keeper")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP shutdown failed: %v", err)
	}
	stopLoop()
	return <-loopDone
}

func listenAddrs(cfg *config.AppConfig) []ListenAddr {
	addrs := []ListenAddr{{Network: "tcp", Address: cfg.Server.Address}}
	if !IsUnixSocketSupported() {
		return addrs
	}
	socket := cfg.Server.Socket
	if socket == "" {
		socket = env.SocketPath()
	}
	if err := os.MkdirAll(filepath.Dir(socket), 0o755); err != nil {
		logger.Warnf("Unix socket disabled: %v", err)
		return addrs
	}
	return append(addrs, ListenAddr{Network: "unix", Address: socket})
}

func init() {
	root.RootCmd.AddCommand(serverCmd)
	serverCmd.Example = `  toolkit-keeper server -c ./config.yaml`
}
