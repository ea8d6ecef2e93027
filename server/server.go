// server/server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"followme/internal/logger"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	addr   string
}

func NewServer(router *gin.Engine) *Server {
	return &Server{
		router: router,
	}
}

// Start 监听地址并在后台提供服务，监听失败时直接返回错误
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.addr = ln.Addr().String()
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error: %v", err)
		}
	}()

	logger.Info("Server starting on %s", s.addr)
	return nil
}

// Addr 实际监听的地址，端口为 0 时由系统分配
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) Stop(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
