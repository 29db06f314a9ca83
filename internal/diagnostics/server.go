// Package diagnostics carries the plugin's introspection surface: a
// loopback-only gin router exposing liveness, connection status and
// Prometheus metrics. It is not part of the plugin<->FSM protocol and
// never affects plugin behavior.
package diagnostics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chainkit/sendplugin/internal/engine"
	"github.com/chainkit/sendplugin/internal/ptypes"
)

// EnvAddr is the environment variable controlling where the diagnostics
// server binds. Empty or unset means the ephemeral loopback default.
const EnvAddr = "DIAGNOSTICS_ADDR"

// DefaultAddr binds to an OS-assigned loopback port so the server never
// competes with the Unix socket for any operator-facing authority.
const DefaultAddr = "127.0.0.1:0"

// StatusSource is the narrow slice of the protocol engine the /status
// handler needs.
type StatusSource interface {
	Snapshot() engine.Snapshot
	QueryFeePool(ctx context.Context) (*ptypes.Pool, *ptypes.ProtoError)
}

type Server struct {
	router    *gin.Engine
	http      *http.Server
	startedAt time.Time
}

func New(addr string, source StatusSource, corsOrigins ...string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	s := &Server{router: r, startedAt: time.Now()}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.startedAt).String(),
			"service": "sendplugin",
		})
	})
	r.GET("/status", func(c *gin.Context) {
		snap := source.Snapshot()
		body := gin.H{
			"connectionState": snap.State,
			"pendingRequests": snap.PendingRequests,
			"lastReconnectAt": snap.LastReconnectAt,
		}
		if snap.State == "ready" {
			if pool, protoErr := source.QueryFeePool(c.Request.Context()); protoErr == nil {
				body["feePoolId"] = pool.ID
				body["feePoolAmount"] = pool.Amount
			}
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.http = &http.Server{Addr: addr, Handler: r}
	return s
}

// Start listens on the configured address and serves in the background.
// It returns the actual bound address (useful when the port is
// ephemeral) or an error if the listener could not be created.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return "", err
	}
	go func() {
		_ = s.http.Serve(ln)
	}()
	return ln.Addr().String(), nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
