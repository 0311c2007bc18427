package payment

import (
	"context"
	"net"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Listener is a loopback HTTP server that catches the gateway's return
// redirect after the customer finishes (or abandons) an online payment.
type Listener struct {
	addr    string
	srv     *http.Server
	results chan Result
}

func NewListener(addr string) *Listener {
	return &Listener{
		addr:    addr,
		results: make(chan Result, 1),
	}
}

func (l *Listener) Start() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.GET("/payments/vnpay-return", l.handleReturn)

	listener, err := net.Listen("tcp", l.addr)
	if err != nil {
		return err
	}

	l.srv = &http.Server{Handler: router}
	go l.srv.Serve(listener)
	return nil
}

func (l *Listener) handleReturn(c *gin.Context) {
	result := ParseReturnParams(c.Request.URL.Query())

	select {
	case l.results <- result:
	default:
	}

	if result.Success {
		c.String(http.StatusOK, "Payment recorded for order %s. You can close this window.", result.OrderID)
	} else {
		c.String(http.StatusOK, "Payment was not completed (code %s). You can close this window.", result.ResponseCode)
	}
}

// WaitForResult blocks until the gateway redirect lands or ctx expires.
func (l *Listener) WaitForResult(ctx context.Context) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-l.results:
		return &result, nil
	}
}

func (l *Listener) Shutdown(ctx context.Context) error {
	if l.srv == nil {
		return nil
	}
	return l.srv.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	allowedOrigins := []string{"http://localhost:5173"}
	if originEnv := os.Getenv("ORIGIN_URL"); originEnv != "" {
		allowedOrigins = append(allowedOrigins, originEnv)
	}

	return cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
	})
}
