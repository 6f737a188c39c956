package remote

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/profilekeeper/internal/directory"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/server/config"
	gs "github.com/dmitrijs2005/profilekeeper/internal/server/grpc"
	"github.com/dmitrijs2005/profilekeeper/internal/server/httpserver"
	"github.com/dmitrijs2005/profilekeeper/internal/server/services"
)

func newBackend() *services.UserService {
	cfg := &config.Config{SecretKey: "remote-test", AccessTokenValidityDuration: time.Hour}
	return services.NewUserService(directory.NewSeeded(), cfg, logging.Nop())
}

func newHTTPSource(t *testing.T) *HTTPSource {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(httpserver.NewHTTPServer("", logging.Nop(), newBackend()).Handler())
	t.Cleanup(srv.Close)
	return NewHTTPSource(srv.URL+"/", 5*time.Second)
}

func newGRPCSource(t *testing.T) *GRPCSource {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = gs.NewGRPCServer("", logging.Nop(), newBackend()).Serve(ctx, lis)
	}()

	src, err := NewGRPCSource("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = src.Close()
		cancel()
		<-done
	})
	return src
}
