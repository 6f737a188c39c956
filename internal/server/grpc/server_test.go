package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/directory"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
	pb "github.com/dmitrijs2005/profilekeeper/internal/proto"
	"github.com/dmitrijs2005/profilekeeper/internal/server/config"
	"github.com/dmitrijs2005/profilekeeper/internal/server/services"
)

func newUsers() *services.UserService {
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}
	return services.NewUserService(directory.NewSeeded(), cfg, logging.Nop())
}

// startBufconn serves s over an in-memory listener and returns a client.
func startBufconn(t *testing.T, s *GRPCServer) pb.UserServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return pb.NewUserServiceClient(conn)
}

func login(t *testing.T, c pb.UserServiceClient, username, password string) (models.User, string) {
	t.Helper()
	resp, err := c.Login(context.Background(), pb.Strings(map[string]string{
		pb.FieldUsername: username,
		pb.FieldPassword: password,
	}))
	require.NoError(t, err)
	user, err := pb.UserField(resp)
	require.NoError(t, err)
	return user, pb.String(resp, pb.FieldAccessToken)
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)
}

func TestGRPCServer_Run_StopsOnContextCancel(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:0", logging.Nop(), newUsers())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestGRPCServer_Run_BadAddress(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:99999", logging.Nop(), newUsers())
	err := s.Run(context.Background())
	assert.Error(t, err)
}

func TestGRPCServer_Ping(t *testing.T) {
	c := startBufconn(t, NewGRPCServer("", logging.Nop(), newUsers()))

	resp, err := c.Ping(context.Background(), &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, pb.StatusOK, pb.String(resp, pb.FieldStatus))
}

func TestGRPCServer_LoginAndProfile(t *testing.T) {
	c := startBufconn(t, NewGRPCServer("", logging.Nop(), newUsers()))

	user, token := login(t, c, "ivan", "password123")
	assert.Equal(t, "ivan", user.Username)
	require.NotEmpty(t, token)

	resp, err := c.GetProfile(withToken(token), &structpb.Struct{})
	require.NoError(t, err)
	profile, err := pb.UserField(resp)
	require.NoError(t, err)
	assert.Equal(t, user, profile)

	resp, err = c.GetUser(withToken(token), pb.Strings(map[string]string{pb.FieldUserID: user.ID}))
	require.NoError(t, err)
	byID, err := pb.UserField(resp)
	require.NoError(t, err)
	assert.Equal(t, user, byID)
}

func TestGRPCServer_LoginErrors(t *testing.T) {
	c := startBufconn(t, NewGRPCServer("", logging.Nop(), newUsers()))

	tests := []struct {
		name     string
		username string
		password string
		code     codes.Code
	}{
		{"wrong password", "ivan", "password999", codes.Unauthenticated},
		{"unknown user", "nobody", "password123", codes.Unauthenticated},
		{"short username", "ab", "validpass1", codes.InvalidArgument},
		{"short password", "validuser", "short", codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Login(context.Background(), pb.Strings(map[string]string{
				pb.FieldUsername: tt.username,
				pb.FieldPassword: tt.password,
			}))
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestGRPCServer_ProtectedMethodsRequireToken(t *testing.T) {
	c := startBufconn(t, NewGRPCServer("", logging.Nop(), newUsers()))

	_, err := c.GetProfile(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.GetProfile(withToken("garbage"), &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.UpdateProfile(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGRPCServer_Register(t *testing.T) {
	c := startBufconn(t, NewGRPCServer("", logging.Nop(), newUsers()))
	reg := models.Registration{Username: "newbie", Password: "secret12", Email: "n@example.com"}

	resp, err := c.Register(context.Background(), pb.RegistrationToStruct(reg))
	require.NoError(t, err)
	user, err := pb.UserField(resp)
	require.NoError(t, err)
	assert.Equal(t, "newbie", user.Username)
	assert.NotEmpty(t, user.ID)

	_, err = c.Register(context.Background(), pb.RegistrationToStruct(reg))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	logged, _ := login(t, c, "newbie", "secret12")
	assert.Equal(t, user.ID, logged.ID)
}

func TestGRPCServer_UpdateProfile(t *testing.T) {
	c := startBufconn(t, NewGRPCServer("", logging.Nop(), newUsers()))
	user, token := login(t, c, "ivan", "password123")

	user.Bio = "updated bio"
	resp, err := c.UpdateProfile(withToken(token), pb.WithUser(user, nil))
	require.NoError(t, err)
	updated, err := pb.UserField(resp)
	require.NoError(t, err)
	assert.Equal(t, "updated bio", updated.Bio)

	other, _ := login(t, c, "jane_smith", "password456")
	other.Bio = "hijack"
	_, err = c.UpdateProfile(withToken(token), pb.WithUser(other, nil))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = c.UpdateProfile(withToken(token), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
