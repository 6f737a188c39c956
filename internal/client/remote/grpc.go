package remote

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
	pb "github.com/dmitrijs2005/profilekeeper/internal/proto"
)

// GRPCSource talks to the backend UserService over gRPC.
type GRPCSource struct {
	tokenHolder
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.UserServiceClient
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCSource) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.AccessToken(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCSource creates the client. The connection is established lazily on
// the first call.
func NewGRPCSource(endpointURL string, opts ...grpc.DialOption) (*GRPCSource, error) {
	s := &GRPCSource{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.client = pb.NewUserServiceClient(conn)
	return s, nil
}

func (s *GRPCSource) Close() error {
	return s.conn.Close()
}

// FindByCredentials logs in and keeps the issued access token.
func (s *GRPCSource) FindByCredentials(ctx context.Context, username, password string) (models.User, error) {
	resp, err := s.client.Login(ctx, pb.Strings(map[string]string{
		pb.FieldUsername: username,
		pb.FieldPassword: password,
	}))
	if err != nil {
		return models.User{}, s.mapError(err)
	}

	user, err := pb.UserField(resp)
	if err != nil {
		return models.User{}, fmt.Errorf("decode login response: %w", err)
	}
	s.SetAccessToken(pb.String(resp, pb.FieldAccessToken))
	return user, nil
}

func (s *GRPCSource) FindByID(ctx context.Context, id string) (models.User, error) {
	resp, err := s.client.GetUser(ctx, pb.Strings(map[string]string{pb.FieldUserID: id}))
	if err != nil {
		return models.User{}, s.mapError(err)
	}
	return pb.UserField(resp)
}

func (s *GRPCSource) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	resp, err := s.client.Register(ctx, pb.RegistrationToStruct(reg))
	if err != nil {
		return models.User{}, s.mapError(err)
	}
	return pb.UserField(resp)
}

func (s *GRPCSource) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	resp, err := s.client.UpdateProfile(ctx, pb.WithUser(user, nil))
	if err != nil {
		return models.User{}, s.mapError(err)
	}
	return pb.UserField(resp)
}

func (s *GRPCSource) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &structpb.Struct{})
	if err != nil {
		return s.mapError(err)
	}
	if pb.String(resp, pb.FieldStatus) != pb.StatusOK {
		return common.ErrUnavailable
	}
	return nil
}

func (s *GRPCSource) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.InvalidArgument:
		return invalidInput(st.Message())
	case codes.Unauthenticated:
		if st.Message() == common.ErrAuthenticationFailed.Error() {
			return common.ErrAuthenticationFailed
		}
		return common.ErrUnauthorized
	case codes.PermissionDenied:
		return common.ErrUnauthorized
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.AlreadyExists:
		return common.ErrDuplicateUsername
	case codes.Canceled:
		return context.Canceled
	case codes.Unavailable, codes.DeadlineExceeded:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
