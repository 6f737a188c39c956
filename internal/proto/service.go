// Package proto declares the profilekeeper.UserService gRPC service. Messages
// are google.protobuf.Struct values, so no code generation is needed; the
// helpers in messages.go convert them to and from domain types.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "profilekeeper.UserService"

const (
	UserService_Login_FullMethodName         = "/profilekeeper.UserService/Login"
	UserService_Register_FullMethodName      = "/profilekeeper.UserService/Register"
	UserService_GetUser_FullMethodName       = "/profilekeeper.UserService/GetUser"
	UserService_GetProfile_FullMethodName    = "/profilekeeper.UserService/GetProfile"
	UserService_UpdateProfile_FullMethodName = "/profilekeeper.UserService/UpdateProfile"
	UserService_Ping_FullMethodName          = "/profilekeeper.UserService/Ping"
)

// UserServiceClient is the client API for UserService.
type UserServiceClient interface {
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type userServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewUserServiceClient(cc grpc.ClientConnInterface) UserServiceClient {
	return &userServiceClient{cc}
}

func (c *userServiceClient) call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *userServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, UserService_Login_FullMethodName, in, opts...)
}

func (c *userServiceClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, UserService_Register_FullMethodName, in, opts...)
}

func (c *userServiceClient) GetUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, UserService_GetUser_FullMethodName, in, opts...)
}

func (c *userServiceClient) GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, UserService_GetProfile_FullMethodName, in, opts...)
}

func (c *userServiceClient) UpdateProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, UserService_UpdateProfile_FullMethodName, in, opts...)
}

func (c *userServiceClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, UserService_Ping_FullMethodName, in, opts...)
}

// UserServiceServer is the server API for UserService. Embed
// UnimplementedUserServiceServer for forward compatibility.
type UserServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type UnimplementedUserServiceServer struct{}

func (UnimplementedUserServiceServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedUserServiceServer) Register(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedUserServiceServer) GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUser not implemented")
}
func (UnimplementedUserServiceServer) GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProfile not implemented")
}
func (UnimplementedUserServiceServer) UpdateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateProfile not implemented")
}
func (UnimplementedUserServiceServer) Ping(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserService_ServiceDesc, srv)
}

// unaryHandler adapts one UserServiceServer method to a grpc.MethodDesc handler.
func unaryHandler(fullMethod string, call func(UserServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// UserService_ServiceDesc is the grpc.ServiceDesc for UserService.
var UserService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unaryHandler(UserService_Login_FullMethodName, UserServiceServer.Login)},
		{MethodName: "Register", Handler: unaryHandler(UserService_Register_FullMethodName, UserServiceServer.Register)},
		{MethodName: "GetUser", Handler: unaryHandler(UserService_GetUser_FullMethodName, UserServiceServer.GetUser)},
		{MethodName: "GetProfile", Handler: unaryHandler(UserService_GetProfile_FullMethodName, UserServiceServer.GetProfile)},
		{MethodName: "UpdateProfile", Handler: unaryHandler(UserService_UpdateProfile_FullMethodName, UserServiceServer.UpdateProfile)},
		{MethodName: "Ping", Handler: unaryHandler(UserService_Ping_FullMethodName, UserServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "profilekeeper/user_service.proto",
}
