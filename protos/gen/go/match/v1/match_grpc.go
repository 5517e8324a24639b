package matchv1

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

// This is a compile-time assertion to ensure that this file
// is compatible with the grpc package it is being compiled against.
const _ = grpc.SupportPackageIsVersion9

const (
	MatchService_GetMatchUpdates_FullMethodName  = "/match.MatchService/GetMatchUpdates"
	MatchService_UpdateMatchEvent_FullMethodName = "/match.MatchService/UpdateMatchEvent"
)

// MatchServiceClient is the client API for MatchService service.
type MatchServiceClient interface {
	// GetMatchUpdates streams match snapshots for one match until the server closes the stream.
	GetMatchUpdates(ctx context.Context, in *MatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MatchResponse], error)
	// UpdateMatchEvent records an admin event (goal, foul, card, status_change).
	UpdateMatchEvent(ctx context.Context, in *UpdateMatchEventRequest, opts ...grpc.CallOption) (*MatchResponse, error)
}

type matchServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchServiceClient(cc grpc.ClientConnInterface) MatchServiceClient {
	return &matchServiceClient{cc}
}

func (c *matchServiceClient) GetMatchUpdates(ctx context.Context, in *MatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MatchResponse], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod(), grpc.ForceCodec(Codec{})}, opts...)
	stream, err := c.cc.NewStream(ctx, &MatchService_ServiceDesc.Streams[0], MatchService_GetMatchUpdates_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[MatchRequest, MatchResponse]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// This type alias is provided for backwards compatibility with existing code that references the prior non-generic stream type by name.
type MatchService_GetMatchUpdatesClient = grpc.ServerStreamingClient[MatchResponse]

func (c *matchServiceClient) UpdateMatchEvent(ctx context.Context, in *UpdateMatchEventRequest, opts ...grpc.CallOption) (*MatchResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod(), grpc.ForceCodec(Codec{})}, opts...)
	out := new(MatchResponse)
	err := c.cc.Invoke(ctx, MatchService_UpdateMatchEvent_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MatchServiceServer is the server API for MatchService service.
// All implementations must embed UnimplementedMatchServiceServer
// for forward compatibility.
type MatchServiceServer interface {
	GetMatchUpdates(*MatchRequest, grpc.ServerStreamingServer[MatchResponse]) error
	UpdateMatchEvent(context.Context, *UpdateMatchEventRequest) (*MatchResponse, error)
	mustEmbedUnimplementedMatchServiceServer()
}

// UnimplementedMatchServiceServer must be embedded to have
// forward compatible implementations.
type UnimplementedMatchServiceServer struct{}

func (UnimplementedMatchServiceServer) GetMatchUpdates(*MatchRequest, grpc.ServerStreamingServer[MatchResponse]) error {
	return status.Errorf(codes.Unimplemented, "method GetMatchUpdates not implemented")
}
func (UnimplementedMatchServiceServer) UpdateMatchEvent(context.Context, *UpdateMatchEventRequest) (*MatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateMatchEvent not implemented")
}
func (UnimplementedMatchServiceServer) mustEmbedUnimplementedMatchServiceServer() {}

// This type alias is provided for backwards compatibility with existing code that references the prior non-generic stream type by name.
type MatchService_GetMatchUpdatesServer = grpc.ServerStreamingServer[MatchResponse]

func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&MatchService_ServiceDesc, srv)
}

func _MatchService_GetMatchUpdates_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(MatchRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MatchServiceServer).GetMatchUpdates(m, &grpc.GenericServerStream[MatchRequest, MatchResponse]{ServerStream: stream})
}

func _MatchService_UpdateMatchEvent_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateMatchEventRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).UpdateMatchEvent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MatchService_UpdateMatchEvent_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServiceServer).UpdateMatchEvent(ctx, req.(*UpdateMatchEventRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// MatchService_ServiceDesc is the grpc.ServiceDesc for MatchService service.
var MatchService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "match.MatchService",
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "UpdateMatchEvent",
			Handler:    _MatchService_UpdateMatchEvent_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "GetMatchUpdates",
			Handler:       _MatchService_GetMatchUpdates_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "match/v1/match.proto",
}
