package panel

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-panel/internal/codec"
	"github.com/oshokin/alarm-panel/internal/domain/alarm"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "alarmpanel.v1.PanelService"
	// GetPanelStateMethod is the full method name of GetPanelState.
	GetPanelStateMethod = "/" + ServiceName + "/GetPanelState"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Snapshot(ctx context.Context) alarm.Snapshot
}

// PanelServiceServer is the server API of PanelService.
type PanelServiceServer interface {
	GetPanelState(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// Server implements PanelServiceServer on top of a Service.
type Server struct {
	// service provides the current panel model.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetPanelState returns the current arming state, mode and zones.
func (s *Server) GetPanelState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	result, err := codec.ToStruct(s.service.Snapshot(ctx))
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode panel state")
	}

	return result, nil
}

// RegisterPanelServiceServer registers srv on the gRPC server.
func RegisterPanelServiceServer(registrar grpc.ServiceRegistrar, srv PanelServiceServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

// serviceDesc describes PanelService the same way generated code would.
//
//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PanelServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetPanelState",
			Handler:    getPanelStateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmpanel/v1/panel.proto",
}

func getPanelStateHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	server, ok := srv.(PanelServiceServer)
	if !ok {
		return nil, status.Error(codes.Unimplemented, "panel service is not implemented")
	}

	if interceptor == nil {
		return server.GetPanelState(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetPanelStateMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		empty, _ := req.(*emptypb.Empty)

		return server.GetPanelState(ctx, empty)
	}

	return interceptor(ctx, in, info, handler)
}
