package tsoraclepb

import (
	"context"

	"google.golang.org/grpc"
)

// TimeOracleServiceName is the full name of the TimeOracle service
const TimeOracleServiceName = "tsoracle.TimeOracle"

// TimeOracleClient is the client API for the TimeOracle service.
type TimeOracleClient interface {
	Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	Latest(ctx context.Context, in *LatestRequest, opts ...grpc.CallOption) (*LatestResponse, error)
	LastUpdateTime(ctx context.Context, in *LastUpdateTimeRequest, opts ...grpc.CallOption) (*LastUpdateTimeResponse, error)
	IsStale(ctx context.Context, in *IsStaleRequest, opts ...grpc.CallOption) (*IsStaleResponse, error)
	IsAuthorizedUpdater(ctx context.Context, in *IsAuthorizedUpdaterRequest, opts ...grpc.CallOption) (*IsAuthorizedUpdaterResponse, error)
	Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*Empty, error)
	AddAuthorizedUpdater(ctx context.Context, in *UpdaterRequest, opts ...grpc.CallOption) (*Empty, error)
	RemoveAuthorizedUpdater(ctx context.Context, in *UpdaterRequest, opts ...grpc.CallOption) (*Empty, error)
	Pause(ctx context.Context, in *PauseRequest, opts ...grpc.CallOption) (*Empty, error)
	Unpause(ctx context.Context, in *PauseRequest, opts ...grpc.CallOption) (*Empty, error)
}

type timeOracleClient struct {
	cc grpc.ClientConnInterface
}

// NewTimeOracleClient returns a TimeOracleClient using cc. The connection
// must force Codec.
func NewTimeOracleClient(cc grpc.ClientConnInterface) TimeOracleClient {
	return &timeOracleClient{cc}
}

func (c *timeOracleClient) invoke(
	ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption,
) error {
	return c.cc.Invoke(ctx, "/"+TimeOracleServiceName+"/"+method, in, out, opts...)
}

func (c *timeOracleClient) Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	out := new(StatusResponse)
	if err := c.invoke(ctx, "Status", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeOracleClient) Latest(ctx context.Context, in *LatestRequest, opts ...grpc.CallOption) (*LatestResponse, error) {
	out := new(LatestResponse)
	if err := c.invoke(ctx, "Latest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeOracleClient) LastUpdateTime(ctx context.Context, in *LastUpdateTimeRequest, opts ...grpc.CallOption) (*LastUpdateTimeResponse, error) {
	out := new(LastUpdateTimeResponse)
	if err := c.invoke(ctx, "LastUpdateTime", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeOracleClient) IsStale(ctx context.Context, in *IsStaleRequest, opts ...grpc.CallOption) (*IsStaleResponse, error) {
	out := new(IsStaleResponse)
	if err := c.invoke(ctx, "IsStale", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeOracleClient) IsAuthorizedUpdater(ctx context.Context, in *IsAuthorizedUpdaterRequest, opts ...grpc.CallOption) (*IsAuthorizedUpdaterResponse, error) {
	out := new(IsAuthorizedUpdaterResponse)
	if err := c.invoke(ctx, "IsAuthorizedUpdater", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeOracleClient) Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "Update", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeOracleClient) AddAuthorizedUpdater(ctx context.Context, in *UpdaterRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "AddAuthorizedUpdater", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeOracleClient) RemoveAuthorizedUpdater(ctx context.Context, in *UpdaterRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "RemoveAuthorizedUpdater", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeOracleClient) Pause(ctx context.Context, in *PauseRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "Pause", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeOracleClient) Unpause(ctx context.Context, in *PauseRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "Unpause", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// TimeOracleServer is the server API for the TimeOracle service.
type TimeOracleServer interface {
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
	Latest(context.Context, *LatestRequest) (*LatestResponse, error)
	LastUpdateTime(context.Context, *LastUpdateTimeRequest) (*LastUpdateTimeResponse, error)
	IsStale(context.Context, *IsStaleRequest) (*IsStaleResponse, error)
	IsAuthorizedUpdater(context.Context, *IsAuthorizedUpdaterRequest) (*IsAuthorizedUpdaterResponse, error)
	Update(context.Context, *UpdateRequest) (*Empty, error)
	AddAuthorizedUpdater(context.Context, *UpdaterRequest) (*Empty, error)
	RemoveAuthorizedUpdater(context.Context, *UpdaterRequest) (*Empty, error)
	Pause(context.Context, *PauseRequest) (*Empty, error)
	Unpause(context.Context, *PauseRequest) (*Empty, error)
}

// RegisterTimeOracleServer registers srv on s. s must force Codec.
func RegisterTimeOracleServer(s *grpc.Server, srv TimeOracleServer) {
	s.RegisterService(&timeOracleServiceDesc, srv)
}

// methodHandler has the signature of grpc.MethodDesc.Handler
type methodHandler = func(
	srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
) (interface{}, error)

// unaryHandler builds the handler of method. newIn allocates the request and
// call invokes the server.
func unaryHandler(
	method string,
	newIn func() interface{},
	call func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error),
) methodHandler {
	fullMethod := "/" + TimeOracleServiceName + "/" + method
	return func(
		srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
	) (interface{}, error) {
		in := newIn()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TimeOracleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(TimeOracleServer), ctx, req)
		}
		return interceptor(ctx, in, info, handler)
	}
}

var timeOracleServiceDesc = grpc.ServiceDesc{
	ServiceName: TimeOracleServiceName,
	HandlerType: (*TimeOracleServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Status",
			Handler: unaryHandler("Status",
				func() interface{} { return new(StatusRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.Status(ctx, in.(*StatusRequest))
				}),
		},
		{
			MethodName: "Latest",
			Handler: unaryHandler("Latest",
				func() interface{} { return new(LatestRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.Latest(ctx, in.(*LatestRequest))
				}),
		},
		{
			MethodName: "LastUpdateTime",
			Handler: unaryHandler("LastUpdateTime",
				func() interface{} { return new(LastUpdateTimeRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.LastUpdateTime(ctx, in.(*LastUpdateTimeRequest))
				}),
		},
		{
			MethodName: "IsStale",
			Handler: unaryHandler("IsStale",
				func() interface{} { return new(IsStaleRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.IsStale(ctx, in.(*IsStaleRequest))
				}),
		},
		{
			MethodName: "IsAuthorizedUpdater",
			Handler: unaryHandler("IsAuthorizedUpdater",
				func() interface{} { return new(IsAuthorizedUpdaterRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.IsAuthorizedUpdater(ctx, in.(*IsAuthorizedUpdaterRequest))
				}),
		},
		{
			MethodName: "Update",
			Handler: unaryHandler("Update",
				func() interface{} { return new(UpdateRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.Update(ctx, in.(*UpdateRequest))
				}),
		},
		{
			MethodName: "AddAuthorizedUpdater",
			Handler: unaryHandler("AddAuthorizedUpdater",
				func() interface{} { return new(UpdaterRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.AddAuthorizedUpdater(ctx, in.(*UpdaterRequest))
				}),
		},
		{
			MethodName: "RemoveAuthorizedUpdater",
			Handler: unaryHandler("RemoveAuthorizedUpdater",
				func() interface{} { return new(UpdaterRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.RemoveAuthorizedUpdater(ctx, in.(*UpdaterRequest))
				}),
		},
		{
			MethodName: "Pause",
			Handler: unaryHandler("Pause",
				func() interface{} { return new(PauseRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.Pause(ctx, in.(*PauseRequest))
				}),
		},
		{
			MethodName: "Unpause",
			Handler: unaryHandler("Unpause",
				func() interface{} { return new(PauseRequest) },
				func(srv TimeOracleServer, ctx context.Context, in interface{}) (interface{}, error) {
					return srv.Unpause(ctx, in.(*PauseRequest))
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "time_oracle.proto",
}
