package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "supportsim.v1.DatasetService"

// DatasetServiceServer serves the sections of a stored dataset. Every method
// takes the run id as a StringValue; an empty value selects the latest run.
type DatasetServiceServer interface {
	GetSummary(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetAgentMetrics(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	GetDepartmentMetrics(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	GetDailyVolume(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetMonthlyVolume(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// DatasetServiceDesc describes the service using well-known request and
// response types, so no generated code is involved.
var DatasetServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DatasetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("GetSummary", DatasetServiceServer.GetSummary),
		unaryMethod("GetAgentMetrics", DatasetServiceServer.GetAgentMetrics),
		unaryMethod("GetDepartmentMetrics", DatasetServiceServer.GetDepartmentMetrics),
		unaryMethod("GetDailyVolume", DatasetServiceServer.GetDailyVolume),
		unaryMethod("GetMonthlyVolume", DatasetServiceServer.GetMonthlyVolume),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "supportsim/v1/dataset.proto",
}

// RegisterDatasetServiceServer registers srv on s.
func RegisterDatasetServiceServer(s grpc.ServiceRegistrar, srv DatasetServiceServer) {
	s.RegisterService(&DatasetServiceDesc, srv)
}

func unaryMethod[Resp any](name string, call func(DatasetServiceServer, context.Context, *wrapperspb.StringValue) (Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(wrapperspb.StringValue)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DatasetServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DatasetServiceServer), ctx, req.(*wrapperspb.StringValue))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// DatasetServiceClient calls DatasetServiceServer over a connection.
type DatasetServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDatasetServiceClient(cc grpc.ClientConnInterface) *DatasetServiceClient {
	return &DatasetServiceClient{cc: cc}
}

func (c *DatasetServiceClient) GetSummary(ctx context.Context, runID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "GetSummary", runID, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DatasetServiceClient) GetAgentMetrics(ctx context.Context, runID string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.invoke(ctx, "GetAgentMetrics", runID, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DatasetServiceClient) GetDepartmentMetrics(ctx context.Context, runID string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.invoke(ctx, "GetDepartmentMetrics", runID, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DatasetServiceClient) GetDailyVolume(ctx context.Context, runID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "GetDailyVolume", runID, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DatasetServiceClient) GetMonthlyVolume(ctx context.Context, runID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "GetMonthlyVolume", runID, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DatasetServiceClient) invoke(ctx context.Context, method, runID string, out any, opts []grpc.CallOption) error {
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, wrapperspb.String(runID), out, opts...)
}
