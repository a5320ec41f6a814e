package otc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified OTC service name.
const ServiceName = "otc.v1.OTCService"

const (
	OTCService_Instantiate_FullMethodName   = "/otc.v1.OTCService/Instantiate"
	OTCService_CreateDeal_FullMethodName    = "/otc.v1.OTCService/CreateDeal"
	OTCService_AcceptDeal_FullMethodName    = "/otc.v1.OTCService/AcceptDeal"
	OTCService_CancelDeal_FullMethodName    = "/otc.v1.OTCService/CancelDeal"
	OTCService_Withdraw_FullMethodName      = "/otc.v1.OTCService/Withdraw"
	OTCService_GetConfig_FullMethodName     = "/otc.v1.OTCService/GetConfig"
	OTCService_GetDeal_FullMethodName       = "/otc.v1.OTCService/GetDeal"
	OTCService_ListDeals_FullMethodName     = "/otc.v1.OTCService/ListDeals"
	OTCService_ListTransfers_FullMethodName = "/otc.v1.OTCService/ListTransfers"
)

// OTCServiceServer is the server API for OTCService.
type OTCServiceServer interface {
	Instantiate(context.Context, *InstantiateRequest) (*InstantiateResponse, error)
	CreateDeal(context.Context, *CreateDealRequest) (*ExecuteResponse, error)
	AcceptDeal(context.Context, *AcceptDealRequest) (*ExecuteResponse, error)
	CancelDeal(context.Context, *CancelDealRequest) (*ExecuteResponse, error)
	Withdraw(context.Context, *WithdrawRequest) (*ExecuteResponse, error)
	GetConfig(context.Context, *GetConfigRequest) (*GetConfigResponse, error)
	GetDeal(context.Context, *GetDealRequest) (*GetDealResponse, error)
	ListDeals(context.Context, *ListDealsRequest) (*ListDealsResponse, error)
	ListTransfers(context.Context, *ListTransfersRequest) (*ListTransfersResponse, error)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(OTCServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OTCServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(OTCServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// OTCService_ServiceDesc is the grpc.ServiceDesc for OTCService.
var OTCService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OTCServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Instantiate", Handler: unaryHandler(OTCService_Instantiate_FullMethodName, OTCServiceServer.Instantiate)},
		{MethodName: "CreateDeal", Handler: unaryHandler(OTCService_CreateDeal_FullMethodName, OTCServiceServer.CreateDeal)},
		{MethodName: "AcceptDeal", Handler: unaryHandler(OTCService_AcceptDeal_FullMethodName, OTCServiceServer.AcceptDeal)},
		{MethodName: "CancelDeal", Handler: unaryHandler(OTCService_CancelDeal_FullMethodName, OTCServiceServer.CancelDeal)},
		{MethodName: "Withdraw", Handler: unaryHandler(OTCService_Withdraw_FullMethodName, OTCServiceServer.Withdraw)},
		{MethodName: "GetConfig", Handler: unaryHandler(OTCService_GetConfig_FullMethodName, OTCServiceServer.GetConfig)},
		{MethodName: "GetDeal", Handler: unaryHandler(OTCService_GetDeal_FullMethodName, OTCServiceServer.GetDeal)},
		{MethodName: "ListDeals", Handler: unaryHandler(OTCService_ListDeals_FullMethodName, OTCServiceServer.ListDeals)},
		{MethodName: "ListTransfers", Handler: unaryHandler(OTCService_ListTransfers_FullMethodName, OTCServiceServer.ListTransfers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "otc/v1/otc.json",
}

// RegisterOTCServiceServer registers srv on s.
func RegisterOTCServiceServer(s grpc.ServiceRegistrar, srv OTCServiceServer) {
	s.RegisterService(&OTCService_ServiceDesc, srv)
}

// OTCServiceClient is the client API for OTCService.
type OTCServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOTCServiceClient returns a client over cc. Calls use the JSON codec.
func NewOTCServiceClient(cc grpc.ClientConnInterface) *OTCServiceClient {
	return &OTCServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OTCServiceClient) Instantiate(ctx context.Context, in *InstantiateRequest, opts ...grpc.CallOption) (*InstantiateResponse, error) {
	return invoke[InstantiateResponse](ctx, c.cc, OTCService_Instantiate_FullMethodName, in, opts)
}

func (c *OTCServiceClient) CreateDeal(ctx context.Context, in *CreateDealRequest, opts ...grpc.CallOption) (*ExecuteResponse, error) {
	return invoke[ExecuteResponse](ctx, c.cc, OTCService_CreateDeal_FullMethodName, in, opts)
}

func (c *OTCServiceClient) AcceptDeal(ctx context.Context, in *AcceptDealRequest, opts ...grpc.CallOption) (*ExecuteResponse, error) {
	return invoke[ExecuteResponse](ctx, c.cc, OTCService_AcceptDeal_FullMethodName, in, opts)
}

func (c *OTCServiceClient) CancelDeal(ctx context.Context, in *CancelDealRequest, opts ...grpc.CallOption) (*ExecuteResponse, error) {
	return invoke[ExecuteResponse](ctx, c.cc, OTCService_CancelDeal_FullMethodName, in, opts)
}

func (c *OTCServiceClient) Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*ExecuteResponse, error) {
	return invoke[ExecuteResponse](ctx, c.cc, OTCService_Withdraw_FullMethodName, in, opts)
}

func (c *OTCServiceClient) GetConfig(ctx context.Context, in *GetConfigRequest, opts ...grpc.CallOption) (*GetConfigResponse, error) {
	return invoke[GetConfigResponse](ctx, c.cc, OTCService_GetConfig_FullMethodName, in, opts)
}

func (c *OTCServiceClient) GetDeal(ctx context.Context, in *GetDealRequest, opts ...grpc.CallOption) (*GetDealResponse, error) {
	return invoke[GetDealResponse](ctx, c.cc, OTCService_GetDeal_FullMethodName, in, opts)
}

func (c *OTCServiceClient) ListDeals(ctx context.Context, in *ListDealsRequest, opts ...grpc.CallOption) (*ListDealsResponse, error) {
	return invoke[ListDealsResponse](ctx, c.cc, OTCService_ListDeals_FullMethodName, in, opts)
}

func (c *OTCServiceClient) ListTransfers(ctx context.Context, in *ListTransfersRequest, opts ...grpc.CallOption) (*ListTransfersResponse, error) {
	return invoke[ListTransfersResponse](ctx, c.cc, OTCService_ListTransfers_FullMethodName, in, opts)
}
