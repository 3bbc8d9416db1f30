// Package apiconnect wires the bill service messages to Connect handlers and
// clients using the JSON codec.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/pkg/api"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "splitbill.v1.BillService"

// Procedure paths, as they appear in the request URL.
const (
	BillServiceCreateBillProcedure     = "/splitbill.v1.BillService/CreateBill"
	BillServiceGetBillProcedure        = "/splitbill.v1.BillService/GetBill"
	BillServiceAddPersonProcedure      = "/splitbill.v1.BillService/AddPerson"
	BillServiceRemovePersonProcedure   = "/splitbill.v1.BillService/RemovePerson"
	BillServiceAddItemProcedure        = "/splitbill.v1.BillService/AddItem"
	BillServiceUpdateItemProcedure     = "/splitbill.v1.BillService/UpdateItem"
	BillServiceRemoveItemProcedure     = "/splitbill.v1.BillService/RemoveItem"
	BillServiceAssignPersonProcedure   = "/splitbill.v1.BillService/AssignPerson"
	BillServiceUnassignPersonProcedure = "/splitbill.v1.BillService/UnassignPerson"
	BillServiceAssignAllProcedure      = "/splitbill.v1.BillService/AssignAll"
	BillServiceUpdateConfigProcedure   = "/splitbill.v1.BillService/UpdateConfig"
	BillServiceSetStepProcedure        = "/splitbill.v1.BillService/SetStep"
	BillServiceResetBillProcedure      = "/splitbill.v1.BillService/ResetBill"
	BillServiceScanReceiptProcedure    = "/splitbill.v1.BillService/ScanReceipt"
)

// BillServiceHandler is implemented by the bill service.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.BillView], error)
	AddPerson(context.Context, *connect.Request[api.AddPersonRequest]) (*connect.Response[api.BillView], error)
	RemovePerson(context.Context, *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.BillView], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillView], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.BillView], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillView], error)
	AssignPerson(context.Context, *connect.Request[api.AssignmentRequest]) (*connect.Response[api.BillView], error)
	UnassignPerson(context.Context, *connect.Request[api.AssignmentRequest]) (*connect.Response[api.BillView], error)
	AssignAll(context.Context, *connect.Request[api.AssignAllRequest]) (*connect.Response[api.BillView], error)
	UpdateConfig(context.Context, *connect.Request[api.UpdateConfigRequest]) (*connect.Response[api.BillView], error)
	SetStep(context.Context, *connect.Request[api.SetStepRequest]) (*connect.Response[api.BillView], error)
	ResetBill(context.Context, *connect.Request[api.ResetBillRequest]) (*connect.Response[api.BillView], error)
	ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.BillView], error)
}

// MaxRequestBytes bounds inbound request bodies: an 8 MiB base64 receipt
// image plus the JSON envelope around it.
const MaxRequestBytes = 9 << 20

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
// Bodies larger than MaxRequestBytes are rejected with ResourceExhausted
// before they are decoded.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{
		connect.WithCodec(api.JSONCodec{}),
		connect.WithReadMaxBytes(MaxRequestBytes),
	}, opts...)

	mux := http.NewServeMux()
	mux.Handle(BillServiceCreateBillProcedure, connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...))
	mux.Handle(BillServiceGetBillProcedure, connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...))
	mux.Handle(BillServiceAddPersonProcedure, connect.NewUnaryHandler(BillServiceAddPersonProcedure, svc.AddPerson, opts...))
	mux.Handle(BillServiceRemovePersonProcedure, connect.NewUnaryHandler(BillServiceRemovePersonProcedure, svc.RemovePerson, opts...))
	mux.Handle(BillServiceAddItemProcedure, connect.NewUnaryHandler(BillServiceAddItemProcedure, svc.AddItem, opts...))
	mux.Handle(BillServiceUpdateItemProcedure, connect.NewUnaryHandler(BillServiceUpdateItemProcedure, svc.UpdateItem, opts...))
	mux.Handle(BillServiceRemoveItemProcedure, connect.NewUnaryHandler(BillServiceRemoveItemProcedure, svc.RemoveItem, opts...))
	mux.Handle(BillServiceAssignPersonProcedure, connect.NewUnaryHandler(BillServiceAssignPersonProcedure, svc.AssignPerson, opts...))
	mux.Handle(BillServiceUnassignPersonProcedure, connect.NewUnaryHandler(BillServiceUnassignPersonProcedure, svc.UnassignPerson, opts...))
	mux.Handle(BillServiceAssignAllProcedure, connect.NewUnaryHandler(BillServiceAssignAllProcedure, svc.AssignAll, opts...))
	mux.Handle(BillServiceUpdateConfigProcedure, connect.NewUnaryHandler(BillServiceUpdateConfigProcedure, svc.UpdateConfig, opts...))
	mux.Handle(BillServiceSetStepProcedure, connect.NewUnaryHandler(BillServiceSetStepProcedure, svc.SetStep, opts...))
	mux.Handle(BillServiceResetBillProcedure, connect.NewUnaryHandler(BillServiceResetBillProcedure, svc.ResetBill, opts...))
	mux.Handle(BillServiceScanReceiptProcedure, connect.NewUnaryHandler(BillServiceScanReceiptProcedure, svc.ScanReceipt, opts...))

	return "/" + BillServiceName + "/", mux
}

// BillServiceClient calls a remote bill service.
type BillServiceClient struct {
	createBill     *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	getBill        *connect.Client[api.GetBillRequest, api.BillView]
	addPerson      *connect.Client[api.AddPersonRequest, api.BillView]
	removePerson   *connect.Client[api.RemovePersonRequest, api.BillView]
	addItem        *connect.Client[api.AddItemRequest, api.BillView]
	updateItem     *connect.Client[api.UpdateItemRequest, api.BillView]
	removeItem     *connect.Client[api.RemoveItemRequest, api.BillView]
	assignPerson   *connect.Client[api.AssignmentRequest, api.BillView]
	unassignPerson *connect.Client[api.AssignmentRequest, api.BillView]
	assignAll      *connect.Client[api.AssignAllRequest, api.BillView]
	updateConfig   *connect.Client[api.UpdateConfigRequest, api.BillView]
	setStep        *connect.Client[api.SetStepRequest, api.BillView]
	resetBill      *connect.Client[api.ResetBillRequest, api.BillView]
	scanReceipt    *connect.Client[api.ScanReceiptRequest, api.BillView]
}

// NewBillServiceClient constructs a client for the bill service at baseURL
// (for example, http://localhost:8080).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &BillServiceClient{
		createBill:     connect.NewClient[api.CreateBillRequest, api.CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:        connect.NewClient[api.GetBillRequest, api.BillView](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		addPerson:      connect.NewClient[api.AddPersonRequest, api.BillView](httpClient, baseURL+BillServiceAddPersonProcedure, opts...),
		removePerson:   connect.NewClient[api.RemovePersonRequest, api.BillView](httpClient, baseURL+BillServiceRemovePersonProcedure, opts...),
		addItem:        connect.NewClient[api.AddItemRequest, api.BillView](httpClient, baseURL+BillServiceAddItemProcedure, opts...),
		updateItem:     connect.NewClient[api.UpdateItemRequest, api.BillView](httpClient, baseURL+BillServiceUpdateItemProcedure, opts...),
		removeItem:     connect.NewClient[api.RemoveItemRequest, api.BillView](httpClient, baseURL+BillServiceRemoveItemProcedure, opts...),
		assignPerson:   connect.NewClient[api.AssignmentRequest, api.BillView](httpClient, baseURL+BillServiceAssignPersonProcedure, opts...),
		unassignPerson: connect.NewClient[api.AssignmentRequest, api.BillView](httpClient, baseURL+BillServiceUnassignPersonProcedure, opts...),
		assignAll:      connect.NewClient[api.AssignAllRequest, api.BillView](httpClient, baseURL+BillServiceAssignAllProcedure, opts...),
		updateConfig:   connect.NewClient[api.UpdateConfigRequest, api.BillView](httpClient, baseURL+BillServiceUpdateConfigProcedure, opts...),
		setStep:        connect.NewClient[api.SetStepRequest, api.BillView](httpClient, baseURL+BillServiceSetStepProcedure, opts...),
		resetBill:      connect.NewClient[api.ResetBillRequest, api.BillView](httpClient, baseURL+BillServiceResetBillProcedure, opts...),
		scanReceipt:    connect.NewClient[api.ScanReceiptRequest, api.BillView](httpClient, baseURL+BillServiceScanReceiptProcedure, opts...),
	}
}

func (c *BillServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.BillView], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.BillView], error) {
	return c.addPerson.CallUnary(ctx, req)
}

func (c *BillServiceClient) RemovePerson(ctx context.Context, req *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.BillView], error) {
	return c.removePerson.CallUnary(ctx, req)
}

func (c *BillServiceClient) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillView], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *BillServiceClient) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.BillView], error) {
	return c.updateItem.CallUnary(ctx, req)
}

func (c *BillServiceClient) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillView], error) {
	return c.removeItem.CallUnary(ctx, req)
}

func (c *BillServiceClient) AssignPerson(ctx context.Context, req *connect.Request[api.AssignmentRequest]) (*connect.Response[api.BillView], error) {
	return c.assignPerson.CallUnary(ctx, req)
}

func (c *BillServiceClient) UnassignPerson(ctx context.Context, req *connect.Request[api.AssignmentRequest]) (*connect.Response[api.BillView], error) {
	return c.unassignPerson.CallUnary(ctx, req)
}

func (c *BillServiceClient) AssignAll(ctx context.Context, req *connect.Request[api.AssignAllRequest]) (*connect.Response[api.BillView], error) {
	return c.assignAll.CallUnary(ctx, req)
}

func (c *BillServiceClient) UpdateConfig(ctx context.Context, req *connect.Request[api.UpdateConfigRequest]) (*connect.Response[api.BillView], error) {
	return c.updateConfig.CallUnary(ctx, req)
}

func (c *BillServiceClient) SetStep(ctx context.Context, req *connect.Request[api.SetStepRequest]) (*connect.Response[api.BillView], error) {
	return c.setStep.CallUnary(ctx, req)
}

func (c *BillServiceClient) ResetBill(ctx context.Context, req *connect.Request[api.ResetBillRequest]) (*connect.Response[api.BillView], error) {
	return c.resetBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.BillView], error) {
	return c.scanReceipt.CallUnary(ctx, req)
}
