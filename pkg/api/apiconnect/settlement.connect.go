package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/famiglia/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService.
const SettlementServiceName = "famiglia.v1.SettlementService"

// Procedure paths of the SettlementService.
const (
	SettlementServiceGetMonthlySettlementProcedure = "/" + SettlementServiceName + "/GetMonthlySettlement"
	SettlementServiceListExpensePaymentsProcedure  = "/" + SettlementServiceName + "/ListExpensePayments"
	SettlementServiceRecordExpensePaymentProcedure = "/" + SettlementServiceName + "/RecordExpensePayment"
	SettlementServiceDeleteExpensePaymentProcedure = "/" + SettlementServiceName + "/DeleteExpensePayment"
	SettlementServiceListPaymentsProcedure         = "/" + SettlementServiceName + "/ListPayments"
	SettlementServiceRecordPaymentProcedure        = "/" + SettlementServiceName + "/RecordPayment"
	SettlementServiceConfirmPaymentProcedure       = "/" + SettlementServiceName + "/ConfirmPayment"
	SettlementServiceDeletePaymentProcedure        = "/" + SettlementServiceName + "/DeletePayment"
)

// SettlementServiceHandler is the server side of the SettlementService.
// SettlementService computes monthly settlements and records payments.
type SettlementServiceHandler interface {
	GetMonthlySettlement(context.Context, *connect.Request[api.GetMonthlySettlementRequest]) (*connect.Response[api.GetMonthlySettlementResponse], error)
	ListExpensePayments(context.Context, *connect.Request[api.ListExpensePaymentsRequest]) (*connect.Response[api.ListExpensePaymentsResponse], error)
	RecordExpensePayment(context.Context, *connect.Request[api.RecordExpensePaymentRequest]) (*connect.Response[api.RecordExpensePaymentResponse], error)
	DeleteExpensePayment(context.Context, *connect.Request[api.DeleteExpensePaymentRequest]) (*connect.Response[api.DeleteExpensePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = HandlerOptions(opts...)
	return newServiceHandler(SettlementServiceName, map[string]http.Handler{
		SettlementServiceGetMonthlySettlementProcedure: connect.NewUnaryHandler(SettlementServiceGetMonthlySettlementProcedure, svc.GetMonthlySettlement, opts...),
		SettlementServiceListExpensePaymentsProcedure:  connect.NewUnaryHandler(SettlementServiceListExpensePaymentsProcedure, svc.ListExpensePayments, opts...),
		SettlementServiceRecordExpensePaymentProcedure: connect.NewUnaryHandler(SettlementServiceRecordExpensePaymentProcedure, svc.RecordExpensePayment, opts...),
		SettlementServiceDeleteExpensePaymentProcedure: connect.NewUnaryHandler(SettlementServiceDeleteExpensePaymentProcedure, svc.DeleteExpensePayment, opts...),
		SettlementServiceListPaymentsProcedure:         connect.NewUnaryHandler(SettlementServiceListPaymentsProcedure, svc.ListPayments, opts...),
		SettlementServiceRecordPaymentProcedure:        connect.NewUnaryHandler(SettlementServiceRecordPaymentProcedure, svc.RecordPayment, opts...),
		SettlementServiceConfirmPaymentProcedure:       connect.NewUnaryHandler(SettlementServiceConfirmPaymentProcedure, svc.ConfirmPayment, opts...),
		SettlementServiceDeletePaymentProcedure:        connect.NewUnaryHandler(SettlementServiceDeletePaymentProcedure, svc.DeletePayment, opts...),
	})
}

// SettlementServiceClient is a client for the SettlementService.
type SettlementServiceClient interface {
	GetMonthlySettlement(context.Context, *connect.Request[api.GetMonthlySettlementRequest]) (*connect.Response[api.GetMonthlySettlementResponse], error)
	ListExpensePayments(context.Context, *connect.Request[api.ListExpensePaymentsRequest]) (*connect.Response[api.ListExpensePaymentsResponse], error)
	RecordExpensePayment(context.Context, *connect.Request[api.RecordExpensePaymentRequest]) (*connect.Response[api.RecordExpensePaymentResponse], error)
	DeleteExpensePayment(context.Context, *connect.Request[api.DeleteExpensePaymentRequest]) (*connect.Response[api.DeleteExpensePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
}

// NewSettlementServiceClient constructs a client for the SettlementService.
// baseURL is the server root, such as "http://localhost:8080".
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = ClientOptions(opts...)
	return &settlementServiceClient{
		getMonthlySettlement: connect.NewClient[api.GetMonthlySettlementRequest, api.GetMonthlySettlementResponse](httpClient, baseURL+SettlementServiceGetMonthlySettlementProcedure, opts...),
		listExpensePayments:  connect.NewClient[api.ListExpensePaymentsRequest, api.ListExpensePaymentsResponse](httpClient, baseURL+SettlementServiceListExpensePaymentsProcedure, opts...),
		recordExpensePayment: connect.NewClient[api.RecordExpensePaymentRequest, api.RecordExpensePaymentResponse](httpClient, baseURL+SettlementServiceRecordExpensePaymentProcedure, opts...),
		deleteExpensePayment: connect.NewClient[api.DeleteExpensePaymentRequest, api.DeleteExpensePaymentResponse](httpClient, baseURL+SettlementServiceDeleteExpensePaymentProcedure, opts...),
		listPayments:         connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+SettlementServiceListPaymentsProcedure, opts...),
		recordPayment:        connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+SettlementServiceRecordPaymentProcedure, opts...),
		confirmPayment:       connect.NewClient[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse](httpClient, baseURL+SettlementServiceConfirmPaymentProcedure, opts...),
		deletePayment:        connect.NewClient[api.DeletePaymentRequest, api.DeletePaymentResponse](httpClient, baseURL+SettlementServiceDeletePaymentProcedure, opts...),
	}
}

type settlementServiceClient struct {
	getMonthlySettlement *connect.Client[api.GetMonthlySettlementRequest, api.GetMonthlySettlementResponse]
	listExpensePayments  *connect.Client[api.ListExpensePaymentsRequest, api.ListExpensePaymentsResponse]
	recordExpensePayment *connect.Client[api.RecordExpensePaymentRequest, api.RecordExpensePaymentResponse]
	deleteExpensePayment *connect.Client[api.DeleteExpensePaymentRequest, api.DeleteExpensePaymentResponse]
	listPayments         *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	recordPayment        *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	confirmPayment       *connect.Client[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse]
	deletePayment        *connect.Client[api.DeletePaymentRequest, api.DeletePaymentResponse]
}

func (c *settlementServiceClient) GetMonthlySettlement(ctx context.Context, req *connect.Request[api.GetMonthlySettlementRequest]) (*connect.Response[api.GetMonthlySettlementResponse], error) {
	return c.getMonthlySettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListExpensePayments(ctx context.Context, req *connect.Request[api.ListExpensePaymentsRequest]) (*connect.Response[api.ListExpensePaymentsResponse], error) {
	return c.listExpensePayments.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RecordExpensePayment(ctx context.Context, req *connect.Request[api.RecordExpensePaymentRequest]) (*connect.Response[api.RecordExpensePaymentResponse], error) {
	return c.recordExpensePayment.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DeleteExpensePayment(ctx context.Context, req *connect.Request[api.DeleteExpensePaymentRequest]) (*connect.Response[api.DeleteExpensePaymentResponse], error) {
	return c.deleteExpensePayment.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	return c.confirmPayment.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}
