package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/famiglia/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService.
const ExpenseServiceName = "famiglia.v1.ExpenseService"

// Procedure paths of the ExpenseService.
const (
	ExpenseServiceListCategoriesProcedure         = "/" + ExpenseServiceName + "/ListCategories"
	ExpenseServiceCreateCategoryProcedure         = "/" + ExpenseServiceName + "/CreateCategory"
	ExpenseServiceDeleteCategoryProcedure         = "/" + ExpenseServiceName + "/DeleteCategory"
	ExpenseServiceListRecurringExpensesProcedure  = "/" + ExpenseServiceName + "/ListRecurringExpenses"
	ExpenseServiceCreateRecurringExpenseProcedure = "/" + ExpenseServiceName + "/CreateRecurringExpense"
	ExpenseServiceUpdateRecurringExpenseProcedure = "/" + ExpenseServiceName + "/UpdateRecurringExpense"
	ExpenseServiceDeleteRecurringExpenseProcedure = "/" + ExpenseServiceName + "/DeleteRecurringExpense"
	ExpenseServiceListOneTimeExpensesProcedure    = "/" + ExpenseServiceName + "/ListOneTimeExpenses"
	ExpenseServiceCreateOneTimeExpenseProcedure   = "/" + ExpenseServiceName + "/CreateOneTimeExpense"
	ExpenseServiceUpdateOneTimeExpenseProcedure   = "/" + ExpenseServiceName + "/UpdateOneTimeExpense"
	ExpenseServiceDeleteOneTimeExpenseProcedure   = "/" + ExpenseServiceName + "/DeleteOneTimeExpense"
	ExpenseServiceUploadReceiptProcedure          = "/" + ExpenseServiceName + "/UploadReceipt"
	ExpenseServiceGetReceiptProcedure             = "/" + ExpenseServiceName + "/GetReceipt"
	ExpenseServiceDeleteReceiptProcedure          = "/" + ExpenseServiceName + "/DeleteReceipt"
)

// ExpenseServiceHandler is the server side of the ExpenseService.
// ExpenseService manages categories, recurring and one-time expenses, and receipts.
type ExpenseServiceHandler interface {
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	DeleteCategory(context.Context, *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error)
	ListRecurringExpenses(context.Context, *connect.Request[api.ListRecurringExpensesRequest]) (*connect.Response[api.ListRecurringExpensesResponse], error)
	CreateRecurringExpense(context.Context, *connect.Request[api.CreateRecurringExpenseRequest]) (*connect.Response[api.CreateRecurringExpenseResponse], error)
	UpdateRecurringExpense(context.Context, *connect.Request[api.UpdateRecurringExpenseRequest]) (*connect.Response[api.UpdateRecurringExpenseResponse], error)
	DeleteRecurringExpense(context.Context, *connect.Request[api.DeleteRecurringExpenseRequest]) (*connect.Response[api.DeleteRecurringExpenseResponse], error)
	ListOneTimeExpenses(context.Context, *connect.Request[api.ListOneTimeExpensesRequest]) (*connect.Response[api.ListOneTimeExpensesResponse], error)
	CreateOneTimeExpense(context.Context, *connect.Request[api.CreateOneTimeExpenseRequest]) (*connect.Response[api.CreateOneTimeExpenseResponse], error)
	UpdateOneTimeExpense(context.Context, *connect.Request[api.UpdateOneTimeExpenseRequest]) (*connect.Response[api.UpdateOneTimeExpenseResponse], error)
	DeleteOneTimeExpense(context.Context, *connect.Request[api.DeleteOneTimeExpenseRequest]) (*connect.Response[api.DeleteOneTimeExpenseResponse], error)
	UploadReceipt(context.Context, *connect.Request[api.UploadReceiptRequest]) (*connect.Response[api.UploadReceiptResponse], error)
	GetReceipt(context.Context, *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error)
	DeleteReceipt(context.Context, *connect.Request[api.DeleteReceiptRequest]) (*connect.Response[api.DeleteReceiptResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = HandlerOptions(opts...)
	return newServiceHandler(ExpenseServiceName, map[string]http.Handler{
		ExpenseServiceListCategoriesProcedure:         connect.NewUnaryHandler(ExpenseServiceListCategoriesProcedure, svc.ListCategories, opts...),
		ExpenseServiceCreateCategoryProcedure:         connect.NewUnaryHandler(ExpenseServiceCreateCategoryProcedure, svc.CreateCategory, opts...),
		ExpenseServiceDeleteCategoryProcedure:         connect.NewUnaryHandler(ExpenseServiceDeleteCategoryProcedure, svc.DeleteCategory, opts...),
		ExpenseServiceListRecurringExpensesProcedure:  connect.NewUnaryHandler(ExpenseServiceListRecurringExpensesProcedure, svc.ListRecurringExpenses, opts...),
		ExpenseServiceCreateRecurringExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceCreateRecurringExpenseProcedure, svc.CreateRecurringExpense, opts...),
		ExpenseServiceUpdateRecurringExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceUpdateRecurringExpenseProcedure, svc.UpdateRecurringExpense, opts...),
		ExpenseServiceDeleteRecurringExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceDeleteRecurringExpenseProcedure, svc.DeleteRecurringExpense, opts...),
		ExpenseServiceListOneTimeExpensesProcedure:    connect.NewUnaryHandler(ExpenseServiceListOneTimeExpensesProcedure, svc.ListOneTimeExpenses, opts...),
		ExpenseServiceCreateOneTimeExpenseProcedure:   connect.NewUnaryHandler(ExpenseServiceCreateOneTimeExpenseProcedure, svc.CreateOneTimeExpense, opts...),
		ExpenseServiceUpdateOneTimeExpenseProcedure:   connect.NewUnaryHandler(ExpenseServiceUpdateOneTimeExpenseProcedure, svc.UpdateOneTimeExpense, opts...),
		ExpenseServiceDeleteOneTimeExpenseProcedure:   connect.NewUnaryHandler(ExpenseServiceDeleteOneTimeExpenseProcedure, svc.DeleteOneTimeExpense, opts...),
		ExpenseServiceUploadReceiptProcedure:          connect.NewUnaryHandler(ExpenseServiceUploadReceiptProcedure, svc.UploadReceipt, opts...),
		ExpenseServiceGetReceiptProcedure:             connect.NewUnaryHandler(ExpenseServiceGetReceiptProcedure, svc.GetReceipt, opts...),
		ExpenseServiceDeleteReceiptProcedure:          connect.NewUnaryHandler(ExpenseServiceDeleteReceiptProcedure, svc.DeleteReceipt, opts...),
	})
}

// ExpenseServiceClient is a client for the ExpenseService.
type ExpenseServiceClient interface {
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	DeleteCategory(context.Context, *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error)
	ListRecurringExpenses(context.Context, *connect.Request[api.ListRecurringExpensesRequest]) (*connect.Response[api.ListRecurringExpensesResponse], error)
	CreateRecurringExpense(context.Context, *connect.Request[api.CreateRecurringExpenseRequest]) (*connect.Response[api.CreateRecurringExpenseResponse], error)
	UpdateRecurringExpense(context.Context, *connect.Request[api.UpdateRecurringExpenseRequest]) (*connect.Response[api.UpdateRecurringExpenseResponse], error)
	DeleteRecurringExpense(context.Context, *connect.Request[api.DeleteRecurringExpenseRequest]) (*connect.Response[api.DeleteRecurringExpenseResponse], error)
	ListOneTimeExpenses(context.Context, *connect.Request[api.ListOneTimeExpensesRequest]) (*connect.Response[api.ListOneTimeExpensesResponse], error)
	CreateOneTimeExpense(context.Context, *connect.Request[api.CreateOneTimeExpenseRequest]) (*connect.Response[api.CreateOneTimeExpenseResponse], error)
	UpdateOneTimeExpense(context.Context, *connect.Request[api.UpdateOneTimeExpenseRequest]) (*connect.Response[api.UpdateOneTimeExpenseResponse], error)
	DeleteOneTimeExpense(context.Context, *connect.Request[api.DeleteOneTimeExpenseRequest]) (*connect.Response[api.DeleteOneTimeExpenseResponse], error)
	UploadReceipt(context.Context, *connect.Request[api.UploadReceiptRequest]) (*connect.Response[api.UploadReceiptResponse], error)
	GetReceipt(context.Context, *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error)
	DeleteReceipt(context.Context, *connect.Request[api.DeleteReceiptRequest]) (*connect.Response[api.DeleteReceiptResponse], error)
}

// NewExpenseServiceClient constructs a client for the ExpenseService.
// baseURL is the server root, such as "http://localhost:8080".
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = ClientOptions(opts...)
	return &expenseServiceClient{
		listCategories:         connect.NewClient[api.ListCategoriesRequest, api.ListCategoriesResponse](httpClient, baseURL+ExpenseServiceListCategoriesProcedure, opts...),
		createCategory:         connect.NewClient[api.CreateCategoryRequest, api.CreateCategoryResponse](httpClient, baseURL+ExpenseServiceCreateCategoryProcedure, opts...),
		deleteCategory:         connect.NewClient[api.DeleteCategoryRequest, api.DeleteCategoryResponse](httpClient, baseURL+ExpenseServiceDeleteCategoryProcedure, opts...),
		listRecurringExpenses:  connect.NewClient[api.ListRecurringExpensesRequest, api.ListRecurringExpensesResponse](httpClient, baseURL+ExpenseServiceListRecurringExpensesProcedure, opts...),
		createRecurringExpense: connect.NewClient[api.CreateRecurringExpenseRequest, api.CreateRecurringExpenseResponse](httpClient, baseURL+ExpenseServiceCreateRecurringExpenseProcedure, opts...),
		updateRecurringExpense: connect.NewClient[api.UpdateRecurringExpenseRequest, api.UpdateRecurringExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateRecurringExpenseProcedure, opts...),
		deleteRecurringExpense: connect.NewClient[api.DeleteRecurringExpenseRequest, api.DeleteRecurringExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteRecurringExpenseProcedure, opts...),
		listOneTimeExpenses:    connect.NewClient[api.ListOneTimeExpensesRequest, api.ListOneTimeExpensesResponse](httpClient, baseURL+ExpenseServiceListOneTimeExpensesProcedure, opts...),
		createOneTimeExpense:   connect.NewClient[api.CreateOneTimeExpenseRequest, api.CreateOneTimeExpenseResponse](httpClient, baseURL+ExpenseServiceCreateOneTimeExpenseProcedure, opts...),
		updateOneTimeExpense:   connect.NewClient[api.UpdateOneTimeExpenseRequest, api.UpdateOneTimeExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateOneTimeExpenseProcedure, opts...),
		deleteOneTimeExpense:   connect.NewClient[api.DeleteOneTimeExpenseRequest, api.DeleteOneTimeExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteOneTimeExpenseProcedure, opts...),
		uploadReceipt:          connect.NewClient[api.UploadReceiptRequest, api.UploadReceiptResponse](httpClient, baseURL+ExpenseServiceUploadReceiptProcedure, opts...),
		getReceipt:             connect.NewClient[api.GetReceiptRequest, api.GetReceiptResponse](httpClient, baseURL+ExpenseServiceGetReceiptProcedure, opts...),
		deleteReceipt:          connect.NewClient[api.DeleteReceiptRequest, api.DeleteReceiptResponse](httpClient, baseURL+ExpenseServiceDeleteReceiptProcedure, opts...),
	}
}

type expenseServiceClient struct {
	listCategories         *connect.Client[api.ListCategoriesRequest, api.ListCategoriesResponse]
	createCategory         *connect.Client[api.CreateCategoryRequest, api.CreateCategoryResponse]
	deleteCategory         *connect.Client[api.DeleteCategoryRequest, api.DeleteCategoryResponse]
	listRecurringExpenses  *connect.Client[api.ListRecurringExpensesRequest, api.ListRecurringExpensesResponse]
	createRecurringExpense *connect.Client[api.CreateRecurringExpenseRequest, api.CreateRecurringExpenseResponse]
	updateRecurringExpense *connect.Client[api.UpdateRecurringExpenseRequest, api.UpdateRecurringExpenseResponse]
	deleteRecurringExpense *connect.Client[api.DeleteRecurringExpenseRequest, api.DeleteRecurringExpenseResponse]
	listOneTimeExpenses    *connect.Client[api.ListOneTimeExpensesRequest, api.ListOneTimeExpensesResponse]
	createOneTimeExpense   *connect.Client[api.CreateOneTimeExpenseRequest, api.CreateOneTimeExpenseResponse]
	updateOneTimeExpense   *connect.Client[api.UpdateOneTimeExpenseRequest, api.UpdateOneTimeExpenseResponse]
	deleteOneTimeExpense   *connect.Client[api.DeleteOneTimeExpenseRequest, api.DeleteOneTimeExpenseResponse]
	uploadReceipt          *connect.Client[api.UploadReceiptRequest, api.UploadReceiptResponse]
	getReceipt             *connect.Client[api.GetReceiptRequest, api.GetReceiptResponse]
	deleteReceipt          *connect.Client[api.DeleteReceiptRequest, api.DeleteReceiptResponse]
}

func (c *expenseServiceClient) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	return c.deleteCategory.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListRecurringExpenses(ctx context.Context, req *connect.Request[api.ListRecurringExpensesRequest]) (*connect.Response[api.ListRecurringExpensesResponse], error) {
	return c.listRecurringExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateRecurringExpense(ctx context.Context, req *connect.Request[api.CreateRecurringExpenseRequest]) (*connect.Response[api.CreateRecurringExpenseResponse], error) {
	return c.createRecurringExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateRecurringExpense(ctx context.Context, req *connect.Request[api.UpdateRecurringExpenseRequest]) (*connect.Response[api.UpdateRecurringExpenseResponse], error) {
	return c.updateRecurringExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteRecurringExpense(ctx context.Context, req *connect.Request[api.DeleteRecurringExpenseRequest]) (*connect.Response[api.DeleteRecurringExpenseResponse], error) {
	return c.deleteRecurringExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListOneTimeExpenses(ctx context.Context, req *connect.Request[api.ListOneTimeExpensesRequest]) (*connect.Response[api.ListOneTimeExpensesResponse], error) {
	return c.listOneTimeExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateOneTimeExpense(ctx context.Context, req *connect.Request[api.CreateOneTimeExpenseRequest]) (*connect.Response[api.CreateOneTimeExpenseResponse], error) {
	return c.createOneTimeExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateOneTimeExpense(ctx context.Context, req *connect.Request[api.UpdateOneTimeExpenseRequest]) (*connect.Response[api.UpdateOneTimeExpenseResponse], error) {
	return c.updateOneTimeExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteOneTimeExpense(ctx context.Context, req *connect.Request[api.DeleteOneTimeExpenseRequest]) (*connect.Response[api.DeleteOneTimeExpenseResponse], error) {
	return c.deleteOneTimeExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UploadReceipt(ctx context.Context, req *connect.Request[api.UploadReceiptRequest]) (*connect.Response[api.UploadReceiptResponse], error) {
	return c.uploadReceipt.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetReceipt(ctx context.Context, req *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error) {
	return c.getReceipt.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteReceipt(ctx context.Context, req *connect.Request[api.DeleteReceiptRequest]) (*connect.Response[api.DeleteReceiptResponse], error) {
	return c.deleteReceipt.CallUnary(ctx, req)
}
