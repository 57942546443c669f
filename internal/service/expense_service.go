package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mmynk/famiglia/internal/calculator"
	"github.com/mmynk/famiglia/internal/models"
	"github.com/mmynk/famiglia/internal/receipt"
	"github.com/mmynk/famiglia/internal/storage"
	"github.com/mmynk/famiglia/pkg/api"
	"github.com/mmynk/famiglia/pkg/api/apiconnect"
)

// Returned to clients in place of collaborator error details.
const ocrFailedMessage = "receipt text could not be extracted"

// ExpenseService implements the Connect ExpenseService: categories,
// recurring and one-time expenses, and receipts.
type ExpenseService struct {
	store     storage.Store
	guard     guard
	extractor receipt.Extractor
	logger    *slog.Logger
	now       func() time.Time

	// seeding collapses concurrent first visits to a group's categories.
	seeding singleflight.Group
}

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates an ExpenseService. extractor may be receipt.Disabled.
func NewExpenseService(store storage.Store, extractor receipt.Extractor, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{
		store:     store,
		guard:     guard{groups: store},
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
}

// ListCategories returns the group's categories, provisioning the defaults on first use.
func (s *ExpenseService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	group, err := s.guard.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListCategories", err)
	}

	categories, err := s.store.ListCategories(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListCategories", err)
	}
	if len(categories) == 0 {
		categories, err = s.seedCategories(ctx, group.ID)
		if err != nil {
			return nil, toConnectError(ctx, s.logger, "ListCategories", err)
		}
	}

	out := make([]*api.Category, len(categories))
	for i, c := range categories {
		out[i] = toAPICategory(c)
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}

func (s *ExpenseService) seedCategories(ctx context.Context, groupID string) ([]*models.Category, error) {
	v, err, shared := s.seeding.Do(groupID, func() (any, error) {
		return s.store.SeedDefaultCategories(ctx, groupID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Default categories ensured", "group_id", groupID, "shared", shared)
	return v.([]*models.Category), nil
}

func (s *ExpenseService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "CreateCategory", err)
	}

	category := &models.Category{
		GroupID: group.ID,
		Name:    strings.TrimSpace(req.Msg.Name),
		Icon:    strings.TrimSpace(req.Msg.Icon),
		Color:   strings.TrimSpace(req.Msg.Color),
	}
	if category.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, newValidationError("name", "required"))
	}
	if category.Icon == "" {
		category.Icon = models.DefaultIcon
	}
	if category.Color == "" {
		category.Color = models.DefaultColor
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, toConnectError(ctx, s.logger, "CreateCategory", err)
	}

	s.logger.Info("Category created", "group_id", group.ID, "category_id", category.ID, "name", category.Name)
	return connect.NewResponse(&api.CreateCategoryResponse{Category: toAPICategory(category)}), nil
}

// DeleteCategory removes a category. Its expenses fall back to the uncategorized bucket.
func (s *ExpenseService) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteCategory", err)
	}

	if err := s.store.DeleteCategory(ctx, group.ID, req.Msg.CategoryID); err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteCategory", err)
	}

	s.logger.Info("Category deleted", "group_id", group.ID, "category_id", req.Msg.CategoryID)
	return connect.NewResponse(&api.DeleteCategoryResponse{}), nil
}

// ListRecurringExpenses returns the expenses that apply to the requested month,
// or every expense when All is set. Each is flagged with ActiveForMonth.
func (s *ExpenseService) ListRecurringExpenses(ctx context.Context, req *connect.Request[api.ListRecurringExpensesRequest]) (*connect.Response[api.ListRecurringExpensesResponse], error) {
	group, err := s.guard.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListRecurringExpenses", err)
	}

	month, year, err := resolvePeriod(req.Msg.Month, req.Msg.Year, s.now())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	var (
		expenses   []*models.RecurringExpense
		categories []*models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListRecurringExpenses(gctx, group.ID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, group.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, toConnectError(ctx, s.logger, "ListRecurringExpenses", err)
	}

	if !req.Msg.All {
		expenses = calculator.FilterActiveForMonth(expenses, month, year)
	}

	byID := make(map[string]*models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	out := make([]*api.RecurringExpense, 0, len(expenses))
	for _, e := range expenses {
		monthly, err := calculator.MonthlyAmount(e)
		if err != nil {
			return nil, toConnectError(ctx, s.logger, "ListRecurringExpenses", err)
		}
		item := toAPIRecurring(e, monthly, byID[e.CategoryID])
		item.ActiveForMonth = calculator.IsActiveForMonth(calculator.WindowOf(e), month, year)
		out = append(out, item)
	}

	return connect.NewResponse(&api.ListRecurringExpensesResponse{
		Month:    month,
		Year:     year,
		Expenses: out,
	}), nil
}

func (s *ExpenseService) CreateRecurringExpense(ctx context.Context, req *connect.Request[api.CreateRecurringExpenseRequest]) (*connect.Response[api.CreateRecurringExpenseResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "CreateRecurringExpense", err)
	}

	expense, err := recurringFromInput(req.Msg.RecurringExpenseInput)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	expense.GroupID = group.ID
	expense.IsActive = true

	category, err := s.lookupCategory(ctx, group.ID, expense.CategoryID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "CreateRecurringExpense", err)
	}

	if err := s.store.CreateRecurringExpense(ctx, expense); err != nil {
		return nil, toConnectError(ctx, s.logger, "CreateRecurringExpense", err)
	}

	s.logger.Info("Recurring expense created", "group_id", group.ID, "expense_id", expense.ID, "frequency", expense.FrequencyType)
	return connect.NewResponse(&api.CreateRecurringExpenseResponse{
		Expense: s.recurringResponse(expense, category),
	}), nil
}

func (s *ExpenseService) UpdateRecurringExpense(ctx context.Context, req *connect.Request[api.UpdateRecurringExpenseRequest]) (*connect.Response[api.UpdateRecurringExpenseResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateRecurringExpense", err)
	}

	existing, err := s.store.GetRecurringExpense(ctx, group.ID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateRecurringExpense", err)
	}

	expense, err := recurringFromInput(req.Msg.RecurringExpenseInput)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	expense.ID = existing.ID
	expense.GroupID = group.ID
	expense.IsActive = existing.IsActive
	if req.Msg.IsActive != nil {
		expense.IsActive = *req.Msg.IsActive
	}
	expense.CreatedAt = existing.CreatedAt

	category, err := s.lookupCategory(ctx, group.ID, expense.CategoryID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateRecurringExpense", err)
	}

	if err := s.store.UpdateRecurringExpense(ctx, expense); err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateRecurringExpense", err)
	}

	s.logger.Info("Recurring expense updated", "group_id", group.ID, "expense_id", expense.ID, "active", expense.IsActive)
	return connect.NewResponse(&api.UpdateRecurringExpenseResponse{
		Expense: s.recurringResponse(expense, category),
	}), nil
}

// DeleteRecurringExpense removes the expense and its payments. Mirrored one-time
// expenses stay in the history, unlinked.
func (s *ExpenseService) DeleteRecurringExpense(ctx context.Context, req *connect.Request[api.DeleteRecurringExpenseRequest]) (*connect.Response[api.DeleteRecurringExpenseResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteRecurringExpense", err)
	}

	if err := s.store.DeleteRecurringExpense(ctx, group.ID, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteRecurringExpense", err)
	}

	s.logger.Info("Recurring expense deleted", "group_id", group.ID, "expense_id", req.Msg.ExpenseID)
	return connect.NewResponse(&api.DeleteRecurringExpenseResponse{}), nil
}

func (s *ExpenseService) recurringResponse(e *models.RecurringExpense, category *models.Category) *api.RecurringExpense {
	// Validated on the way in, so normalization cannot fail.
	monthly, _ := calculator.MonthlyAmount(e)
	now := s.now()
	out := toAPIRecurring(e, monthly, category)
	out.ActiveForMonth = calculator.IsActiveForMonth(calculator.WindowOf(e), int(now.Month()), now.Year())
	return out
}

// recurringFromInput validates the writable fields of a recurring expense.
func recurringFromInput(in api.RecurringExpenseInput) (*models.RecurringExpense, error) {
	e := &models.RecurringExpense{
		CategoryID:     strings.TrimSpace(in.CategoryID),
		Name:           strings.TrimSpace(in.Name),
		Amount:         in.Amount,
		FrequencyType:  models.FrequencyType(strings.ToLower(strings.TrimSpace(in.FrequencyType))),
		FrequencyValue: in.FrequencyValue,
		DayOfMonth:     in.DayOfMonth,
		StartMonth:     in.StartMonth,
		StartYear:      in.StartYear,
		EndMonth:       in.EndMonth,
		EndYear:        in.EndYear,
	}
	if e.FrequencyValue == 0 {
		e.FrequencyValue = 1
	}

	var errs ValidationErrors
	if e.Name == "" {
		errs.Add("name", "required")
	}
	validateAmount(&errs, "amount", e.Amount)
	if err := calculator.ValidateFrequency(e.FrequencyType, e.FrequencyValue); err != nil {
		errs.Add("frequency", "%v", err)
	}
	if e.DayOfMonth != nil && (*e.DayOfMonth < 1 || *e.DayOfMonth > 31) {
		errs.Add("day_of_month", "must be between 1 and 31, got %d", *e.DayOfMonth)
	}
	validateBound(&errs, "start", e.StartMonth, e.StartYear)
	validateBound(&errs, "end", e.EndMonth, e.EndYear)
	return e, errs.Err()
}

// lookupCategory resolves an optional category id within the group.
func (s *ExpenseService) lookupCategory(ctx context.Context, groupID, categoryID string) (*models.Category, error) {
	if categoryID == "" {
		return nil, nil
	}
	categories, err := s.store.ListCategories(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return c, nil
		}
	}
	return nil, newValidationError("category_id", "unknown category %q", categoryID)
}

// ListOneTimeExpenses returns a month's one-time expenses, or the single expense named by ExpenseID.
func (s *ExpenseService) ListOneTimeExpenses(ctx context.Context, req *connect.Request[api.ListOneTimeExpensesRequest]) (*connect.Response[api.ListOneTimeExpensesResponse], error) {
	group, err := s.guard.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListOneTimeExpenses", err)
	}

	var expenses []*models.OneTimeExpense
	if req.Msg.ExpenseID != "" {
		e, err := s.store.GetOneTimeExpense(ctx, group.ID, req.Msg.ExpenseID)
		if err != nil {
			return nil, toConnectError(ctx, s.logger, "ListOneTimeExpenses", err)
		}
		expenses = []*models.OneTimeExpense{e}
	} else {
		month, year, err := resolvePeriod(req.Msg.Month, req.Msg.Year, s.now())
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		expenses, err = s.store.ListOneTimeExpenses(ctx, group.ID, month, year)
		if err != nil {
			return nil, toConnectError(ctx, s.logger, "ListOneTimeExpenses", err)
		}
	}

	out := make([]*api.OneTimeExpense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIOneTime(e)
	}
	return connect.NewResponse(&api.ListOneTimeExpensesResponse{Expenses: out}), nil
}

func (s *ExpenseService) CreateOneTimeExpense(ctx context.Context, req *connect.Request[api.CreateOneTimeExpenseRequest]) (*connect.Response[api.CreateOneTimeExpenseResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "CreateOneTimeExpense", err)
	}

	expense, err := s.oneTimeFromInput(req.Msg.OneTimeExpenseInput)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	expense.GroupID = group.ID

	if _, err := s.lookupCategory(ctx, group.ID, expense.CategoryID); err != nil {
		return nil, toConnectError(ctx, s.logger, "CreateOneTimeExpense", err)
	}

	if err := s.store.CreateOneTimeExpense(ctx, expense); err != nil {
		return nil, toConnectError(ctx, s.logger, "CreateOneTimeExpense", err)
	}

	s.logger.Info("One-time expense created", "group_id", group.ID, "expense_id", expense.ID, "month", expense.Month, "year", expense.Year)
	return connect.NewResponse(&api.CreateOneTimeExpenseResponse{Expense: toAPIOneTime(expense)}), nil
}

func (s *ExpenseService) UpdateOneTimeExpense(ctx context.Context, req *connect.Request[api.UpdateOneTimeExpenseRequest]) (*connect.Response[api.UpdateOneTimeExpenseResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateOneTimeExpense", err)
	}

	existing, err := s.store.GetOneTimeExpense(ctx, group.ID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateOneTimeExpense", err)
	}

	in := req.Msg.OneTimeExpenseInput
	if in.Date == 0 {
		in.Date = existing.Date
	}
	updated, err := s.oneTimeFromInput(in)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if _, err := s.lookupCategory(ctx, group.ID, updated.CategoryID); err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateOneTimeExpense", err)
	}

	existing.CategoryID = updated.CategoryID
	existing.Name = updated.Name
	existing.Amount = updated.Amount
	existing.Date = updated.Date
	existing.Month = updated.Month
	existing.Year = updated.Year
	existing.IsPaid = req.Msg.IsPaid

	if err := s.store.UpdateOneTimeExpense(ctx, existing); err != nil {
		return nil, toConnectError(ctx, s.logger, "UpdateOneTimeExpense", err)
	}

	s.logger.Info("One-time expense updated", "group_id", group.ID, "expense_id", existing.ID)
	return connect.NewResponse(&api.UpdateOneTimeExpenseResponse{Expense: toAPIOneTime(existing)}), nil
}

func (s *ExpenseService) DeleteOneTimeExpense(ctx context.Context, req *connect.Request[api.DeleteOneTimeExpenseRequest]) (*connect.Response[api.DeleteOneTimeExpenseResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteOneTimeExpense", err)
	}

	if err := s.store.DeleteOneTimeExpense(ctx, group.ID, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteOneTimeExpense", err)
	}

	s.logger.Info("One-time expense deleted", "group_id", group.ID, "expense_id", req.Msg.ExpenseID)
	return connect.NewResponse(&api.DeleteOneTimeExpenseResponse{}), nil
}

// oneTimeFromInput validates a one-time expense. Date defaults to now and the
// month bucket defaults to the month of Date.
func (s *ExpenseService) oneTimeFromInput(in api.OneTimeExpenseInput) (*models.OneTimeExpense, error) {
	e := &models.OneTimeExpense{
		CategoryID: strings.TrimSpace(in.CategoryID),
		Name:       strings.TrimSpace(in.Name),
		Amount:     in.Amount,
		Date:       in.Date,
		Month:      in.Month,
		Year:       in.Year,
	}
	if e.Date == 0 {
		e.Date = s.now().Unix()
	}

	var errs ValidationErrors
	if e.Name == "" {
		errs.Add("name", "required")
	}
	validateAmount(&errs, "amount", e.Amount)

	month, year, err := resolvePeriod(e.Month, e.Year, time.Unix(e.Date, 0))
	errs.Merge(err)
	e.Month, e.Year = month, year
	return e, errs.Err()
}

// UploadReceipt extracts the text of a receipt image and stores it on the expense.
// Extraction failures do not fail the upload: the text is stored empty and the
// response carries OCRError.
func (s *ExpenseService) UploadReceipt(ctx context.Context, req *connect.Request[api.UploadReceiptRequest]) (*connect.Response[api.UploadReceiptResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "UploadReceipt", err)
	}

	if err := receipt.ValidateImage(req.Msg.ContentType, req.Msg.Image); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	expense, err := s.store.GetOneTimeExpense(ctx, group.ID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "UploadReceipt", err)
	}

	resp := &api.UploadReceiptResponse{}
	text, err := s.extractor.ExtractText(ctx, req.Msg.ContentType, req.Msg.Image)
	switch {
	case errors.Is(err, receipt.ErrNotConfigured):
		resp.OCRError = err.Error()
	case err != nil:
		s.logger.Warn("Receipt text extraction failed", "group_id", group.ID, "expense_id", expense.ID, "error", err)
		resp.OCRError = ocrFailedMessage
	default:
		resp.ReceiptText = text
	}

	if err := s.store.SetReceiptText(ctx, group.ID, expense.ID, &resp.ReceiptText); err != nil {
		return nil, toConnectError(ctx, s.logger, "UploadReceipt", err)
	}

	s.logger.Info("Receipt uploaded", "group_id", group.ID, "expense_id", expense.ID, "chars", len(resp.ReceiptText), "ocr_error", resp.OCRError != "")
	return connect.NewResponse(resp), nil
}

func (s *ExpenseService) GetReceipt(ctx context.Context, req *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error) {
	group, err := s.guard.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "GetReceipt", err)
	}

	expense, err := s.store.GetOneTimeExpense(ctx, group.ID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "GetReceipt", err)
	}
	return connect.NewResponse(&api.GetReceiptResponse{ReceiptText: expense.ReceiptText}), nil
}

func (s *ExpenseService) DeleteReceipt(ctx context.Context, req *connect.Request[api.DeleteReceiptRequest]) (*connect.Response[api.DeleteReceiptResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteReceipt", err)
	}

	if err := s.store.SetReceiptText(ctx, group.ID, req.Msg.ExpenseID, nil); err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteReceipt", err)
	}

	s.logger.Info("Receipt deleted", "group_id", group.ID, "expense_id", req.Msg.ExpenseID)
	return connect.NewResponse(&api.DeleteReceiptResponse{}), nil
}
