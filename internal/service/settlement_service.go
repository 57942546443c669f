package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/famiglia/internal/calculator"
	"github.com/mmynk/famiglia/internal/events"
	"github.com/mmynk/famiglia/internal/middleware"
	"github.com/mmynk/famiglia/internal/models"
	"github.com/mmynk/famiglia/internal/storage"
	"github.com/mmynk/famiglia/pkg/api"
	"github.com/mmynk/famiglia/pkg/api/apiconnect"
)

// SettlementService implements the Connect SettlementService: the monthly
// report, recurring-expense payments and member payments.
type SettlementService struct {
	store   storage.Store
	guard   guard
	emitter events.Emitter
	metrics *SettlementMetrics
	logger  *slog.Logger
	now     func() time.Time
}

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// NewSettlementService creates a SettlementService. metrics may be nil.
func NewSettlementService(store storage.Store, emitter events.Emitter, metrics *SettlementMetrics, logger *slog.Logger) *SettlementService {
	if emitter == nil {
		emitter = events.Discard{}
	}
	return &SettlementService{
		store:   store,
		guard:   guard{groups: store},
		emitter: emitter,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// GetMonthlySettlement computes each member's share of the month's expenses
// and compares it with what they paid.
func (s *SettlementService) GetMonthlySettlement(ctx context.Context, req *connect.Request[api.GetMonthlySettlementRequest]) (*connect.Response[api.GetMonthlySettlementResponse], error) {
	group, err := s.guard.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "GetMonthlySettlement", err)
	}

	month, year, err := resolvePeriod(req.Msg.Month, req.Msg.Year, s.now())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	in := calculator.SettlementInput{Month: month, Year: year}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Members, err = s.store.ListMembers(gctx, group.ID)
		return err
	})
	g.Go(func() error {
		var err error
		in.Expenses, err = s.store.ListRecurringExpenses(gctx, group.ID)
		return err
	})
	g.Go(func() error {
		var err error
		in.Categories, err = s.store.ListCategories(gctx, group.ID)
		return err
	})
	g.Go(func() error {
		var err error
		in.Payments, err = s.store.ListPayments(gctx, group.ID, month, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, toConnectError(ctx, s.logger, "GetMonthlySettlement", err)
	}

	report, err := calculator.BuildSettlementReport(in)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "GetMonthlySettlement", err)
	}
	s.metrics.observe(group.ID, report)

	s.logger.Info("Settlement computed",
		"group_id", group.ID,
		"month", month,
		"year", year,
		"total_monthly", report.TotalMonthly,
		"total_paid", report.TotalPaid,
	)
	return connect.NewResponse(&api.GetMonthlySettlementResponse{
		Report: toAPIReport(group.ID, report),
	}), nil
}

// ListExpensePayments returns the recurring-expense payments of a month, each
// with the expense it settles.
func (s *SettlementService) ListExpensePayments(ctx context.Context, req *connect.Request[api.ListExpensePaymentsRequest]) (*connect.Response[api.ListExpensePaymentsResponse], error) {
	group, err := s.guard.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListExpensePayments", err)
	}

	month, year, err := resolvePeriod(req.Msg.Month, req.Msg.Year, s.now())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	var (
		payments   []*models.ExpensePayment
		expenses   []*models.RecurringExpense
		categories []*models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, err = s.store.ListExpensePayments(gctx, group.ID, month, year)
		return err
	})
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
		return nil, toConnectError(ctx, s.logger, "ListExpensePayments", err)
	}

	expenseByID := make(map[string]*models.RecurringExpense, len(expenses))
	for _, e := range expenses {
		expenseByID[e.ID] = e
	}
	categoryByID := make(map[string]*models.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	out := make([]*api.ExpensePayment, len(payments))
	for i, p := range payments {
		out[i] = toAPIExpensePayment(p)
		if e, ok := expenseByID[p.ExpenseID]; ok {
			monthly, err := calculator.MonthlyAmount(e)
			if err != nil {
				return nil, toConnectError(ctx, s.logger, "ListExpensePayments", err)
			}
			out[i].Expense = toAPIRecurring(e, monthly, categoryByID[e.CategoryID])
			out[i].Expense.ActiveForMonth = calculator.IsActiveForMonth(calculator.WindowOf(e), month, year)
		}
	}
	return connect.NewResponse(&api.ListExpensePaymentsResponse{Payments: out}), nil
}

// RecordExpensePayment marks a recurring expense paid for a month. Recording the
// same expense and month again updates the existing payment and its mirror.
func (s *SettlementService) RecordExpensePayment(ctx context.Context, req *connect.Request[api.RecordExpensePaymentRequest]) (*connect.Response[api.RecordExpensePaymentResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "RecordExpensePayment", err)
	}

	var errs ValidationErrors
	if req.Msg.ExpenseID == "" {
		errs.Add("expense_id", "required")
	}
	validateAmount(&errs, "amount", req.Msg.Amount)
	errs.Merge(validatePeriod(req.Msg.Month, req.Msg.Year))
	if err := errs.Err(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	result, err := s.store.RecordExpensePayment(ctx, group.ID, req.Msg.ExpenseID, req.Msg.Month, req.Msg.Year, req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "RecordExpensePayment", err)
	}

	s.emitter.Emit(events.New(events.ExpensePaymentRecorded, group.ID, result.Payment.ID,
		events.WithPeriod(req.Msg.Month, req.Msg.Year),
		events.WithAmount(req.Msg.Amount),
		events.WithActor(middleware.GetUserID(ctx)),
	))

	s.logger.Info("Expense payment recorded",
		"group_id", group.ID,
		"expense_id", req.Msg.ExpenseID,
		"payment_id", result.Payment.ID,
		"mirror_id", result.Mirror.ID,
		"updated", result.Updated,
	)
	return connect.NewResponse(&api.RecordExpensePaymentResponse{
		PaymentID:        result.Payment.ID,
		OneTimeExpenseID: result.Mirror.ID,
		Updated:          result.Updated,
	}), nil
}

// DeleteExpensePayment removes a recurring-expense payment and its mirrored one-time expense.
func (s *SettlementService) DeleteExpensePayment(ctx context.Context, req *connect.Request[api.DeleteExpensePaymentRequest]) (*connect.Response[api.DeleteExpensePaymentResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteExpensePayment", err)
	}

	if err := s.store.DeleteExpensePayment(ctx, group.ID, req.Msg.PaymentID); err != nil {
		return nil, toConnectError(ctx, s.logger, "DeleteExpensePayment", err)
	}

	s.emitter.Emit(events.New(events.ExpensePaymentDeleted, group.ID, req.Msg.PaymentID,
		events.WithActor(middleware.GetUserID(ctx)),
	))

	s.logger.Info("Expense payment deleted", "group_id", group.ID, "payment_id", req.Msg.PaymentID)
	return connect.NewResponse(&api.DeleteExpensePaymentResponse{}), nil
}

func (s *SettlementService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	group, err := s.guard.member(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListPayments", err)
	}

	month, year, err := resolvePeriod(req.Msg.Month, req.Msg.Year, s.now())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	payments, err := s.store.ListPayments(ctx, group.ID, month, year)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ListPayments", err)
	}

	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// RecordPayment records a member's payment towards their monthly share.
// Payments accumulate; each call adds a new one.
func (s *SettlementService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "RecordPayment", err)
	}

	var errs ValidationErrors
	if req.Msg.MemberID == "" {
		errs.Add("member_id", "required")
	}
	validateAmount(&errs, "amount_paid", req.Msg.AmountPaid)
	errs.Merge(validatePeriod(req.Msg.Month, req.Msg.Year))
	if err := errs.Err(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if _, err := s.store.GetMember(ctx, group.ID, req.Msg.MemberID); err != nil {
		return nil, toConnectError(ctx, s.logger, "RecordPayment", err)
	}

	payment := &models.Payment{
		GroupID:     group.ID,
		MemberID:    req.Msg.MemberID,
		Month:       req.Msg.Month,
		Year:        req.Msg.Year,
		AmountPaid:  req.Msg.AmountPaid,
		IsConfirmed: req.Msg.IsConfirmed,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, toConnectError(ctx, s.logger, "RecordPayment", err)
	}

	s.emitter.Emit(events.New(events.PaymentRecorded, group.ID, payment.ID,
		events.WithPeriod(payment.Month, payment.Year),
		events.WithAmount(payment.AmountPaid),
		events.WithActor(middleware.GetUserID(ctx)),
	))

	s.logger.Info("Payment recorded",
		"group_id", group.ID,
		"member_id", payment.MemberID,
		"payment_id", payment.ID,
		"amount", payment.AmountPaid,
	)
	return connect.NewResponse(&api.RecordPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// ConfirmPayment sets or clears the manual confirmation of a payment.
// It does not change the derived confirmation in the settlement report.
func (s *SettlementService) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ConfirmPayment", err)
	}

	if err := s.store.SetPaymentConfirmed(ctx, group.ID, req.Msg.PaymentID, req.Msg.IsConfirmed, s.now().Unix()); err != nil {
		return nil, toConnectError(ctx, s.logger, "ConfirmPayment", err)
	}

	payment, err := s.store.GetPayment(ctx, group.ID, req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "ConfirmPayment", err)
	}

	eventType := events.PaymentConfirmed
	if !payment.IsConfirmed {
		eventType = events.PaymentUnconfirmed
	}
	s.emitter.Emit(events.New(eventType, group.ID, payment.ID,
		events.WithPeriod(payment.Month, payment.Year),
		events.WithAmount(payment.AmountPaid),
		events.WithActor(middleware.GetUserID(ctx)),
	))

	s.logger.Info("Payment confirmation changed", "group_id", group.ID, "payment_id", payment.ID, "confirmed", payment.IsConfirmed)
	return connect.NewResponse(&api.ConfirmPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

func (s *SettlementService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	group, err := s.guard.owner(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "DeletePayment", err)
	}

	payment, err := s.store.GetPayment(ctx, group.ID, req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(ctx, s.logger, "DeletePayment", err)
	}
	if err := s.store.DeletePayment(ctx, group.ID, payment.ID); err != nil {
		return nil, toConnectError(ctx, s.logger, "DeletePayment", err)
	}

	s.emitter.Emit(events.New(events.PaymentDeleted, group.ID, payment.ID,
		events.WithPeriod(payment.Month, payment.Year),
		events.WithAmount(payment.AmountPaid),
		events.WithActor(middleware.GetUserID(ctx)),
	))

	s.logger.Info("Payment deleted", "group_id", group.ID, "payment_id", payment.ID)
	return connect.NewResponse(&api.DeletePaymentResponse{}), nil
}
