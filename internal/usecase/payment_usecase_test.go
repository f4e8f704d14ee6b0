package usecase_test

import (
	"context"
	"testing"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/gateway"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type paymentFixture struct {
	uc       *usecase.PaymentUsecase
	gw       *GatewayMock
	orders   *OrderRepoMock
	payments *PaymentRepoMock
	tx       *txReposStub
}

func newPaymentFixture() *paymentFixture {
	cfg := config.Config{Currency: "inr", GatewayTimeoutSec: 2}
	gw := new(GatewayMock)
	orders := new(OrderRepoMock)
	payments := new(PaymentRepoMock)
	tx := newTxReposStub()

	uc := usecase.NewPaymentUsecase(cfg, gw, &txManagerStub{repos: tx}, orders, payments, zap.NewNop())
	return &paymentFixture{uc: uc, gw: gw, orders: orders, payments: payments, tx: tx}
}

func pendingTxn() model.PaymentTransaction {
	return model.PaymentTransaction{
		ID:            1,
		IntentRef:     "intent_123",
		UserID:        10,
		OrderID:       100,
		Amount:        25000,
		Currency:      "inr",
		State:         model.GatewayStateInitiated,
		PaymentStatus: model.PaymentStatusPending,
	}
}

// =====================
// Initiate
// =====================

func TestPaymentUsecase_Initiate_Success(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	order := model.Order{ID: 100, UserID: 10, TotalAmount: 25000,
		Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending}
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(order, nil)

	f.gw.On("CreateIntent", mock.Anything, mock.MatchedBy(func(in gateway.CreateIntentInput) bool {
		return in.Amount == 25000 && in.OrderID == 100 && in.UserID == 10 && in.Currency == "inr"
	})).Return(gateway.Intent{Ref: "intent_123", RedirectURL: "https://pay.example/x", Amount: 25000, Currency: "inr"}, nil)

	f.tx.payments.On("Create", mock.Anything, mock.MatchedBy(func(pt model.PaymentTransaction) bool {
		return pt.IntentRef == "intent_123" && pt.OrderID == 100 && pt.PaymentStatus == model.PaymentStatusPending
	})).Return(int64(1), nil)
	f.tx.orders.On("SetIntentRef", mock.Anything, int64(100), "intent_123").Return(nil)

	out, err := f.uc.Initiate(ctx, 10, usecase.InitiatePaymentInput{OrderID: 100})
	assert.NoError(t, err)
	assert.Equal(t, "intent_123", out.IntentRef)
	assert.Equal(t, "https://pay.example/x", out.RedirectURL)
	assert.Equal(t, int64(25000), out.Amount)

	f.tx.payments.AssertExpectations(t)
	f.tx.orders.AssertExpectations(t)
}

func TestPaymentUsecase_Initiate_AlreadyPaid(t *testing.T) {
	f := newPaymentFixture()

	order := model.Order{ID: 100, UserID: 10, PaymentStatus: model.PaymentStatusPaid,
		Status: model.OrderStatusConfirmed}
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(order, nil)

	_, err := f.uc.Initiate(context.Background(), 10, usecase.InitiatePaymentInput{OrderID: 100})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestPaymentUsecase_Initiate_OtherUsersOrder(t *testing.T) {
	f := newPaymentFixture()

	order := model.Order{ID: 100, UserID: 99, Status: model.OrderStatusPending}
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(order, nil)

	_, err := f.uc.Initiate(context.Background(), 10, usecase.InitiatePaymentInput{OrderID: 100})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestPaymentUsecase_Initiate_GatewayDown(t *testing.T) {
	f := newPaymentFixture()

	order := model.Order{ID: 100, UserID: 10, TotalAmount: 25000,
		Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending}
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(order, nil)
	f.gw.On("CreateIntent", mock.Anything, mock.Anything).Return(gateway.Intent{}, gateway.ErrUnavailable)

	_, err := f.uc.Initiate(context.Background(), 10, usecase.InitiatePaymentInput{OrderID: 100})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 502, he.Status)

	//ゲートウェイ失敗時はDBに何も書かない
	f.tx.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// Status（ポーリング）
// =====================

func TestPaymentUsecase_Status_PaidShortCircuit(t *testing.T) {
	f := newPaymentFixture()

	pt := pendingTxn()
	pt.State = model.GatewayStateCompleted
	pt.PaymentStatus = model.PaymentStatusPaid
	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(pt, nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(
		model.Order{ID: 100, Status: model.OrderStatusConfirmed, PaymentStatus: model.PaymentStatusPaid}, nil)

	out, err := f.uc.Status(context.Background(), 10, "intent_123")
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, out.PaymentStatus)
	assert.Equal(t, model.OrderStatusConfirmed, out.OrderStatus)

	//確定済みならゲートウェイへは行かない
	f.gw.AssertNotCalled(t, "QueryStatus", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_Status_PollPicksUpPaid(t *testing.T) {
	f := newPaymentFixture()

	pt := pendingTxn()
	paidPt := pt
	paidPt.State = model.GatewayStateCompleted
	paidPt.PaymentStatus = model.PaymentStatusPaid

	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(pt, nil).Once()
	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(paidPt, nil)

	f.gw.On("QueryStatus", mock.Anything, "intent_123").Return(gateway.Status{
		State:         model.GatewayStateCompleted,
		PaymentStatus: model.PaymentStatusPaid,
		PaymentRef:    "pay_9",
	}, nil)

	//先勝ちで確定 → 注文へ投影 → カート消去
	f.tx.payments.On("MarkPaid", mock.Anything, "intent_123", "pay_9").Return(true, nil)
	f.tx.orders.On("MarkPaid", mock.Anything, int64(100), "pay_9").Return(true, nil)
	f.tx.carts.On("DeleteByUserID", mock.Anything, int64(10)).Return(nil)

	f.orders.On("FindByID", mock.Anything, int64(100)).Return(
		model.Order{ID: 100, Status: model.OrderStatusConfirmed, PaymentStatus: model.PaymentStatusPaid}, nil)

	out, err := f.uc.Status(context.Background(), 10, "intent_123")
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, out.PaymentStatus)

	f.tx.payments.AssertExpectations(t)
	f.tx.orders.AssertExpectations(t)
	f.tx.carts.AssertExpectations(t)
}

func TestPaymentUsecase_Status_LostRaceDoesNotTouchOrder(t *testing.T) {
	f := newPaymentFixture()

	pt := pendingTxn()
	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(pt, nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(
		model.Order{ID: 100, Status: model.OrderStatusConfirmed, PaymentStatus: model.PaymentStatusPaid}, nil)

	f.gw.On("QueryStatus", mock.Anything, "intent_123").Return(gateway.Status{
		State:         model.GatewayStateCompleted,
		PaymentStatus: model.PaymentStatusPaid,
		PaymentRef:    "pay_9",
	}, nil)

	//webhookが先に確定していた（負け）
	f.tx.payments.On("MarkPaid", mock.Anything, "intent_123", "pay_9").Return(false, nil)

	_, err := f.uc.Status(context.Background(), 10, "intent_123")
	assert.NoError(t, err)

	f.tx.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	f.tx.carts.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_Status_Expired(t *testing.T) {
	f := newPaymentFixture()

	pt := pendingTxn()
	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(pt, nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(
		model.Order{ID: 100, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusExpired}, nil)

	f.gw.On("QueryStatus", mock.Anything, "intent_123").Return(gateway.Status{
		State:         model.GatewayStateExpired,
		PaymentStatus: model.PaymentStatusExpired,
	}, nil)

	f.tx.payments.On("UpdateState", mock.Anything, "intent_123",
		model.GatewayStateExpired, model.PaymentStatusExpired).Return(nil)
	f.tx.orders.On("UpdatePaymentStatus", mock.Anything, int64(100), model.PaymentStatusExpired).Return(nil)

	_, err := f.uc.Status(context.Background(), 10, "intent_123")
	assert.NoError(t, err)

	f.tx.payments.AssertExpectations(t)
	f.tx.orders.AssertExpectations(t)
}

func TestPaymentUsecase_Status_GatewayDown(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(pendingTxn(), nil)
	f.gw.On("QueryStatus", mock.Anything, "intent_123").Return(gateway.Status{}, gateway.ErrUnavailable)

	_, err := f.uc.Status(context.Background(), 10, "intent_123")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 502, he.Status)
}

// =====================
// ConfirmClient / HandleWebhook
// =====================

func TestPaymentUsecase_ConfirmClient_BadSignature(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(pendingTxn(), nil)
	f.gw.On("VerifyClient", mock.Anything, mock.Anything).Return(gateway.Event{}, gateway.ErrSignatureInvalid)

	_, err := f.uc.ConfirmClient(context.Background(), 10, usecase.ClientCallbackInput{
		IntentRef: "intent_123", PaymentRef: "pay_9", Signature: "bogus",
	})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)

	f.tx.payments.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_ConfirmClient_Success(t *testing.T) {
	f := newPaymentFixture()

	pt := pendingTxn()
	paidPt := pt
	paidPt.PaymentStatus = model.PaymentStatusPaid
	paidPt.State = model.GatewayStateCompleted

	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(pt, nil).Once()
	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(paidPt, nil)

	f.gw.On("VerifyClient", mock.Anything, gateway.ClientCallback{
		IntentRef: "intent_123", PaymentRef: "pay_9", Signature: "sig",
	}).Return(gateway.Event{
		IntentRef: "intent_123", PaymentRef: "pay_9",
		State: model.GatewayStateCompleted, PaymentStatus: model.PaymentStatusPaid,
	}, nil)

	f.tx.payments.On("MarkPaid", mock.Anything, "intent_123", "pay_9").Return(true, nil)
	f.tx.orders.On("MarkPaid", mock.Anything, int64(100), "pay_9").Return(true, nil)
	f.tx.carts.On("DeleteByUserID", mock.Anything, int64(10)).Return(nil)

	f.orders.On("FindByID", mock.Anything, int64(100)).Return(
		model.Order{ID: 100, Status: model.OrderStatusConfirmed, PaymentStatus: model.PaymentStatusPaid}, nil)

	out, err := f.uc.ConfirmClient(context.Background(), 10, usecase.ClientCallbackInput{
		IntentRef: "intent_123", PaymentRef: "pay_9", Signature: "sig",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, out.PaymentStatus)
}

func TestPaymentUsecase_HandleWebhook_Paid(t *testing.T) {
	f := newPaymentFixture()

	payload := []byte(`{"event":"paid"}`)
	f.gw.On("VerifyWebhook", payload, "sig").Return(gateway.Event{
		IntentRef: "intent_123", PaymentRef: "pay_9",
		State: model.GatewayStateCompleted, PaymentStatus: model.PaymentStatusPaid,
	}, nil)

	f.payments.On("FindByIntentRef", mock.Anything, "intent_123").Return(pendingTxn(), nil)
	f.tx.payments.On("MarkPaid", mock.Anything, "intent_123", "pay_9").Return(true, nil)
	f.tx.orders.On("MarkPaid", mock.Anything, int64(100), "pay_9").Return(true, nil)
	f.tx.carts.On("DeleteByUserID", mock.Anything, int64(10)).Return(nil)

	err := f.uc.HandleWebhook(context.Background(), payload, "sig")
	assert.NoError(t, err)

	f.tx.carts.AssertExpectations(t)
}

func TestPaymentUsecase_HandleWebhook_UnknownIntentIsSwallowed(t *testing.T) {
	f := newPaymentFixture()

	payload := []byte(`{"event":"paid"}`)
	f.gw.On("VerifyWebhook", payload, "sig").Return(gateway.Event{
		IntentRef: "intent_zzz", PaymentStatus: model.PaymentStatusPaid,
	}, nil)
	f.payments.On("FindByIntentRef", mock.Anything, "intent_zzz").Return(model.PaymentTransaction{}, repo.ErrNotFound)

	//200で受けてゲートウェイの再送を止める
	err := f.uc.HandleWebhook(context.Background(), payload, "sig")
	assert.NoError(t, err)
}

func TestPaymentUsecase_HandleWebhook_BadSignature(t *testing.T) {
	f := newPaymentFixture()

	payload := []byte(`{}`)
	f.gw.On("VerifyWebhook", payload, "bad").Return(gateway.Event{}, gateway.ErrSignatureInvalid)

	err := f.uc.HandleWebhook(context.Background(), payload, "bad")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestPaymentUsecase_HandleWebhook_IgnoresUnrelatedEvents(t *testing.T) {
	f := newPaymentFixture()

	payload := []byte(`{"event":"other"}`)
	f.gw.On("VerifyWebhook", payload, "sig").Return(gateway.Event{}, nil)

	err := f.uc.HandleWebhook(context.Background(), payload, "sig")
	assert.NoError(t, err)

	f.payments.AssertNotCalled(t, "FindByIntentRef", mock.Anything, mock.Anything)
}
