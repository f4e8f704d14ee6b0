package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/gateway"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentUsecaseは決済の開始・照会・確定を扱う。
// 支払状態の正はPaymentTransactionで、Orderはその投影。
// paidへの遷移は条件付きUPDATEの先勝ちで、pollとwebhookが
// 同時に来てもカート消去や投影は一度しか走らない。
type PaymentUsecase struct {
	cfg      config.Config
	gw       gateway.PaymentGateway
	txm      repo.TransactionManager
	orders   repo.OrderRepository
	payments repo.PaymentRepository
	logger   *zap.Logger
}

func NewPaymentUsecase(
	cfg config.Config,
	gw gateway.PaymentGateway,
	txm repo.TransactionManager,
	orders repo.OrderRepository,
	payments repo.PaymentRepository,
	logger *zap.Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		cfg:      cfg,
		gw:       gw,
		txm:      txm,
		orders:   orders,
		payments: payments,
		logger:   logger,
	}
}

type InitiatePaymentInput struct {
	OrderID int64 `json:"order_id"`
}

type InitiatePaymentOutput struct {
	Provider    string `json:"provider"`
	IntentRef   string `json:"intent_ref"`
	RedirectURL string `json:"redirect_url,omitempty"`
	KeyID       string `json:"key_id,omitempty"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
}

type PaymentStatusOutput struct {
	IntentRef     string              `json:"intent_ref"`
	State         model.GatewayState  `json:"state"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	OrderID       int64               `json:"order_id"`
	OrderStatus   model.OrderStatus   `json:"order_status"`
}

type ClientCallbackInput struct {
	IntentRef  string `json:"intent_ref"`
	PaymentRef string `json:"payment_ref"`
	Signature  string `json:"signature"`
}

// Initiateは決済開始。ゲートウェイでintentを作れた場合だけ
// PaymentTransactionを記録する（孤児レコードを作らない）。
func (u *PaymentUsecase) Initiate(ctx context.Context, userID int64, in InitiatePaymentInput) (InitiatePaymentOutput, error) {
	order, err := u.orders.FindByID(ctx, in.OrderID)
	if err == repo.ErrNotFound {
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if order.UserID != userID {
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if order.PaymentStatus == model.PaymentStatusPaid {
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusBadRequest, "order already paid")
	}
	if order.Status.Terminal() {
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusConflict, "order already finalized")
	}

	receipt := "rcpt_" + uuid.NewString()

	gwCtx, cancel := u.gatewayContext(ctx)
	defer cancel()

	intent, err := u.gw.CreateIntent(gwCtx, gateway.CreateIntentInput{
		Amount:      order.TotalAmount,
		Currency:    u.cfg.Currency,
		OrderID:     order.ID,
		UserID:      userID,
		Receipt:     receipt,
		Description: "Order #" + receipt,
	})
	if err != nil {
		u.logger.Warn("payment intent create failed",
			zap.Int64("order_id", order.ID),
			zap.String("provider", u.gw.Name()),
			zap.Error(err),
		)
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
	}

	metadata, _ := json.Marshal(map[string]string{
		"provider": u.gw.Name(),
		"receipt":  receipt,
	})

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		pt := model.PaymentTransaction{
			IntentRef:     intent.Ref,
			UserID:        userID,
			OrderID:       order.ID,
			Amount:        intent.Amount,
			Currency:      intent.Currency,
			State:         model.GatewayStateInitiated,
			PaymentStatus: model.PaymentStatusPending,
			Metadata:      string(metadata),
		}
		if _, err := r.Payments().Create(ctx, pt); err != nil {
			return err
		}
		return r.Orders().SetIntentRef(ctx, order.ID, intent.Ref)
	})
	if err != nil {
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("payment initiated",
		zap.Int64("order_id", order.ID),
		zap.String("intent_ref", intent.Ref),
		zap.String("provider", u.gw.Name()),
	)

	return InitiatePaymentOutput{
		Provider:    u.gw.Name(),
		IntentRef:   intent.Ref,
		RedirectURL: intent.RedirectURL,
		KeyID:       intent.KeyID,
		Amount:      intent.Amount,
		Currency:    intent.Currency,
	}, nil
}

// Statusはポーリング照会。ローカルで確定済みならゲートウェイへは行かない
// （paidの短絡）。未確定ならゲートウェイに聞いて差分を取り込む。
func (u *PaymentUsecase) Status(ctx context.Context, userID int64, intentRef string) (PaymentStatusOutput, error) {
	pt, err := u.payments.FindByIntentRef(ctx, intentRef)
	if err == repo.ErrNotFound {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if pt.UserID != userID {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if pt.PaymentStatus == model.PaymentStatusPaid {
		return u.statusOutput(ctx, pt.IntentRef, pt.OrderID)
	}

	gwCtx, cancel := u.gatewayContext(ctx)
	defer cancel()

	st, err := u.gw.QueryStatus(gwCtx, intentRef)
	if err != nil {
		u.logger.Warn("payment status query failed",
			zap.String("intent_ref", intentRef),
			zap.Error(err),
		)
		return PaymentStatusOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
	}

	if err := u.reconcile(ctx, pt, st.State, st.PaymentStatus, st.PaymentRef); err != nil {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.statusOutput(ctx, pt.IntentRef, pt.OrderID)
}

// ConfirmClientはフロントから戻ってきた決済結果の確定。
// razorpayは署名検証、stripeはセッション照会で裏を取る。
func (u *PaymentUsecase) ConfirmClient(ctx context.Context, userID int64, in ClientCallbackInput) (PaymentStatusOutput, error) {
	pt, err := u.payments.FindByIntentRef(ctx, in.IntentRef)
	if err == repo.ErrNotFound {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if pt.UserID != userID {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if pt.PaymentStatus == model.PaymentStatusPaid {
		return u.statusOutput(ctx, pt.IntentRef, pt.OrderID)
	}

	gwCtx, cancel := u.gatewayContext(ctx)
	defer cancel()

	event, err := u.gw.VerifyClient(gwCtx, gateway.ClientCallback{
		IntentRef:  in.IntentRef,
		PaymentRef: in.PaymentRef,
		Signature:  in.Signature,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrSignatureInvalid) {
			u.logger.Warn("payment signature verification failed",
				zap.String("intent_ref", in.IntentRef),
				zap.Int64("user_id", userID),
			)
			return PaymentStatusOutput{}, NewHTTPError(http.StatusBadRequest, "signature verification failed")
		}
		return PaymentStatusOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
	}

	if err := u.reconcile(ctx, pt, event.State, event.PaymentStatus, event.PaymentRef); err != nil {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.statusOutput(ctx, pt.IntentRef, pt.OrderID)
}

// HandleWebhookはゲートウェイからの非同期通知。
// 署名不正は400、未知のintentは握って200を返す（ゲートウェイの再送を止める）。
func (u *PaymentUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := u.gw.VerifyWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, gateway.ErrSignatureInvalid) {
			u.logger.Warn("webhook signature verification failed",
				zap.String("provider", u.gw.Name()),
			)
			return NewHTTPError(http.StatusBadRequest, "signature verification failed")
		}
		return NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	//関係ないイベント
	if event.IntentRef == "" {
		return nil
	}

	pt, err := u.payments.FindByIntentRef(ctx, event.IntentRef)
	if err == repo.ErrNotFound {
		u.logger.Warn("webhook for unknown intent",
			zap.String("intent_ref", event.IntentRef),
			zap.String("provider", u.gw.Name()),
		)
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.reconcile(ctx, pt, event.State, event.PaymentStatus, event.PaymentRef); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// reconcileはゲートウェイの最新状態をローカルへ取り込む。
// paidは1トランザクションで「支払行の確定 → 注文への投影 → カート消去」
// まで進め、勝てなかった側（二重通知）は何もしない。
func (u *PaymentUsecase) reconcile(ctx context.Context, pt model.PaymentTransaction, state model.GatewayState, ps model.PaymentStatus, paymentRef string) error {
	switch ps {
	case model.PaymentStatusPaid:
		return u.applyPaid(ctx, pt, paymentRef)
	case model.PaymentStatusFailed, model.PaymentStatusExpired:
		return u.applyNotPaid(ctx, pt, state, ps)
	default:
		//pendingのままなら何も書かない
		return nil
	}
}

func (u *PaymentUsecase) applyPaid(ctx context.Context, pt model.PaymentTransaction, paymentRef string) error {
	var won bool
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		won, err = r.Payments().MarkPaid(ctx, pt.IntentRef, paymentRef)
		if err != nil {
			return err
		}
		if !won {
			//別経路が先に確定済み
			return nil
		}

		if _, err := r.Orders().MarkPaid(ctx, pt.OrderID, paymentRef); err != nil {
			return err
		}
		return r.Carts().DeleteByUserID(ctx, pt.UserID)
	})
	if err != nil {
		return err
	}

	if won {
		u.logger.Info("payment captured",
			zap.String("intent_ref", pt.IntentRef),
			zap.Int64("order_id", pt.OrderID),
			zap.Int64("amount", pt.Amount),
			zap.String("provider", u.gw.Name()),
		)
	}
	return nil
}

func (u *PaymentUsecase) applyNotPaid(ctx context.Context, pt model.PaymentTransaction, state model.GatewayState, ps model.PaymentStatus) error {
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Payments().UpdateState(ctx, pt.IntentRef, state, ps); err != nil {
			return err
		}
		return r.Orders().UpdatePaymentStatus(ctx, pt.OrderID, ps)
	})
	if err != nil {
		return err
	}

	u.logger.Info("payment not captured",
		zap.String("intent_ref", pt.IntentRef),
		zap.Int64("order_id", pt.OrderID),
		zap.String("payment_status", string(ps)),
	)
	return nil
}

func (u *PaymentUsecase) statusOutput(ctx context.Context, intentRef string, orderID int64) (PaymentStatusOutput, error) {
	pt, err := u.payments.FindByIntentRef(ctx, intentRef)
	if err != nil {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return PaymentStatusOutput{
		IntentRef:     pt.IntentRef,
		State:         pt.State,
		PaymentStatus: pt.PaymentStatus,
		OrderID:       order.ID,
		OrderStatus:   order.Status,
	}, nil
}

func (u *PaymentUsecase) gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(u.cfg.GatewayTimeoutSec)*time.Second)
}
