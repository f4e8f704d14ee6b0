package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"app/internal/domain/model"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

// ホスト型。Checkout Sessionを作ってリダイレクトURLを返す。
type StripeGateway struct {
	sc            *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeGateway(secretKey string, webhookSecret string, feURL string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{
		sc:            sc,
		webhookSecret: webhookSecret,
		successURL:    feURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:     feURL + "/payment/cancel",
	}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreateIntent(ctx context.Context, in CreateIntentInput) (Intent, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(in.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
					UnitAmount: stripe.Int64(in.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("order_id", strconv.FormatInt(in.OrderID, 10))
	params.AddMetadata("user_id", strconv.FormatInt(in.UserID, 10))
	params.AddMetadata("receipt", in.Receipt)

	s, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("%w: checkout session create: %v", ErrUnavailable, err)
	}

	return Intent{
		Ref:         s.ID,
		RedirectURL: s.URL,
		Amount:      in.Amount,
		Currency:    in.Currency,
	}, nil
}

func (g *StripeGateway) QueryStatus(ctx context.Context, intentRef string) (Status, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sc.CheckoutSessions.Get(intentRef, params)
	if err != nil {
		return Status{}, fmt.Errorf("%w: checkout session get: %v", ErrUnavailable, err)
	}
	return stripeSessionStatus(s), nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	switch event.Type {
	case "checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"checkout.session.async_payment_failed",
		"checkout.session.expired":
	default:
		//対象外のイベントは無視
		return Event{}, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return Event{}, fmt.Errorf("checkout session unmarshal: %w", err)
	}

	st := stripeSessionStatus(&s)
	if event.Type == "checkout.session.async_payment_failed" {
		//失敗イベントはsession側のstatusに関係なくfailed扱い
		st.State = model.GatewayStateFailed
		st.PaymentStatus = model.PaymentStatusFailed
	}

	return Event{
		IntentRef:     s.ID,
		PaymentRef:    st.PaymentRef,
		State:         st.State,
		PaymentStatus: st.PaymentStatus,
	}, nil
}

// ホスト型はリダイレクト戻りに署名が付かないので、本体へ問い合わせて確定する
func (g *StripeGateway) VerifyClient(ctx context.Context, cb ClientCallback) (Event, error) {
	st, err := g.QueryStatus(ctx, cb.IntentRef)
	if err != nil {
		return Event{}, err
	}
	return Event{
		IntentRef:     cb.IntentRef,
		PaymentRef:    st.PaymentRef,
		State:         st.State,
		PaymentStatus: st.PaymentStatus,
	}, nil
}

// session(status × payment_status)を正規化する
func stripeSessionStatus(s *stripe.CheckoutSession) Status {
	var paymentRef string
	if s.PaymentIntent != nil {
		paymentRef = s.PaymentIntent.ID
	}

	switch s.Status {
	case stripe.CheckoutSessionStatusComplete:
		if s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
			s.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
			return Status{State: model.GatewayStateCompleted, PaymentStatus: model.PaymentStatusPaid, PaymentRef: paymentRef}
		}
		//complete + unpaid は非同期決済の途中
		return Status{State: model.GatewayStateInitiated, PaymentStatus: model.PaymentStatusPending, PaymentRef: paymentRef}
	case stripe.CheckoutSessionStatusExpired:
		return Status{State: model.GatewayStateExpired, PaymentStatus: model.PaymentStatusExpired, PaymentRef: paymentRef}
	default:
		return Status{State: model.GatewayStateInitiated, PaymentStatus: model.PaymentStatusPending, PaymentRef: paymentRef}
	}
}
