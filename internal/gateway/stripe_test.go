package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
)

const stripeWebhookSecret = "whsec_test_secret"

func newTestStripeGateway() *StripeGateway {
	return NewStripeGateway("sk_test_key", stripeWebhookSecret, "http://localhost:3000")
}

// Stripe-Signatureヘッダを自前で組み立てる
func stripeSignHeader(payload []byte, secret string) string {
	ts := time.Now().Unix()
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(h.Sum(nil)))
}

func stripeEventPayload(eventType string, sessionStatus string, paymentStatus string) []byte {
	return []byte(fmt.Sprintf(`{
		"api_version": %q,
		"type": %q,
		"data": {
			"object": {
				"id": "cs_test_123",
				"object": "checkout.session",
				"status": %q,
				"payment_status": %q
			}
		}
	}`, stripe.APIVersion, eventType, sessionStatus, paymentStatus))
}

func TestStripeSessionStatus(t *testing.T) {
	cases := []struct {
		name          string
		status        stripe.CheckoutSessionStatus
		paymentStatus stripe.CheckoutSessionPaymentStatus
		wantState     model.GatewayState
		wantPayment   model.PaymentStatus
	}{
		{
			name:          "complete and paid",
			status:        stripe.CheckoutSessionStatusComplete,
			paymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
			wantState:     model.GatewayStateCompleted,
			wantPayment:   model.PaymentStatusPaid,
		},
		{
			name:          "complete without payment required",
			status:        stripe.CheckoutSessionStatusComplete,
			paymentStatus: stripe.CheckoutSessionPaymentStatusNoPaymentRequired,
			wantState:     model.GatewayStateCompleted,
			wantPayment:   model.PaymentStatusPaid,
		},
		{
			name:          "complete but async payment still unpaid",
			status:        stripe.CheckoutSessionStatusComplete,
			paymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
			wantState:     model.GatewayStateInitiated,
			wantPayment:   model.PaymentStatusPending,
		},
		{
			name:        "expired",
			status:      stripe.CheckoutSessionStatusExpired,
			wantState:   model.GatewayStateExpired,
			wantPayment: model.PaymentStatusExpired,
		},
		{
			name:          "open session still pending",
			status:        stripe.CheckoutSessionStatusOpen,
			paymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
			wantState:     model.GatewayStateInitiated,
			wantPayment:   model.PaymentStatusPending,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := stripeSessionStatus(&stripe.CheckoutSession{
				Status:        tc.status,
				PaymentStatus: tc.paymentStatus,
			})
			assert.Equal(t, tc.wantState, st.State)
			assert.Equal(t, tc.wantPayment, st.PaymentStatus)
		})
	}
}

func TestStripeSessionStatus_PaymentRef(t *testing.T) {
	st := stripeSessionStatus(&stripe.CheckoutSession{
		Status:        stripe.CheckoutSessionStatusComplete,
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_123"},
	})
	assert.Equal(t, "pi_123", st.PaymentRef)
}

func TestStripeVerifyWebhook_SessionCompleted(t *testing.T) {
	g := newTestStripeGateway()

	payload := stripeEventPayload("checkout.session.completed", "complete", "paid")

	ev, err := g.VerifyWebhook(payload, stripeSignHeader(payload, stripeWebhookSecret))
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_123", ev.IntentRef)
	assert.Equal(t, model.GatewayStateCompleted, ev.State)
	assert.Equal(t, model.PaymentStatusPaid, ev.PaymentStatus)
}

func TestStripeVerifyWebhook_AsyncPaymentFailed(t *testing.T) {
	g := newTestStripeGateway()

	//失敗イベントはsessionがcompleteのままでもfailedに倒す
	payload := stripeEventPayload("checkout.session.async_payment_failed", "complete", "unpaid")

	ev, err := g.VerifyWebhook(payload, stripeSignHeader(payload, stripeWebhookSecret))
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_123", ev.IntentRef)
	assert.Equal(t, model.GatewayStateFailed, ev.State)
	assert.Equal(t, model.PaymentStatusFailed, ev.PaymentStatus)
}

func TestStripeVerifyWebhook_Expired(t *testing.T) {
	g := newTestStripeGateway()

	payload := stripeEventPayload("checkout.session.expired", "expired", "unpaid")

	ev, err := g.VerifyWebhook(payload, stripeSignHeader(payload, stripeWebhookSecret))
	assert.NoError(t, err)
	assert.Equal(t, model.GatewayStateExpired, ev.State)
	assert.Equal(t, model.PaymentStatusExpired, ev.PaymentStatus)
}

func TestStripeVerifyWebhook_BadSignature(t *testing.T) {
	g := newTestStripeGateway()

	payload := stripeEventPayload("checkout.session.completed", "complete", "paid")

	_, err := g.VerifyWebhook(payload, stripeSignHeader(payload, "whsec_wrong"))
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestStripeVerifyWebhook_UnrelatedEventIgnored(t *testing.T) {
	g := newTestStripeGateway()

	payload := stripeEventPayload("payment_intent.created", "", "")

	ev, err := g.VerifyWebhook(payload, stripeSignHeader(payload, stripeWebhookSecret))
	assert.NoError(t, err)
	assert.Empty(t, ev.IntentRef)
}
