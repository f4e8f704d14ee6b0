package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"app/internal/domain/model"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// 署名オーダー型。サーバーでOrderを作り、フロントのSDKが決済後に
// (order_id, payment_id, signature)を返してくるので署名を検証する。
type RazorpayGateway struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

func NewRazorpayGateway(keyID string, keySecret string, webhookSecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

func (g *RazorpayGateway) CreateIntent(ctx context.Context, in CreateIntentInput) (Intent, error) {
	data := map[string]interface{}{
		"amount":          in.Amount,
		"currency":        strings.ToUpper(in.Currency),
		"receipt":         in.Receipt,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"order_id": strconv.FormatInt(in.OrderID, 10),
			"user_id":  strconv.FormatInt(in.UserID, 10),
		},
	}

	body, err := g.do(ctx, func() (map[string]interface{}, error) {
		return g.client.Order.Create(data, nil)
	})
	if err != nil {
		return Intent{}, fmt.Errorf("%w: order create: %v", ErrUnavailable, err)
	}

	ref, _ := body["id"].(string)
	if ref == "" {
		return Intent{}, fmt.Errorf("%w: order create returned no id", ErrUnavailable)
	}

	return Intent{
		Ref:      ref,
		KeyID:    g.keyID,
		Amount:   in.Amount,
		Currency: strings.ToUpper(in.Currency),
	}, nil
}

func (g *RazorpayGateway) QueryStatus(ctx context.Context, intentRef string) (Status, error) {
	body, err := g.do(ctx, func() (map[string]interface{}, error) {
		return g.client.Order.Fetch(intentRef, nil, nil)
	})
	if err != nil {
		return Status{}, fmt.Errorf("%w: order fetch: %v", ErrUnavailable, err)
	}

	status, _ := body["status"].(string)
	switch status {
	case "paid":
		st := Status{State: model.GatewayStateCompleted, PaymentStatus: model.PaymentStatusPaid}
		st.PaymentRef = g.paymentRefOf(ctx, intentRef)
		return st, nil
	case "created", "attempted":
		return Status{State: model.GatewayStateInitiated, PaymentStatus: model.PaymentStatusPending}, nil
	default:
		return Status{State: model.GatewayStateInitiated, PaymentStatus: model.PaymentStatusPending}, nil
	}
}

func (g *RazorpayGateway) VerifyWebhook(payload []byte, signature string) (Event, error) {
	if !utils.VerifyWebhookSignature(string(payload), signature, g.webhookSecret) {
		return Event{}, ErrSignatureInvalid
	}

	env, err := parseRazorpayWebhook(payload)
	if err != nil {
		return Event{}, err
	}

	switch env.EventType {
	case "payment.captured", "order.paid":
		return Event{
			IntentRef:     env.OrderID,
			PaymentRef:    env.PaymentID,
			State:         model.GatewayStateCompleted,
			PaymentStatus: model.PaymentStatusPaid,
		}, nil
	case "payment.failed":
		return Event{
			IntentRef:     env.OrderID,
			PaymentRef:    env.PaymentID,
			State:         model.GatewayStateFailed,
			PaymentStatus: model.PaymentStatusFailed,
		}, nil
	default:
		return Event{}, nil
	}
}

func (g *RazorpayGateway) VerifyClient(ctx context.Context, cb ClientCallback) (Event, error) {
	params := map[string]interface{}{
		"razorpay_order_id":   cb.IntentRef,
		"razorpay_payment_id": cb.PaymentRef,
	}
	if !utils.VerifyPaymentSignature(params, cb.Signature, g.keySecret) {
		return Event{}, ErrSignatureInvalid
	}

	return Event{
		IntentRef:     cb.IntentRef,
		PaymentRef:    cb.PaymentRef,
		State:         model.GatewayStateCompleted,
		PaymentStatus: model.PaymentStatusPaid,
	}, nil
}

// SDKがcontextを受けないのでgoroutineで包んでタイムアウトを効かせる
func (g *RazorpayGateway) do(ctx context.Context, call func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	type result struct {
		body map[string]interface{}
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		body, err := call()
		ch <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.body, r.err
	}
}

type razorpayWebhookEnvelope struct {
	EventType string
	OrderID   string
	PaymentID string
}

func parseRazorpayWebhook(payload []byte) (razorpayWebhookEnvelope, error) {
	var raw struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
				} `json:"entity"`
			} `json:"payment"`
			Order struct {
				Entity struct {
					ID string `json:"id"`
				} `json:"entity"`
			} `json:"order"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return razorpayWebhookEnvelope{}, fmt.Errorf("webhook unmarshal: %w", err)
	}

	env := razorpayWebhookEnvelope{
		EventType: raw.Event,
		OrderID:   raw.Payload.Payment.Entity.OrderID,
		PaymentID: raw.Payload.Payment.Entity.ID,
	}
	if env.OrderID == "" {
		env.OrderID = raw.Payload.Order.Entity.ID
	}
	return env, nil
}

// paid確定後にpayment_idを補完する。取れなくても致命ではない。
func (g *RazorpayGateway) paymentRefOf(ctx context.Context, intentRef string) string {
	body, err := g.do(ctx, func() (map[string]interface{}, error) {
		return g.client.Order.Payments(intentRef, nil, nil)
	})
	if err != nil {
		return ""
	}

	items, _ := body["items"].([]interface{})
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		if status, _ := m["status"].(string); status != "captured" {
			continue
		}
		if id, _ := m["id"].(string); id != "" {
			return id
		}
	}
	return ""
}
