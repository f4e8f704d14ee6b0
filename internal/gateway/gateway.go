package gateway

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var (
	// 署名・シグネチャ検証に失敗した
	ErrSignatureInvalid = errors.New("gateway signature invalid")

	// ゲートウェイに到達できない / タイムアウト
	ErrUnavailable = errors.New("gateway unavailable")
)

// CreateIntentInputは決済開始に必要な情報。金額は最小単位(paise)。
type CreateIntentInput struct {
	Amount      int64
	Currency    string
	OrderID     int64
	UserID      int64
	Receipt     string
	Description string
}

// Intentはゲートウェイが発行した決済ハンドル。
// RedirectURLはホスト型(stripe)のみ、KeyIDは署名オーダー型(razorpay)のみ入る。
type Intent struct {
	Ref         string
	RedirectURL string
	KeyID       string
	Amount      int64
	Currency    string
}

// Statusはゲートウェイへの問い合わせ結果（正規化済み）
type Status struct {
	State         model.GatewayState
	PaymentStatus model.PaymentStatus
	PaymentRef    string
}

// Eventはwebhook/コールバックを正規化したもの。
// IntentRefが空のEventは「このアプリに関係ない通知」を意味し、呼び出し側は無視する。
type Event struct {
	IntentRef     string
	PaymentRef    string
	State         model.GatewayState
	PaymentStatus model.PaymentStatus
}

// ClientCallbackはフロントから戻ってきた決済結果。
// razorpayはPaymentRefとSignatureが必須、stripeはIntentRefだけ使う。
type ClientCallback struct {
	IntentRef  string
	PaymentRef string
	Signature  string
}

type PaymentGateway interface {
	Name() string

	CreateIntent(ctx context.Context, in CreateIntentInput) (Intent, error)

	QueryStatus(ctx context.Context, intentRef string) (Status, error)

	// webhook本文と署名ヘッダを検証してEventへ正規化する
	VerifyWebhook(payload []byte, signature string) (Event, error)

	// フロント経由のコールバック検証
	VerifyClient(ctx context.Context, cb ClientCallback) (Event, error)
}
