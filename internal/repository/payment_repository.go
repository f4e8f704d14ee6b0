package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, pt model.PaymentTransaction) (int64, error)
	FindByIntentRef(ctx context.Context, intentRef string) (model.PaymentTransaction, error)

	// MarkPaidは「まだpaidでない場合だけ」paid/completedにする条件付き更新。
	// poll とwebhookが同時に来ても先勝ちで1回しか成立しない。勝てなければfalse。
	MarkPaid(ctx context.Context, intentRef string, paymentRef string) (bool, error)

	//pending/failed/expiredへの更新。既にpaidの行は書き換えない。
	UpdateState(ctx context.Context, intentRef string, state model.GatewayState, ps model.PaymentStatus) error
}
