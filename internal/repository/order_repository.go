package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Order, error)
	ListByRestaurantID(ctx context.Context, restaurantID int64, limit int) ([]model.Order, error)

	// UpdateStatusFromは読み取った時点のstatusからの遷移だけ成立させる条件付き更新。
	// 裏で別の遷移が入っていればfalse。
	UpdateStatusFrom(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error)
	// CancelPendingUnpaidは購入者キャンセル。支払前のpendingだけ落とす。
	// 読み取りから書き込みの間に支払が確定していればfalse。
	CancelPendingUnpaid(ctx context.Context, orderID int64) (bool, error)
	//initiatePayment時に追跡用のintent_refを載せる
	SetIntentRef(ctx context.Context, orderID int64, intentRef string) error

	// MarkPaidは「まだpaidでない場合だけ」payment_status=paidにする条件付き更新。
	// 併せてstatusがpendingならconfirmedへ進める。勝てなければfalse。
	MarkPaid(ctx context.Context, orderID int64, paymentRef string) (bool, error)

	//failed/expired用。既にpaidの注文は書き換えない。
	UpdatePaymentStatus(ctx context.Context, orderID int64, ps model.PaymentStatus) error

	//集計
	Count(ctx context.Context) (int64, error)
	CountByRestaurantID(ctx context.Context, restaurantID int64) (int64, error)
	CountPaidByRestaurantID(ctx context.Context, restaurantID int64) (int64, error)
	//支払済み注文のtotal/commissionの合計（全店舗）
	SumPaidAmounts(ctx context.Context) (total int64, commission int64, err error)
	//支払済み注文のrestaurant_amount合計（1店舗）
	SumPaidRestaurantAmount(ctx context.Context, restaurantID int64) (int64, error)
}
