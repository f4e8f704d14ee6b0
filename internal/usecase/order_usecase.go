package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// 直線状の進行順。cancelledは別枠。
var orderStatusRank = map[model.OrderStatus]int{
	model.OrderStatusPending:        0,
	model.OrderStatusConfirmed:      1,
	model.OrderStatusPreparing:      2,
	model.OrderStatusOutForDelivery: 3,
	model.OrderStatusDelivered:      4,
}

// キャンセルできるのは調理が終わる前まで
func cancellableFrom(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusPreparing:
		return true
	}
	return false
}

type OrderUsecase struct {
	cfg    config.Config
	txm    repo.TransactionManager
	orders repo.OrderRepository
	lines  repo.OrderLineRepository
	logger *zap.Logger
}

func NewOrderUsecase(
	cfg config.Config,
	txm repo.TransactionManager,
	orders repo.OrderRepository,
	lines repo.OrderLineRepository,
	logger *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		cfg:    cfg,
		txm:    txm,
		orders: orders,
		lines:  lines,
		logger: logger,
	}
}

type CheckoutInput struct {
	DeliveryAddress string `json:"delivery_address"`
}

type OrderLineDTO struct {
	MenuItemID   int64  `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"`
	VariantName  string `json:"variant_name"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int64  `json:"quantity"`
}

type OrderDTO struct {
	ID               int64               `json:"id"`
	RestaurantID     int64               `json:"restaurant_id"`
	TotalAmount      int64               `json:"total_amount"`
	CommissionAmount int64               `json:"commission_amount"`
	RestaurantAmount int64               `json:"restaurant_amount"`
	DeliveryAddress  string              `json:"delivery_address"`
	Status           model.OrderStatus   `json:"status"`
	PaymentStatus    model.PaymentStatus `json:"payment_status"`
	Lines            []OrderLineDTO      `json:"lines,omitempty"`
}

// Checkoutはカートから注文を作る。明細の名前と単価はこの時点の
// カタログから引き直してスナップショットする（カート追加時の値は信用しない）。
// カート自体は決済完了まで消さない。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (OrderDTO, error) {
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return OrderDTO{}, NewHTTPError(http.StatusBadRequest, "delivery_address is required")
	}

	var out OrderDTO
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		cartLines, err := r.Carts().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if len(cartLines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		restaurantID := cartLines[0].RestaurantID
		restaurant, err := r.Restaurants().FindByID(ctx, restaurantID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		if err != nil {
			return err
		}
		if restaurant.Status != model.RestaurantStatusActive {
			return NewHTTPError(http.StatusConflict, "restaurant not active")
		}

		priced := make([]PricedLine, 0, len(cartLines))
		for _, cl := range cartLines {
			item, err := r.MenuItems().FindByID(ctx, cl.MenuItemID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "menu item no longer available")
			}
			if err != nil {
				return err
			}
			if !item.IsAvailable {
				return NewHTTPError(http.StatusBadRequest, "menu item no longer available")
			}
			variant, err := ResolveVariant(item, cl.VariantName)
			if err != nil || !variant.Available {
				return NewHTTPError(http.StatusBadRequest, "variant no longer available")
			}

			priced = append(priced, PricedLine{
				MenuItemID:   item.ID,
				MenuItemName: item.Name,
				VariantName:  variant.Name,
				UnitPrice:    variant.PriceAmount,
				Quantity:     cl.Quantity,
			})
		}

		//手数料率は注文作成時点の値で確定する
		totals, err := ComputeTotals(priced, restaurant.CommissionRate)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "invalid commission rate")
		}

		order := model.Order{
			UserID:           userID,
			RestaurantID:     restaurantID,
			TotalAmount:      totals.Total,
			CommissionAmount: totals.Commission,
			RestaurantAmount: totals.Restaurant,
			DeliveryAddress:  strings.TrimSpace(in.DeliveryAddress),
			Status:           model.OrderStatusPending,
			PaymentStatus:    model.PaymentStatusPending,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}

		orderLines := make([]model.OrderLine, 0, len(priced))
		for _, p := range priced {
			orderLines = append(orderLines, model.OrderLine{
				MenuItemID:   p.MenuItemID,
				MenuItemName: p.MenuItemName,
				VariantName:  p.VariantName,
				Quantity:     p.Quantity,
				UnitPrice:    p.UnitPrice,
			})
		}
		if err := r.OrderLines().CreateBulk(ctx, orderID, orderLines); err != nil {
			return err
		}

		order.ID = orderID
		out = toOrderDTO(order, orderLines)
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderDTO{}, err
		}
		return OrderDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("order created",
		zap.Int64("order_id", out.ID),
		zap.Int64("user_id", userID),
		zap.Int64("restaurant_id", out.RestaurantID),
		zap.Int64("total_amount", out.TotalAmount),
	)
	return out, nil
}

// Getは注文詳細。本人・店舗管理者・運営だけ見られる。
func (u *OrderUsecase) Get(ctx context.Context, actor Actor, orderID int64) (OrderDTO, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if order.UserID != actor.UserID && !actor.CanManageRestaurant(order.RestaurantID) {
		//他人の注文は存在ごと隠す
		return OrderDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	lines, err := u.lines.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderDTO(order, lines), nil
}

func (u *OrderUsecase) ListMine(ctx context.Context, userID int64, limit int) ([]OrderDTO, error) {
	orders, err := u.orders.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderDTOs(orders), nil
}

func (u *OrderUsecase) ListForRestaurant(ctx context.Context, actor Actor, restaurantID int64, limit int) ([]OrderDTO, error) {
	if !actor.CanManageRestaurant(restaurantID) {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	orders, err := u.orders.ListByRestaurantID(ctx, restaurantID, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderDTOs(orders), nil
}

// UpdateStatusは店舗側のステータス更新。
// 進行は1段ずつ、確定済み（delivered/cancelled）の注文は動かせない。
// pendingから先へ進めるのは支払済みか代引き運用のときだけ。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, actor Actor, orderID int64, newStatus model.OrderStatus) (OrderDTO, error) {
	if !newStatus.Valid() {
		return OrderDTO{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderDTO
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !actor.CanManageRestaurant(order.RestaurantID) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if order.Status.Terminal() {
			return NewHTTPError(http.StatusConflict, "order already finalized")
		}

		if newStatus == model.OrderStatusCancelled {
			if !cancellableFrom(order.Status) {
				return NewHTTPError(http.StatusConflict, "order can no longer be cancelled")
			}
		} else {
			if orderStatusRank[newStatus] != orderStatusRank[order.Status]+1 {
				return NewHTTPError(http.StatusConflict, "invalid status transition")
			}
			if order.Status == model.OrderStatusPending &&
				order.PaymentStatus != model.PaymentStatusPaid && !u.cfg.PayOnDelivery {
				return NewHTTPError(http.StatusConflict, "order not paid")
			}
		}

		before := order.Status
		//読み取ったstatusからの遷移だけ許す。裏で動いていたらやり直してもらう
		ok, err := r.Orders().UpdateStatusFrom(ctx, orderID, before, newStatus)
		if err != nil {
			return err
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "order status changed, retry")
		}

		log := model.AuditLog{
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   statusJSON(string(before)),
			AfterJSON:    statusJSON(string(newStatus)),
		}
		if err := r.AuditLogs().Create(ctx, log); err != nil {
			return err
		}

		order.Status = newStatus
		out = toOrderDTO(order, nil)
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderDTO{}, err
		}
		if err == repo.ErrNotFound {
			return OrderDTO{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return OrderDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", string(newStatus)),
		zap.Int64("actor_user_id", actor.UserID),
	)
	return out, nil
}

// Cancelは購入者による取り消し。支払前のpending注文だけ。
func (u *OrderUsecase) Cancel(ctx context.Context, userID int64, orderID int64) (OrderDTO, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if order.UserID != userID {
		return OrderDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if order.Status != model.OrderStatusPending || order.PaymentStatus == model.PaymentStatusPaid {
		return OrderDTO{}, NewHTTPError(http.StatusConflict, "order can no longer be cancelled")
	}

	//読み取りと書き込みの間に支払が確定するとWHEREで弾かれる
	ok, err := u.orders.CancelPendingUnpaid(ctx, orderID)
	if err != nil {
		return OrderDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return OrderDTO{}, NewHTTPError(http.StatusConflict, "order can no longer be cancelled")
	}

	order.Status = model.OrderStatusCancelled
	return toOrderDTO(order, nil), nil
}

func toOrderDTO(order model.Order, lines []model.OrderLine) OrderDTO {
	dto := OrderDTO{
		ID:               order.ID,
		RestaurantID:     order.RestaurantID,
		TotalAmount:      order.TotalAmount,
		CommissionAmount: order.CommissionAmount,
		RestaurantAmount: order.RestaurantAmount,
		DeliveryAddress:  order.DeliveryAddress,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
	}
	for _, l := range lines {
		dto.Lines = append(dto.Lines, OrderLineDTO{
			MenuItemID:   l.MenuItemID,
			MenuItemName: l.MenuItemName,
			VariantName:  l.VariantName,
			UnitPrice:    l.UnitPrice,
			Quantity:     l.Quantity,
		})
	}
	return dto
}

func toOrderDTOs(orders []model.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o, nil))
	}
	return out
}
