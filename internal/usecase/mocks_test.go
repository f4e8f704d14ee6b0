package usecase_test

import (
	"context"

	"app/internal/domain/model"
	"app/internal/gateway"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user model.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) SetRestaurantID(ctx context.Context, userID int64, restaurantID int64) error {
	args := m.Called(ctx, userID, restaurantID)
	return args.Error(0)
}

type RestaurantRepoMock struct{ mock.Mock }

func (m *RestaurantRepoMock) Create(ctx context.Context, r model.Restaurant) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RestaurantRepoMock) FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	args := m.Called(ctx, restaurantID)
	r, _ := args.Get(0).(model.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepoMock) FindBySlug(ctx context.Context, slug string) (model.Restaurant, error) {
	args := m.Called(ctx, slug)
	r, _ := args.Get(0).(model.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepoMock) FindByOwnerID(ctx context.Context, ownerID int64) (model.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	r, _ := args.Get(0).(model.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepoMock) ListByStatus(ctx context.Context, status model.RestaurantStatus) ([]model.Restaurant, error) {
	args := m.Called(ctx, status)
	items, _ := args.Get(0).([]model.Restaurant)
	return items, args.Error(1)
}

func (m *RestaurantRepoMock) UpdateProfile(ctx context.Context, r model.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RestaurantRepoMock) UpdateStatus(ctx context.Context, restaurantID int64, status model.RestaurantStatus) error {
	args := m.Called(ctx, restaurantID, status)
	return args.Error(0)
}

func (m *RestaurantRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RestaurantRepoMock) CountByStatus(ctx context.Context, status model.RestaurantStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, categoryID int64) (model.Category, error) {
	args := m.Called(ctx, categoryID)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) ListByRestaurantID(ctx context.Context, restaurantID int64) ([]model.Category, error) {
	args := m.Called(ctx, restaurantID)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

type MenuItemRepoMock struct{ mock.Mock }

func (m *MenuItemRepoMock) Create(ctx context.Context, item model.MenuItem) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MenuItemRepoMock) FindByID(ctx context.Context, itemID int64) (model.MenuItem, error) {
	args := m.Called(ctx, itemID)
	item, _ := args.Get(0).(model.MenuItem)
	return item, args.Error(1)
}

func (m *MenuItemRepoMock) List(ctx context.Context, f repo.MenuItemListFilter) ([]model.MenuItem, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Error(1)
}

func (m *MenuItemRepoMock) CountByRestaurantID(ctx context.Context, restaurantID int64) (int64, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartLine)
	return items, args.Error(1)
}

func (m *CartRepoMock) FindLine(ctx context.Context, userID int64, menuItemID int64, variantName string) (model.CartLine, error) {
	args := m.Called(ctx, userID, menuItemID, variantName)
	line, _ := args.Get(0).(model.CartLine)
	return line, args.Error(1)
}

func (m *CartRepoMock) Create(ctx context.Context, line model.CartLine) (int64, error) {
	args := m.Called(ctx, line)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartRepoMock) UpdateQuantity(ctx context.Context, lineID int64, userID int64, quantity int64) error {
	args := m.Called(ctx, lineID, userID, quantity)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteByID(ctx context.Context, lineID int64, userID int64) error {
	args := m.Called(ctx, lineID, userID)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Order, error) {
	args := m.Called(ctx, userID, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) ListByRestaurantID(ctx context.Context, restaurantID int64, limit int) ([]model.Order, error) {
	args := m.Called(ctx, restaurantID, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatusFrom(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) CancelPendingUnpaid(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) SetIntentRef(ctx context.Context, orderID int64, intentRef string) error {
	args := m.Called(ctx, orderID, intentRef)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderID int64, paymentRef string) (bool, error) {
	args := m.Called(ctx, orderID, paymentRef)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) UpdatePaymentStatus(ctx context.Context, orderID int64, ps model.PaymentStatus) error {
	args := m.Called(ctx, orderID, ps)
	return args.Error(0)
}

func (m *OrderRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) CountByRestaurantID(ctx context.Context, restaurantID int64) (int64, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) CountPaidByRestaurantID(ctx context.Context, restaurantID int64) (int64, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) SumPaidAmounts(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) SumPaidRestaurantAmount(ctx context.Context, restaurantID int64) (int64, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

type OrderLineRepoMock struct{ mock.Mock }

func (m *OrderLineRepoMock) CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) error {
	args := m.Called(ctx, orderID, lines)
	return args.Error(0)
}

func (m *OrderLineRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderLine)
	return items, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, pt model.PaymentTransaction) (int64, error) {
	args := m.Called(ctx, pt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepoMock) FindByIntentRef(ctx context.Context, intentRef string) (model.PaymentTransaction, error) {
	args := m.Called(ctx, intentRef)
	pt, _ := args.Get(0).(model.PaymentTransaction)
	return pt, args.Error(1)
}

func (m *PaymentRepoMock) MarkPaid(ctx context.Context, intentRef string, paymentRef string) (bool, error) {
	args := m.Called(ctx, intentRef, paymentRef)
	return args.Bool(0), args.Error(1)
}

func (m *PaymentRepoMock) UpdateState(ctx context.Context, intentRef string, state model.GatewayState, ps model.PaymentStatus) error {
	args := m.Called(ctx, intentRef, state, ps)
	return args.Error(0)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) ListByResource(ctx context.Context, rt model.AuditResourceType, resourceID int64) ([]model.AuditLog, error) {
	args := m.Called(ctx, rt, resourceID)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

// =====================
// Tx stubs（本物のTxは張らず、同じmockをそのまま返す）
// =====================

type txReposStub struct {
	users       *UserRepoMock
	restaurants *RestaurantRepoMock
	menuItems   *MenuItemRepoMock
	carts       *CartRepoMock
	orders      *OrderRepoMock
	orderLines  *OrderLineRepoMock
	payments    *PaymentRepoMock
	auditLogs   *AuditLogRepoMock
}

func (r *txReposStub) Users() repo.UserRepository             { return r.users }
func (r *txReposStub) Restaurants() repo.RestaurantRepository { return r.restaurants }
func (r *txReposStub) MenuItems() repo.MenuItemRepository     { return r.menuItems }
func (r *txReposStub) Carts() repo.CartRepository             { return r.carts }
func (r *txReposStub) Orders() repo.OrderRepository           { return r.orders }
func (r *txReposStub) OrderLines() repo.OrderLineRepository   { return r.orderLines }
func (r *txReposStub) Payments() repo.PaymentRepository       { return r.payments }
func (r *txReposStub) AuditLogs() repo.AuditLogRepository     { return r.auditLogs }

func newTxReposStub() *txReposStub {
	return &txReposStub{
		users:       new(UserRepoMock),
		restaurants: new(RestaurantRepoMock),
		menuItems:   new(MenuItemRepoMock),
		carts:       new(CartRepoMock),
		orders:      new(OrderRepoMock),
		orderLines:  new(OrderLineRepoMock),
		payments:    new(PaymentRepoMock),
		auditLogs:   new(AuditLogRepoMock),
	}
}

type txManagerStub struct {
	repos *txReposStub
}

func (m *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

// =====================
// Gateway mock
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) Name() string { return "mockpay" }

func (m *GatewayMock) CreateIntent(ctx context.Context, in gateway.CreateIntentInput) (gateway.Intent, error) {
	args := m.Called(ctx, in)
	intent, _ := args.Get(0).(gateway.Intent)
	return intent, args.Error(1)
}

func (m *GatewayMock) QueryStatus(ctx context.Context, intentRef string) (gateway.Status, error) {
	args := m.Called(ctx, intentRef)
	st, _ := args.Get(0).(gateway.Status)
	return st, args.Error(1)
}

func (m *GatewayMock) VerifyWebhook(payload []byte, signature string) (gateway.Event, error) {
	args := m.Called(payload, signature)
	ev, _ := args.Get(0).(gateway.Event)
	return ev, args.Error(1)
}

func (m *GatewayMock) VerifyClient(ctx context.Context, cb gateway.ClientCallback) (gateway.Event, error) {
	args := m.Called(ctx, cb)
	ev, _ := args.Get(0).(gateway.Event)
	return ev, args.Error(1)
}
