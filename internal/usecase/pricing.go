package usecase

import (
	"errors"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCommissionRate = errors.New("commission rate out of range")
	ErrVariantNotFound       = errors.New("variant not found")
)

// PricedLineは注文確定時点の明細スナップショット
type PricedLine struct {
	MenuItemID   int64
	MenuItemName string
	VariantName  string
	UnitPrice    int64
	Quantity     int64
}

type OrderTotals struct {
	Total      int64
	Commission int64
	Restaurant int64
}

// ComputeTotalsは合計と手数料の取り分を計算する。
// 手数料はdecimalで丸め（round half away from zero）、端数は常に
// total = commission + restaurant が成り立つようrestaurant側が吸収する。
func ComputeTotals(lines []PricedLine, commissionRate float64) (OrderTotals, error) {
	if commissionRate < 0 || commissionRate > 100 {
		return OrderTotals{}, ErrInvalidCommissionRate
	}

	var total int64
	for _, l := range lines {
		total += l.UnitPrice * l.Quantity
	}

	commission := decimal.NewFromInt(total).
		Mul(decimal.NewFromFloat(commissionRate)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()

	return OrderTotals{
		Total:      total,
		Commission: commission,
		Restaurant: total - commission,
	}, nil
}

// ResolveVariantはアイテムからvariantを名前で引く
func ResolveVariant(item model.MenuItem, variantName string) (model.MenuItemVariant, error) {
	for _, v := range item.Variants {
		if v.Name == variantName {
			return v, nil
		}
	}
	return model.MenuItemVariant{}, ErrVariantNotFound
}
