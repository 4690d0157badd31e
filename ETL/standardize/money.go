package standardize

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// PricePrecision - количество знаков после запятой при пересчете цены
const PricePrecision = 2

// CostOrZero заменяет отсутствующую стоимость нулем
func CostOrZero(cost decimal.NullDecimal) decimal.Decimal {
	if !cost.Valid {
		return decimal.Zero
	}
	return cost.Decimal
}

// SalesAmount пересчитывает сумму продажи как quantity * |price|, если исходная
// сумма отсутствует, не положительна или не совпадает с quantity * |price|.
// Сравнение выполняется только при известных количестве и цене; при пересчете
// с неизвестным множителем результат - NULL.
func SalesAmount(amount decimal.NullDecimal, quantity sql.NullInt64, price decimal.NullDecimal) decimal.NullDecimal {
	expected, known := expectedAmount(quantity, price)

	needsRepair := !amount.Valid || !amount.Decimal.IsPositive()
	if !needsRepair && known && !amount.Decimal.Equal(expected) {
		needsRepair = true
	}
	if !needsRepair {
		return amount
	}

	if !known {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: expected, Valid: true}
}

// UnitPrice пересчитывает цену как amount / quantity, если исходная цена
// отсутствует или не положительна. Деление на ноль дает NULL.
func UnitPrice(price decimal.NullDecimal, amount decimal.NullDecimal, quantity sql.NullInt64) decimal.NullDecimal {
	if price.Valid && price.Decimal.IsPositive() {
		return price
	}
	if !amount.Valid || !quantity.Valid || quantity.Int64 == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{
		Decimal: amount.Decimal.DivRound(decimal.NewFromInt(quantity.Int64), PricePrecision),
		Valid:   true,
	}
}

func expectedAmount(quantity sql.NullInt64, price decimal.NullDecimal) (decimal.Decimal, bool) {
	if !quantity.Valid || !price.Valid {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromInt(quantity.Int64).Mul(price.Decimal.Abs()), true
}
