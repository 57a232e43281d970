package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa el costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock previo es cero (o negativo), el costo entrante manda.
func WeightedAverageCost(currentQty int64, currentCost decimal.Decimal, incomingQty int64, incomingCost decimal.Decimal) decimal.Decimal {
	if currentQty <= 0 {
		return incomingCost
	}
	qty := decimal.NewFromInt(currentQty)
	inQty := decimal.NewFromInt(incomingQty)
	sum := qty.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := qty.Mul(currentCost).Add(inQty.Mul(incomingCost))
	return num.Div(sum)
}
