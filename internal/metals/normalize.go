package metals

// Normalize reduces a raw transaction to canonical units: quantity in troy
// ounces, price in currency per ounce, and the trade's cash effect. Fees
// increase the cash committed on a buy and reduce the proceeds of a sell.
//
// Normalize trusts its input. Well-formedness (positive quantity and
// price, known units) is the validator's job; feeding it an unvalidated
// record is a programmer error, not a recoverable condition.
func Normalize(raw RawTransaction) NormalizedTransaction {
	qtyOz := raw.Quantity
	if raw.QuantityUnit == UnitGram {
		qtyOz = GramsToOz(raw.Quantity)
	}

	pricePerOz := raw.Price
	if raw.PriceUnit == PricePerGram {
		pricePerOz = PricePerGramToPerOz(raw.Price)
	}

	gross := qtyOz * pricePerOz
	cash := gross + raw.Fees
	if raw.Side == SideSell {
		cash = gross - raw.Fees
	}

	return NormalizedTransaction{
		RawTransaction: raw,
		QuantityOz:     qtyOz,
		PricePerOz:     pricePerOz,
		CashAmount:     cash,
	}
}
