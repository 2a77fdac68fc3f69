package gen

import (
	"math/rand/v2"
)

// Transaction types and their draw weights out of 100.
// PURCHASE 85, CASH_ADVANCE 5, BALANCE_TRANSFER 4, REFUND 3, FEE 2,
// ADJUSTMENT 1.
const (
	TypePurchase        = "PURCHASE"
	TypeCashAdvance     = "CASH_ADVANCE"
	TypeBalanceTransfer = "BALANCE_TRANSFER"
	TypeRefund          = "REFUND"
	TypeFee             = "FEE"
	TypeAdjustment      = "ADJUSTMENT"
)

// typeCodes maps a transaction type to its processing code.
var typeCodes = map[string]string{
	TypePurchase:        "00",
	TypeCashAdvance:     "01",
	TypeRefund:          "20",
	TypeBalanceTransfer: "40",
	TypeAdjustment:      "92",
	TypeFee:             "28",
}

// Profile is the correlated skeleton of one transaction. Every
// downstream field derives from it, so amounts, statuses and rates stay
// consistent with each other within a row.
type Profile struct {
	Type     string
	TypeCode string

	Declined bool
	Reversal bool

	MerchantCountry  string
	MerchantCurrency string
	IssuerCountry    string
	IssuerCurrency   string
	CrossBorder      bool

	BaseAmount           float64 // major units
	ChargebackMultiplier float64

	// Mutually exclusive post-auth states.
	HasRefund     bool
	HasVoid       bool
	HasAdjustment bool

	HasTip               bool
	HasShipping          bool
	HasHandling          bool
	HasWarranty          bool
	HasReconciliationFee bool

	IssuerRate      float64
	NetworkRate     float64
	RiskRate        float64
	AcquirerRate    float64
	ExchangeRate    float64
	InterchangeRate float64
	ProcessingRate  float64
}

// drawType draws the transaction type from the fixed distribution.
func drawType(rng *rand.Rand) string {
	switch v := rng.IntN(100); {
	case v < 85:
		return TypePurchase
	case v < 90:
		return TypeCashAdvance
	case v < 94:
		return TypeBalanceTransfer
	case v < 97:
		return TypeRefund
	case v < 99:
		return TypeFee
	default:
		return TypeAdjustment
	}
}

// DrawProfile draws one transaction profile. All draws come from rng, so
// the profile is a pure function of the row seed.
func DrawProfile(rng *rand.Rand) Profile {
	p := Profile{
		Declined: chance(rng, 0.05),
		Reversal: chance(rng, 0.005),
	}

	mcc := countryCurrencies[rng.IntN(len(countryCurrencies))]
	icc := countryCurrencies[rng.IntN(len(countryCurrencies))]
	p.MerchantCountry = mcc.Country
	p.MerchantCurrency = mcc.Currency
	p.IssuerCountry = icc.Country
	p.IssuerCurrency = icc.Currency
	p.CrossBorder = mcc.Country != icc.Country

	p.BaseAmount = rangeF64(rng, 10.00, 9999.99)
	p.ChargebackMultiplier = rangeF64(rng, 0.5, 1.0)

	state := rng.IntN(100)
	p.HasRefund = state < 5
	p.HasVoid = !p.HasRefund && state < 7
	p.HasAdjustment = !p.HasRefund && !p.HasVoid && state < 10

	p.HasTip = !p.Declined && !p.HasRefund && chance(rng, 0.4)
	p.HasShipping = chance(rng, 0.6)
	p.HasHandling = p.HasShipping && chance(rng, 0.5)
	p.HasWarranty = chance(rng, 0.1)
	p.HasReconciliationFee = p.HasAdjustment || p.HasVoid || chance(rng, 0.05)

	p.Type = drawType(rng)
	p.TypeCode = typeCodes[p.Type]

	// Tips only happen on approved purchases.
	if p.Type != TypePurchase {
		p.HasTip = false
	}

	switch p.Type {
	case TypeCashAdvance:
		p.IssuerRate = rangeF64(rng, 0.025, 0.045)
	case TypeBalanceTransfer:
		p.IssuerRate = rangeF64(rng, 0.015, 0.035)
	case TypePurchase:
		p.IssuerRate = rangeF64(rng, 0.005, 0.025)
	default:
		p.IssuerRate = rangeF64(rng, 0.008, 0.020)
	}

	p.NetworkRate = rangeF64(rng, 0.0001, 0.0015)
	if p.CrossBorder {
		p.NetworkRate *= rangeF64(rng, 1.5, 2.5)
	}

	if p.Declined {
		p.RiskRate = rangeF64(rng, 0.008, 0.015)
	} else {
		p.RiskRate = rangeF64(rng, 0.0001, 0.008)
	}
	if p.HasTip {
		p.RiskRate *= 1.2
	}

	switch p.Type {
	case TypeCashAdvance:
		p.AcquirerRate = rangeF64(rng, 0.025, 0.050)
	case TypeBalanceTransfer:
		p.AcquirerRate = rangeF64(rng, 0.020, 0.040)
	case TypePurchase:
		p.AcquirerRate = rangeF64(rng, 0.015, 0.035)
	default:
		p.AcquirerRate = rangeF64(rng, 0.018, 0.030)
	}
	if p.BaseAmount < 100.0 {
		p.AcquirerRate *= rangeF64(rng, 1.1, 1.3)
	}

	p.ExchangeRate = drawExchangeRate(rng, p.MerchantCurrency, p.IssuerCurrency)

	switch p.Type {
	case TypeCashAdvance:
		p.InterchangeRate = rangeF64(rng, 0.020, 0.025)
	case TypeBalanceTransfer:
		p.InterchangeRate = rangeF64(rng, 0.015, 0.020)
	case TypePurchase:
		p.InterchangeRate = rangeF64(rng, 0.005, 0.020)
	default:
		p.InterchangeRate = rangeF64(rng, 0.008, 0.015)
	}
	if p.CrossBorder {
		p.InterchangeRate *= rangeF64(rng, 1.2, 1.5)
	}

	p.ProcessingRate = rangeF64(rng, 0.001, 0.005)
	if p.Declined {
		p.ProcessingRate *= 1.2
	}

	return p
}

// drawExchangeRate crosses the issuer currency into the merchant
// currency via USD with a small market-fluctuation wobble.
func drawExchangeRate(rng *rand.Rand, merchantCurrency, issuerCurrency string) float64 {
	if merchantCurrency == issuerCurrency {
		return 1.0
	}
	to, ok := toUSD[issuerCurrency]
	if !ok {
		to = 1.0
	}
	from, ok := fromUSD[merchantCurrency]
	if !ok {
		from = 1.0
	}
	return to * from * rangeF64(rng, 0.98, 1.02)
}

// drawMTI draws the ISO 8583 message type indicator consistent with the
// profile's flow.
func drawMTI(rng *rand.Rand, p Profile) string {
	if p.Reversal && !p.Declined {
		if chance(rng, 0.8) {
			return "0420"
		}
		return "0400"
	}
	if p.HasVoid {
		return "0100"
	}
	switch v := rng.IntN(100); {
	case v < 36:
		return "0100"
	case v < 56:
		return "0110"
	case v < 71:
		return "0200"
	case v < 86:
		return "0210"
	case v < 91:
		return "0120"
	case v < 94:
		return "0130"
	case v < 97:
		return "0121"
	case v < 99:
		return "0800"
	default:
		return "0810"
	}
}

// drawAuthResponse draws the response code and message pair.
func drawAuthResponse(rng *rand.Rand, p Profile) (code, message string) {
	if p.Declined {
		code = pick(rng, declineCodes)
		switch p.Type {
		case TypeCashAdvance:
			message = "CASH_ADVANCE_DECLINED"
		case TypeBalanceTransfer:
			message = "BALANCE_TRANSFER_DECLINED"
		default:
			message = "DECLINED"
		}
		return code, message
	}
	switch p.Type {
	case TypeCashAdvance:
		code = pick(rng, []string{"00", "85"})
	case TypeBalanceTransfer:
		code = pick(rng, []string{"00", "87"})
	default:
		code = pick(rng, []string{"00", "08", "10"})
	}
	return code, "APPROVED"
}

// drawSettlementStatus draws the settlement outcome.
func drawSettlementStatus(rng *rand.Rand, p Profile) string {
	if p.Declined {
		if chance(rng, 0.7) {
			return "FAILED"
		}
		return "CANCELLED"
	}
	settled := 0.85
	switch p.Type {
	case TypeRefund:
		settled = 0.90
	case TypeCashAdvance:
		settled = 0.95
	}
	if chance(rng, settled) {
		return "SETTLED"
	}
	return "PENDING"
}

// drawClearingStatus draws the clearing outcome. Chargebacks always
// cleared first; declines never clear.
func drawClearingStatus(rng *rand.Rand, p Profile, hasChargeback bool) string {
	if hasChargeback {
		return "CLEARED"
	}
	if p.Declined {
		return "REJECTED"
	}
	switch p.Type {
	case TypeRefund:
		if chance(rng, 0.98) {
			return "CLEARED"
		}
		return "PENDING"
	case TypeCashAdvance:
		if chance(rng, 0.92) {
			return "CLEARED"
		}
		return "PENDING"
	default:
		v := rng.Float64()
		if v < 0.95 {
			return "CLEARED"
		}
		if v < 0.98 {
			return "PENDING"
		}
		return "FAILED"
	}
}

// statusCode reduces the profile to the single-digit lifecycle code.
func statusCode(p Profile, hasChargeback bool) string {
	switch {
	case p.Declined:
		return "5"
	case p.Reversal:
		return "3"
	case p.HasRefund:
		return "4"
	case hasChargeback:
		return "6"
	default:
		return "0"
	}
}
