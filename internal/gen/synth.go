// Package gen synthesizes correlated payment transaction rows. Every
// row is a pure function of (job index, thread index, sequence number),
// so reruns of a job produce byte-identical data.
package gen

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fluxpay/txnforge/internal/identity"
	"github.com/fluxpay/txnforge/internal/tables"
)

// Params configures one thread's worth of generation.
type Params struct {
	JobIndex    int
	ThreadIndex int

	// PartitionDate is the day all rows are stamped into.
	PartitionDate time.Time

	// CardBrand stamps every row; NetworkBrand picks the dispute
	// reason-code set and defaults to CardBrand.
	CardBrand      string
	NetworkBrand   string
	ChargebackRate float64

	// Identity is the thread's card identity. Every row the thread
	// produces carries its hash_pan.
	Identity identity.Record
}

// Output holds one thread's six row sets. The hash companions mirror
// their wide tables row for row.
type Output struct {
	Authorizations      []tables.AuthorizationRow
	Clearings           []tables.ClearingRow
	Chargebacks         []tables.ChargebackRow
	AuthorizationHashes []tables.HashRow
	ClearingHashes      []tables.HashRow
	ChargebackHashes    []tables.HashRow
}

// Rows returns the total row count across all six tables.
func (o *Output) Rows() int {
	return len(o.Authorizations) + len(o.Clearings) + len(o.Chargebacks) +
		len(o.AuthorizationHashes) + len(o.ClearingHashes) + len(o.ChargebackHashes)
}

// Generate builds count rows starting at startSeq. Each sequence number
// yields exactly one authorization, one clearing and their hash rows; a
// chargeback row appears for a rate-sized fraction, keyed identically to
// its originating authorization.
func Generate(p Params, startSeq, count int64) (*Output, error) {
	if p.Identity.HashPAN == "" {
		return nil, fmt.Errorf("generate: identity has no hash_pan")
	}
	if count <= 0 {
		return nil, fmt.Errorf("generate: row count %d out of range", count)
	}
	networkBrand := p.NetworkBrand
	if networkBrand == "" {
		networkBrand = p.CardBrand
	}

	out := &Output{
		Authorizations:      make([]tables.AuthorizationRow, 0, count),
		Clearings:           make([]tables.ClearingRow, 0, count),
		AuthorizationHashes: make([]tables.HashRow, 0, count),
		ClearingHashes:      make([]tables.HashRow, 0, count),
	}

	for seq := startSeq; seq < startSeq+count; seq++ {
		seed := RowSeed(p.JobIndex, p.ThreadIndex, seq)
		rng := rowRand(seed)

		processDate := timeOn(rng, p.PartitionDate)
		keys := tables.Keys{
			HashPAN:        p.Identity.HashPAN,
			SequenceNumber: seq,
			ProcessDate:    processDate,
			InsertDate:     processDate.AddDate(0, 0, 1+rng.IntN(3)),
		}

		profile := DrawProfile(rng)

		cbRng := chargebackRand(seed)
		hasChargeback := cbRng.Float64() < p.ChargebackRate

		auth := buildAuthorization(rng, keys, profile, p.CardBrand, hasChargeback)
		clearing := buildClearing(rng, auth, profile, hasChargeback)

		out.Authorizations = append(out.Authorizations, auth)
		out.Clearings = append(out.Clearings, clearing)
		out.AuthorizationHashes = append(out.AuthorizationHashes, tables.HashRow{Keys: keys})
		out.ClearingHashes = append(out.ClearingHashes, tables.HashRow{Keys: keys})

		if hasChargeback {
			cb := buildChargeback(cbRng, auth, profile, networkBrand)
			out.Chargebacks = append(out.Chargebacks, cb)
			out.ChargebackHashes = append(out.ChargebackHashes, tables.HashRow{Keys: keys})
		}
	}

	return out, nil
}

func buildAuthorization(rng *rand.Rand, keys tables.Keys, p Profile, brand string, hasChargeback bool) tables.AuthorizationRow {
	row := tables.AuthorizationRow{Keys: keys}

	amount := p.BaseAmount
	row.TransactionID = fmt.Sprintf("TXN%016d", rng.Int64N(1_000_000_000_000_000))
	row.TransactionType = p.Type
	row.TransactionTypeCd = p.TypeCode
	row.TransactionStatusCode = statusCode(p, hasChargeback)
	row.TransactionAmount = money(amount)
	row.TransactionAmountCents = cents(amount)
	row.TransactionFeeAmount = money(amount * rangeF64(rng, 0.015, 0.035))
	row.TransactionTimestamp = keys.ProcessDate
	row.TransactionSource = pick(rng, []string{"POS", "ECOM", "MOTO", "ATM", "RECURRING"})
	row.TransactionCountryCode = p.MerchantCountry
	row.CurrencyCode = p.MerchantCurrency
	row.LocalCurrency = p.MerchantCurrency

	row.MTI = drawMTI(rng, p)
	row.AuthResponseCode, row.AuthResponseMessage = drawAuthResponse(rng, p)
	if p.Declined {
		row.DeclineReason = pick(rng, declineReasons(p.Type))
	}
	row.AuthData = alphaNumeric(rng, 6)
	row.AuthMethod = pick(rng, []string{"PIN", "SIGNATURE", "CDCVM", "NONE", "BIOMETRIC"})

	row.AuthenticationStatus = drawAuthStatus(rng, p)
	row.AVSResult = pick(rng, []string{"Y", "N", "A", "Z", "W", "X", "U", "R"})
	row.CVVResult = pick(rng, []string{"M", "N", "P", "S", "U", "X", "Y"})
	row.CAVVResult = pick(rng, []string{"0", "1", "2", "7", "8", "9", "A", "B"})
	row.ECIIndicator = pick(rng, []string{"05", "06", "07", "02"})
	row.ThreeDSVersion = pick(rng, []string{"2.1.0", "2.2.0", "2.3.1"})
	row.ACSTransactionID = prefixedID(rng, "ACS", 32)
	row.DirectoryServerID = fmt.Sprintf("DS-%s-%s", brand, alphaNumeric(rng, 8))
	row.SCAResult = pick(rng, []string{"EXEMPT", "CHALLENGED", "FRICTIONLESS", "FAILED"})
	row.StepUpIndicator = pick(rng, []string{"Y", "N", "N", "N"})
	row.ExemptionType = pick(rng, []string{"LOW_VALUE", "TRA", "RECURRING", "CORPORATE", "NONE"})
	row.EnrollmentStatus = pick(rng, []string{"Y", "N", "U"})

	row.CardBrand = brand
	row.CardType = pick(rng, []string{"CREDIT", "DEBIT", "PREPAID"})
	row.CardProductID = pickWeighted(rng, productsFor(brand))
	row.CardPresentCode = pick(rng, []string{"0", "1", "2", "8", "9"})
	row.CardholderPresentCode = pick(rng, []string{"0", "1", "2", "3", "4", "5"})
	row.CardholderCountry = p.IssuerCountry
	row.CardholderCurrency = p.IssuerCurrency
	row.CardholderNameHash = hexHash(rng)
	row.ExpiryDate = expiry(rng)

	row.POSEntryMode = pick(rng, []string{"01", "02", "05", "90"})
	row.POSConditionCode = pick(rng, []string{"00", "01", "02", "03", "05", "08"})
	row.TerminalID = prefixedID(rng, "TERM", 8)
	row.TerminalType = pick(rng, []string{"POS", "ATM", "MPOS", "UNATTENDED", "ECOMMERCE"})

	pool := merchantsFor(p.MerchantCountry)
	m := pool[rng.IntN(len(pool))]
	row.MerchantID = m.MID
	row.MerchantName = m.Name
	row.MerchantDBA = m.DBA
	row.MerchantLegalName = m.LegalName
	row.MerchantCode = m.Region
	row.MerchantCategoryCode = m.MCC
	row.MerchantCountryCode = p.MerchantCountry
	row.MerchantRiskIndicator = pick(rng, []string{"LOW", "LOW", "LOW", "MEDIUM", "HIGH"})

	row.AcquirerID = prefixedID(rng, "ACQ", 8)
	row.AcquirerCountryCode = p.MerchantCountry
	row.AcquirerRate = p.AcquirerRate
	row.IssuerID = prefixedID(rng, "ISS", 8)
	row.IssuerCountryCode = p.IssuerCountry
	row.IssuerCurrency = p.IssuerCurrency
	row.IssuerRate = p.IssuerRate
	row.NetworkID = prefixedID(rng, "NET", 6)
	row.NetworkRate = p.NetworkRate
	row.RiskRate = p.RiskRate
	row.RiskScoreTier = drawRiskTier(rng, p)
	row.RiskAnalysisResult = drawRiskResult(rng, p)
	row.ProcessingRate = p.ProcessingRate
	row.ExchangeRate = p.ExchangeRate

	row.CustomerID = prefixedID(rng, "CUST", 12)
	row.SessionID = prefixedID(rng, "SESS", 16)
	row.DeviceFingerprint = prefixedID(rng, "FP", 32)
	row.DeviceChannel = pick(rng, []string{"APP", "BROWSER", "3RI"})
	row.IPAddress = ipv4(rng)
	row.UserAgent = pick(rng, userAgents)
	row.BrowserInfo = pick(rng, []string{"Chrome/120", "Safari/17", "Firefox/121", "Edge/120"})

	row.AccountAgeIndicator = pick(rng, []string{"01", "02", "03", "04", "05"})
	row.AccountChangeIndicator = pick(rng, []string{"01", "02", "03", "04"})
	row.PaymentMethod = pick(rng, []string{"CARD", "CARD", "CARD", "WALLET", "TOKEN"})
	row.WalletType = pick(rng, []string{"NONE", "NONE", "APPLE_PAY", "GOOGLE_PAY", "SAMSUNG_PAY"})
	row.TokenizationMethod = pick(rng, []string{"NONE", "DPAN", "NETWORK_TOKEN"})
	row.TokenRequestorID = fmt.Sprintf("%011d", rng.Int64N(100_000_000_000))
	row.CryptogramType = pick(rng, []string{"NONE", "ARQC", "TAVV", "DTVV"})
	row.ChannelType = pick(rng, []string{"IN_STORE", "ONLINE", "IN_APP", "PHONE"})

	if p.HasTip {
		row.TipAmountCents = cents(amount * rangeF64(rng, 0.10, 0.25))
	}
	row.DailyTransactionCount = int32(1 + rng.IntN(15))
	row.VelocityCheckResult = drawVelocity(rng, p)
	row.AlertPattern = drawAlertPattern(rng, p)

	return row
}

func buildClearing(rng *rand.Rand, auth tables.AuthorizationRow, p Profile, hasChargeback bool) tables.ClearingRow {
	row := tables.ClearingRow{AuthorizationRow: auth}

	row.ClearingID = prefixedID(rng, "CLR", 12)
	row.ClearingBatchID = prefixedID(rng, "CLRB", 12)
	row.ClearingNetwork = auth.CardBrand
	row.ClearingStatus = drawClearingStatus(rng, p, hasChargeback)
	row.ClearingResponseCode = drawClearingResponse(rng, p)
	if row.ClearingResponseCode == "00" {
		row.ClearingResponseMessage = "CLEARED_OK"
	} else {
		row.ClearingResponseMessage = "CLEARING_EXCEPTION"
	}
	row.ClearingCurrency = p.IssuerCurrency
	row.ClearingCountryCode = p.IssuerCountry

	row.SettlementID = prefixedID(rng, "STL", 12)
	row.SettlementBatchID = prefixedID(rng, "STLB", 12)
	row.SettlementAmount = money(p.BaseAmount * p.ExchangeRate)
	row.SettlementStatus = drawSettlementStatus(rng, p)
	row.SettlementCurrency = p.IssuerCurrency
	row.SettlementCountryCode = p.IssuerCountry
	row.OriginalCurrency = p.MerchantCurrency

	row.InterchangeRate = p.InterchangeRate
	row.InterchangeRateType = pick(rng, []string{"QUALIFIED", "MID_QUALIFIED", "NON_QUALIFIED"})
	row.InterchangeCategory = pick(rng, []string{"STANDARD", "ENHANCED", "PREMIUM", "CORPORATE"})
	row.InterchangeProgram = pick(rng, []string{"STANDARD", "ENHANCED", "PREMIUM"})
	row.InterchangeAmountCents = cents(p.BaseAmount * rangeF64(rng, 0.005, 0.025))

	row.ReconciliationStatus = drawReconciliationStatus(rng, p, hasChargeback)
	if p.HasReconciliationFee {
		row.ReconciliationFee = money(rangeF64(rng, 0.05, 2.50))
		row.ReconciliationFeeProcessingCode = pick(rng, []string{"190000", "190001", "190002"})
	} else {
		row.ReconciliationFee = "0.00"
	}

	if p.HasRefund {
		row.RefundStatus = pick(rng, []string{"PROCESSED", "PROCESSED", "PENDING", "FAILED"})
		row.RefundAmountCents = cents(p.BaseAmount * rangeF64(rng, 0.1, 1.0))
	} else {
		row.RefundStatus = "NONE"
	}

	if p.Reversal && !p.Declined {
		row.ReversalCount = 1
		frac := 1.0
		if !chance(rng, 0.9) {
			frac = rangeF64(rng, 0.5, 0.95)
		}
		row.ReversalAmount = money(p.BaseAmount * frac)
		row.ReversalAmountCents = cents(p.BaseAmount * frac)
	} else {
		row.ReversalAmount = "0.00"
	}

	if p.HasVoid {
		row.VoidStatus = pick(rng, []string{"VOIDED", "VOIDED", "PENDING"})
	} else {
		row.VoidStatus = "NONE"
	}
	if p.HasAdjustment {
		row.AdjustmentStatus = pick(rng, []string{"ADJUSTED", "ADJUSTED", "PENDING"})
	} else {
		row.AdjustmentStatus = "NONE"
	}
	row.DisputeStatus = drawDisputeStatus(rng, p, hasChargeback)

	if p.HasShipping {
		row.ShippingAmountCents = cents(rangeF64(rng, 5, 50))
		if p.HasHandling {
			row.HandlingAmountCents = cents(rangeF64(rng, 2, 15))
		}
		row.ShipAddrLine1 = fmt.Sprintf("%d %s", 1+rng.IntN(9999),
			pick(rng, []string{"Main St", "Oak Ave", "High St", "Park Rd", "Station Rd"}))
		row.ShipAddrCity = pick(rng, citiesFor(p.IssuerCountry))
		row.ShipAddrState = alphaNumeric(rng, 2)
		row.ShipAddrPostCode = fmt.Sprintf("%05d", rng.IntN(100_000))
		row.ShipAddrCountry = p.IssuerCountry
	}

	return row
}

func buildChargeback(rng *rand.Rand, auth tables.AuthorizationRow, p Profile, networkBrand string) tables.ChargebackRow {
	amount := p.BaseAmount * p.ChargebackMultiplier
	return tables.ChargebackRow{
		Keys:                  auth.Keys,
		ChargebackCount:       1,
		ChargebackAmount:      money(amount),
		ChargebackAmountCents: cents(amount),
		ChargebackReasonCode:  pick(rng, reasonCodesFor(networkBrand)),
		ChargebackStatus:      pick(rng, []string{"OPEN", "REPRESENTMENT", "PRE_ARBITRATION", "WON", "LOST"}),
		DisputeStatus:         pick(rng, []string{"INITIATED", "PENDING", "RESOLVED"}),
		OriginalTransactionID: auth.TransactionID,
		TransactionAmount:     auth.TransactionAmount,
		TransactionType:       auth.TransactionType,
		CardBrand:             auth.CardBrand,
		MerchantID:            auth.MerchantID,
		MerchantCategoryCode:  auth.MerchantCategoryCode,
		IssuerCountryCode:     auth.IssuerCountryCode,
		NetworkID:             auth.NetworkID,
	}
}

func drawAuthStatus(rng *rand.Rand, p Profile) string {
	if p.Declined {
		return pick(rng, []string{"N", "R", "U"})
	}
	return pick(rng, []string{"Y", "Y", "Y", "A", "C"})
}

func drawRiskTier(rng *rand.Rand, p Profile) string {
	if p.Declined {
		return pick(rng, []string{"HIGH", "HIGH", "CRITICAL"})
	}
	return pick(rng, []string{"LOW", "LOW", "LOW", "MEDIUM", "HIGH"})
}

func drawRiskResult(rng *rand.Rand, p Profile) string {
	if p.Declined {
		return pick(rng, []string{"REVIEW", "REJECT", "REJECT"})
	}
	return pick(rng, []string{"PASS", "PASS", "PASS", "PASS", "REVIEW"})
}

func drawVelocity(rng *rand.Rand, p Profile) string {
	if p.Declined {
		return pick(rng, []string{"FAIL", "FAIL", "WARNING", "PASS"})
	}
	return pick(rng, []string{"PASS", "PASS", "PASS", "PASS", "WARNING"})
}

func drawAlertPattern(rng *rand.Rand, p Profile) string {
	if p.Declined {
		return pick(rng, []string{"VELOCITY", "GEO_MISMATCH", "AMOUNT_SPIKE", "NONE"})
	}
	return pick(rng, []string{"NONE", "NONE", "NONE", "NONE", "VELOCITY"})
}

func drawClearingResponse(rng *rand.Rand, p Profile) string {
	if p.Declined {
		return pick(rng, []string{"01", "02", "03", "04", "05"})
	}
	if chance(rng, 0.9) {
		return "00"
	}
	return pick(rng, []string{"01", "02"})
}

func drawDisputeStatus(rng *rand.Rand, p Profile, hasChargeback bool) string {
	if hasChargeback {
		return pick(rng, []string{"INITIATED", "PENDING", "RESOLVED"})
	}
	if p.Declined {
		return "NONE"
	}
	if chance(rng, 0.95) {
		return "NONE"
	}
	return "CLOSED"
}

func drawReconciliationStatus(rng *rand.Rand, p Profile, hasChargeback bool) string {
	if p.Declined {
		return "EXCEPTION"
	}
	if hasChargeback {
		return "UNMATCHED"
	}
	matched := 0.88
	if p.Type == TypeRefund {
		matched = 0.95
	}
	if chance(rng, matched) {
		return "MATCHED"
	}
	return "PENDING"
}
