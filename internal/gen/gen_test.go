package gen

import (
	"testing"
	"time"

	"github.com/fluxpay/txnforge/internal/identity"
)

func testParams(t *testing.T) Params {
	t.Helper()
	return Params{
		JobIndex:       42,
		ThreadIndex:    1,
		PartitionDate:  time.Date(2023, time.June, 5, 0, 0, 0, 0, time.UTC),
		CardBrand:      "VISA",
		ChargebackRate: 0.001,
		Identity:       identity.SyntheticRecords(10)[3],
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	p := testParams(t)
	const start, count = 1_000_000_000_500_001, 500

	a, err := Generate(p, start, count)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Generate(p, start, count)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(a.Authorizations) != count || len(b.Authorizations) != count {
		t.Fatalf("row counts: %d, %d, want %d", len(a.Authorizations), len(b.Authorizations), count)
	}
	for i := range a.Authorizations {
		if a.Authorizations[i] != b.Authorizations[i] {
			t.Fatalf("authorization %d differs between runs", i)
		}
		if a.Clearings[i] != b.Clearings[i] {
			t.Fatalf("clearing %d differs between runs", i)
		}
	}
	if len(a.Chargebacks) != len(b.Chargebacks) {
		t.Fatalf("chargeback counts differ: %d vs %d", len(a.Chargebacks), len(b.Chargebacks))
	}
}

func TestGenerateDistinctSeedsDistinctRows(t *testing.T) {
	p := testParams(t)
	a, err := Generate(p, 1_000_000_000_000_001, 100)
	if err != nil {
		t.Fatal(err)
	}

	q := p
	q.ThreadIndex = 2
	b, err := Generate(q, 1_000_000_000_000_001, 100)
	if err != nil {
		t.Fatal(err)
	}

	same := 0
	for i := range a.Authorizations {
		if a.Authorizations[i].TransactionID == b.Authorizations[i].TransactionID {
			same++
		}
	}
	if same > 0 {
		t.Errorf("%d transaction IDs collide across threads", same)
	}
}

func TestGenerateTypeAndDeclineDistribution(t *testing.T) {
	p := testParams(t)
	out, err := Generate(p, 1_000_000_000_000_001, 20_000)
	if err != nil {
		t.Fatal(err)
	}

	byType := map[string]int{}
	declined := 0
	for _, row := range out.Authorizations {
		byType[row.TransactionType]++
		if row.TransactionStatusCode == "5" {
			declined++
		}
	}

	n := float64(len(out.Authorizations))
	checks := []struct {
		name     string
		got      float64
		lo, hi   float64
	}{
		{"purchase share", float64(byType[TypePurchase]) / n, 0.82, 0.88},
		{"cash advance share", float64(byType[TypeCashAdvance]) / n, 0.035, 0.065},
		{"balance transfer share", float64(byType[TypeBalanceTransfer]) / n, 0.025, 0.055},
		{"refund share", float64(byType[TypeRefund]) / n, 0.02, 0.045},
		{"decline share", float64(declined) / n, 0.035, 0.065},
	}
	for _, c := range checks {
		if c.got < c.lo || c.got > c.hi {
			t.Errorf("%s = %.4f, want within [%.3f, %.3f]", c.name, c.got, c.lo, c.hi)
		}
	}
}

func TestGenerateChargebackRateAndConsistency(t *testing.T) {
	p := testParams(t)
	p.ChargebackRate = 0.01
	out, err := Generate(p, 1_000_000_000_000_001, 50_000)
	if err != nil {
		t.Fatal(err)
	}

	rate := float64(len(out.Chargebacks)) / float64(len(out.Authorizations))
	if rate < 0.007 || rate > 0.013 {
		t.Errorf("chargeback rate = %.5f, want about 0.01", rate)
	}

	bySeq := map[int64]int{}
	for i, row := range out.Authorizations {
		bySeq[row.SequenceNumber] = i
	}
	for _, cb := range out.Chargebacks {
		i, ok := bySeq[cb.SequenceNumber]
		if !ok {
			t.Fatalf("chargeback seq %d has no authorization", cb.SequenceNumber)
		}
		auth := out.Authorizations[i]
		if cb.HashPAN != auth.HashPAN || !cb.ProcessDate.Equal(auth.ProcessDate) {
			t.Errorf("chargeback seq %d keys diverge from authorization", cb.SequenceNumber)
		}
		if cb.OriginalTransactionID != auth.TransactionID {
			t.Errorf("chargeback seq %d references %q, auth is %q",
				cb.SequenceNumber, cb.OriginalTransactionID, auth.TransactionID)
		}
		if cb.MerchantID != auth.MerchantID || cb.NetworkID != auth.NetworkID {
			t.Errorf("chargeback seq %d participant fields diverge", cb.SequenceNumber)
		}
		if cb.ChargebackAmountCents > auth.TransactionAmountCents {
			t.Errorf("chargeback seq %d amount %d exceeds transaction %d",
				cb.SequenceNumber, cb.ChargebackAmountCents, auth.TransactionAmountCents)
		}
	}
}

func TestGenerateHashRowsMirrorWideTables(t *testing.T) {
	p := testParams(t)
	p.ChargebackRate = 0.05
	out, err := Generate(p, 1_000_000_000_000_001, 2_000)
	if err != nil {
		t.Fatal(err)
	}

	if len(out.AuthorizationHashes) != len(out.Authorizations) {
		t.Fatalf("auth hash rows %d, auth rows %d", len(out.AuthorizationHashes), len(out.Authorizations))
	}
	if len(out.ClearingHashes) != len(out.Clearings) {
		t.Fatalf("clearing hash rows %d, clearing rows %d", len(out.ClearingHashes), len(out.Clearings))
	}
	if len(out.ChargebackHashes) != len(out.Chargebacks) {
		t.Fatalf("chargeback hash rows %d, chargeback rows %d", len(out.ChargebackHashes), len(out.Chargebacks))
	}
	for i := range out.Authorizations {
		if out.AuthorizationHashes[i].Keys != out.Authorizations[i].Keys {
			t.Fatalf("auth hash row %d keys diverge", i)
		}
		if out.ClearingHashes[i].Keys != out.Clearings[i].Keys {
			t.Fatalf("clearing hash row %d keys diverge", i)
		}
	}
	for i := range out.Chargebacks {
		if out.ChargebackHashes[i].Keys != out.Chargebacks[i].Keys {
			t.Fatalf("chargeback hash row %d keys diverge", i)
		}
	}
}

func TestGenerateFieldCorrelations(t *testing.T) {
	p := testParams(t)
	out, err := Generate(p, 1_000_000_000_000_001, 10_000)
	if err != nil {
		t.Fatal(err)
	}

	for i, auth := range out.Authorizations {
		clr := out.Clearings[i]

		if auth.TransactionStatusCode == "5" {
			if auth.AuthResponseMessage == "APPROVED" {
				t.Errorf("seq %d declined but message APPROVED", auth.SequenceNumber)
			}
			if auth.DeclineReason == "" {
				t.Errorf("seq %d declined without decline reason", auth.SequenceNumber)
			}
			if auth.TipAmountCents != 0 {
				t.Errorf("seq %d declined with tip", auth.SequenceNumber)
			}
			if clr.ReconciliationStatus != "EXCEPTION" {
				t.Errorf("seq %d declined but reconciliation %s", auth.SequenceNumber, clr.ReconciliationStatus)
			}
		} else if auth.DeclineReason != "" && auth.TransactionStatusCode != "5" {
			t.Errorf("seq %d approved with decline reason %q", auth.SequenceNumber, auth.DeclineReason)
		}

		if !auth.InsertDate.After(auth.ProcessDate) {
			t.Errorf("seq %d insert date %v not after process date %v",
				auth.SequenceNumber, auth.InsertDate, auth.ProcessDate)
		}
		if d := auth.ProcessDate.UTC().Truncate(24 * time.Hour); !d.Equal(p.PartitionDate) {
			t.Errorf("seq %d process date %v outside partition day", auth.SequenceNumber, auth.ProcessDate)
		}
		if auth.CardBrand != "VISA" {
			t.Errorf("seq %d card brand %q", auth.SequenceNumber, auth.CardBrand)
		}
	}
}

func TestGenerateTipsOnlyOnApprovedPurchases(t *testing.T) {
	p := testParams(t)
	out, err := Generate(p, 1_000_000_000_000_001, 20_000)
	if err != nil {
		t.Fatal(err)
	}

	tipped := 0
	for _, auth := range out.Authorizations {
		if auth.TipAmountCents == 0 {
			continue
		}
		tipped++
		if auth.TransactionType != TypePurchase {
			t.Errorf("seq %d has a tip on type %s", auth.SequenceNumber, auth.TransactionType)
		}
		if auth.TransactionStatusCode == "5" {
			t.Errorf("seq %d declined with tip", auth.SequenceNumber)
		}
	}

	// Roughly 40% of approved purchases carry a tip.
	share := float64(tipped) / float64(len(out.Authorizations))
	if share < 0.25 || share > 0.40 {
		t.Errorf("tipped share = %.4f, want within [0.25, 0.40]", share)
	}
}

func TestGenerateCardProductDrawIsWeighted(t *testing.T) {
	p := testParams(t)
	out, err := Generate(p, 1_000_000_000_000_001, 20_000)
	if err != nil {
		t.Fatal(err)
	}

	valid := map[string]bool{}
	for _, pw := range productsFor("VISA") {
		valid[pw.Code] = true
	}

	counts := map[string]int{}
	for _, auth := range out.Authorizations {
		if !valid[auth.CardProductID] {
			t.Fatalf("seq %d product %q not in the brand portfolio", auth.SequenceNumber, auth.CardProductID)
		}
		counts[auth.CardProductID]++
	}

	// CSP carries weight 18 of 103 and SAV weight 2, so the flagship
	// must dominate the tail by a wide margin.
	n := float64(len(out.Authorizations))
	if share := float64(counts["CSP"]) / n; share < 0.14 || share > 0.21 {
		t.Errorf("CSP share = %.4f, want within [0.14, 0.21]", share)
	}
	if counts["CSP"] < 3*counts["SAV"] {
		t.Errorf("CSP count %d does not dominate SAV count %d", counts["CSP"], counts["SAV"])
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	p := testParams(t)
	p.Identity = identity.Record{}
	if _, err := Generate(p, 1, 10); err == nil {
		t.Error("expected error for identity without hash_pan")
	}

	p = testParams(t)
	if _, err := Generate(p, 1, 0); err == nil {
		t.Error("expected error for zero count")
	}
}

func TestGenerateRowsShareThreadIdentity(t *testing.T) {
	p := testParams(t)
	out, err := Generate(p, 1_000_000_000_000_001, 200)
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range out.Authorizations {
		if row.HashPAN != p.Identity.HashPAN {
			t.Fatalf("row %d hash_pan %q, want %q", i, row.HashPAN, p.Identity.HashPAN)
		}
	}
}
