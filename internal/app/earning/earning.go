// Package earning computes vendor payouts from a work unit's billing
// breakdown. It is pure: no storage, no clock, no side effects.
package earning

import (
	"github.com/shopspring/decimal"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/model"
)

// Rates are the tiering constants. They are taken as given: a zero
// OnlineDeduction or PlatformShare means exactly that, so an operator can
// switch a deduction off. DefaultRates returns the standard scheme.
type Rates struct {
	// LowValueThreshold is the billing amount at or below which the job is
	// passed through to the vendor without a percentage split.
	LowValueThreshold decimal.Decimal
	// OnlineDeduction is the flat fee taken from low-value online jobs.
	OnlineDeduction decimal.Decimal
	// PlatformShare is the fraction kept by the platform above the threshold.
	PlatformShare decimal.Decimal
	// GSTRate derives the GST amount when one is not supplied.
	GSTRate decimal.Decimal
}

func DefaultRates() Rates {
	return Rates{
		LowValueThreshold: decimal.NewFromInt(500),
		OnlineDeduction:   decimal.NewFromInt(20),
		PlatformShare:     decimal.NewFromFloat(0.5),
		GSTRate:           decimal.NewFromFloat(0.18),
	}
}

type Input struct {
	BillingAmount decimal.Decimal
	SpareAmount   decimal.Decimal
	TravelAmount  decimal.Decimal
	BookingAmount decimal.Decimal
	PaymentMethod model.PaymentMethod
	GSTIncluded   bool
	GSTAmount     decimal.Decimal
}

// Billing is the effective billing base: bookings invoice through
// BookingAmount, tickets through BillingAmount.
func (in Input) Billing() decimal.Decimal {
	if in.BillingAmount.IsZero() {
		return in.BookingAmount
	}
	return in.BillingAmount
}

func (in Input) validate() error {
	if in.BillingAmount.IsNegative() || in.SpareAmount.IsNegative() ||
		in.TravelAmount.IsNegative() || in.BookingAmount.IsNegative() || in.GSTAmount.IsNegative() {
		return apperr.ErrInvalidInput
	}
	if !in.PaymentMethod.Valid() {
		return apperr.ErrInvalidInput
	}
	return nil
}

type Result struct {
	// CalculatedAmount is the vendor payout, rounded to two decimal places.
	CalculatedAmount decimal.Decimal
	Billing          decimal.Decimal
	GSTAmount        decimal.Decimal
	LowValue         bool
}

// Calculate maps a billing breakdown and payment method to the vendor payout.
//
// The billing amount B is treated as GST-exclusive. At or below the low-value
// threshold the vendor gets the full amount (plus GST when included), minus a
// flat deduction for online payments. Above the threshold the payout is
// (B - spare - travel) x share + spare + travel, with no GST added.
func Calculate(in Input, r Rates) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}

	b := in.Billing()
	gst := decimal.Zero
	if in.GSTIncluded {
		gst = in.GSTAmount
		if gst.IsZero() {
			gst = b.Mul(r.GSTRate)
		}
	}

	res := Result{Billing: b, GSTAmount: gst.Round(2)}

	if b.LessThanOrEqual(r.LowValueThreshold) {
		res.LowValue = true
		payout := b
		if in.PaymentMethod == model.PaymentMethodOnline {
			payout = payout.Sub(r.OnlineDeduction)
			if payout.IsNegative() {
				payout = decimal.Zero
			}
		}
		if in.GSTIncluded {
			payout = payout.Add(gst)
		}
		res.CalculatedAmount = payout.Round(2)
		return res, nil
	}

	labour := b.Sub(in.SpareAmount).Sub(in.TravelAmount)
	payout := labour.Mul(decimal.NewFromInt(1).Sub(r.PlatformShare)).
		Add(in.SpareAmount).Add(in.TravelAmount)
	res.CalculatedAmount = payout.Round(2)
	return res, nil
}

// CashCollectionDeduction is the platform share clawed back from a vendor who
// collected the full amount in cash. Zero at or below the low-value
// threshold; above it, the platform share of the spare/travel-net billing
// amount, plus GST when included.
func CashCollectionDeduction(in Input, r Rates) (decimal.Decimal, error) {
	if err := in.validate(); err != nil {
		return decimal.Zero, err
	}

	b := in.Billing()
	if b.LessThanOrEqual(r.LowValueThreshold) {
		return decimal.Zero, nil
	}

	share := b.Sub(in.SpareAmount).Sub(in.TravelAmount).Mul(r.PlatformShare)
	if in.GSTIncluded {
		gst := in.GSTAmount
		if gst.IsZero() {
			gst = b.Mul(r.GSTRate)
		}
		share = share.Add(gst)
	}
	if share.IsNegative() {
		share = decimal.Zero
	}
	return share.Round(2), nil
}
