package earning_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/earning"
	"vendorpay/internal/app/model"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestCalculate_AboveThresholdSplit(t *testing.T) {
	res, err := earning.Calculate(earning.Input{
		BillingAmount: dec(1000),
		SpareAmount:   dec(100),
		TravelAmount:  dec(50),
		PaymentMethod: model.PaymentMethodOnline,
	}, earning.DefaultRates())

	require.NoError(t, err)
	// (1000-100-50)*0.5 + 100 + 50
	assert.True(t, dec(575).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)
	assert.False(t, res.LowValue)
}

func TestCalculate_LowValueOnlineDeduction(t *testing.T) {
	res, err := earning.Calculate(earning.Input{
		BillingAmount: dec(400),
		PaymentMethod: model.PaymentMethodOnline,
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, dec(380).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)
	assert.True(t, res.LowValue)
}

func TestCalculate_LowValueCashPassThrough(t *testing.T) {
	res, err := earning.Calculate(earning.Input{
		BillingAmount: dec(400),
		PaymentMethod: model.PaymentMethodCash,
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, dec(400).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)
}

func TestCalculate_LowValueGSTAddedBack(t *testing.T) {
	res, err := earning.Calculate(earning.Input{
		BillingAmount: dec(400),
		PaymentMethod: model.PaymentMethodCash,
		GSTIncluded:   true,
	}, earning.DefaultRates())

	require.NoError(t, err)
	// derived GST: 400*0.18 = 72
	assert.True(t, dec(472).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)
	assert.True(t, dec(72).Equal(res.GSTAmount))
}

func TestCalculate_ExplicitGSTWins(t *testing.T) {
	res, err := earning.Calculate(earning.Input{
		BillingAmount: dec(300),
		PaymentMethod: model.PaymentMethodCash,
		GSTIncluded:   true,
		GSTAmount:     dec(40),
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, dec(340).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)
}

func TestCalculate_GSTNotAddedAboveThreshold(t *testing.T) {
	res, err := earning.Calculate(earning.Input{
		BillingAmount: dec(1000),
		PaymentMethod: model.PaymentMethodOnline,
		GSTIncluded:   true,
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, dec(500).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)
}

func TestCalculate_BookingAmountFallback(t *testing.T) {
	res, err := earning.Calculate(earning.Input{
		BookingAmount: dec(450),
		PaymentMethod: model.PaymentMethodCash,
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, dec(450).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)
}

func TestCalculate_OnlineDeductionNeverNegative(t *testing.T) {
	res, err := earning.Calculate(earning.Input{
		BillingAmount: dec(10),
		PaymentMethod: model.PaymentMethodOnline,
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, res.CalculatedAmount.IsZero(), "got %s", res.CalculatedAmount)
}

func TestCalculate_RoundsToTwoPlaces(t *testing.T) {
	res, err := earning.Calculate(earning.Input{
		BillingAmount: dec(1000.555),
		PaymentMethod: model.PaymentMethodOnline,
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, dec(500.28).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)
}

func TestCalculate_ExplicitZeroRatesHonored(t *testing.T) {
	rates := earning.DefaultRates()
	rates.OnlineDeduction = decimal.Zero

	res, err := earning.Calculate(earning.Input{
		BillingAmount: dec(400),
		PaymentMethod: model.PaymentMethodOnline,
	}, rates)
	require.NoError(t, err)
	assert.True(t, dec(400).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)

	rates = earning.DefaultRates()
	rates.PlatformShare = decimal.Zero

	res, err = earning.Calculate(earning.Input{
		BillingAmount: dec(1000),
		PaymentMethod: model.PaymentMethodOnline,
	}, rates)
	require.NoError(t, err)
	assert.True(t, dec(1000).Equal(res.CalculatedAmount), "got %s", res.CalculatedAmount)
}

func TestCalculate_InvalidInput(t *testing.T) {
	_, err := earning.Calculate(earning.Input{
		BillingAmount: dec(-1),
		PaymentMethod: model.PaymentMethodOnline,
	}, earning.DefaultRates())
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = earning.Calculate(earning.Input{
		BillingAmount: dec(100),
		PaymentMethod: model.PaymentMethod("cheque"),
	}, earning.DefaultRates())
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestCashCollectionDeduction_BelowThresholdZero(t *testing.T) {
	d, err := earning.CashCollectionDeduction(earning.Input{
		BillingAmount: dec(400),
		PaymentMethod: model.PaymentMethodCash,
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestCashCollectionDeduction_AboveThreshold(t *testing.T) {
	d, err := earning.CashCollectionDeduction(earning.Input{
		BillingAmount: dec(1000),
		SpareAmount:   dec(100),
		TravelAmount:  dec(50),
		PaymentMethod: model.PaymentMethodCash,
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, dec(425).Equal(d), "got %s", d)
}

func TestCashCollectionDeduction_GSTIncluded(t *testing.T) {
	d, err := earning.CashCollectionDeduction(earning.Input{
		BillingAmount: dec(1000),
		PaymentMethod: model.PaymentMethodCash,
		GSTIncluded:   true,
		GSTAmount:     dec(180),
	}, earning.DefaultRates())

	require.NoError(t, err)
	assert.True(t, dec(680).Equal(d), "got %s", d)
}
