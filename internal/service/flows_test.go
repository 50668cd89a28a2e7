package service

import (
	"testing"

	"hopskip/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowDefs(t *testing.T) {
	single, ok := FlowDefs(FlowSingle)
	require.True(t, ok)
	assert.Len(t, single, 3)

	block, ok := FlowDefs(FlowBlock)
	require.True(t, ok)
	assert.Len(t, block, 4)
	assert.Equal(t, "schedule", block[1].ID)

	trial, ok := FlowDefs(FlowTrial)
	require.True(t, ok)
	assert.Len(t, trial, 3)
	assert.Equal(t, "consent", trial[2].ID)

	_, ok = FlowDefs("weekend")
	assert.False(t, ok)
}

func TestValidateActivityStep(t *testing.T) {
	errs := validateActivityStep(wizard.Form{})
	assert.Contains(t, errs, "activity_id")

	errs = validateActivityStep(wizard.Form{"activity_id": "abc"})
	assert.Contains(t, errs, "activity_id")

	errs = validateActivityStep(wizard.Form{"activity_id": "-3"})
	assert.Contains(t, errs, "activity_id")

	errs = validateActivityStep(wizard.Form{"activity_id": "42"})
	assert.Empty(t, errs)
}

func TestValidateChildStep(t *testing.T) {
	errs := validateChildStep(wizard.Form{})
	assert.Contains(t, errs, "child_id")
	assert.Contains(t, errs, "child_name")

	errs = validateChildStep(wizard.Form{"child_id": "7", "child_name": "Maya", "child_age": "25"})
	assert.Contains(t, errs, "child_age")

	errs = validateChildStep(wizard.Form{"child_id": "7", "child_name": "Maya", "child_age": "6"})
	assert.Empty(t, errs)
}

func TestValidateScheduleStep(t *testing.T) {
	errs := validateScheduleStep(wizard.Form{"sessions_total": "1"})
	assert.Contains(t, errs, "sessions_total")

	errs = validateScheduleStep(wizard.Form{"sessions_total": "6"})
	assert.Empty(t, errs)
}

func TestValidatePaymentStep(t *testing.T) {
	errs := validatePaymentStep(wizard.Form{})
	assert.Contains(t, errs, "payment_channel")

	errs = validatePaymentStep(wizard.Form{"payment_channel": "cheque"})
	assert.Contains(t, errs, "payment_channel")

	errs = validatePaymentStep(wizard.Form{"payment_channel": "card"})
	assert.Contains(t, errs, "card_paid")

	errs = validatePaymentStep(wizard.Form{"payment_channel": "card", "card_paid": "5000"})
	assert.Empty(t, errs)

	errs = validatePaymentStep(wizard.Form{"payment_channel": "voucher", "voucher_paid": "3000"})
	assert.Empty(t, errs)

	errs = validatePaymentStep(wizard.Form{"payment_channel": "mixed", "card_paid": "4000"})
	assert.Contains(t, errs, "voucher_paid")

	errs = validatePaymentStep(wizard.Form{"payment_channel": "mixed", "card_paid": "4000", "voucher_paid": "2000"})
	assert.Empty(t, errs)
}

func TestValidateConsentStep(t *testing.T) {
	errs := validateConsentStep(wizard.Form{})
	assert.Contains(t, errs, "consent")

	errs = validateConsentStep(wizard.Form{"consent": "no"})
	assert.Contains(t, errs, "consent")

	errs = validateConsentStep(wizard.Form{"consent": "yes"})
	assert.Empty(t, errs)
}

func TestBookingRequestFromForm(t *testing.T) {
	form := wizard.Form{
		"activity_id":     "9",
		"child_id":        "4",
		"child_name":      "Ben",
		"payment_channel": "mixed",
		"card_paid":       "7500",
		"voucher_paid":    "2500",
		"sessions_total":  "10",
	}

	req, err := bookingRequestFromForm(form)
	require.NoError(t, err)
	assert.Equal(t, int64(9), req.ActivityID)
	assert.Equal(t, int64(4), req.ChildID)
	assert.Equal(t, "Ben", req.ChildName)
	assert.Equal(t, "mixed", req.Channel)
	assert.Equal(t, int64(7500), req.CardPaid)
	assert.Equal(t, int64(2500), req.VoucherPaid)
	assert.Equal(t, 10, req.SessionsTotal)
}

func TestBookingRequestFromTrialForm(t *testing.T) {
	form := wizard.Form{
		"activity_id": "9",
		"child_id":    "4",
		"child_name":  "Ben",
		"consent":     "yes",
	}

	req, err := bookingRequestFromForm(form)
	require.NoError(t, err)
	assert.Equal(t, "card", req.Channel)
	assert.Zero(t, req.CardPaid)
	assert.Zero(t, req.VoucherPaid)
}

func TestBookingRequestFromCorruptForm(t *testing.T) {
	_, err := bookingRequestFromForm(wizard.Form{"activity_id": "nope"})
	assert.Error(t, err)
}
