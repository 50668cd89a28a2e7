package service

import (
	"strconv"

	"hopskip/internal/wizard"
)

// The three booking flows share one wizard engine and differ only in their
// step lists. Validators are pure functions over the accumulated form; they
// never touch storage, which keeps the directory lookup on the activity step
// in the service layer.

const (
	FlowSingle = "single"
	FlowBlock  = "block"
	FlowTrial  = "trial"
)

func requireFields(form wizard.Form, fields ...string) map[string]string {
	errs := map[string]string{}
	for _, f := range fields {
		if form[f] == "" {
			errs[f] = "required"
		}
	}
	return errs
}

func validateActivityStep(form wizard.Form) map[string]string {
	errs := requireFields(form, "activity_id")
	if v := form["activity_id"]; v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err != nil || id <= 0 {
			errs["activity_id"] = "must be a positive activity id"
		}
	}
	return errs
}

func validateChildStep(form wizard.Form) map[string]string {
	errs := requireFields(form, "child_id", "child_name")
	if v := form["child_id"]; v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err != nil || id <= 0 {
			errs["child_id"] = "must be a positive child id"
		}
	}
	if v := form["child_age"]; v != "" {
		if age, err := strconv.Atoi(v); err != nil || age < 0 || age > 17 {
			errs["child_age"] = "must be an age between 0 and 17"
		}
	}
	return errs
}

func validateScheduleStep(form wizard.Form) map[string]string {
	errs := requireFields(form, "sessions_total")
	if v := form["sessions_total"]; v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 2 {
			errs["sessions_total"] = "a block needs at least 2 sessions"
		}
	}
	return errs
}

func validatePaymentStep(form wizard.Form) map[string]string {
	errs := requireFields(form, "payment_channel")

	channel := form["payment_channel"]
	switch channel {
	case "", "card", "voucher", "mixed":
	default:
		errs["payment_channel"] = "must be card, voucher or mixed"
		return errs
	}

	card, cardErr := strconv.ParseInt(form["card_paid"], 10, 64)
	voucher, voucherErr := strconv.ParseInt(form["voucher_paid"], 10, 64)

	switch channel {
	case "card":
		if cardErr != nil || card <= 0 {
			errs["card_paid"] = "card amount required"
		}
	case "voucher":
		if voucherErr != nil || voucher <= 0 {
			errs["voucher_paid"] = "voucher amount required"
		}
	case "mixed":
		if cardErr != nil || card <= 0 {
			errs["card_paid"] = "card portion required"
		}
		if voucherErr != nil || voucher <= 0 {
			errs["voucher_paid"] = "voucher portion required"
		}
	}
	return errs
}

func validateConsentStep(form wizard.Form) map[string]string {
	errs := map[string]string{}
	if form["consent"] != "yes" {
		errs["consent"] = "trial sessions require guardian consent"
	}
	return errs
}

var singleFlow = []wizard.StepDef{
	{ID: "activity", Title: "Choose activity", Validate: validateActivityStep},
	{ID: "child", Title: "Child details", Validate: validateChildStep},
	{ID: "payment", Title: "Payment", Validate: validatePaymentStep},
}

var blockFlow = []wizard.StepDef{
	{ID: "activity", Title: "Choose activity", Validate: validateActivityStep},
	{ID: "schedule", Title: "Block schedule", Validate: validateScheduleStep},
	{ID: "child", Title: "Child details", Validate: validateChildStep},
	{ID: "payment", Title: "Payment", Validate: validatePaymentStep},
}

var trialFlow = []wizard.StepDef{
	{ID: "activity", Title: "Choose activity", Validate: validateActivityStep},
	{ID: "child", Title: "Child details", Validate: validateChildStep},
	{ID: "consent", Title: "Trial consent", Validate: validateConsentStep},
}

// FlowDefs returns the step definitions for a named flow.
func FlowDefs(flow string) ([]wizard.StepDef, bool) {
	switch flow {
	case FlowSingle:
		return singleFlow, true
	case FlowBlock:
		return blockFlow, true
	case FlowTrial:
		return trialFlow, true
	}
	return nil, false
}
