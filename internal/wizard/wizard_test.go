package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() []StepDef {
	return []StepDef{
		{
			ID:    "activity",
			Title: "Choose activity",
			Validate: func(f Form) map[string]string {
				errs := map[string]string{}
				if f["activity_id"] == "" {
					errs["activity_id"] = "choose an activity"
				}
				return errs
			},
		},
		{
			ID:    "details",
			Title: "Date and child",
			Validate: func(f Form) map[string]string {
				errs := map[string]string{}
				if f["date"] == "" {
					errs["date"] = "pick a date"
				}
				if f["child_id"] == "" {
					errs["child_id"] = "choose a child"
				}
				return errs
			},
		},
		{
			ID:    "payment",
			Title: "Payment",
			Validate: func(f Form) map[string]string {
				errs := map[string]string{}
				if f["payment_method"] == "" {
					errs["payment_method"] = "confirm a payment method"
				}
				return errs
			},
		},
	}
}

func TestNewStartsAtFirstStep(t *testing.T) {
	w := New("single", testDefs())

	assert.Equal(t, 0, w.Current)
	assert.Equal(t, StepCurrent, w.Steps[0].Status)
	assert.Equal(t, StepPending, w.Steps[1].Status)
	assert.False(t, w.Completed())
}

func TestNextBlockedByValidation(t *testing.T) {
	w := New("single", testDefs())

	w2, err := w.Next()
	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, 0, w2.Current)
	assert.Equal(t, StepError, w2.Steps[0].Status)
	assert.Equal(t, "choose an activity", w2.Steps[0].Errors["activity_id"])

	// The original value is untouched.
	assert.Equal(t, StepCurrent, w.Steps[0].Status)
}

func TestNextAdvances(t *testing.T) {
	w := New("single", testDefs()).SetField("activity_id", "12")

	w2, err := w.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, w2.Current)
	assert.Equal(t, StepCompleted, w2.Steps[0].Status)
	assert.Equal(t, StepCurrent, w2.Steps[1].Status)
}

func TestFormSurvivesValidationFailure(t *testing.T) {
	w := New("single", testDefs()).
		SetField("activity_id", "12").
		SetField("date", "2026-04-01")

	w2, err := w.Next()
	require.NoError(t, err)

	// child_id is still missing: the step fails but nothing entered is lost.
	w3, err := w2.Next()
	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, "2026-04-01", w3.Form["date"])
	assert.Equal(t, "choose a child", w3.Steps[1].Errors["child_id"])
}

func TestPreviousAndRevisit(t *testing.T) {
	w := New("single", testDefs()).SetField("activity_id", "12")
	w, err := w.Next()
	require.NoError(t, err)

	w, err = w.Previous()
	require.NoError(t, err)
	assert.Equal(t, 0, w.Current)
	assert.Equal(t, StepCurrent, w.Steps[0].Status)

	// Changing the answer and failing revokes the earlier completion.
	w = w.SetField("activity_id", "")
	w, err = w.Next()
	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, StepError, w.Steps[0].Status)

	_, err = New("single", testDefs()).Previous()
	assert.ErrorIs(t, err, ErrAtFirstStep)
}

func TestJumpTo(t *testing.T) {
	w := New("single", testDefs()).
		SetField("activity_id", "12").
		SetField("date", "2026-04-01").
		SetField("child_id", "3")
	w, err := w.Next()
	require.NoError(t, err)
	w, err = w.Next()
	require.NoError(t, err)
	require.Equal(t, 2, w.Current)

	// An out-of-range index is rejected and the state is unchanged.
	w2, err := w.JumpTo(3)
	assert.Error(t, err)
	assert.Equal(t, 2, w2.Current)

	back, err := w.JumpTo(0)
	require.NoError(t, err)
	assert.Equal(t, 0, back.Current)
	assert.Equal(t, StepCurrent, back.Steps[0].Status)
	// Intermediate completed steps keep their marks.
	assert.Equal(t, StepCompleted, back.Steps[1].Status)
}

func TestJumpAheadLocked(t *testing.T) {
	w := New("single", testDefs())
	w2, err := w.JumpTo(1)
	assert.ErrorIs(t, err, ErrStepLocked)
	assert.Equal(t, 0, w2.Current)
	assert.Equal(t, StepCurrent, w2.Steps[0].Status)
}

func TestSubmit(t *testing.T) {
	w := completeToLastStep(t)

	// Submit off the last step is illegal.
	_, err := New("single", testDefs()).Submit(func() error { return nil })
	assert.ErrorIs(t, err, ErrNotLastStep)

	// Unvalidated final step blocks submission.
	w2, err := w.Submit(func() error { return nil })
	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, "confirm a payment method", w2.Steps[2].Errors["payment_method"])

	// A failing commit preserves the wizard for retry.
	w = w.SetField("payment_method", "card")
	external := errors.New("gateway unavailable")
	w3, err := w.Submit(func() error { return external })
	assert.ErrorIs(t, err, external)
	assert.Equal(t, 2, w3.Current)
	assert.False(t, w3.Completed())
	assert.Equal(t, "card", w3.Form["payment_method"])

	// Success finishes the wizard.
	done, err := w.Submit(func() error { return nil })
	require.NoError(t, err)
	assert.True(t, done.Completed())
	assert.Equal(t, StepCompleted, done.Steps[2].Status)

	_, err = done.Submit(func() error { return nil })
	assert.ErrorIs(t, err, ErrFinished)
}

func TestSnapshotRoundTrip(t *testing.T) {
	w := completeToLastStep(t).SetField("payment_method", "voucher")

	snap := w.Snapshot()
	restored, err := Restore(snap, testDefs())
	require.NoError(t, err)

	assert.Equal(t, w.Current, restored.Current)
	assert.Equal(t, "voucher", restored.Form["payment_method"])

	done, err := restored.Submit(func() error { return nil })
	require.NoError(t, err)
	assert.True(t, done.Completed())
}

func TestRestoreRejectsMismatchedSnapshot(t *testing.T) {
	snap := New("single", testDefs()).Snapshot()
	snap.Steps = snap.Steps[:2]
	_, err := Restore(snap, testDefs())
	assert.Error(t, err)

	snap = New("single", testDefs()).Snapshot()
	snap.Steps[0].ID = "venue"
	_, err = Restore(snap, testDefs())
	assert.Error(t, err)
}

func completeToLastStep(t *testing.T) Wizard {
	t.Helper()
	w := New("single", testDefs()).
		SetField("activity_id", "12").
		SetField("date", "2026-04-01").
		SetField("child_id", "3")
	w, err := w.Next()
	require.NoError(t, err)
	w, err = w.Next()
	require.NoError(t, err)
	return w
}
