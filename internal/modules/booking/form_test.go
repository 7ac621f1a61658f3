package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func fill(t *testing.T, f *Form, i int) {
	t.Helper()
	require.NoError(t, f.Set(i, FieldFullName, "Ada Lovelace"))
	require.NoError(t, f.Set(i, FieldGender, "female"))
	require.NoError(t, f.Set(i, FieldDateOfBirth, "1990-12-10"))
	require.NoError(t, f.Set(i, FieldVerificationID, "X1234567"))
}

func TestSetCountClamps(t *testing.T) {
	f := NewForm(today)
	assert.Equal(t, 1, f.Count())

	f.SetCount(0)
	assert.Equal(t, 1, f.Count())
	f.Decrement()
	assert.Equal(t, 1, f.Count())

	f.SetCount(42)
	assert.Equal(t, MaxTravellers, f.Count())
	f.Increment()
	assert.Equal(t, MaxTravellers, f.Count())
}

func TestSetCountKeepsEntries(t *testing.T) {
	f := NewForm(today)
	fill(t, f, 0)
	f.SetCount(3)

	tr := f.Travellers()
	require.Len(t, tr, 3)
	assert.Equal(t, "Ada Lovelace", tr[0].FullName)
	assert.Equal(t, 2, tr[1].ID)
	assert.Equal(t, 3, tr[2].ID)
	assert.Empty(t, tr[2].FullName)
}

func TestSubmitThreeTravellersEveryBlankField(t *testing.T) {
	for i := 0; i < 3; i++ {
		for _, field := range Fields {
			f := NewForm(today)
			f.SetCount(3)
			for j := 0; j < 3; j++ {
				fill(t, f, j)
			}
			require.NoError(t, f.Set(i, field, ""))

			errs := f.Submit()
			assert.NotEmpty(t, errs, "blank %s for traveller %d", field, i)
			assert.Contains(t, errs, ErrorKey(i, field))
			assert.False(t, f.Confirmed())
		}
	}
}

func TestSubmitAllFilledConfirms(t *testing.T) {
	f := NewForm(today)
	f.SetCount(3)
	for j := 0; j < 3; j++ {
		fill(t, f, j)
	}
	require.NoError(t, f.Set(2, FieldFullName, "x"))
	require.NoError(t, f.Set(2, FieldGender, "other"))
	require.NoError(t, f.Set(2, FieldDateOfBirth, "2026-10-14"))

	assert.Empty(t, f.Submit())
	assert.True(t, f.Confirmed())
	assert.ErrorIs(t, f.Set(0, FieldFullName, "y"), ErrSubmitted)
}

func TestSubmitMessages(t *testing.T) {
	f := NewForm(today)
	require.NoError(t, f.Set(0, FieldFullName, "   "))
	errs := f.Submit()

	assert.Equal(t, map[string]string{
		"0-fullName":       "Full Name is required.",
		"0-gender":         "Please select a gender.",
		"0-dateOfBirth":    "Date of Birth is required.",
		"0-verificationId": "Verification ID is required.",
	}, errs)
}

func TestDateOfBirthUpperBound(t *testing.T) {
	f := NewForm(today)
	fill(t, f, 0)
	require.NoError(t, f.Set(0, FieldDateOfBirth, "2026-10-15"))
	assert.Equal(t, msgDateFuture, f.Submit()["0-dateOfBirth"])

	require.NoError(t, f.Set(0, FieldDateOfBirth, "15/10/1990"))
	assert.Equal(t, msgDateInvalid, f.Submit()["0-dateOfBirth"])
}

func TestSetClearsFieldError(t *testing.T) {
	f := NewForm(today)
	f.Submit()
	require.Len(t, f.Errors(), 4)

	require.NoError(t, f.Set(0, FieldGender, "male"))
	errs := f.Errors()
	assert.NotContains(t, errs, "0-gender")
	assert.Len(t, errs, 3)
}

func TestShrinkDropsErrorsOfRemovedTravellers(t *testing.T) {
	f := NewForm(today)
	f.SetCount(2)
	fill(t, f, 0)
	f.Submit()
	require.Len(t, f.Errors(), 4)

	f.SetCount(1)
	assert.Empty(t, f.Errors())
}

func TestSetRejectsBadInput(t *testing.T) {
	f := NewForm(today)
	assert.ErrorIs(t, f.Set(1, FieldFullName, "x"), ErrNoTraveller)
	assert.ErrorIs(t, f.Set(0, Field("age"), "x"), ErrUnknownField)
}

func TestLoad(t *testing.T) {
	f := NewForm(today)
	f.Load(nil)
	assert.Equal(t, 1, f.Count())
	assert.NotEmpty(t, f.Submit())
}
