package booking

import (
	"strconv"
	"strings"
	"time"

	"wanderplan/internal/types"
)

// Form holds the booking modal state. Nothing in it leaves the process.
type Form struct {
	today      time.Time
	travellers []types.Traveller
	errors     map[string]string
	confirmed  bool
}

func NewForm(today time.Time) *Form {
	y, m, d := today.Date()
	f := &Form{
		today:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		errors: map[string]string{},
	}
	f.SetCount(MinTravellers)
	return f
}

func (f *Form) Count() int { return len(f.travellers) }

// SetCount resizes the traveller list to n clamped to [1,10]. Existing
// entries are kept; new ones start blank.
func (f *Form) SetCount(n int) {
	if n < MinTravellers {
		n = MinTravellers
	}
	if n > MaxTravellers {
		n = MaxTravellers
	}
	next := make([]types.Traveller, n)
	copy(next, f.travellers)
	for i := len(f.travellers); i < n; i++ {
		next[i] = types.Traveller{ID: i + 1}
	}
	f.travellers = next

	// errors for removed travellers no longer apply
	for key := range f.errors {
		head, _, _ := strings.Cut(key, "-")
		if idx, err := strconv.Atoi(head); err == nil && idx >= n {
			delete(f.errors, key)
		}
	}
}

func (f *Form) Increment() { f.SetCount(f.Count() + 1) }
func (f *Form) Decrement() { f.SetCount(f.Count() - 1) }

// Travellers returns a copy of the current entries.
func (f *Form) Travellers() []types.Traveller {
	return append([]types.Traveller(nil), f.travellers...)
}

// Set updates one field of traveller index and clears that field's error.
func (f *Form) Set(index int, field Field, value string) error {
	if f.confirmed {
		return ErrSubmitted
	}
	if index < 0 || index >= len(f.travellers) {
		return ErrNoTraveller
	}
	t := &f.travellers[index]
	switch field {
	case FieldFullName:
		t.FullName = value
	case FieldGender:
		t.Gender = value
	case FieldDateOfBirth:
		t.DateOfBirth = value
	case FieldVerificationID:
		t.VerificationID = value
	default:
		return ErrUnknownField
	}
	delete(f.errors, ErrorKey(index, field))
	return nil
}

// Load replaces the form content with travellers, as a client that collected
// the fields itself would submit them.
func (f *Form) Load(travellers []types.Traveller) {
	f.SetCount(len(travellers))
	for i := range f.travellers {
		if i >= len(travellers) {
			break
		}
		in := travellers[i]
		f.travellers[i] = types.Traveller{
			ID:             i + 1,
			FullName:       in.FullName,
			Gender:         in.Gender,
			DateOfBirth:    in.DateOfBirth,
			VerificationID: in.VerificationID,
		}
	}
	f.errors = map[string]string{}
}

// Submit validates every traveller. With no errors the form becomes confirmed.
func (f *Form) Submit() map[string]string {
	if f.confirmed {
		return nil
	}
	errs := map[string]string{}
	for i, t := range f.travellers {
		if strings.TrimSpace(t.FullName) == "" {
			errs[ErrorKey(i, FieldFullName)] = msgFullName
		}
		if t.Gender == "" {
			errs[ErrorKey(i, FieldGender)] = msgGender
		}
		if msg := f.checkDateOfBirth(t.DateOfBirth); msg != "" {
			errs[ErrorKey(i, FieldDateOfBirth)] = msg
		}
		if strings.TrimSpace(t.VerificationID) == "" {
			errs[ErrorKey(i, FieldVerificationID)] = msgVerificationID
		}
	}
	f.errors = errs
	f.confirmed = len(errs) == 0
	return f.Errors()
}

func (f *Form) checkDateOfBirth(v string) string {
	if v == "" {
		return msgDateOfBirth
	}
	dob, err := time.Parse(types.DateLayout, v)
	if err != nil {
		return msgDateInvalid
	}
	if dob.After(f.today) {
		return msgDateFuture
	}
	return ""
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form) Confirmed() bool { return f.confirmed }
