package booking

import (
	"regexp"
	"testing"
	"time"

	"bookflow/internal/domain/shared/daterange"
)

var testContact = Contact{Title: TitleMs, Name: "Jane Smith", Email: "jane@example.com"}

func mustRange(t *testing.T, checkIn, checkOut time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		t.Fatalf("daterange.New: %v", err)
	}
	return dr
}

func newTestBooking(t *testing.T, nightlyRate int64, checkIn, checkOut time.Time) *Booking {
	t.Helper()
	b, err := NewBooking(CreateParams{
		ID:          "bk-1",
		UserID:      "user-1",
		RoomID:      "room-1",
		Range:       mustRange(t, checkIn, checkOut),
		Guests:      2,
		Contact:     testContact,
		NightlyRate: nightlyRate,
	})
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	return b
}

func TestNewBookingComputesTotal(t *testing.T) {
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	b := newTestBooking(t, 100, checkIn, checkIn.AddDate(0, 0, 3))

	if got := b.Nights(); got != 3 {
		t.Errorf("Nights() = %d, want 3", got)
	}
	if b.TotalCents != 300 {
		t.Errorf("TotalCents = %d, want 300", b.TotalCents)
	}
	if b.Status != StatusUpcoming {
		t.Errorf("Status = %q, want %q", b.Status, StatusUpcoming)
	}
}

func TestNewBookingRejectsGuestRange(t *testing.T) {
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	params := CreateParams{
		ID:          "bk-1",
		UserID:      "user-1",
		RoomID:      "room-1",
		Range:       mustRange(t, checkIn, checkIn.AddDate(0, 0, 2)),
		Contact:     testContact,
		NightlyRate: 100,
	}

	params.Guests = 0
	if _, err := NewBooking(params); err != ErrGuestsRange {
		t.Errorf("guests=0 err = %v, want ErrGuestsRange", err)
	}
	params.Guests = MaxGuests + 1
	if _, err := NewBooking(params); err != ErrGuestsRange {
		t.Errorf("guests=%d err = %v, want ErrGuestsRange", MaxGuests+1, err)
	}
}

func TestNewBookingValidatesContact(t *testing.T) {
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	params := CreateParams{
		ID:          "bk-1",
		UserID:      "user-1",
		RoomID:      "room-1",
		Range:       mustRange(t, checkIn, checkIn.AddDate(0, 0, 2)),
		Guests:      2,
		NightlyRate: 100,
	}

	params.Contact = Contact{Title: "Captain", Name: "Jane", Email: "jane@example.com"}
	if _, err := NewBooking(params); err != ErrContactTitleInvalid {
		t.Errorf("bad title err = %v, want ErrContactTitleInvalid", err)
	}
	params.Contact = Contact{Title: TitleDr, Name: "  ", Email: "jane@example.com"}
	if _, err := NewBooking(params); err != ErrContactNameRequired {
		t.Errorf("blank name err = %v, want ErrContactNameRequired", err)
	}
	params.Contact = Contact{Title: TitleDr, Name: "Jane", Email: "not-an-email"}
	if _, err := NewBooking(params); err != ErrContactEmailInvalid {
		t.Errorf("bad email err = %v, want ErrContactEmailInvalid", err)
	}
}

func TestReferenceFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^BK[0-9A-F]{8}$`)
	for i := 0; i < 50; i++ {
		ref, err := NewReference()
		if err != nil {
			t.Fatalf("NewReference: %v", err)
		}
		if !pattern.MatchString(ref) {
			t.Fatalf("NewReference() = %q, want match for %s", ref, pattern)
		}
	}
}

func TestCancelTwiceFails(t *testing.T) {
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	b := newTestBooking(t, 100, checkIn, checkIn.AddDate(0, 0, 2))
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

	if err := b.Cancel(now); err != nil {
		t.Fatalf("first Cancel: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Fatalf("Status = %q, want %q", b.Status, StatusCancelled)
	}
	if err := b.Cancel(now.Add(time.Hour)); err != ErrNotCancellable {
		t.Errorf("second Cancel err = %v, want ErrNotCancellable", err)
	}
	if b.Status != StatusCancelled {
		t.Errorf("Status after second Cancel = %q, want %q", b.Status, StatusCancelled)
	}
}

func TestRefreshStatusMovesElapsedBookingToPast(t *testing.T) {
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	b := newTestBooking(t, 100, checkIn, checkIn.AddDate(0, 0, 2))

	before := checkIn.AddDate(0, 0, 1)
	if b.RefreshStatus(before) {
		t.Error("RefreshStatus before check-out reported a change")
	}

	after := checkIn.AddDate(0, 0, 3)
	if !b.RefreshStatus(after) {
		t.Fatal("RefreshStatus after check-out did not report a change")
	}
	if b.Status != StatusPast {
		t.Fatalf("Status = %q, want %q", b.Status, StatusPast)
	}

	// Past is terminal: further refreshes and cancels change nothing.
	if b.RefreshStatus(after.Add(time.Hour)) {
		t.Error("RefreshStatus on past booking reported a change")
	}
	if err := b.Cancel(after); err != ErrNotCancellable {
		t.Errorf("Cancel on past booking err = %v, want ErrNotCancellable", err)
	}
	if b.Status != StatusPast {
		t.Errorf("Status = %q, want %q", b.Status, StatusPast)
	}
}

func TestRefreshStatusSkipsCancelled(t *testing.T) {
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	b := newTestBooking(t, 100, checkIn, checkIn.AddDate(0, 0, 2))
	_ = b.Cancel(checkIn.AddDate(0, 0, -5))

	if b.RefreshStatus(checkIn.AddDate(0, 0, 30)) {
		t.Error("RefreshStatus on cancelled booking reported a change")
	}
	if b.Status != StatusCancelled {
		t.Errorf("Status = %q, want %q", b.Status, StatusCancelled)
	}
}

func TestValidateCheckInNotPast(t *testing.T) {
	now := time.Date(2026, time.June, 10, 15, 30, 0, 0, time.UTC)

	past := mustRange(t, now.AddDate(0, 0, -2), now.AddDate(0, 0, 1))
	if err := ValidateCheckInNotPast(past, now); err != ErrCheckInPast {
		t.Errorf("past check-in err = %v, want ErrCheckInPast", err)
	}

	// Same-day check-in is allowed even later in the day.
	today := mustRange(t, now.Add(-10*time.Hour), now.AddDate(0, 0, 2))
	if err := ValidateCheckInNotPast(today, now); err != nil {
		t.Errorf("same-day check-in err = %v, want nil", err)
	}

	future := mustRange(t, now.AddDate(0, 0, 10), now.AddDate(0, 0, 13))
	if err := ValidateCheckInNotPast(future, now); err != nil {
		t.Errorf("future check-in err = %v, want nil", err)
	}
}
