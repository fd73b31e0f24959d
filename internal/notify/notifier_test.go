package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/model"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to []string, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func fixtures() (*model.Booking, *model.Listing, *model.User, *model.User) {
	start := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	booking := &model.Booking{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 4),
		Status:    model.BookingStatusPending,
	}
	listing := &model.Listing{Title: "Canal-side studio"}
	tenant := &model.User{Email: "tenant@example.com", FirstName: "Tara", Role: model.RoleTenant}
	owner := &model.User{Email: "owner@example.com", FirstName: "Olga", Role: model.RoleLandlord}
	return booking, listing, tenant, owner
}

func TestBookingCreatedMailsBothParties(t *testing.T) {
	mailer := &fakeMailer{}
	n := &Notifier{mailer: mailer, siteName: "Rental Service"}
	booking, listing, tenant, owner := fixtures()

	n.BookingCreated(booking, listing, tenant, owner)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, []string{"tenant@example.com"}, mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "Canal-side studio")
	assert.Contains(t, mailer.sent[0].body, "2026-07-01")
	assert.Equal(t, []string{"owner@example.com"}, mailer.sent[1].to)
	assert.Contains(t, mailer.sent[1].body, "tenant@example.com")
}

func TestStatusChangeConfirmedMailsTenant(t *testing.T) {
	mailer := &fakeMailer{}
	n := &Notifier{mailer: mailer}
	booking, listing, tenant, owner := fixtures()
	booking.Status = model.BookingStatusConfirmed

	n.BookingStatusChanged(booking, listing, tenant, owner)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"tenant@example.com"}, mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].subject, "confirmed")
}

func TestStatusChangeCancelledMailsBothParties(t *testing.T) {
	mailer := &fakeMailer{}
	n := &Notifier{mailer: mailer}
	booking, listing, tenant, owner := fixtures()
	booking.Status = model.BookingStatusCancelled

	n.BookingStatusChanged(booking, listing, tenant, owner)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, []string{"tenant@example.com"}, mailer.sent[0].to)
	assert.Equal(t, []string{"owner@example.com"}, mailer.sent[1].to)
}

func TestStatusChangePendingMailsNobody(t *testing.T) {
	mailer := &fakeMailer{}
	n := &Notifier{mailer: mailer}
	booking, listing, tenant, owner := fixtures()

	n.BookingStatusChanged(booking, listing, tenant, owner)
	assert.Empty(t, mailer.sent)
}

func TestReviewCreatedMailsLandlord(t *testing.T) {
	mailer := &fakeMailer{}
	n := &Notifier{mailer: mailer}
	_, listing, _, owner := fixtures()
	review := &model.Review{Rating: 5, Comment: "Great stay"}

	n.ReviewCreated(review, listing, owner)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "5/5")
	assert.Contains(t, mailer.sent[0].body, "Great stay")
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("connection refused")}
	n := &Notifier{mailer: mailer}
	booking, listing, tenant, owner := fixtures()

	assert.NotPanics(t, func() {
		n.BookingCreated(booking, listing, tenant, owner)
	})
	assert.Empty(t, mailer.sent)
}

func TestNilMailerIsNoOp(t *testing.T) {
	n := &Notifier{}
	booking, listing, tenant, owner := fixtures()

	assert.NotPanics(t, func() {
		n.BookingCreated(booking, listing, tenant, owner)
		n.BookingStatusChanged(booking, listing, tenant, owner)
	})
}
