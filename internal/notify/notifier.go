package notify

import (
	"fmt"

	"go.uber.org/zap"

	"rental-service/internal/model"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

// Notifier sends the marketplace's email notifications. Handlers call it
// explicitly after a successful database write; it never runs inside a
// transaction and a delivery failure is logged, not surfaced or retried.
type Notifier struct {
	mailer   Mailer
	siteName string
}

var notifier = &Notifier{}

// Initialize configures the package-level notifier. A nil mailer turns
// every dispatch into a logged no-op.
func Initialize(mailer Mailer, siteName string) {
	notifier = &Notifier{mailer: mailer, siteName: siteName}
}

// GetNotifier returns the package-level notifier
func GetNotifier() *Notifier {
	return notifier
}

const dateLayout = "2006-01-02"

// BookingCreated mails both parties about a new pending booking
func (n *Notifier) BookingCreated(booking *model.Booking, listing *model.Listing, tenant, owner *model.User) {
	start := booking.StartDate.Format(dateLayout)
	end := booking.EndDate.Format(dateLayout)

	n.send("booking_created", []string{tenant.Email},
		fmt.Sprintf("Your booking request — %s", listing.Title),
		fmt.Sprintf("Hello %s!\n\nYou have requested to book \"%s\" from %s to %s.\n\nThank you for using %s!",
			tenant.FirstName, listing.Title, start, end, n.siteName))

	n.send("booking_created", []string{owner.Email},
		fmt.Sprintf("New booking — %s", listing.Title),
		fmt.Sprintf("Hello %s!\n\nUser %s has booked your listing \"%s\" from %s to %s.\n\nPlease confirm the booking in your account.",
			owner.FirstName, tenant.Email, listing.Title, start, end))
}

// BookingStatusChanged mails the affected parties when a booking is
// confirmed or cancelled. Other status values dispatch nothing.
func (n *Notifier) BookingStatusChanged(booking *model.Booking, listing *model.Listing, tenant, owner *model.User) {
	start := booking.StartDate.Format(dateLayout)
	end := booking.EndDate.Format(dateLayout)

	switch booking.Status {
	case model.BookingStatusConfirmed:
		n.send("booking_confirmed", []string{tenant.Email},
			fmt.Sprintf("Booking confirmed — %s", listing.Title),
			fmt.Sprintf("Hello %s!\n\nThe landlord has confirmed your booking of \"%s\" from %s to %s.\n\nWelcome!",
				tenant.FirstName, listing.Title, start, end))

	case model.BookingStatusCancelled:
		n.send("booking_cancelled", []string{tenant.Email},
			"Booking cancelled",
			fmt.Sprintf("The booking of \"%s\" has been cancelled.", listing.Title))
		n.send("booking_cancelled", []string{owner.Email},
			"Booking cancelled",
			fmt.Sprintf("A booking of your listing \"%s\" has been cancelled.", listing.Title))
	}
}

// ReviewCreated mails the landlord about a new review
func (n *Notifier) ReviewCreated(review *model.Review, listing *model.Listing, owner *model.User) {
	n.send("review_created", []string{owner.Email},
		fmt.Sprintf("New review — %s", listing.Title),
		fmt.Sprintf("Hello %s!\n\nA tenant left a review on your listing \"%s\":\n\nRating: %d/5\nComment: %s",
			owner.FirstName, listing.Title, review.Rating, review.Comment))
}

func (n *Notifier) send(kind string, to []string, subject, body string) {
	log := logger.GetLogger()
	if n.mailer == nil {
		prometheus.RecordEmail(kind, "skipped")
		log.Debug("Email delivery disabled, skipping notification",
			zap.String("kind", kind), zap.Strings("to", to))
		return
	}

	if err := n.mailer.Send(to, subject, body); err != nil {
		prometheus.RecordEmail(kind, "failed")
		log.Error("Failed to send notification email",
			zap.String("kind", kind), zap.Strings("to", to), zap.Error(err))
		return
	}

	prometheus.RecordEmail(kind, "sent")
	log.Info("Notification email sent",
		zap.String("kind", kind), zap.Strings("to", to))
}
