package jobs

import (
	"context"
	"log/slog"
	"time"

	"hopskip/internal/lifecycle"
	"hopskip/internal/messaging"
	"hopskip/internal/models"
	"hopskip/internal/repository"
)

const sweepInterval = time.Minute

// CompletionJob closes out confirmed bookings whose scheduled slot has
// finished. Single and trial bookings complete outright; a block booking
// consumes one session and rolls forward to the next week until its last
// session, which completes it.
type CompletionJob struct {
	bookingRepo *repository.BookingRepository
	machine     *lifecycle.Machine
	natsClient  *messaging.NATSClient
	ticker      *time.Ticker
	done        chan bool
}

func NewCompletionJob(bookingRepo *repository.BookingRepository, machine *lifecycle.Machine, natsClient *messaging.NATSClient) *CompletionJob {
	return &CompletionJob{
		bookingRepo: bookingRepo,
		machine:     machine,
		natsClient:  natsClient,
		done:        make(chan bool),
	}
}

// Start begins the background sweep.
func (j *CompletionJob) Start(ctx context.Context) {
	slog.Info("Starting completion sweep", "interval", sweepInterval.String())

	j.ticker = time.NewTicker(sweepInterval)

	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.sweep(ctx)
			case <-j.done:
				slog.Info("Completion sweep stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job.
func (j *CompletionJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *CompletionJob) sweep(ctx context.Context) {
	now := time.Now()

	elapsed, err := j.bookingRepo.GetElapsed(ctx, now)
	if err != nil {
		slog.Error("Failed to get elapsed bookings", "error", err)
		return
	}

	if len(elapsed) == 0 {
		slog.Debug("No elapsed bookings found")
		return
	}

	slog.Info("Found elapsed bookings to process", "count", len(elapsed))

	for _, booking := range elapsed {
		if err := j.advance(ctx, &booking, now); err != nil {
			slog.Error("Failed to advance elapsed booking",
				"error", err,
				"booking_id", booking.ID,
				"activity_id", booking.ActivityID)
		}
	}
}

// advance consumes the finished session and either rolls the booking to its
// next weekly slot or completes it.
func (j *CompletionJob) advance(ctx context.Context, booking *models.Booking, now time.Time) error {
	if booking.SessionsUsed+1 < booking.SessionsTotal {
		booking.SessionsUsed++
		booking.ActivityDate = booking.ActivityDate.AddDate(0, 0, 7)
		booking.StartTime = booking.StartTime.AddDate(0, 0, 7)
		booking.EndTime = booking.EndTime.AddDate(0, 0, 7)

		if err := j.bookingRepo.Update(ctx, booking); err != nil {
			return err
		}

		slog.Info("Advanced block booking to next session",
			"booking_id", booking.ID,
			"sessions_used", booking.SessionsUsed,
			"next_date", booking.ActivityDate)
		return nil
	}

	booking.SessionsUsed = booking.SessionsTotal
	if err := j.machine.Complete(booking, now); err != nil {
		return err
	}
	if err := j.bookingRepo.Update(ctx, booking); err != nil {
		return err
	}

	event := models.BookingCompletedEvent{
		BookingID:  booking.ID,
		ActivityID: booking.ActivityID,
		Timestamp:  time.Now(),
	}
	if err := j.natsClient.Publish(models.EventBookingCompleted, event); err != nil {
		slog.Error("Failed to publish booking completed event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", "booking.completed")
	}

	slog.Info("Completed booking", "booking_id", booking.ID)
	return nil
}
