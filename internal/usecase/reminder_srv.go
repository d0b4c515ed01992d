package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gio213/rent-and-go/internal/data/entity"
	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/internal/dto/response"
	"github.com/gio213/rent-and-go/pkg/mailer"
	"github.com/gio213/rent-and-go/pkg/metrics"

	"go.uber.org/zap"
)

type ReminderService interface {
	// Run executes one sweep and reports counts per stage.
	Run(ctx context.Context) (*response.ReminderSweepResponse, error)
}

type reminderService struct {
	repo    *repository.Repository
	mail    mailer.Mailer
	metrics *metrics.Metrics
	window  time.Duration
	limit   int
	now     func() time.Time
	log     *zap.Logger
}

func NewReminderService(repo *repository.Repository, mail mailer.Mailer, m *metrics.Metrics, window time.Duration, limit int, log *zap.Logger) ReminderService {
	return &reminderService{
		repo:    repo,
		mail:    mail,
		metrics: m,
		window:  window,
		limit:   limit,
		now:     time.Now,
		log:     log.With(zap.String("service", "reminder")),
	}
}

// Run sweeps bookings due back soon. The repository does the coarse
// unreminded-within-window query; the precise filter keeps only
// bookings whose end date is "tomorrow" on the renter's own calendar.
// Sends fan out and each send+mark pair is independent, so one failure
// never aborts the batch.
func (s *reminderService) Run(ctx context.Context) (*response.ReminderSweepResponse, error) {
	candidates, err := s.repo.Booking.FindReminderCandidates(ctx, s.window, s.limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var toSend []*entity.ReminderCandidate
	for _, c := range candidates {
		if c.Email == "" {
			s.log.Warn("Reminder candidate without email, skipping",
				zap.String("booking_id", c.BookingID.String()),
			)
			continue
		}
		if endsTomorrow(c.EndDate, c.TimeZone, now) {
			toSend = append(toSend, c)
		}
	}

	results := make(chan bool, len(toSend))
	var wg sync.WaitGroup
	for _, c := range toSend {
		wg.Add(1)
		go func(c *entity.ReminderCandidate) {
			defer wg.Done()
			results <- s.remind(ctx, c)
		}(c)
	}
	wg.Wait()
	close(results)

	sent, failed := 0, 0
	for ok := range results {
		if ok {
			sent++
		} else {
			failed++
		}
	}
	s.metrics.RemindersSent.Add(float64(sent))
	s.metrics.RemindersFailed.Add(float64(failed))

	s.log.Info("Reminder sweep finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("to_send", len(toSend)),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)

	return &response.ReminderSweepResponse{
		Candidates: len(candidates),
		ToSend:     len(toSend),
		Sent:       sent,
		Failed:     failed,
	}, nil
}

// remind sends one email, then stamps reminder_sent_at. The two steps
// are deliberately not atomic: a crash in between re-sends on the next
// run rather than silently dropping a reminder.
func (s *reminderService) remind(ctx context.Context, c *entity.ReminderCandidate) bool {
	loc := candidateLocation(c.TimeZone)
	localEnd := c.EndDate.In(loc)

	subject := "Your rental return is due tomorrow"
	body := fmt.Sprintf(
		"<p>Hi,</p><p>This is a reminder that your rental car is due back on <strong>%s</strong>.</p><p>Safe travels!</p>",
		localEnd.Format("Monday, January 2 at 15:04"),
	)

	if err := s.mail.Send(ctx, c.Email, subject, body); err != nil {
		s.log.Error("Reminder send failed",
			zap.Error(err),
			zap.String("booking_id", c.BookingID.String()),
		)
		return false
	}

	if err := s.repo.Booking.MarkReminderSent(ctx, c.BookingID, s.now().UTC()); err != nil {
		s.log.Error("Failed to mark reminder sent",
			zap.Error(err),
			zap.String("booking_id", c.BookingID.String()),
		)
		return false
	}

	return true
}

func candidateLocation(tz *string) *time.Location {
	if tz == nil || *tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// endsTomorrow classifies the booking's stored UTC end against the
// renter's calendar: true only when the local end date is the next
// calendar day in the renter's zone.
func endsTomorrow(endDate time.Time, tz *string, now time.Time) bool {
	loc := candidateLocation(tz)

	localEnd := endDate.In(loc)
	tomorrow := now.In(loc).AddDate(0, 0, 1)

	ey, em, ed := localEnd.Date()
	ty, tm, td := tomorrow.Date()
	return ey == ty && em == tm && ed == td
}
