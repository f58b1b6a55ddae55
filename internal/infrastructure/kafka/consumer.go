package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/campushq/course-service/internal/infrastructure/mail"
	"github.com/campushq/course-service/internal/models"
	"github.com/segmentio/kafka-go"
)

// Consumer reads notification events and fans them out as email through the
// external mail collaborator.
type Consumer struct {
	reader *kafka.Reader
	mailer mail.Mailer
}

func NewConsumer(brokers []string, topic, groupID string, mailer mail.Mailer) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		mailer: mailer,
	}
}

func (c *Consumer) Consume(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to read Kafka message", "topic", c.reader.Config().Topic, "error", err)
			continue
		}

		var event models.NotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			slog.Error("failed to unmarshal notification event", "error", err)
			continue
		}
		if event.Email == "" {
			slog.Warn("notification event without recipient", "event_type", event.EventType, "student_id", event.StudentID)
			continue
		}

		subject, body, ok := renderNotification(event)
		if !ok {
			slog.Error("unknown notification event type", "event_type", event.EventType)
			continue
		}

		if err := c.mailer.Send(ctx, event.Email, subject, body); err != nil {
			slog.Error("failed to deliver notification", "event_type", event.EventType, "student_id", event.StudentID, "error", err)
			continue
		}
		slog.Info("notification delivered", "event_type", event.EventType, "student_id", event.StudentID)
	}
}

func renderNotification(event models.NotificationEvent) (subject, body string, ok bool) {
	switch event.EventType {
	case models.EventEnrollmentCreated:
		subject = fmt.Sprintf("Enrolled in %s", event.CourseCode)
		body = fmt.Sprintf("You have been enrolled in course %s.", event.CourseCode)
		return subject, body, true
	case models.EventGradePosted:
		subject = fmt.Sprintf("Grade posted for %s", event.Assignment)
		body = fmt.Sprintf("Your submission for %q was graded: %d.", event.Assignment, event.Score)
		return subject, body, true
	default:
		return "", "", false
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
