package services

import (
	"io"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

// fixedNow is a Friday in ISO week 42
var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func newTestClock() *TimeNormalizer {
	return NewTimeNormalizer(time.UTC).WithClock(func() time.Time { return fixedNow })
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func tableOf(name models.TableName, columns []string, rows ...[]string) *models.Table {
	t := models.NewTable(name, columns)
	t.Rows = append(t.Rows, rows...)
	return t
}

func appointmentTable(appts ...models.Appointment) *models.Table {
	t := models.EmptyTable(models.TableAppointments)
	for _, a := range appts {
		t.Append(a.Values())
	}
	t.MarkClean()
	return t
}

func booking(id, employee, date, slot, duration, status string) models.Appointment {
	return models.Appointment{
		ID:         id,
		ClientName: "Client " + id,
		Service:    "Facial",
		Employee:   employee,
		Date:       date,
		TimeSlot:   slot,
		Duration:   duration,
		Status:     status,
	}
}
