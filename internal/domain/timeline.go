package domain

import "time"

// TimelineEvent описывает запись в журнале жизненного цикла заявки.
// BookingID восстанавливается по внешнему ключу события; если связку
// восстановить не удалось, запись хранится под исходным SubjectID.
type TimelineEvent struct {
	BookingID string
	EventID   string
	Type      EventType
	SubjectID string
	Occurred  time.Time
}
