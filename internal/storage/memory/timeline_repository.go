package memory

import (
	"sort"
	"sync"

	"github.com/bandbridge/backend/internal/domain"
)

// timelineRepository — in-memory журнал событий жизненного цикла заявки.
type timelineRepository struct {
	mu     sync.RWMutex
	events map[string][]domain.TimelineEvent
}

// NewTimelineRepository возвращает in-memory реализацию TimelineRepository.
func NewTimelineRepository() domain.TimelineRepository {
	return &timelineRepository{events: make(map[string][]domain.TimelineEvent)}
}

func (r *timelineRepository) Append(event domain.TimelineEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.BookingID] = append(r.events[event.BookingID], event)
	return nil
}

func (r *timelineRepository) List(bookingID string) ([]domain.TimelineEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.events[bookingID]
	result := make([]domain.TimelineEvent, len(events))
	copy(result, events)

	sort.Slice(result, func(i, j int) bool {
		return result[i].Occurred.Before(result[j].Occurred)
	})
	return result, nil
}

var _ domain.TimelineRepository = (*timelineRepository)(nil)
