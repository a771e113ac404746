package testutil

import (
	"sync"

	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"

	"gorm.io/gorm"
)

// StaleAppointmentRepository answers the next FindOldestWaiting calls with the
// Stale snapshots, as a reader would that lost a race to another claimer.
// Status advances still go to the wrapped repository.
type StaleAppointmentRepository struct {
	repository.AppointmentRepository

	mu     sync.Mutex
	Stale  []entity.Appointment
	Served []int64
}

func (r *StaleAppointmentRepository) FindOldestWaiting(db *gorm.DB) (*entity.Appointment, error) {
	r.mu.Lock()
	if len(r.Stale) > 0 {
		appointment := r.Stale[0]
		r.Stale = r.Stale[1:]
		r.Served = append(r.Served, appointment.ID)
		r.mu.Unlock()

		appointment.Status = entity.AppointmentStatusWaiting
		return &appointment, nil
	}
	r.mu.Unlock()

	return r.AppointmentRepository.FindOldestWaiting(db)
}
