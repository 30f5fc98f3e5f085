package event

import (
	"github.com/coxMita/OPD-Vertex-Group7/internal/appointment"
)

// Emitter adapts the async publisher to the service's Events interface.
type Emitter struct {
	publisher *AsyncPublisher
}

func NewEmitter(publisher *AsyncPublisher) *Emitter {
	return &Emitter{publisher: publisher}
}

func (e *Emitter) AppointmentCreated(appt *appointment.Appointment) {
	e.publisher.Publish(TopicAppointmentCreated, FromAppointment(appt))
}

func (e *Emitter) AppointmentStatusChanged(appt *appointment.Appointment) {
	e.publisher.Publish(TopicAppointmentStatusChanged, FromAppointment(appt))
}
