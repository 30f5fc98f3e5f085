package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/coxMita/OPD-Vertex-Group7/internal/appointment"
	"github.com/coxMita/OPD-Vertex-Group7/internal/config"
	"github.com/coxMita/OPD-Vertex-Group7/internal/db"
)

// noEvents keeps seeding off the event bus.
type noEvents struct{}

func (noEvents) AppointmentCreated(*appointment.Appointment)       {}
func (noEvents) AppointmentStatusChanged(*appointment.Appointment) {}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	catalog := appointment.NewCatalog(cfg.AMStartHour, cfg.AMEndHour, cfg.PMStartHour, cfg.PMEndHour)
	svc := appointment.NewService(
		appointment.NewPgRepository(pool),
		appointment.NewScheduler(catalog),
		noEvents{},
	)

	if err := seedBookings(context.Background(), svc, 200); err != nil {
		log.Fatalf("seed bookings: %v", err)
	}

	log.Println("seed complete")
}

func seedBookings(ctx context.Context, svc *appointment.Service, count int) error {
	log.Printf("booking %d sample appointments", count)

	today := time.Now().Truncate(24 * time.Hour)
	booked, full := 0, 0

	for i := 0; i < count; i++ {
		pref := appointment.PreferenceAM
		if gofakeit.Bool() {
			pref = appointment.PreferencePM
		}

		var notes *string
		if gofakeit.Number(0, 2) == 0 {
			s := gofakeit.Sentence(6)
			notes = &s
		}

		_, err := svc.Book(ctx, appointment.BookRequest{
			PatientID:       int64(gofakeit.Number(1, 500)),
			DoctorID:        int64(gofakeit.Number(1, 10)),
			AppointmentDate: today.AddDate(0, 0, gofakeit.Number(0, 13)),
			TimePreference:  pref,
			Notes:           notes,
		})
		if err != nil {
			// Busy days fill up; that is expected with random picks.
			if errors.Is(err, appointment.ErrNoFreeSlot) {
				full++
				continue
			}
			return err
		}
		booked++
	}

	log.Printf("bookings seeded booked=%d full=%d", booked, full)
	return nil
}
