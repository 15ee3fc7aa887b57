package processor

import (
	"context"
	"log"

	"placepulse/background-worker-service/internal/app/background-worker/service"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодически запускает repair sweep статистики
// Sweep восстанавливает агрегаты бизнесов после пропущенных событий
type CronScheduler struct {
	cron     *cron.Cron
	eventSvc service.EventProcessingServiceInterface
}

func NewCronScheduler(eventSvc service.EventProcessingServiceInterface) *CronScheduler {
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &CronScheduler{
		cron:     c,
		eventSvc: eventSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	log.Printf("Starting cron scheduler with schedule: %s", schedule)

	_, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron job triggered: running stats sweep")

		if err := s.eventSvc.RunStatsSweep(ctx); err != nil {
			log.Printf("ERROR: Stats sweep failed: %v", err)
		} else {
			log.Println("Cron job completed: stats sweep finished")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started")

	return nil
}

func (s *CronScheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
