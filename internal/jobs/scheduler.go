// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ночная сверка балансов баллов.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/qna-backend/internal/features/points"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron          *cron.Cron
	pointsService *points.Service
	reconcileSpec string
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(pointsService *points.Service, reconcileSpec string) *Scheduler {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить Europe/Moscow, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:          c,
		pointsService: pointsService,
		reconcileSpec: reconcileSpec,
	}
}

// Start запускает фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.reconcileSpec == "" {
		log.Info("Ночная сверка отключена (RECONCILE_CRON пуст)")
		return nil
	}

	// Ночная сверка: пересчёт балансов из сырых данных
	_, err := s.cron.AddFunc(s.reconcileSpec, func() {
		log.Info("[CRON] Ночная сверка балансов")
		done, err := s.pointsService.ReconcileAll(ctx)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка сверки")
			return
		}
		log.WithField("reconciled", done).Info("[CRON] Сверка завершена")
	})
	if err != nil {
		return fmt.Errorf("некорректное расписание сверки %q: %w", s.reconcileSpec, err)
	}

	s.cron.Start()
	log.Info("Планировщик задач запущен (Europe/Moscow)")
	return nil
}

// Stop останавливает планировщик, дожидаясь активных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
