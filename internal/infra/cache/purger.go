package cache

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Purgeable хранилище, умеющее удалять просроченные записи
type Purgeable interface {
	Purge() int
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Purger периодически удаляет просроченные записи кэша по cron-расписанию
type Purger struct {
	cron   *cron.Cron
	store  Purgeable
	logger Logger
}

// NewPurger регистрирует задачу очистки по расписанию schedule ("@every 1m", "*/5 * * * *")
func NewPurger(store Purgeable, schedule string, logger Logger) (*Purger, error) {
	p := &Purger{
		cron:   cron.New(),
		store:  store,
		logger: logger,
	}

	if _, err := p.cron.AddFunc(schedule, p.run); err != nil {
		return nil, fmt.Errorf("cache purger: invalid schedule %q: %w", schedule, err)
	}

	return p, nil
}

// Start запускает планировщик в фоне
func (p *Purger) Start() {
	p.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения текущего запуска
func (p *Purger) Stop() context.Context {
	return p.cron.Stop()
}

func (p *Purger) run() {
	if removed := p.store.Purge(); removed > 0 {
		p.logger.Info("CachePurge: removed %d expired entries", removed)
	}
}
