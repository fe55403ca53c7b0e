// Package scheduler dispara corridas periódicas del motor de reposición
// dentro del proceso. Es un timer simple, no un cron distribuido: si corren
// varias réplicas, el índice único de deduplicación evita órdenes dobles.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	"github.com/tu-usuario/compras-pro/pkg/logger"
)

// RunAllFunc ejecuta una corrida para todos los tenants activos.
type RunAllFunc func(ctx context.Context) dto.RunResult

// Scheduler invoca RunAll cada intervalo fijo hasta que se llame Stop.
type Scheduler struct {
	runAll   RunAllFunc
	interval time.Duration
	log      *logger.Logger

	started atomic.Bool
	stop    chan struct{}
	done    chan struct{}
}

// New construye el scheduler. interval debe ser > 0.
func New(runAll RunAllFunc, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		runAll:   runAll,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start arranca el loop en una goroutine. Idempotente: llamadas repetidas no
// crean timers adicionales.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		s.log.Warn().Msg("scheduler ya iniciado, se ignora Start repetido")
		return
	}
	s.log.Info().Dur("interval", s.interval).Msg("scheduler de reposición iniciado")
	go s.loop()
}

// Stop detiene el loop y espera a que termine la corrida en curso.
// Seguro de llamar aunque Start nunca haya corrido.
func (s *Scheduler) Stop() {
	if !s.started.Load() {
		return
	}
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
	s.log.Info().Msg("scheduler de reposición detenido")
}

func (s *Scheduler) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			// El tick del ticker puede estar ya encolado cuando Stop cierra
			// el canal; se re-verifica para no arrancar una corrida nueva.
			select {
			case <-s.stop:
				return
			default:
			}
			s.tick()
		}
	}
}

// tick corre el motor con un timeout acotado al intervalo: una corrida colgada
// no bloquea las siguientes indefinidamente.
func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()
	result := s.runAll(ctx)
	if !result.Success {
		s.log.Error().
			Strs("errors", result.Errors).
			Msg("corrida programada con fallas de lectura")
		return
	}
	s.log.Info().
		Int("orders_created", result.OrdersCreated).
		Int("skipped_duplicate", result.SkippedDuplicate).
		Msg("corrida programada finalizada")
}
