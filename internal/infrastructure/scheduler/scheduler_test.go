package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	"github.com/tu-usuario/compras-pro/pkg/logger"
)

func TestScheduler_EjecutaPeriodicamente(t *testing.T) {
	var runs atomic.Int32
	s := New(func(ctx context.Context) dto.RunResult {
		runs.Add(1)
		return dto.RunResult{Success: true}
	}, 20*time.Millisecond, logger.Nop())

	s.Start()
	time.Sleep(110 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int32(3), "debería haber corrido varias veces")
}

func TestScheduler_StartIdempotente(t *testing.T) {
	var runs atomic.Int32
	s := New(func(ctx context.Context) dto.RunResult {
		runs.Add(1)
		return dto.RunResult{Success: true}
	}, 20*time.Millisecond, logger.Nop())

	// Varios Start no deben multiplicar los timers.
	s.Start()
	s.Start()
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.LessOrEqual(t, runs.Load(), int32(3), "Start repetido no debe duplicar corridas")
}

func TestScheduler_StopSinStartNoBloquea(t *testing.T) {
	s := New(func(ctx context.Context) dto.RunResult {
		return dto.RunResult{Success: true}
	}, time.Minute, logger.Nop())

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop sin Start se quedó bloqueado")
	}
}

func TestScheduler_StopEsperaCorridaEnCurso(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool
	s := New(func(ctx context.Context) dto.RunResult {
		once.Do(func() { close(started) })
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
		return dto.RunResult{Success: true}
	}, 10*time.Millisecond, logger.Nop())

	s.Start()
	<-started
	s.Stop()

	assert.True(t, finished.Load(), "Stop debe esperar a que la corrida termine")
}

func TestScheduler_StopNoArrancaCorridaNueva(t *testing.T) {
	// Un tick puede quedar encolado en el ticker mientras corre el anterior;
	// tras Stop ese tick pendiente no debe disparar otra corrida.
	started := make(chan struct{})
	var once sync.Once
	var runs atomic.Int32
	s := New(func(ctx context.Context) dto.RunResult {
		runs.Add(1)
		once.Do(func() { close(started) })
		time.Sleep(30 * time.Millisecond)
		return dto.RunResult{Success: true}
	}, 10*time.Millisecond, logger.Nop())

	s.Start()
	<-started
	s.Stop()

	before := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, runs.Load(), "no deben arrancar corridas después de Stop")
}
