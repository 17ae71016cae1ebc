package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
)

// ExpirationProcessor vence las suscripciones cuya fecha ya pasó.
type ExpirationProcessor interface {
	ProcessExpirations(ctx context.Context) ([]dto.BusinessResponse, error)
}

// SessionSweeper descarta las sesiones vencidas.
type SessionSweeper interface {
	Sweep() int
}

// Scheduler tareas periódicas: vencimiento de suscripciones y limpieza de sesiones.
type Scheduler struct {
	cron        *cron.Cron
	expirations ExpirationProcessor
	sessions    SessionSweeper
	log         zerolog.Logger
	timeout     time.Duration
}

// New construye el scheduler; no arranca hasta Start.
func New(expirations ExpirationProcessor, sessions SessionSweeper, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		expirations: expirations,
		sessions:    sessions,
		log:         log,
		timeout:     time.Minute,
	}
}

// Start registra los jobs. expirationExpr es una expresión cron de 5 campos ("0 3 * * *").
// Las sesiones se barren cada 5 minutos.
func (s *Scheduler) Start(expirationExpr string) error {
	if _, err := s.cron.AddFunc(expirationExpr, s.RunExpirations); err != nil {
		s.log.Error().Err(err).Str("cron", expirationExpr).Msg("registrar job de vencimientos")
		return err
	}
	if _, err := s.cron.AddFunc("@every 5m", s.RunSweep); err != nil {
		s.log.Error().Err(err).Msg("registrar job de sesiones")
		return err
	}
	s.cron.Start()
	s.log.Info().Str("cron", expirationExpr).Msg("scheduler iniciado")
	return nil
}

// Stop detiene el cron y espera a que termine el job en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler detenido")
}

// RunExpirations una pasada del job de vencimientos.
func (s *Scheduler) RunExpirations() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	changed, err := s.expirations.ProcessExpirations(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("procesar vencimientos de suscripción")
		return
	}
	for _, b := range changed {
		s.log.Info().Str("business_id", b.ID).Bool("is_active", b.IsActive).Msg("suscripción actualizada")
	}
}

// RunSweep una pasada de limpieza de sesiones.
func (s *Scheduler) RunSweep() {
	if n := s.sessions.Sweep(); n > 0 {
		s.log.Debug().Int("removed", n).Msg("sesiones vencidas descartadas")
	}
}
