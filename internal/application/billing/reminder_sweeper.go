package billing

import (
	"context"
	"time"

	"github.com/ugcompta/invoiceflow/internal/domain/repository"
	"github.com/ugcompta/invoiceflow/pkg/logger"
)

// ReminderSweeper marca periódicamente como vencidas las facturas emitidas cuya
// fecha de vencimiento ya pasó.
type ReminderSweeper struct {
	invoiceRepo repository.InvoiceRepository
	interval    time.Duration
	log         *logger.Logger
	now         func() time.Time
}

// NewReminderSweeper construye el barrido. interval <= 0 lo deja desactivado.
func NewReminderSweeper(invoiceRepo repository.InvoiceRepository, interval time.Duration, log *logger.Logger) *ReminderSweeper {
	if log == nil {
		log = logger.Nop()
	}
	return &ReminderSweeper{invoiceRepo: invoiceRepo, interval: interval, log: log, now: time.Now}
}

// SetClock sustituye el reloj del barrido.
func (s *ReminderSweeper) SetClock(now func() time.Time) {
	s.now = now
}

// SweepOnce ejecuta una pasada y devuelve cuántas facturas pasaron a overdue.
func (s *ReminderSweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.invoiceRepo.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int64("invoices", n).Msg("facturas marcadas como vencidas")
	}
	return n, nil
}

// Run bloquea hasta que ctx se cancela, ejecutando una pasada por intervalo.
func (s *ReminderSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info().Msg("barrido de facturas vencidas desactivado")
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if _, err := s.SweepOnce(ctx); err != nil {
		s.log.Error().Err(err).Msg("barrido de facturas vencidas")
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.log.Error().Err(err).Msg("barrido de facturas vencidas")
			}
		}
	}
}
