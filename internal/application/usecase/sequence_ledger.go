package usecase

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// SequenceLedger consecutivos de documentos por negocio y año fiscal.
// Todas las emisiones pasan por el BusinessBook, que las serializa y persiste antes de devolverlas.
type SequenceLedger struct {
	clock
	book *tenant.BusinessBook
	log  zerolog.Logger
}

// NewSequenceLedger construye el libro de consecutivos.
func NewSequenceLedger(book *tenant.BusinessBook, log zerolog.Logger) *SequenceLedger {
	return &SequenceLedger{book: book, log: log}
}

// NextSequence devuelve el consecutivo actual del documento y avanza el contador.
func (l *SequenceLedger) NextSequence(ctx context.Context, businessID string, counter entity.Counter) (int64, error) {
	res, err := l.take(ctx, businessID, counter)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

// NextDocumentNumber igual que NextSequence, con el número de documento formateado (FV-2025-000007).
func (l *SequenceLedger) NextDocumentNumber(ctx context.Context, businessID string, counter entity.Counter) (*dto.SequenceResponse, error) {
	return l.take(ctx, businessID, counter)
}

func (l *SequenceLedger) take(ctx context.Context, businessID string, counter entity.Counter) (*dto.SequenceResponse, error) {
	if !counter.Valid() {
		return nil, domain.ErrUnknownCounter
	}
	var value int64
	biz, err := l.book.Update(ctx, businessID, func(b *entity.Business) error {
		v, err := b.Take(counter)
		if err != nil {
			return err
		}
		value = v
		b.UpdatedAt = l.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.SequenceResponse{
		BusinessID:     businessID,
		Counter:        string(counter),
		FiscalYear:     biz.FiscalYear,
		Value:          value,
		DocumentNumber: entity.FormatDocumentNumber(counter, biz.FiscalYear, value),
	}, nil
}

// State año fiscal y próximos consecutivos, sin emitir ninguno.
func (l *SequenceLedger) State(ctx context.Context, businessID string) (*dto.SequenceStateResponse, error) {
	biz, err := l.book.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return &dto.SequenceStateResponse{
		BusinessID: biz.ID,
		FiscalYear: biz.FiscalYear,
		Seeds:      seedsToMap(biz.Seeds),
	}, nil
}

// OpenNewFiscalYear avanza el año fiscal en 1 y reinicia todos los consecutivos en 1.
// Devuelve domain.ErrFiscalYearNotExpired si el año fiscal no es anterior al año actual.
// Los documentos ya emitidos conservan su número.
func (l *SequenceLedger) OpenNewFiscalYear(ctx context.Context, businessID string, confirm Confirmer) (*dto.SequenceStateResponse, error) {
	now := l.Now()
	biz, err := l.book.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if biz.FiscalYear >= now.Year() {
		return nil, domain.ErrFiscalYearNotExpired
	}
	if err := Confirmed(ctx, confirm, "abrir año fiscal "+strconv.Itoa(biz.FiscalYear+1)); err != nil {
		return nil, err
	}

	updated, err := l.book.Update(ctx, businessID, func(b *entity.Business) error {
		// el año pudo avanzar mientras se pedía confirmación
		if b.FiscalYear != biz.FiscalYear {
			return domain.ErrFiscalYearNotExpired
		}
		return b.OpenNewFiscalYear(now)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("business_id", businessID).
		Int("from", biz.FiscalYear).
		Int("to", updated.FiscalYear).
		Msg("año fiscal abierto")
	return &dto.SequenceStateResponse{
		BusinessID: updated.ID,
		FiscalYear: updated.FiscalYear,
		Seeds:      seedsToMap(updated.Seeds),
	}, nil
}
