package application

import (
	"context"
	"fmt"
	"time"

	"cinema-booking/reservation/domain"
)

// ConcurrencyService concentra a regra de aquisição de vagas de admissão com timeout,
// sem saber nada sobre salas ou assentos.
type ConcurrencyService struct {
	Pool domain.SlotPool
	// Limit é informativo (AdmissionStats); quem limita de fato é o Pool.
	Limit int
}

// Acquire tenta adquirir uma vaga esperando no máximo timeout.
// - Se `timeout <= 0`, espera até o ctx encerrar.
// - ErrAdmissionTimeout quando o prazo acaba; ErrCanceled quando o ctx do chamador encerra.
// Em caso de erro nenhuma vaga foi adquirida e release é nil.
func (s ConcurrencyService) Acquire(ctx context.Context, timeout time.Duration) (release func(), err error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCanceled, err)
	}
	if s.Pool == nil {
		return func() {}, nil
	}

	acqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	release, ok := s.Pool.Acquire(acqCtx)
	if ok {
		return release, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCanceled, err)
	}
	return nil, fmt.Errorf("%w: no admission slot within %s", domain.ErrAdmissionTimeout, timeout)
}
