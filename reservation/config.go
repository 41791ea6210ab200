package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-booking/reservation/domain"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidConfig = errors.New("invalid engine config")

const (
	PoolChan     = "chan"
	PoolWeighted = "weighted"
)

// Config descreve o local (salas e sessões) e os limites do motor.
type Config struct {
	// AdmissionLimit é o número máximo de tentativas de reserva no laço de retentativas.
	AdmissionLimit int `validate:"gte=1"`
	// AdmissionPool escolhe o semáforo: "chan" (padrão) ou "weighted" (FIFO, x/sync/semaphore).
	AdmissionPool string `validate:"omitempty,oneof=chan weighted"`

	RetryInterval  time.Duration `validate:"gte=0"`
	DefaultMaxWait time.Duration `validate:"gte=0"`

	Halls []HallConfig `validate:"required,min=1,dive"`
	Shows []ShowConfig `validate:"dive"`

	// HolderRate/HolderBurst ligam o throttle por titular. 0 desliga.
	HolderRate  float64 `validate:"gte=0"`
	HolderBurst int     `validate:"gte=0"`
}

type HallConfig struct {
	ID       domain.HallID `yaml:"id" validate:"required"`
	Capacity int           `yaml:"capacity" validate:"gte=1"`
}

type ShowConfig struct {
	ID       domain.ShowID `yaml:"id" validate:"required"`
	Title    string        `yaml:"title" validate:"required"`
	StartsAt time.Time     `yaml:"starts_at" validate:"required"`
	HallID   domain.HallID `yaml:"hall_id" validate:"required"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Validate confere as regras de forma. Referências cruzadas (sala inexistente,
// ids repetidos) são verificadas na montagem da agenda.
func (c Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func (c Config) withDefaults() Config {
	if c.AdmissionPool == "" {
		c.AdmissionPool = PoolChan
	}
	return c
}

func (c Config) definitions() ([]domain.HallDef, []domain.ShowDef) {
	halls := make([]domain.HallDef, 0, len(c.Halls))
	for _, h := range c.Halls {
		halls = append(halls, domain.HallDef{ID: h.ID, Capacity: h.Capacity})
	}
	shows := make([]domain.ShowDef, 0, len(c.Shows))
	for _, s := range c.Shows {
		shows = append(shows, domain.ShowDef{ID: s.ID, Title: s.Title, StartsAt: s.StartsAt, HallID: s.HallID})
	}
	return halls, shows
}
