package application

import (
	"testing"
	"time"

	"cinema-booking/reservation/domain"
)

// fakeBudget recusa quando tokens não cobre o pedido e anota o que foi cobrado.
type fakeBudget struct {
	tokens int
	wait   time.Duration
	asked  []int
}

func (b *fakeBudget) Take(_ domain.HolderID, seats int, _ time.Time) (bool, time.Duration) {
	b.asked = append(b.asked, seats)
	if seats > b.tokens {
		return false, b.wait
	}
	b.tokens -= seats
	return true, 0
}

func TestThrottleService_Decide(t *testing.T) {
	cases := []struct {
		name      string
		budget    *fakeBudget
		retry     time.Duration
		seats     []int
		allowed   bool
		retryWant time.Duration
	}{
		{"no budget", nil, 0, []int{1}, true, 0},
		{"fits", &fakeBudget{tokens: 3}, 0, []int{1, 2, 3}, true, 0},
		{"too many seats, budget wait", &fakeBudget{tokens: 2, wait: 750 * time.Millisecond}, 5 * time.Second, []int{1, 2, 3}, false, 750 * time.Millisecond},
		{"refused, configured retry", &fakeBudget{}, 2500 * time.Millisecond, []int{1}, false, 2500 * time.Millisecond},
		{"refused, default retry", &fakeBudget{}, 0, []int{1}, false, time.Second},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := ThrottleService{RetryAfter: c.retry}
			if c.budget != nil {
				svc.Budget = c.budget
			}

			dec := svc.Decide(domain.BookingRequest{HolderID: "u1", Seats: c.seats}, time.Now())
			if dec.Allowed != c.allowed {
				t.Fatalf("expected allowed=%v, got %v", c.allowed, dec.Allowed)
			}
			if dec.RetryAfter != c.retryWant {
				t.Fatalf("expected RetryAfter=%s, got %s", c.retryWant, dec.RetryAfter)
			}
			if c.budget != nil && (len(c.budget.asked) != 1 || c.budget.asked[0] != len(c.seats)) {
				t.Fatalf("expected one charge of %d seats, got %v", len(c.seats), c.budget.asked)
			}
		})
	}
}
