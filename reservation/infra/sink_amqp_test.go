package infra

import (
	"encoding/json"
	"testing"
	"time"

	"cinema-booking/reservation/domain"

	"github.com/google/uuid"
)

func TestNewBookingConfirmedEvent_JSONShape(t *testing.T) {
	id := uuid.MustParse("7b0f1c9e-8a44-4d39-9f0e-3f5a2a1d6c11")
	r := domain.Reservation{
		ID:          id,
		HolderID:    "u7",
		ShowID:      "m1",
		HallID:      "hall_a",
		Title:       "Interstellar",
		StartsAt:    time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC),
		Seats:       []int{4, 5},
		CommittedAt: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		Wait:        1500 * time.Millisecond,
	}

	body, err := json.Marshal(NewBookingConfirmedEvent(r))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got["reservation_id"] != id.String() {
		t.Fatalf("unexpected reservation_id %v", got["reservation_id"])
	}
	if got["starts_at"] != "2026-05-01T20:00:00Z" {
		t.Fatalf("unexpected starts_at %v", got["starts_at"])
	}
	if got["wait_ms"] != float64(1500) {
		t.Fatalf("unexpected wait_ms %v", got["wait_ms"])
	}
	if seats, ok := got["seats"].([]any); !ok || len(seats) != 2 {
		t.Fatalf("unexpected seats %v", got["seats"])
	}
}
