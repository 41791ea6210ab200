package main

import (
	"fmt"
	"os"
	"time"

	"cinema-booking/reservation"
	"cinema-booking/reservation/domain"

	"gopkg.in/yaml.v3"
)

type venue struct {
	Halls []reservation.HallConfig
	Shows []reservation.ShowConfig
}

// venueFile é o formato YAML do arquivo VENUE_FILE. Os horários são relativos
// ao início do processo (ex.: starts_in: 2h).
type venueFile struct {
	Halls []reservation.HallConfig `yaml:"halls"`
	Shows []struct {
		ID       domain.ShowID `yaml:"id"`
		Title    string        `yaml:"title"`
		HallID   domain.HallID `yaml:"hall_id"`
		StartsIn string        `yaml:"starts_in"`
	} `yaml:"shows"`
}

func loadVenue(path string, now time.Time) (venue, error) {
	if path == "" {
		return defaultVenue(now), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return venue{}, err
	}
	return parseVenue(raw, now)
}

func parseVenue(raw []byte, now time.Time) (venue, error) {
	var f venueFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return venue{}, fmt.Errorf("parse venue: %w", err)
	}

	v := venue{Halls: f.Halls}
	for _, s := range f.Shows {
		in, err := time.ParseDuration(s.StartsIn)
		if err != nil {
			return venue{}, fmt.Errorf("show %s: starts_in: %w", s.ID, err)
		}
		v.Shows = append(v.Shows, reservation.ShowConfig{
			ID:       s.ID,
			Title:    s.Title,
			HallID:   s.HallID,
			StartsAt: now.Add(in),
		})
	}
	return v, nil
}

func defaultVenue(now time.Time) venue {
	return venue{
		Halls: []reservation.HallConfig{
			{ID: "hall_a", Capacity: 50},
			{ID: "hall_b", Capacity: 40},
			{ID: "hall_c", Capacity: 60},
			{ID: "hall_d", Capacity: 30},
		},
		Shows: []reservation.ShowConfig{
			{ID: "m1", Title: "Interstellar", HallID: "hall_a", StartsAt: now.Add(2 * time.Hour)},
			{ID: "m2", Title: "Inception", HallID: "hall_b", StartsAt: now.Add(3 * time.Hour)},
			{ID: "m3", Title: "The Matrix", HallID: "hall_c", StartsAt: now.Add(1 * time.Hour)},
			{ID: "m4", Title: "Titanic", HallID: "hall_d", StartsAt: now.Add(4 * time.Hour)},
			{ID: "m5", Title: "Avatar", HallID: "hall_a", StartsAt: now.Add(5 * time.Hour)},
		},
	}
}
