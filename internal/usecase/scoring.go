package usecase

import (
	"time"
	"unicode/utf8"

	"github.com/xavierca1/jetleads/internal/entity"
)

const (
	baseLeadScore         = 5
	detailedMessageLength = 100
	planningAheadDays     = 7
)

type ScoreInput struct {
	Passengers         int
	AircraftPreference string
	Message            string
	MarketingConsent   bool
	Phone              string
	DepartureDate      time.Time
}

func scoreInputFrom(l ValidLead) ScoreInput {
	return ScoreInput{
		Passengers:         l.Passengers,
		AircraftPreference: l.AircraftPreference,
		Message:            l.Message,
		MarketingConsent:   l.MarketingConsent,
		Phone:              l.Phone,
		DepartureDate:      l.DepartureDate,
	}
}

// ScoreLead rates a lead from 1 to 10. Departure days are counted in UTC
// calendar days relative to now.
func ScoreLead(in ScoreInput, now time.Time) int {
	score := baseLeadScore

	switch {
	case in.Passengers >= 8:
		score += 2
	case in.Passengers >= 4:
		score++
	}

	if in.AircraftPreference != "" {
		score++
	}
	if utf8.RuneCountInString(in.Message) > detailedMessageLength {
		score++
	}
	if in.MarketingConsent {
		score++
	}

	days := daysUntil(in.DepartureDate, now)
	switch {
	case days >= planningAheadDays:
		score++
	case days < 0:
		score -= 2
	}

	return clampScore(score)
}

func daysUntil(departure, now time.Time) int {
	d := departure.UTC()
	n := now.UTC()
	from := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func clampScore(score int) int {
	if score < entity.MinLeadScore {
		return entity.MinLeadScore
	}
	if score > entity.MaxLeadScore {
		return entity.MaxLeadScore
	}
	return score
}
