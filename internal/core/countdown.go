package core

import "time"

// CountdownStatus is the phase of the event window.
type CountdownStatus string

const (
	StatusWaiting   CountdownStatus = "waiting"
	StatusLive      CountdownStatus = "live"
	StatusConcluded CountdownStatus = "concluded"
)

// CountdownState is the clock shown above the dashboard.
type CountdownState struct {
	Status    CountdownStatus `json:"status"`
	Kicker    string          `json:"kicker"`
	Live      bool            `json:"live"`
	Remaining time.Duration   `json:"remaining_ns"`
	Days      int64           `json:"days"`
	Hours     int64           `json:"hours"`
	Minutes   int64           `json:"minutes"`
	Seconds   int64           `json:"seconds"`
}

// Countdown reports the event phase at now. Before start it counts down to the
// start, during the event it counts down to the end, afterwards it stays at zero.
func Countdown(now, start, end time.Time) CountdownState {
	var s CountdownState
	switch {
	case now.Before(start):
		s.Status, s.Kicker = StatusWaiting, "WAITING FOR LAUNCH"
		s.Remaining = start.Sub(now)
	case !now.After(end):
		s.Status, s.Kicker, s.Live = StatusLive, "LIVE FEED ACTIVE", true
		s.Remaining = end.Sub(now)
	default:
		s.Status, s.Kicker = StatusConcluded, "FAIR CONCLUDED"
	}

	secs := int64(s.Remaining / time.Second)
	s.Days = secs / 86400
	s.Hours = secs % 86400 / 3600
	s.Minutes = secs % 3600 / 60
	s.Seconds = secs % 60
	return s
}
