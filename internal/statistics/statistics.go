package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult represents the outcome of a single CPU game
type GameResult struct {
	Seed    int64  // RNG seed for this game (for replay)
	GameID  string // Engine game ID
	Ranks   []int  // Finishing rank per seat index, 0 if the game stalled
	Tricks  int    // Tricks resolved
	Tochoos int    // Tricks that ended in a pickup
	Stalled bool   // Abandoned by the trick cap
}

// SeatStats tracks statistics for one seat index
type SeatStats struct {
	Games      int
	SumRank    int
	RankCounts []int // Index 1..seats
}

// Statistics tracks results across a batch of games at a fixed seat count
type Statistics struct {
	Seats   int
	Games   int
	Stalled int

	SumTricks  float64
	SumTricks2 float64   // Sum of squares for variance calculation
	Values     []float64 // Trick counts for median/percentile calculation

	Tochoos     int
	CleanTricks int

	SeatResults []SeatStats
}

// New creates statistics for games with the given number of seats
func New(seats int) *Statistics {
	s := &Statistics{
		Seats:       seats,
		SeatResults: make([]SeatStats, seats),
	}
	for i := range s.SeatResults {
		s.SeatResults[i].RankCounts = make([]int, seats+1)
	}
	return s
}

// Add incorporates a game result. Stalled games only count towards Stalled.
func (s *Statistics) Add(result GameResult) {
	if result.Stalled {
		s.Stalled++
		return
	}

	s.Games++
	tricks := float64(result.Tricks)
	s.SumTricks += tricks
	s.SumTricks2 += tricks * tricks
	s.Values = append(s.Values, tricks)

	s.Tochoos += result.Tochoos
	s.CleanTricks += result.Tricks - result.Tochoos

	for seat, rank := range result.Ranks {
		if seat >= len(s.SeatResults) || rank < 1 || rank > s.Seats {
			continue
		}
		ss := &s.SeatResults[seat]
		ss.Games++
		ss.SumRank += rank
		ss.RankCounts[rank]++
	}
}

// MeanTricks returns the mean number of tricks per completed game
func (s *Statistics) MeanTricks() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumTricks / float64(s.Games)
}

// Variance returns the sample variance of tricks per game
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.MeanTricks()
	return (s.SumTricks2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of tricks per game
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Median returns the median number of tricks per game
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the trick count at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// TochooRate returns the share of tricks that ended in a pickup
func (s *Statistics) TochooRate() float64 {
	total := s.Tochoos + s.CleanTricks
	if total == 0 {
		return 0
	}
	return float64(s.Tochoos) / float64(total)
}

// MeanRank returns the mean finishing rank of a seat index
func (s *Statistics) MeanRank(seat int) float64 {
	if seat < 0 || seat >= len(s.SeatResults) {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Games == 0 {
		return 0
	}
	return float64(ss.SumRank) / float64(ss.Games)
}

// BhabhiRate returns how often a seat index finished last
func (s *Statistics) BhabhiRate(seat int) float64 {
	if seat < 0 || seat >= len(s.SeatResults) {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Games == 0 {
		return 0
	}
	return float64(ss.RankCounts[s.Seats]) / float64(ss.Games)
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if s.Games+s.Stalled <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	for rank := 1; rank <= s.Seats; rank++ {
		total := 0
		for _, ss := range s.SeatResults {
			total += ss.RankCounts[rank]
		}
		if total != s.Games {
			return fmt.Errorf("rank %d assigned %d times in %d games", rank, total, s.Games)
		}
	}

	for seat, ss := range s.SeatResults {
		if ss.Games != s.Games {
			return fmt.Errorf("seat %d ranked in %d of %d games", seat, ss.Games, s.Games)
		}
	}

	return nil
}
