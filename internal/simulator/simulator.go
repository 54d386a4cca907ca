package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/bhabhi/internal/deck"
	"github.com/lox/bhabhi/internal/game"
	"github.com/lox/bhabhi/internal/randutil"
	"github.com/lox/bhabhi/internal/statistics"
)

// DefaultMaxTricks abandons a game that has not finished after this many
// tricks.
const DefaultMaxTricks = 2000

// Config holds configuration for running simulations
type Config struct {
	Games     int
	Seats     int
	Seed      int64
	Workers   int
	MaxTricks int
	Logger    *log.Logger
	// History, when set, records every completed game.
	History game.HistoryWriter
}

// Simulator runs batches of CPU-only games
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.MaxTricks <= 0 {
		config.MaxTricks = DefaultMaxTricks
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	config.Logger = config.Logger.WithPrefix("sim")
	return &Simulator{config: config}
}

// Run plays all games and returns their statistics. Games run concurrently,
// each on its own engine; the result does not depend on the worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("invalid games count: %d", s.config.Games)
	}
	if s.config.Seats < game.MinSeats || s.config.Seats > game.MaxSeats {
		return nil, fmt.Errorf("need %d to %d seats, got %d", game.MinSeats, game.MaxSeats, s.config.Seats)
	}

	s.config.Logger.Info("Starting simulation",
		"games", s.config.Games,
		"seats", s.config.Seats,
		"seed", s.config.Seed,
		"workers", s.config.Workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	results := make([]statistics.GameResult, s.config.Games)
	for i := range results {
		seed := randutil.Derive(s.config.Seed, i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := s.PlayGame(seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := statistics.New(s.config.Seats)
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// PlayGame plays one CPU-only game to completion through a Controller with
// zero timings.
func (s *Simulator) PlayGame(seed int64) (statistics.GameResult, error) {
	result := statistics.GameResult{Seed: seed}

	seats := make([]game.SeatConfig, s.config.Seats)
	for i := range seats {
		seats[i] = game.SeatConfig{Name: fmt.Sprintf("CPU-%d", i+1)}
	}

	clock := quartz.NewReal()
	bus := game.NewEventBus()
	engine := game.NewEngine(randutil.New(seed), s.config.Logger, game.WithClock(clock), game.WithEventBus(bus))
	ctrl := game.NewController(engine, clock, game.ControllerConfig{}, s.config.Logger)

	var conservationErr error
	bus.Subscribe(game.SubscriberFunc(func(event game.GameEvent) {
		e, ok := event.(game.TrickResolvedEvent)
		if !ok {
			return
		}
		if e.Outcome.Tochoo {
			result.Tochoos++
		}
		if n := engine.Table().CardsInPlay(); n != deck.Size && conservationErr == nil {
			conservationErr = fmt.Errorf("after trick %d: %d cards in play, want %d", engine.Tricks(), n, deck.Size)
		}
	}))
	var history *game.History
	if s.config.History != nil {
		history = game.NewHistory(s.config.History, s.config.Logger)
		bus.Subscribe(history)
	}

	if err := ctrl.Start(seats); err != nil {
		return result, err
	}
	result.GameID = engine.GameID()

	// Each tick makes at most one play or one commit.
	maxTicks := s.config.MaxTricks * (s.config.Seats + 2)
	for tick := 0; ctrl.State() != game.Finished; tick++ {
		if conservationErr != nil {
			return result, conservationErr
		}
		if engine.Tricks() >= s.config.MaxTricks || tick >= maxTicks {
			s.config.Logger.Warn("Abandoning stalled game", "seed", seed, "tricks", engine.Tricks())
			result.Stalled = true
			result.Tricks = engine.Tricks()
			return result, nil
		}
		ctrl.Tick()
	}
	if conservationErr != nil {
		return result, conservationErr
	}
	if history != nil && history.Err() != nil {
		return result, fmt.Errorf("failed to record history: %w", history.Err())
	}

	result.Tricks = engine.Tricks()
	result.Ranks = make([]int, s.config.Seats)
	for _, f := range engine.Table().FinishOrder {
		result.Ranks[f.Seat] = f.Rank
	}
	s.config.Logger.Debug("Game finished", "seed", seed, "game", result.GameID, "tricks", result.Tricks)
	return result, nil
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, games, seats int, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Games:  games,
		Seats:  seats,
		Seed:   seed,
		Logger: logger,
	}).Run(ctx)
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics) {
	fmt.Fprintf(w, "\n=== FINAL RESULTS (%d seats) ===\n", stats.Seats)
	fmt.Fprintf(w, "Games played: %d\n", stats.Games)
	if stats.Stalled > 0 {
		fmt.Fprintf(w, "Games abandoned: %d\n", stats.Stalled)
	}

	fmt.Fprintf(w, "\n=== TRICKS ===\n")
	fmt.Fprintf(w, "Mean: %.2f tricks/game\n", stats.MeanTricks())
	fmt.Fprintf(w, "Median: %.1f tricks/game\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.2f\n", stats.StdDev())
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "Tochoo: %d of %d tricks (%.1f%%)\n",
		stats.Tochoos, stats.Tochoos+stats.CleanTricks, stats.TochooRate()*100)

	fmt.Fprintf(w, "\n=== SEAT ANALYSIS ===\n")
	for seat, ss := range stats.SeatResults {
		if ss.Games == 0 {
			continue
		}
		fmt.Fprintf(w, "Seat %d: mean rank %.2f, first %.1f%%, bhabhi %.1f%%\n",
			seat+1,
			stats.MeanRank(seat),
			float64(ss.RankCounts[1])/float64(ss.Games)*100,
			stats.BhabhiRate(seat)*100)
	}
}
