// Package game implements the Bhabhi (Thulla) trick-taking rules.
//
// The Engine owns a Table and is the only code that mutates it. Callers
// submit single intents (AcceptPlay, CommitResolution) and read the table
// through Snapshot.
//
// # Basic Usage
//
//	e := game.NewEngine(randutil.New(42), logger)
//	_ = e.StartGame([]game.SeatConfig{{Name: "You", Human: true}, {Name: "CPU-1"}, {Name: "CPU-2"}})
//	res, err := e.AcceptPlay(seat, idx)
//	if errors.Is(err, game.ErrMustFollowSuit) {
//	    // tell the user
//	}
//	e.ReleaseHold()
//	if res.TrickComplete {
//	    outcome, _ := e.CommitResolution()
//	}
//
// # Two-phase Resolution
//
// A completed trick is captured by TriggerResolution and the engine enters
// ShowingTrick. Nothing moves until CommitResolution, so a presentation can
// keep the trick on screen for as long as it likes. Every accepted play also
// raises a presentation hold that blocks further plays until ReleaseHold.
//
// # Controller
//
// Controller drives the engine from a polling tick using a quartz.Clock:
// it releases holds, commits displayed tricks and makes CPU plays once their
// cooldown has elapsed. Pausing freezes the tick without touching the table.
package game
