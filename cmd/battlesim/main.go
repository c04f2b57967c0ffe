// Package main provides an offline battle simulator that pits two characters
// from a YAML roster against each other and prints the battle log.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/observability"
)

type options struct {
	rosterPath string
	a, b       string
	seed       uint64
	tieBreak   string
	maxRedraws int
	noStart    bool
	logLevel   string
}

func main() {
	var opts options
	flag.StringVar(&opts.rosterPath, "roster", "configs/roster.yaml", "roster YAML file, or a directory of them")
	flag.StringVar(&opts.a, "a", "", "name of the first character")
	flag.StringVar(&opts.b, "b", "", "name of the second character")
	flag.Uint64Var(&opts.seed, "seed", 0, "dice seed; 0 = crypto/rand")
	flag.StringVar(&opts.tieBreak, "tiebreak", string(battle.TieBreakReroll), "tie-break policy: reroll or coinflip")
	flag.IntVar(&opts.maxRedraws, "max-redraws", battle.DefaultMaxRedraws, "tied speed rolls before a coin flip")
	flag.BoolVar(&opts.noStart, "no-start-line", false, "omit the opening battle line")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level; debug prints every dice roll")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: opts.logLevel, Format: "console"}, "battlesim")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := run(opts, os.Stdout, logger); err != nil {
		logger.Sync()
		log.Fatalf("%v", err)
	}
}

// loadRoster reads a single roster file, or merges every roster file when
// path names a directory.
func loadRoster(path string) (*roster.Roster, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return roster.LoadDir(path)
	}
	return roster.Load(path)
}

// run loads the roster, simulates one battle, and writes the log to out.
func run(opts options, out io.Writer, logger *zap.Logger) error {
	r, err := loadRoster(opts.rosterPath)
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}
	if opts.a == "" || opts.b == "" {
		return fmt.Errorf("both -a and -b are required; roster has %v", r.Names())
	}
	c1, ok := r.Get(opts.a)
	if !ok {
		return fmt.Errorf("character %q not in roster", opts.a)
	}
	c2, ok := r.Get(opts.b)
	if !ok {
		return fmt.Errorf("character %q not in roster", opts.b)
	}
	if c1.ID == c2.ID {
		return fmt.Errorf("a character cannot battle itself")
	}
	if !battle.CanResolve(c1, c2) {
		return fmt.Errorf("battle cannot be resolved: neither character can deal damage")
	}

	tieBreak, err := battle.ParseTieBreak(opts.tieBreak)
	if err != nil {
		return err
	}
	src := dice.NewCryptoSource()
	if opts.seed != 0 {
		src = dice.NewSeededSource(opts.seed)
	}
	engine := battle.NewEngine(dice.NewLoggedRoller(src, logger), battle.Config{
		TieBreak:   tieBreak,
		MaxRedraws: opts.maxRedraws,
		StartLine:  !opts.noStart,
	})

	res := engine.Simulate(c1, c2)
	for _, line := range res.Log {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	logger.Info("battle simulated",
		zap.String("winner", res.Winner.Name),
		zap.Int("rounds", len(res.Rounds)),
	)
	return nil
}
