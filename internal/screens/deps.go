// Package screens holds the dependencies shared by the terminal UI screens.
// Each screen lives in its own subpackage.
package screens

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/feed"
	"github.com/abhisek/addmath/internal/logging"
	"github.com/abhisek/addmath/internal/quiz"
	"github.com/abhisek/addmath/internal/store"
)

// Syncer refreshes the bank from the remote feed.
type Syncer interface {
	Sync(ctx context.Context) (*feed.Result, error)
}

// Deps is passed to every screen constructor.
type Deps struct {
	Bank   *bank.Bank
	Events store.EventRepo // optional; practice history is skipped when nil
	Syncer Syncer
	Log    logrus.FieldLogger

	// Rand drives question sampling. Nil uses the global source.
	Rand *rand.Rand

	// DefaultCount is the question count offered on the settings screen.
	DefaultCount int

	// ExportDir is where admin exports are written.
	ExportDir string

	Now func() time.Time
}

// Clock returns Now, defaulting to time.Now.
func (d Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Count returns DefaultCount, defaulting to quiz.DefaultCount.
func (d Deps) Count() int {
	if d.DefaultCount > 0 {
		return d.DefaultCount
	}
	return quiz.DefaultCount
}

// Logger returns Log, or a logger that drops everything.
func (d Deps) Logger() logrus.FieldLogger {
	if d.Log != nil {
		return d.Log
	}
	return logging.Discard()
}
