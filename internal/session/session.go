// Package session sequences the drill as a pull-based protocol.
//
// A driver repeatedly calls Next and presents the returned Message. It must
// pass the user's answer if and only if the previous message was Assess.
package session

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/mintin/internal/progress"
	"github.com/example/mintin/pkg/models"
)

// Default batch sizes of assessment and learning rounds
const (
	DefaultAssessBatch = 10
	DefaultLearnBatch  = 10
)

// Sentinel errors of the session package
var (
	ErrProtocol       = errors.New("session: answer does not match the previous message")
	ErrNothingToDrill = errors.New("session: no entries left to drill")
)

// Journal records every assessment made during a session
type Journal interface {
	Append(review *models.Review) error
}

// Options configures a Session
type Options struct {
	Classic     bool       // skip the recall check of a just-learned entry
	AssessBatch int        // zero → DefaultAssessBatch
	LearnBatch  int        // zero → DefaultLearnBatch
	Rand        *rand.Rand // nil → seeded from the clock
	Store       progress.Store
	Journal     Journal
	Logger      *zap.Logger
}

// Session drives a progress table through the drill state machine
type Session struct {
	table       *progress.Table
	catalog     []models.Item
	classic     bool
	assessBatch int
	learnBatch  int
	draw        progress.Draw
	store       progress.Store
	journal     Journal
	logger      *zap.Logger

	last  *Message
	stack []state
}

// New creates a session over table, whose entries index into catalog
func New(table *progress.Table, catalog []models.Item, opts Options) (*Session, error) {
	if table.Len() > len(catalog) {
		return nil, errors.Errorf("session: table has %d entries but catalog only %d items", table.Len(), len(catalog))
	}
	s := &Session{
		table:       table,
		catalog:     catalog,
		classic:     opts.Classic,
		assessBatch: opts.AssessBatch,
		learnBatch:  opts.LearnBatch,
		store:       opts.Store,
		journal:     opts.Journal,
		logger:      opts.Logger,
	}
	if s.assessBatch <= 0 {
		s.assessBatch = DefaultAssessBatch
	}
	if s.learnBatch <= 0 {
		s.learnBatch = DefaultLearnBatch
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.draw = progress.UniformDraw(rng)
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.Reset()
	return s, nil
}

// Table returns the progress table the session mutates
func (s *Session) Table() *progress.Table {
	return s.table
}

// Catalog returns the items the session drills
func (s *Session) Catalog() []models.Item {
	return s.catalog
}

// Last returns the message most recently emitted
func (s *Session) Last() (Message, bool) {
	if s.last == nil {
		return Message{}, false
	}
	return *s.last, true
}

// Reset restarts the state machine. The progress table is kept.
func (s *Session) Reset() {
	s.last = nil
	s.stack = []state{&mainState{}}
}

// Continue advances after a Display or NotifyAssessment message
func (s *Session) Continue() (Message, *Change, error) {
	return s.Next(nil)
}

// Answer replies to an Assess message
func (s *Session) Answer(text string) (Message, *Change, error) {
	return s.Next(&text)
}

// Next records the answer to the previous message, if any, and returns the
// next message. On ErrProtocol nothing changes and the call may be retried.
func (s *Session) Next(answer *string) (Message, *Change, error) {
	expecting := s.last != nil && s.last.Kind == Assess
	if expecting != (answer != nil) {
		last := "nothing"
		if s.last != nil {
			last = s.last.String()
		}
		return Message{}, nil, errors.Wrapf(ErrProtocol, "answer given: %t, previous message: %s", answer != nil, last)
	}

	var change *Change
	if expecting {
		idx := s.last.Index
		pass := s.catalog[idx].Assess(*answer)
		distrust := s.table.Set(idx, pass)
		s.table.Step()
		change = &Change{Index: idx, Pass: pass, Distrust: distrust}
		s.record(change)
	}

	msg, err := s.advance(change != nil && change.Pass)
	if err != nil {
		s.Reset()
		return Message{}, change, err
	}
	s.last = &msg
	return msg, change, nil
}

// advance runs the frame stack until some frame emits a message
func (s *Session) advance(pass bool) (Message, error) {
	rounds := 0
	for {
		top := s.stack[len(s.stack)-1]
		msg, child := top.step(s, pass)
		s.logger.Debug("session step",
			zap.Int("depth", len(s.stack)),
			zap.Stringer("state", top),
			zap.Bool("pass", pass),
		)
		switch {
		case msg != nil:
			s.logger.Debug("session message", zap.Stringer("message", msg))
			return *msg, nil
		case child != nil:
			if _, ok := top.(*mainState); ok {
				// an assessment and a learning round in a row produced nothing
				if rounds++; rounds > 2 {
					return Message{}, ErrNothingToDrill
				}
			}
			s.stack = append(s.stack, child)
		default:
			s.stack = s.stack[:len(s.stack)-1]
		}
	}
}

// record persists the table and journals the assessment.
// Failures are logged only; the in-memory table stays authoritative.
func (s *Session) record(c *Change) {
	if s.store != nil {
		if err := s.store.Save(s.table, s.catalog); err != nil {
			s.logger.Warn("failed to save progress", zap.Error(err))
		}
	}
	if s.journal != nil {
		review := &models.Review{
			ItemIndex: c.Index,
			Prompt:    s.catalog[c.Index].Prompt,
			Pass:      c.Pass,
			Distrust:  c.Distrust,
			Age:       s.table.Age(),
			CreatedAt: time.Now(),
		}
		if err := s.journal.Append(review); err != nil {
			s.logger.Warn("failed to journal review", zap.Error(err), zap.Int("index", c.Index))
		}
	}
}
