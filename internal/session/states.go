package session

import (
	"fmt"

	"github.com/example/mintin/internal/progress"
)

// state is a frame of the session stack.
// step either emits a message, asks for a child frame to be pushed, or
// returns neither to report completion.
type state interface {
	step(s *Session, pass bool) (*Message, state)
	String() string
}

// mainState alternates assessment and learning rounds forever
type mainState struct {
	learning bool // whether the next round is a learning round
}

func (m *mainState) step(s *Session, _ bool) (*Message, state) {
	if m.learning {
		m.learning = false
		return nil, newLearning(s)
	}
	m.learning = true
	return nil, newAssessment(s)
}

func (m *mainState) String() string {
	return fmt.Sprintf("Main{learning: %t}", m.learning)
}

// assessment quizzes a weighted sample of the passed pool
type assessment struct {
	began bool
	ents  []int
}

func newAssessment(s *Session) *assessment {
	return &assessment{
		ents: s.table.SelectRandomEntries(s.assessBatch, true, s.draw),
	}
}

func (a *assessment) step(_ *Session, _ bool) (*Message, state) {
	if !a.began {
		a.began = true
		if len(a.ents) == 0 {
			return nil, nil
		}
		return &Message{Kind: NotifyAssessment}, nil
	}
	if len(a.ents) == 0 {
		return nil, nil
	}
	idx := a.ents[len(a.ents)-1]
	a.ents = a.ents[:len(a.ents)-1]
	return &Message{Kind: Assess, Index: idx}, nil
}

func (a *assessment) String() string {
	return fmt.Sprintf("Assessment{began: %t, ents: %v}", a.began, a.ents)
}

// learning teaches the most distrusted entries of the failed pool one by one
type learning struct {
	ents []int
}

func newLearning(s *Session) *learning {
	return &learning{
		ents: s.table.SelectRandomEntries(s.learnBatch, false, progress.ZeroDraw),
	}
}

func (l *learning) step(_ *Session, _ bool) (*Message, state) {
	if len(l.ents) == 0 {
		return nil, nil
	}
	head := l.ents[0]
	l.ents = l.ents[1:]
	return nil, &learnSingle{head: head, hasHead: true}
}

func (l *learning) String() string {
	return fmt.Sprintf("Learning{ents: %v}", l.ents)
}

// learnSingle shows one entry and then checks it, interleaved with a rehearsal
// sample from the passed pool. A failed check shows the failed entry again.
type learnSingle struct {
	began   bool
	head    int
	hasHead bool
	stack   []int
}

func (ls *learnSingle) step(s *Session, pass bool) (*Message, state) {
	if ls.hasHead && (!pass || !ls.began) {
		head := ls.head
		ls.began = true
		ls.hasHead = false
		if !s.classic {
			ls.stack = append(ls.stack, head)
		}
		ls.stack = append(ls.stack, s.table.SelectRandomEntries(1, true, s.draw)...)
		return &Message{Kind: Display, Index: head}, nil
	}
	if len(ls.stack) == 0 {
		return nil, nil
	}
	tail := ls.stack[len(ls.stack)-1]
	ls.stack = ls.stack[:len(ls.stack)-1]
	ls.head, ls.hasHead = tail, true
	return &Message{Kind: Assess, Index: tail}, nil
}

func (ls *learnSingle) String() string {
	return fmt.Sprintf("LearnSingle{began: %t, head: %d/%t, stack: %v}", ls.began, ls.head, ls.hasHead, ls.stack)
}
