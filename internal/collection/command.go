// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"time"
)

// CommandKind identifies a mutation.
type CommandKind string

// Command kinds.
const (
	CommandToggle CommandKind = "toggle"
	CommandDelete CommandKind = "delete"
)

// CommandState is the settlement state of a command.
type CommandState string

// Command states.
const (
	Pending   CommandState = "pending"
	Committed CommandState = "committed"
	Rejected  CommandState = "rejected"
)

// Command records one mutation sent to the data source.
type Command struct {
	Seq       uint64
	Kind      CommandKind
	RecordID  string
	Published bool // target value for toggles
	State     CommandState
	Err       error
	IssuedAt  time.Time
	SettledAt time.Time
}

// Settled reports whether the command left the pending state.
func (c Command) Settled() bool {
	return c.State != Pending
}

const defaultHistorySize = 50

// history is a bounded log of commands, oldest first.
type history struct {
	seq   uint64
	limit int
	cmds  []Command
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = defaultHistorySize
	}
	return &history{limit: limit}
}

func (h *history) issue(kind CommandKind, id string, published bool, now time.Time) uint64 {
	h.seq++
	h.cmds = append(h.cmds, Command{
		Seq:       h.seq,
		Kind:      kind,
		RecordID:  id,
		Published: published,
		State:     Pending,
		IssuedAt:  now,
	})
	h.trim()
	return h.seq
}

func (h *history) settle(seq uint64, err error, now time.Time) {
	for i := len(h.cmds) - 1; i >= 0; i-- {
		if h.cmds[i].Seq != seq {
			continue
		}
		h.cmds[i].SettledAt = now
		if err != nil {
			h.cmds[i].State = Rejected
			h.cmds[i].Err = err
		} else {
			h.cmds[i].State = Committed
		}
		return
	}
}

// trim drops the oldest settled commands beyond the limit. Pending commands
// are never dropped.
func (h *history) trim() {
	for len(h.cmds) > h.limit {
		idx := -1
		for i, c := range h.cmds {
			if c.Settled() {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		h.cmds = append(h.cmds[:idx], h.cmds[idx+1:]...)
	}
}

func (h *history) snapshot() []Command {
	out := make([]Command, len(h.cmds))
	copy(out, h.cmds)
	return out
}
