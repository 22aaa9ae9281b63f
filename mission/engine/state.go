package engine

import (
	"fmt"
	"time"
)

// AddCommandToHistory appends one processed step to the cumulative and the
// current history. Histories may grow to twice MaxHistoryEntries before they
// are cut back; TrimHistory enforces the exact cap.
func (ms *MissionState) AddCommandToHistory(step Step) {
	entry := CommandHistoryEntry{
		Command:       step.Input,
		Outcome:       step.Outcome,
		FromPosition:  step.From,
		ToPosition:    step.To,
		FromDirection: step.Heading,
		ToDirection:   step.Facing,
		Timestamp:     time.Now().Unix(),
		CommandNumber: ms.TotalCommands + 1,
	}

	ms.CommandHistory = append(ms.CommandHistory, entry)
	ms.TotalCommands++
	ms.CurrentCommands = append(ms.CurrentCommands, entry)
	ms.CurrentCommandsCount++
	ms.Summary.Add(step.Outcome)

	if len(ms.CommandHistory) > 2*MaxHistoryEntries || len(ms.CurrentCommands) > 2*MaxHistoryEntries {
		ms.TrimHistory()
	}
}

// Snapshot returns a copy of the state that shares no slices with it
func (ms *MissionState) Snapshot() *MissionState {
	snap := *ms
	snap.CommandHistory = cloneHistory(ms.CommandHistory)
	snap.CurrentCommands = cloneHistory(ms.CurrentCommands)
	return &snap
}

func cloneHistory(entries []CommandHistoryEntry) []CommandHistoryEntry {
	if entries == nil {
		return nil
	}
	return append(make([]CommandHistoryEntry, 0, len(entries)), entries...)
}

// TrimHistory drops the oldest entries beyond MaxHistoryEntries
func (ms *MissionState) TrimHistory() {
	ms.CommandHistory = keepLast(ms.CommandHistory, MaxHistoryEntries)
	ms.CurrentCommands = keepLast(ms.CurrentCommands, MaxHistoryEntries)
}

func keepLast(entries []CommandHistoryEntry, n int) []CommandHistoryEntry {
	if len(entries) <= n {
		return entries
	}
	return append([]CommandHistoryEntry(nil), entries[len(entries)-n:]...)
}

// describeSummary builds the status message shown after an execution
func describeSummary(rover Rover, s Summary) string {
	msg := fmt.Sprintf("Rover at %s", rover.Report())
	if s.Blocked > 0 {
		msg += fmt.Sprintf(" (%d move(s) blocked at the plateau edge)", s.Blocked)
	}
	if s.Ignored > 0 {
		msg += fmt.Sprintf(" (%d unknown command(s) ignored)", s.Ignored)
	}
	return msg
}
