package credentials

import "sync/atomic"

// Cell holds the session credential. Readers observe either the previous or the new value.
type Cell struct {
	current atomic.Pointer[RemoteCredential]
}

// NewCell constructs an empty Cell.
func NewCell() *Cell {
	return &Cell{}
}

// Get returns the current credential and whether one is set.
func (cell *Cell) Get() (RemoteCredential, bool) {
	stored := cell.current.Load()
	if stored == nil || stored.IsEmpty() {
		return RemoteCredential{}, false
	}
	return *stored, true
}

// Set replaces the current credential. An empty token clears the cell.
func (cell *Cell) Set(credential RemoteCredential) {
	if credential.IsEmpty() {
		cell.Clear()
		return
	}
	stored := credential
	cell.current.Store(&stored)
}

// Clear removes the current credential.
func (cell *Cell) Clear() {
	cell.current.Store(nil)
}
