// Package events journals what happened during a planning run as ordered, typed events per run stream.
package events

import (
	"time"
)

// Event is one journal entry of a run stream
type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

// Handler reacts to appended events of the kinds it accepts
type Handler interface {
	Accepts(kind string) bool
	Handle(e Event) error
}

// Journal is an append-only event log partitioned by run id
type Journal interface {
	Append(run string, e Event) error
	Stream(run string, fromVersion int) ([]Event, error)
	All(fromPosition int) ([]Event, error)
	Subscribe(kinds []string, h Handler) error
	Unsubscribe(h Handler) error
}

// Record is the concrete Event kept by journals
type Record struct {
	Kind    string
	Run     string
	Payload any
	At      time.Time
	Seq     int
}

func (r Record) Type() string         { return r.Kind }
func (r Record) StreamID() string     { return r.Run }
func (r Record) Data() any            { return r.Payload }
func (r Record) Timestamp() time.Time { return r.At }
func (r Record) Version() int         { return r.Seq }

// New stamps an event for a run stream. The journal assigns the version on append.
func New(kind, run string, payload any) Record {
	return Record{Kind: kind, Run: run, Payload: payload, At: time.Now().UTC()}
}
