package driver

import "time"

// Stage is one phase of compiling a file.
type Stage string

const (
	StageLoad  Stage = "load"
	StageParse Stage = "parse"
	StageLower Stage = "lower"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. CompileFiles calls it from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func (o Options) emit(evt Event) {
	if o.Progress != nil {
		o.Progress.OnEvent(evt)
	}
}
