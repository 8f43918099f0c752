package driver

import (
	"path/filepath"
	"sync"
	"testing"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *recordingSink) statuses(file string) []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Status
	for _, e := range s.events {
		if e.File == file {
			out = append(out, e.Status)
		}
	}
	return out
}

func TestCompileFilesReportsProgress(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.dhl", adderSrc)
	bad := writeSource(t, dir, "bad.dhl", "@out x = nothing\n")

	sink := &recordingSink{}
	opts := DefaultOptions()
	opts.Jobs = 1
	opts.Progress = sink
	if _, err := CompileFiles(quiet(), []string{good, bad}, opts); err == nil {
		t.Fatal("expected the bad file to fail")
	}

	goodStatuses := sink.statuses(good)
	if len(goodStatuses) != 5 || goodStatuses[0] != StatusQueued || goodStatuses[4] != StatusDone {
		t.Fatalf("good statuses = %v", goodStatuses)
	}
	badStatuses := sink.statuses(bad)
	if last := badStatuses[len(badStatuses)-1]; last != StatusError {
		t.Fatalf("bad statuses = %v", badStatuses)
	}
}

func TestChannelSinkForwards(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: filepath.Join("a", "b.dhl"), Status: StatusDone})
	if got := <-ch; got.Status != StatusDone {
		t.Fatalf("got %+v", got)
	}
	ChannelSink{}.OnEvent(Event{})
}
