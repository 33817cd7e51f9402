package events

import (
	"encoding/json"
	"errors"
	"testing"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	f.subject = subj
	f.data = data
	return f.err
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var p *Publisher
	p.Publish(ScopeThread, 1)
	New(nil, "a", nil).Publish(ScopeThread, 1)
}

func TestPublisher_Envelope(t *testing.T) {
	fc := &fakeConn{}
	New(fc, "instance-a", nil).Publish(ScopeThread, 12)

	if fc.subject != SubjectCacheInvalidate {
		t.Fatalf("unexpected subject %q", fc.subject)
	}
	var ev Invalidation
	if err := json.Unmarshal(fc.data, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Scope != ScopeThread || ev.PostID != 12 || ev.Origin != "instance-a" || ev.EventID == "" {
		t.Fatalf("unexpected envelope: %+v", ev)
	}
}

func TestPublisher_ErrorIsSwallowed(t *testing.T) {
	fc := &fakeConn{err: errors.New("closed")}
	New(fc, "a", nil).Publish(ScopeAll, 0)
	if fc.subject == "" {
		t.Fatal("expected publish attempt")
	}
}
