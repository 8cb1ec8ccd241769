package events_test

import (
	"strconv"
	"testing"

	"github.com/brycechampaign/education-cryptomoji/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch1, err := evts.Acquire("one")
	if err != nil {
		t.Fatalf("Should be able to acquire a channel: %s", err)
	}

	ch2, err := evts.Acquire("two")
	if err != nil {
		t.Fatalf("Should be able to acquire a channel: %s", err)
	}

	evts.Send("block mined")

	if msg := <-ch1; msg != "block mined" {
		t.Fatalf("Should receive the event on the first channel, got %q.", msg)
	}
	if msg := <-ch2; msg != "block mined" {
		t.Fatalf("Should receive the event on the second channel, got %q.", msg)
	}

	if err := evts.Release("one"); err != nil {
		t.Fatalf("Should be able to release a channel: %s", err)
	}
	if _, open := <-ch1; open {
		t.Fatalf("Should close a released channel.")
	}
	if err := evts.Release("one"); err == nil {
		t.Fatalf("Should not be able to release a channel twice.")
	}

	evts.Shutdown()
	if _, open := <-ch2; open {
		t.Fatalf("Should close every channel on shutdown.")
	}
	if _, err := evts.Acquire("three"); err == nil {
		t.Fatalf("Should not be able to acquire after shutdown.")
	}
}

func Test_SlowSubscriber(t *testing.T) {
	evts := events.New()

	ch, err := evts.Acquire("slow")
	if err != nil {
		t.Fatalf("Should be able to acquire a channel: %s", err)
	}

	for i := range 500 {
		evts.Send(strconv.Itoa(i))
	}

	if n := len(ch); n != 100 {
		t.Fatalf("Should keep the buffered events and drop the rest, got %d.", n)
	}
	if evts.Count() != 1 {
		t.Fatalf("Should have one subscriber.")
	}
}
