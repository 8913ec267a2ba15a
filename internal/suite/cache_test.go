package suite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lumen/internal/observ"
	"lumen/internal/project"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Key(project.Of("suite"))
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	res := &Result{
		Path:   "a.toml",
		Suite:  "a",
		Source: "1i + 2i\n",
		Cases:  []CaseResult{{Name: "add", Expr: "1i + 2i", Outcome: OutcomeFail, Got: "3i", Detail: "expected 4i, got 3i"}},
		Diags:  []Record{{Severity: 3, Code: 3001, Start: 0, End: 7, Message: "m", Notes: []RecordNote{{Message: "n"}}}},
	}
	if err := c.Put(key, res); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !got.Cached || got.Source != res.Source || len(got.Cases) != 1 || got.Cases[0] != res.Cases[0] {
		t.Fatalf("got %+v", got)
	}
	if len(got.Diags) != 1 || got.Diags[0].Notes[0].Message != "n" || got.Diags[0].End != 7 {
		t.Fatalf("diags = %+v", got.Diags)
	}

	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}
}

func TestCacheKeyDependsOnContent(t *testing.T) {
	if Key(project.Of("a")) == Key(project.Of("b")) {
		t.Fatal("keys collide")
	}
}

func TestRunUsesCache(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(good, []byte(basicSuite), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("[[case]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cache, err := OpenCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	timer := observ.NewTimer()
	opts := Options{Jobs: 2, Cache: cache, Timer: timer}
	first, err := Run(context.Background(), []string{good, bad}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 || first[0].Path != good || first[1].Path != bad {
		t.Fatalf("results out of order: %+v", first)
	}
	if first[0].Cached || first[1].LoadErr == "" {
		t.Fatalf("first run: cached=%v load error=%q", first[0].Cached, first[1].LoadErr)
	}
	if len(timer.Report().Phases) == 0 {
		t.Fatal("timer has no phases")
	}

	second, err := Run(context.Background(), []string{good, bad}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second[0].Cached {
		t.Fatal("second run missed the cache")
	}
	if second[1].Cached {
		t.Fatal("a load error was cached")
	}
	if len(second[0].Cases) != len(first[0].Cases) || second[0].Source != first[0].Source {
		t.Fatal("cached result differs")
	}
}

type recordingSink struct{ events chan Event }

func (s recordingSink) OnEvent(e Event) { s.events <- e }

func TestRunEmitsFinalStatus(t *testing.T) {
	path := writeSuite(t, "one.toml", `
[[case]]
name = "t"
kind = "literal"
type = "bool"
args = [{ type = "bool", value = true }]
expect = "true"
`)
	sink := recordingSink{events: make(chan Event, 64)}
	if _, err := Run(context.Background(), []string{path}, Options{Sink: sink}); err != nil {
		t.Fatal(err)
	}
	close(sink.events)
	var last Event
	first := true
	for e := range sink.events {
		if first && e.Status != StatusQueued {
			t.Fatalf("first event = %+v", e)
		}
		first = false
		last = e
	}
	if last.Status != StatusDone || last.Done != 1 || last.Total != 1 {
		t.Fatalf("last event = %+v", last)
	}
}
