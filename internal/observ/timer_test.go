package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAccumulates(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("lower", time.Millisecond)
		}()
	}
	wg.Wait()
	idx := tm.Begin("xref")
	tm.End(idx, "3 units")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(rep.Phases))
	}
	if rep.Phases[0].Count != 4 || rep.Phases[0].DurationMS != 4 {
		t.Fatalf("unexpected lower phase: %+v", rep.Phases[0])
	}
	if !strings.Contains(tm.Summary(), "// 3 units") {
		t.Fatalf("summary misses note:\n%s", tm.Summary())
	}
}

func TestCountersTop(t *testing.T) {
	c := NewCounters()
	c.Add("CallExpr", 3)
	c.Merge(map[string]int{"IfStmt": 3, "DeclRefExpr": 7})
	top := c.Top(2)
	if len(top) != 2 || top[0].Key != "DeclRefExpr" || top[1].Key != "CallExpr" {
		t.Fatalf("unexpected top: %+v", top)
	}
}
