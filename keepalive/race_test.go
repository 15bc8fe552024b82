package keepalive

import (
	"context"
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/keepalive/filter"
)

// countingNotifier counts destroys per instance without any locking of its
// own: the cache serializes every call.
type countingNotifier struct {
	destroys map[*widget]int
	total    atomic.Int64
}

func (n *countingNotifier) OnActivate(context.Context, any) error { return nil }
func (n *countingNotifier) OnDeactivateAndDestroy(_ context.Context, inst any) error {
	n.destroys[inst.(*widget)]++
	n.total.Add(1)
	return nil
}

// A mixed workload of concurrent Render / filter changes / SetMax.
// Should pass under `-race`; every instance is destroyed at most once.
func TestRace_Render(t *testing.T) {
	notifier := &countingNotifier{destroys: map[*widget]int{}}
	c := New[*widget](Options[*widget]{
		Max:      8,
		Notifier: notifier,
		Factory: func(_ context.Context, d *Descriptor) (*widget, error) {
			return &widget{key: DeriveKey(d)}, nil
		},
	})

	deadline := time.Now().Add(500 * time.Millisecond)
	ctx := context.Background()
	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			r := rand.New(rand.NewSource(int64(w) + 1))
			for time.Now().Before(deadline) {
				name := "C" + strconv.Itoa(r.Intn(32))
				d := &Descriptor{Component: &Component{ID: uint64(r.Intn(4)), Name: name}, Tag: name}
				var err error
				switch r.Intn(100) {
				case 0:
					err = c.SetExclude(ctx, filter.Literals("C"+strconv.Itoa(r.Intn(32))), d)
				case 1:
					err = c.SetExclude(ctx, filter.Pattern{}, d)
				case 2:
					err = c.SetMax(ctx, 4+r.Intn(8), d)
				default:
					_, err = c.Render(ctx, d)
				}
				if err != nil {
					return err
				}
				c.Stats()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	for w, n := range notifier.destroys {
		if n != 1 {
			t.Fatalf("%s destroyed %d times", w.key, n)
		}
	}
}
