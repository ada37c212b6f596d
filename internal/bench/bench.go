// Package bench drives a Manager through synthetic frames and checks that
// the world-matrix cache agrees with the ancestor walk.
package bench

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/bough"
	"github.com/phanxgames/bough/ecs"
	"github.com/phanxgames/bough/internal/config"
	"github.com/phanxgames/bough/luabind"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

// tolerance is the largest allowed distance between the cached world
// position and the walked one, relative to the walked position's length
// once that exceeds 1.
const tolerance = 1e-6

// Result summarises a run.
type Result struct {
	Nodes      int
	Frames     int
	Recomputed int
	Reparented int
	Pruned     int
	Build      time.Duration
	Update     time.Duration
	Mutate     time.Duration
	MaxError   float64
}

// PerFrame returns the mean UpdateWorldMatrices time.
func (r Result) PerFrame() time.Duration {
	if r.Frames == 0 {
		return 0
	}
	return r.Update / time.Duration(r.Frames)
}

// Runner owns one benchmark scene.
type Runner struct {
	cfg     config.BenchConfig
	m       *bough.Manager
	log     *zap.Logger
	rng     *rand.Rand
	handles []bough.Handle
	roots   []bough.Handle

	world   donburi.World
	entries []*donburi.Entry

	scripts *luabind.Engine
}

// NewRunner creates a runner over m. Scripts from cfg.ScriptDir are loaded
// immediately so a broken script fails before any frame runs.
func NewRunner(m *bough.Manager, cfg config.BenchConfig, log *zap.Logger) (*Runner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		cfg: cfg,
		m:   m,
		log: log,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
	if cfg.ScriptDir != "" {
		r.scripts = luabind.NewEngine(m, log.Named("lua"))
		if err := r.scripts.LoadDir(cfg.ScriptDir); err != nil {
			r.scripts.Close()
			return nil, err
		}
	}
	return r, nil
}

// Close releases the script engine, if any.
func (r *Runner) Close() {
	if r.scripts != nil {
		r.scripts.Close()
	}
}

// Run builds the scene and steps cfg.Frames frames. It stops early with
// ctx.Err() if ctx is cancelled between frames.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	res := Result{Nodes: r.cfg.Nodes}

	start := time.Now()
	if err := r.build(); err != nil {
		return res, err
	}
	res.Build = time.Since(start)
	r.log.Info("scene built",
		zap.String("mode", r.cfg.Mode),
		zap.Int("nodes", len(r.handles)),
		zap.Int("roots", len(r.roots)),
		zap.Duration("elapsed", res.Build),
	)

	for frame := 0; frame < r.cfg.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		t0 := time.Now()
		res.Reparented += r.mutate()
		if err := r.callScript("on_frame"); err != nil {
			return res, err
		}
		res.Mutate += time.Since(t0)

		t1 := time.Now()
		res.Recomputed += r.update()
		res.Update += time.Since(t1)
		res.Frames++

		if r.cfg.Verify {
			worst, h := r.verify()
			if worst > res.MaxError {
				res.MaxError = worst
			}
			if worst > tolerance {
				return res, fmt.Errorf("frame %d: cached world position of %v is off by %g", frame, h, worst)
			}
		}
	}

	if r.world != nil && len(r.entries) > 0 {
		ecs.Despawn(r.world, r.m, r.entries[0])
		for _, e := range r.entries {
			if !r.world.Valid(e.Entity()) {
				res.Pruned++
			}
		}
	}
	return res, nil
}

// build creates a random forest. Each node picks a parent among the nodes
// created before it, or becomes a root.
func (r *Runner) build() error {
	n := r.cfg.Nodes
	r.handles = make([]bough.Handle, 0, n)
	if r.cfg.Mode == "ecs" {
		r.world = donburi.NewWorld()
		r.entries = make([]*donburi.Entry, 0, n)
	}
	for i := 0; i < n; i++ {
		parent := -1
		if i > 0 && r.rng.IntN(8) != 0 {
			parent = r.rng.IntN(i)
		}

		var h bough.Handle
		if r.world != nil {
			var pe *donburi.Entry
			if parent >= 0 {
				pe = r.entries[parent]
			}
			e := ecs.Spawn(r.world, r.m, pe)
			r.entries = append(r.entries, e)
			h = ecs.HandleOf(e)
		} else {
			h = r.m.Alloc()
			if parent >= 0 {
				r.m.SetParent(h, r.handles[parent])
			}
		}
		if parent < 0 {
			r.roots = append(r.roots, h)
		}
		s := 0.5 + r.rng.Float64()
		r.m.SetLocal(h, bough.Transform{
			Position: mgl64.Vec2{r.rng.Float64()*200 - 100, r.rng.Float64()*200 - 100},
			Scale:    mgl64.Vec2{s, s},
			Angle:    r.rng.Float64()*360 - 180,
		})
		r.handles = append(r.handles, h)
	}
	return r.callScript("on_setup")
}

// mutate touches a DirtyRate share of nodes and performs the configured
// number of reparents. It returns how many reparents succeeded.
func (r *Runner) mutate() int {
	touched := int(float64(len(r.handles)) * r.cfg.DirtyRate)
	for i := 0; i < touched; i++ {
		h := r.handles[r.rng.IntN(len(r.handles))]
		if !r.m.Valid(h) {
			continue
		}
		if r.rng.IntN(2) == 0 {
			r.m.Translate(h, mgl64.Vec2{r.rng.Float64() - 0.5, r.rng.Float64() - 0.5})
		} else {
			r.m.Rotate(h, r.rng.Float64()*10-5)
		}
	}

	moved := 0
	for i := 0; i < r.cfg.Reparents; i++ {
		child := r.handles[r.rng.IntN(len(r.handles))]
		parent := r.handles[r.rng.IntN(len(r.handles))]
		if !r.m.Valid(child) || !r.m.Valid(parent) || r.m.IsAncestorOf(child, parent) {
			continue
		}
		r.m.SetParent(child, parent)
		moved++
	}
	return moved
}

func (r *Runner) update() int {
	if r.world != nil {
		ecs.UpdateSystem(r.m)(r.world)
		return r.m.LastFrame().Recomputed
	}
	return r.m.UpdateWorldMatrices().Recomputed
}

// verify returns the largest cache/walk disagreement and the handle it
// occurred at. Handles freed by scripts are skipped.
func (r *Runner) verify() (float64, bough.Handle) {
	var worst float64
	var at bough.Handle
	for _, h := range r.handles {
		if !r.m.Valid(h) {
			continue
		}
		cached := r.m.LocalToWorld(h, mgl64.Vec2{})
		walked := r.m.WorldPosition(h)
		d := cached.Sub(walked).Len() / max(1, walked.Len())
		if d > worst {
			worst, at = d, h
		}
	}
	return worst, at
}

func (r *Runner) callScript(name string) error {
	if r.scripts == nil || len(r.roots) == 0 {
		return nil
	}
	return r.scripts.Call(name, r.roots[0])
}
