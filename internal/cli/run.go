package cli

import (
	"fmt"

	"github.com/phanxgames/bough"
	"github.com/phanxgames/bough/internal/bench"
	"github.com/phanxgames/bough/internal/config"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOpts struct {
	configPath string
	nodes      int
	frames     int
	dirty      float64
	reparents  int
	seed       uint64
	mode       string
	scripts    string
	noVerify   bool
	debug      bool
	profile    string
	profileDir string
}

func newRunCmd() *cobra.Command {
	var o runOpts
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the frame benchmark",
		Example: `  boughbench run --nodes 50000 --frames 600
  boughbench run --config bench.toml --mode ecs
  boughbench run --profile cpu --profile-dir ./prof`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runBench(cmd, cfg, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "TOML or YAML config file")
	f.IntVarP(&o.nodes, "nodes", "n", 0, "number of transforms")
	f.IntVarP(&o.frames, "frames", "f", 0, "number of frames")
	f.Float64Var(&o.dirty, "dirty", 0, "fraction of nodes touched per frame")
	f.IntVar(&o.reparents, "reparents", 0, "reparent operations per frame")
	f.Uint64Var(&o.seed, "seed", 0, "random seed")
	f.StringVar(&o.mode, "mode", "", "scene driver: manager or ecs")
	f.StringVar(&o.scripts, "scripts", "", "directory of Lua hooks (on_setup, on_frame)")
	f.BoolVar(&o.noVerify, "no-verify", false, "skip cache/walk verification")
	f.BoolVar(&o.debug, "debug", false, "enable engine debug logging")
	f.StringVar(&o.profile, "profile", "", "write a profile: cpu or mem")
	f.StringVar(&o.profileDir, "profile-dir", ".", "directory for profile output")
	return cmd
}

// resolve loads the config file, if any, and applies flags the user set
// explicitly on top of it.
func (o runOpts) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("nodes") {
		cfg.Bench.Nodes = o.nodes
	}
	if f.Changed("frames") {
		cfg.Bench.Frames = o.frames
	}
	if f.Changed("dirty") {
		cfg.Bench.DirtyRate = o.dirty
	}
	if f.Changed("reparents") {
		cfg.Bench.Reparents = o.reparents
	}
	if f.Changed("seed") {
		cfg.Bench.Seed = o.seed
	}
	if f.Changed("mode") {
		cfg.Bench.Mode = o.mode
	}
	if f.Changed("scripts") {
		cfg.Bench.ScriptDir = o.scripts
	}
	if o.noVerify {
		cfg.Bench.Verify = false
	}
	if o.debug {
		cfg.Engine.Debug = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBench(cmd *cobra.Command, cfg *config.Config, o runOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	switch o.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(o.profileDir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(o.profileDir), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q (want cpu or mem)", o.profile)
	}

	zl, err := newEngineLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	m := bough.NewManager(bough.WithOptions(cfg.Engine), bough.WithLogger(zl))
	r, err := bench.NewRunner(m, cfg.Bench, zl)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Debug("starting run",
		"nodes", cfg.Bench.Nodes,
		"frames", cfg.Bench.Frames,
		"dirty", cfg.Bench.DirtyRate,
		"mode", cfg.Bench.Mode,
	)
	prog := newProgress(logger)
	res, err := r.Run(ctx)
	if err != nil {
		zl.Error("run aborted", zap.Int("frames", res.Frames), zap.Error(err))
		return err
	}
	prog.done(fmt.Sprintf("Ran %d frames over %d transforms", res.Frames, res.Nodes))

	printResult(cmd, res)
	return nil
}

func printResult(cmd *cobra.Command, res bench.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "build        %s\n", res.Build)
	fmt.Fprintf(out, "update/frame %s\n", res.PerFrame())
	fmt.Fprintf(out, "mutate total %s\n", res.Mutate)
	fmt.Fprintf(out, "recomputed   %d\n", res.Recomputed)
	fmt.Fprintf(out, "reparented   %d\n", res.Reparented)
	if res.Pruned > 0 {
		fmt.Fprintf(out, "pruned       %d\n", res.Pruned)
	}
	fmt.Fprintf(out, "max error    %g\n", res.MaxError)
}
