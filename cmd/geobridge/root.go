package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/geobridge/internal/config"
	"github.com/chazu/geobridge/internal/logger"
	"github.com/chazu/geobridge/pkg/engine"
	"github.com/chazu/geobridge/pkg/kernel"
	"github.com/chazu/geobridge/pkg/kernel/manifold"
	"github.com/chazu/geobridge/pkg/kernel/sdfx"
	"github.com/chazu/geobridge/pkg/procedural"
	"github.com/chazu/geobridge/pkg/scene"
)

// procPath is where the CLI mounts the procedural prim.
const procPath scene.Path = "/procedural"

// app carries flag values and the loaded configuration between commands.
type app struct {
	configPath string
	overrides  config.Overrides
	frame      float64
	sets       []string

	cfg *config.Config
	out io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "geobridge",
		Short: "Translate script-generated geometry into scene prims",
		Long: `geobridge runs a geometry script, routes every object it outputs
to a mesh, curves or instancer translator, and prints the resulting prims.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./geobridge.yaml or the user config dir)")
	pf.StringVar(&a.overrides.LogLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&a.overrides.LogFile, "log-file", "", "also log to this file, rotated")

	root.AddCommand(newEvalCmd(a), newRoundtripCmd(a), newWatchCmd(a))
	return root
}

// addOutputFlags registers the flags shared by eval and watch.
func (a *app) addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.overrides.Output, "output", "o", "", "script output to translate")
	cmd.Flags().StringVarP(&a.overrides.Format, "format", "f", "", "print format: text|yaml")
	cmd.Flags().StringArrayVar(&a.sets, "set", nil, "script input as name=value (repeatable)")
}

func (a *app) setup(cmd *cobra.Command) error {
	if f := cmd.Flags().Lookup("frame"); f != nil && f.Changed {
		frame := a.frame
		a.overrides.Frame = &frame
	}
	cfg, err := config.Load(a.configPath, a.overrides)
	if err != nil {
		return err
	}

	logger.InitWithOptions(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: true,
		File: logger.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		},
	})
	logger.Debug("configuration loaded",
		zap.String("output", cfg.Output.Name),
		zap.String("format", cfg.Output.Format),
		zap.Float64("frame", cfg.Engine.Frame))

	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	return nil
}

// inputs parses --set values. Numbers become float64, absolute paths become
// prim paths, anything else stays a string.
func (a *app) inputs() (map[string]any, error) {
	in := make(map[string]any, len(a.sets))
	for _, s := range a.sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, want name=value", s)
		}
		switch f, err := strconv.ParseFloat(value, 64); {
		case err == nil:
			in[name] = f
		case strings.HasPrefix(value, "/"):
			in[name] = scene.Path(value)
		default:
			in[name] = value
		}
	}
	return in, nil
}

// newProcedural builds the engine from configuration and mounts script as a
// procedural prim in a fresh index.
func (a *app) newProcedural(script string) (*procedural.Procedural, *scene.MapIndex, error) {
	timeout, err := a.cfg.EvalTimeout()
	if err != nil {
		return nil, nil, err
	}
	inputs, err := a.inputs()
	if err != nil {
		return nil, nil, err
	}

	k, err := a.newKernel()
	if err != nil {
		return nil, nil, err
	}

	eng := engine.NewEngine(
		engine.WithTimeout(timeout),
		engine.WithKernel(k),
	)
	eval := engine.NewEvaluator(eng, engine.DirLoader(filepath.Dir(script)))

	index := scene.NewMapIndex()
	index.Add(procPath, procedural.NewPrim(filepath.Base(script), a.cfg.Output.Name, inputs))

	proc := procedural.New(procPath, eval)
	proc.SetTime(a.cfg.Engine.Frame, a.cfg.Time())
	return proc, index, nil
}

func (a *app) newKernel() (kernel.Kernel, error) {
	switch a.cfg.Kernel.Backend {
	case "manifold":
		return manifold.New(a.cfg.Kernel.Segments)
	default:
		return sdfx.New(a.cfg.Kernel.MeshCells), nil
	}
}

// run updates proc and prints every child prim.
func (a *app) run(ctx context.Context, proc *procedural.Procedural, index scene.Index) error {
	if _, _, err := proc.Update(ctx, index); err != nil {
		return err
	}
	for _, path := range proc.ChildPaths() {
		n, _ := proc.ChildPrim(path)
		if err := a.print(path, n); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) print(path scene.Path, n scene.Node) error {
	if a.cfg.Output.Format == "yaml" {
		if _, err := fmt.Fprintf(a.out, "--- # %s\n", path); err != nil {
			return err
		}
		return scene.EncodeYAML(a.out, n)
	}
	if _, err := fmt.Fprintln(a.out, path); err != nil {
		return err
	}
	return scene.Dump(a.out, n)
}
