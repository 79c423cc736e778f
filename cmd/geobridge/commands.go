package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/geobridge/internal/logger"
	"github.com/chazu/geobridge/pkg/procedural"
	"github.com/chazu/geobridge/pkg/scene"
	"github.com/chazu/geobridge/pkg/translate"
)

func newEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a script once and print the translated prims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, index, err := a.newProcedural(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), proc, index)
		},
	}
	a.addOutputFlags(cmd)
	cmd.Flags().Float64Var(&a.frame, "frame", 0, "frame to evaluate at")
	return cmd
}

func newRoundtripCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip FILE",
		Short: "Translate script meshes to prims and back, printing each result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, index, err := a.newProcedural(args[0])
			if err != nil {
				return err
			}
			if _, _, err := proc.Update(cmd.Context(), index); err != nil {
				return err
			}
			return roundtrip(a, proc)
		},
	}
	cmd.Flags().StringVarP(&a.overrides.Output, "output", "o", "", "script output to translate")
	cmd.Flags().StringArrayVar(&a.sets, "set", nil, "script input as name=value (repeatable)")
	return cmd
}

// roundtrip rebuilds a flat object from every mesh child of proc.
func roundtrip(a *app, proc *procedural.Procedural) error {
	for _, path := range proc.ChildPaths() {
		n, _ := proc.ChildPrim(path)
		if n.Type != scene.PrimMesh {
			continue
		}
		if _, err := fmt.Fprintf(a.out, "%s: %s\n", path, translate.BuildMeshObject(n)); err != nil {
			return err
		}
	}
	return nil
}

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-evaluate a script every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, a, args[0])
		},
	}
	a.addOutputFlags(cmd)
	return cmd
}

// watch evaluates script now and after every write to it until ctx is
// done. The directory is watched so editors that replace the file on save
// still trigger.
func watch(ctx context.Context, a *app, script string) error {
	log := logger.Named("watch")

	proc, index, err := a.newProcedural(script)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(script)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	rerun := func() {
		if err := a.run(ctx, proc, index); err != nil {
			log.Error("evaluation failed", zap.String("script", script), zap.Error(err))
		}
	}
	rerun()

	target := filepath.Clean(script)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug("script changed", zap.String("op", ev.Op.String()))
			rerun()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
