package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsgonest/tsreflect/internal/buildcache"
	"github.com/tsgonest/tsreflect/internal/codegen"
	"github.com/tsgonest/tsreflect/internal/config"
	"github.com/tsgonest/tsreflect/internal/diagnostic"
	"github.com/tsgonest/tsreflect/internal/logger"
	"github.com/tsgonest/tsreflect/internal/metadata"
	"github.com/tsgonest/tsreflect/internal/reflector"
	"github.com/tsgonest/tsreflect/internal/watcher"
)

// errBuildFailed is returned when diagnostics contain errors. The
// diagnostics themselves have already been printed.
var errBuildFailed = errors.New("build failed")

type buildOptions struct {
	configPath  string
	input       string
	outDir      string
	watch       bool
	force       bool
	strict      bool
	quiet       bool
	noDominance bool
	concurrency int
}

func buildCmd(stderr io.Writer) *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Reflect every site of the input document and write reflection.js and reflection.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cfgPath, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := commandLogger(cmd, stderr, &cfg.Log)
			if err != nil {
				return err
			}
			ctx := logger.ContextWithLogger(cmd.Context(), log)
			for _, w := range cfg.ValidateDetailed().Warnings {
				log.Warn("config", "warning", w)
			}

			b, err := newBuilder(cfg, opts, stderr)
			if err != nil {
				return err
			}
			if opts.watch {
				return b.watch(ctx, cfgPath)
			}
			return b.run(ctx, opts.force)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to tsreflect.config.json (default: discovered in the working directory)")
	f.StringVar(&opts.input, "input", "", "reflection document to read")
	f.StringVar(&opts.outDir, "out-dir", "", "directory receiving the generated files")
	f.BoolVar(&opts.watch, "watch", false, "rebuild when the input document changes")
	f.BoolVar(&opts.force, "force", false, "ignore the build cache")
	f.BoolVar(&opts.strict, "strict", false, "treat warnings as errors")
	f.BoolVar(&opts.quiet, "quiet", false, "suppress warnings and notes")
	f.BoolVar(&opts.noDominance, "no-dominance", false, "keep literals that a keyword of the same domain swallows")
	f.IntVar(&opts.concurrency, "concurrency", 0, "sites reflected in parallel (default: GOMAXPROCS)")
	return cmd
}

// loadConfig resolves the effective configuration: defaults, then the
// config file, then command-line overrides.
func loadConfig(opts buildOptions) (*config.Config, string, error) {
	path := opts.configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("could not get working directory: %w", err)
		}
		path = config.Discover(cwd)
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
	} else {
		defaults := config.DefaultConfig()
		cfg = &defaults
	}

	overrides := config.Config{
		Input:       opts.input,
		OutDir:      opts.outDir,
		Strict:      opts.strict,
		Quiet:       opts.quiet,
		Concurrency: opts.concurrency,
	}
	if opts.noDominance {
		disabled := false
		overrides.Dominance = &disabled
	}
	if err := cfg.Merge(overrides); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

// builder runs builds for one configuration. The reflector is shared
// between the builds of a watch session so its cache carries over.
type builder struct {
	cfg       *config.Config
	opts      buildOptions
	reflector *reflector.Reflector
	stderr    io.Writer
}

func newBuilder(cfg *config.Config, opts buildOptions, stderr io.Writer) (*builder, error) {
	r, err := reflector.New(reflector.Options{
		Concurrency: cfg.Concurrency,
		CacheSize:   cfg.CacheSize,
		Dominance:   cfg.DominanceEnabled(),
		MaxDepth:    cfg.MaxDepth,
	})
	if err != nil {
		return nil, err
	}
	return &builder{cfg: cfg, opts: opts, reflector: r, stderr: stderr}, nil
}

func (b *builder) moduleOptions() codegen.ModuleOptions {
	return codegen.ModuleOptions{
		RuntimeModule:     b.cfg.RuntimeModule,
		RuntimeIdentifier: b.cfg.RuntimeIdentifier,
	}
}

func (b *builder) configHash() (string, error) {
	return buildcache.HashValue(struct {
		Version string         `json:"version"`
		Config  *config.Config `json:"config"`
	}{version, b.cfg})
}

// run performs one build. Unless force is set, a build whose input,
// configuration and outputs are unchanged is skipped.
func (b *builder) run(ctx context.Context, force bool) error {
	log := logger.FromContext(ctx)
	start := time.Now()

	cachePath := buildcache.CachePath(b.cfg.OutDir)
	inputHash := buildcache.HashFile(b.cfg.Input)
	configHash, err := b.configHash()
	if err != nil {
		return err
	}
	if !force && buildcache.Load(cachePath).IsValid(inputHash, configHash) {
		log.Info("outputs are up to date", "out_dir", b.cfg.OutDir)
		return nil
	}

	log.Info("building", "input", b.cfg.Input)
	doc, err := metadata.LoadDocument(b.cfg.Input)
	if err != nil {
		buildcache.Delete(cachePath)
		return err
	}

	diags := diagnostic.NewCollector(b.cfg.Strict, b.cfg.Quiet)
	results, err := b.reflector.Run(ctx, doc, diags)
	if out := diags.FormatAll(); out != "" {
		fmt.Fprint(b.stderr, out)
	}
	if err != nil {
		buildcache.Delete(cachePath)
		return err
	}
	if diags.HasErrors() {
		buildcache.Delete(cachePath)
		log.Error("build failed", "summary", diags.Summary())
		return errBuildFailed
	}

	outputs, err := codegen.WriteOutputs(b.cfg.OutDir, results, version, b.moduleOptions())
	if err != nil {
		buildcache.Delete(cachePath)
		return err
	}
	if err := buildcache.Save(cachePath, buildcache.New(inputHash, configHash, outputs)); err != nil {
		log.Warn("could not save build cache", "error", err)
	}

	log.Info("build finished",
		"sites", len(results),
		"cache_hits", b.reflector.CacheHits(),
		"summary", diags.Summary(),
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// watch builds once, then rebuilds whenever the input document or the
// config file changes. Build errors are reported and watching goes on.
func (b *builder) watch(ctx context.Context, cfgPath string) error {
	log := logger.FromContext(ctx)
	if err := b.run(ctx, false); err != nil {
		log.Error("build failed", "error", err)
	}

	paths := []string{b.cfg.Input}
	if cfgPath != "" {
		paths = append(paths, cfgPath)
	}
	changes := make(chan []watcher.Event, 1)
	w, err := watcher.New(paths, watcher.DefaultDebounce, func(events []watcher.Event) {
		select {
		case changes <- events:
		default:
		}
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- w.Watch(ctx) }()
	log.Info("watching for changes", "paths", paths)

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return nil
		case err := <-errCh:
			return err
		case events := <-changes:
			log.Info("change detected", "events", len(events), "path", events[0].Path)
			if cfgPath != "" && touches(events, cfgPath) {
				if err := b.reload(cfgPath); err != nil {
					log.Error("config reload failed", "error", err)
					continue
				}
			}
			if err := b.run(ctx, false); err != nil {
				log.Error("build failed", "error", err)
			}
		}
	}
}

// reload re-reads the config file, keeping command-line overrides.
func (b *builder) reload(cfgPath string) error {
	opts := b.opts
	opts.configPath = cfgPath
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return err
	}
	next, err := newBuilder(cfg, b.opts, b.stderr)
	if err != nil {
		return err
	}
	*b = *next
	return nil
}

func touches(events []watcher.Event, path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, e := range events {
		if e.Path == abs {
			return true
		}
	}
	return false
}
