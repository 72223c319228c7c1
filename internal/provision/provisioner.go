// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ducklauncher/duck/internal/account"
	"github.com/ducklauncher/duck/internal/cache"
	"github.com/ducklauncher/duck/internal/fetch"
	"github.com/ducklauncher/duck/internal/launch"
	"github.com/ducklauncher/duck/internal/metadata"
	"github.com/ducklauncher/duck/pkg/manifest"
	"github.com/ducklauncher/duck/pkg/platform"
	"github.com/ducklauncher/duck/pkg/resolve"

	"github.com/charmbracelet/log"
)

// Batch names, as they appear in logs and FetchError.
const (
	BatchClient     = "client"
	BatchLibraries  = "libraries"
	BatchNatives    = "natives"
	BatchAssetIndex = "asset index"
	BatchAssets     = "assets"
)

type (
	// Client is the network surface a Pipeline needs: small documents are read
	// into memory, artifacts are written to disk, Maven jars are sized.
	Client interface {
		fetch.Fetcher
		fetch.SizeReader
		Get(ctx context.Context, url string, limit int64) ([]byte, error)
	}

	// Provisioner prepares a version for launch.
	Provisioner interface {
		// Provision syncs everything version id needs. It returns a nil Result
		// and nil error when id is not in the manifest index.
		Provision(ctx context.Context, id string, opts Options) (*Result, error)
	}

	// Options are per-run settings.
	Options struct {
		OS   platform.OS
		Arch string
	}

	// Result describes a provisioned version.
	Result struct {
		Descriptor  *manifest.VersionDescriptor
		Set         *resolve.Set
		Natives     []resolve.Native
		Paths       launch.ResolvedPaths
		AssetsRoot  string
		GameAssets  string
		InstanceDir string
		OS          platform.OS
		Arch        string
		Reports     []cache.Report
	}

	// Pipeline implements Provisioner over the on-disk layout of Config.DataDir.
	Pipeline struct {
		cfg       *Config
		layout    cache.Layout
		client    Client
		fetcher   fetch.Fetcher
		extractor launch.Extractor
		logger    *log.Logger
	}

	// PipelineOption configures a Pipeline during construction.
	PipelineOption func(*Pipeline)
)

// Compile-time interface check
var _ Provisioner = (*Pipeline)(nil)

// WithFetcher overrides the artifact fetcher, e.g. with a retrying decorator.
func WithFetcher(f fetch.Fetcher) PipelineOption {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// WithExtractor overrides how native jars are unpacked at launch.
func WithExtractor(e launch.Extractor) PipelineOption {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

// WithLogger sets the logger used for progress and warnings.
func WithLogger(l *log.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a Pipeline. A nil cfg uses DefaultConfig rooted at the working
// directory.
func New(cfg *Config, client Client, opts ...PipelineOption) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig(".")
	}
	p := &Pipeline{
		cfg:       cfg,
		layout:    cache.NewLayout(cfg.DataDir),
		client:    client,
		fetcher:   client,
		extractor: launch.ZipExtractor{},
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout returns the on-disk layout the pipeline writes to.
func (p *Pipeline) Layout() cache.Layout {
	return p.layout
}

// Index returns the version manifest index, fetching it when refresh is set or
// no cached copy exists.
func (p *Pipeline) Index(ctx context.Context, refresh bool) (*manifest.VersionManifestIndex, error) {
	return cachedDocument(ctx, p, p.layout.IndexPath(), p.cfg.ManifestURL, refresh, manifest.ParseIndex)
}

// Descriptor returns the descriptor of version id. A missing id is logged and
// reported as a nil descriptor with a nil error.
func (p *Pipeline) Descriptor(ctx context.Context, id string) (*manifest.VersionDescriptor, error) {
	path := p.layout.DescriptorPath(id)
	if d, ok, err := readCached(p, path, manifest.ParseDescriptor); ok || err != nil {
		return d, err
	}

	stub, found, err := p.findVersion(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		p.logger.Warn("skipping version", "err", &MissingVersionError{ID: id})
		return nil, nil
	}

	return cachedDocument(ctx, p, path, stub.URL, true, manifest.ParseDescriptor)
}

// findVersion looks id up in the cached index and refreshes the index once if
// the cached copy does not list it.
func (p *Pipeline) findVersion(ctx context.Context, id string) (manifest.VersionStub, bool, error) {
	idx, err := p.Index(ctx, false)
	if err != nil {
		return manifest.VersionStub{}, false, err
	}
	if stub, ok := idx.Find(id); ok {
		return stub, true, nil
	}
	idx, err = p.Index(ctx, true)
	if err != nil {
		return manifest.VersionStub{}, false, err
	}
	stub, ok := idx.Find(id)
	return stub, ok, nil
}

// Provision implements Provisioner.
func (p *Pipeline) Provision(ctx context.Context, id string, opts Options) (*Result, error) {
	if !opts.OS.IsValid() {
		return nil, &platform.UnsupportedOSError{Value: string(opts.OS)}
	}

	d, err := p.Descriptor(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}

	set, err := resolve.Resolve(d.Libraries)
	if err != nil {
		return nil, err
	}
	natives := resolve.SelectNatives(set, opts.OS)

	syncer := cache.NewSyncer(p.fetcher,
		cache.WithMaxConcurrency(p.cfg.MaxConcurrentFetches),
		cache.WithLogger(p.logger),
	)

	sizes, err := p.recordMetadata(ctx, syncer, set, d)
	if err != nil {
		return nil, err
	}

	libReqs, err := cache.LibraryRequirements(p.layout, set, sizes)
	if err != nil {
		return nil, err
	}
	nativeReqs, err := cache.NativeRequirements(p.layout, natives)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Descriptor:  d,
		Set:         set,
		Natives:     natives,
		AssetsRoot:  p.layout.AssetsDir(),
		GameAssets:  p.layout.AssetsDir(),
		InstanceDir: p.layout.InstanceDir(d.ID),
		OS:          opts.OS,
		Arch:        opts.Arch,
		Paths:       p.resolvedPaths(d, libReqs, natives, nativeReqs),
	}

	batches := []struct {
		name string
		reqs []cache.Requirement
	}{
		{BatchClient, p.clientRequirements(d)},
		{BatchLibraries, libReqs},
		{BatchNatives, nativeReqs},
		{BatchAssetIndex, []cache.Requirement{cache.AssetIndexRequirement(p.layout, d)}},
	}
	for _, b := range batches {
		if err := p.sync(ctx, syncer, res, b.name, b.reqs); err != nil {
			return nil, err
		}
	}

	idxPath := p.layout.AssetIndexPath(d.AssetIndex.ID)
	data, err := os.ReadFile(idxPath)
	if err != nil {
		return nil, fmt.Errorf("read asset index: %w", err)
	}
	assetIdx, err := manifest.ParseAssetIndex(data, idxPath)
	if err != nil {
		return nil, err
	}
	if assetIdx.Virtual {
		res.GameAssets = p.layout.VirtualDir(d.AssetsID())
	}

	assetReqs, err := cache.AssetRequirements(p.layout, d.AssetsID(), assetIdx, p.cfg.ResourcesURL)
	if err != nil {
		return nil, err
	}
	if err := p.sync(ctx, syncer, res, BatchAssets, assetReqs); err != nil {
		return nil, err
	}

	p.logger.Info("version provisioned", "version", d.ID, "libraries", set.Len(), "natives", len(natives), "assets", len(assetReqs))
	return res, nil
}

func (p *Pipeline) sync(ctx context.Context, s *cache.Syncer, res *Result, batch string, reqs []cache.Requirement) error {
	report, err := s.Sync(ctx, batch, reqs)
	if err != nil {
		return err
	}
	res.Reports = append(res.Reports, report)
	return nil
}

// recordMetadata sizes Maven-derived jars and folds this run into the
// cumulative metadata store.
func (p *Pipeline) recordMetadata(ctx context.Context, s *cache.Syncer, set *resolve.Set, d *manifest.VersionDescriptor) (map[string]int64, error) {
	path := p.layout.MetadataPath()
	store, err := metadata.Load(path)
	if err != nil {
		return nil, err
	}
	sizes, err := s.MeasureSizes(ctx, p.client, set, store)
	if err != nil {
		return nil, err
	}
	if err := metadata.Save(path, metadata.Merge(store, set, d, sizes)); err != nil {
		return nil, err
	}
	return sizes, nil
}

func (p *Pipeline) clientRequirements(d *manifest.VersionDescriptor) []cache.Requirement {
	var reqs []cache.Requirement
	if r, ok := cache.ClientRequirement(p.layout, d); ok {
		reqs = append(reqs, r)
	}
	if p.cfg.IncludeServer {
		if r, ok := cache.ServerRequirement(p.layout, d); ok {
			reqs = append(reqs, r)
		}
	}
	return reqs
}

func (p *Pipeline) resolvedPaths(d *manifest.VersionDescriptor, libs []cache.Requirement, natives []resolve.Native, nativeReqs []cache.Requirement) launch.ResolvedPaths {
	paths := launch.ResolvedPaths{ClientJar: p.layout.ClientJarPath(d.ID)}
	for _, r := range libs {
		paths.Libraries = append(paths.Libraries, r.LocalPath)
	}
	for i, n := range natives {
		jar := launch.NativeJar{Path: nativeReqs[i].LocalPath}
		if n.Extract != nil {
			jar.Exclude = n.Extract.Exclude
		}
		paths.Natives = append(paths.Natives, jar)
	}
	return paths
}

// cachedDocument returns the document at path, downloading it from url first
// when refresh is set or no usable copy is cached. A download is parsed before
// it replaces the cached copy.
func cachedDocument[T any](ctx context.Context, p *Pipeline, path, url string, refresh bool, parse func([]byte, string) (T, error)) (T, error) {
	if !refresh {
		if doc, ok, err := readCached(p, path, parse); ok || err != nil {
			return doc, err
		}
	}

	var zero T
	p.logger.Debug("fetching document", "path", path)
	data, err := p.client.Get(ctx, url, maxDocumentSize)
	if err != nil {
		return zero, &cache.FetchError{
			Batch: "documents",
			Items: []cache.FailedItem{{Requirement: cache.Requirement{Name: filepath.Base(path), LocalPath: path, RemoteURL: url}, Err: err}},
		}
	}
	doc, err := parse(data, url)
	if err != nil {
		return zero, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zero, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zero, fmt.Errorf("write %s: %w", path, err)
	}
	return doc, nil
}

// readCached parses the cached document at path. ok is false when there is no
// usable copy; an unparsable copy is logged and treated as missing.
func readCached[T any](p *Pipeline, path string, parse func([]byte, string) (T, error)) (doc T, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, false, nil
	}
	if err != nil {
		return doc, false, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err = parse(data, path)
	if err != nil {
		p.logger.Warn("discarding cached document", "path", path, "err", err)
		var zero T
		return zero, false, nil
	}
	return doc, true, nil
}

// Launch compiles res for acct and runs it to completion, returning the game's
// exit code.
func (p *Pipeline) Launch(ctx context.Context, res *Result, acct account.Account, runner launch.Runner) (int, error) {
	args, err := launch.Compile(res.Descriptor, res.Paths, acct, res.InstanceDir, launch.Options{
		OS:              res.OS,
		Arch:            res.Arch,
		LauncherName:    p.cfg.LauncherName,
		LauncherVersion: p.cfg.LauncherVersion,
		AssetsRoot:      res.AssetsRoot,
		GameAssets:      res.GameAssets,
		Extractor:       p.extractor,
	})
	if err != nil {
		return 1, err
	}

	inv := launch.NewInvocation(p.cfg.JavaPath, res.Descriptor.MainClass, launch.GameDir(res.InstanceDir), args)
	p.logger.Info("launching", "version", res.Descriptor.ID, "player", acct.PlayerName)
	return runner.Run(ctx, inv)
}
