// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ducklauncher/duck/internal/account"
	"github.com/ducklauncher/duck/internal/cache"
	"github.com/ducklauncher/duck/internal/fetch"
	"github.com/ducklauncher/duck/internal/launch"
	"github.com/ducklauncher/duck/internal/metadata"
	"github.com/ducklauncher/duck/internal/testutil"
	"github.com/ducklauncher/duck/pkg/manifest"
	"github.com/ducklauncher/duck/pkg/platform"
)

const testVersion = "1.0-test"

var testAssets = map[string]string{
	"minecraft/sounds/a.ogg": "aaaa",
	"minecraft/sounds/b.ogg": "bbbbbb",
	"icons/icon_16x16.png":   "cc",
}

func assetHash(logical string) string {
	return fmt.Sprintf("%02x%038x", len(logical), len(testAssets[logical]))
}

// publish registers a version whose library list contains two versions of the
// same artifact, one native-only entry, one Maven-indirect jar and three assets.
func publish(u *testutil.Upstream, virtual bool) {
	var objects []string
	for logical, body := range testAssets {
		h := assetHash(logical)
		objects = append(objects, fmt.Sprintf(`%q: {"hash": %q, "size": %d}`, logical, h, len(body)))
		u.Set("/resources/"+h[:2]+"/"+h, body)
	}
	assetIndex := fmt.Sprintf(`{"virtual": %t, "objects": {%s}}`, virtual, strings.Join(objects, ","))
	u.Set("/indexes/legacy.json", assetIndex)

	u.Set("/jars/lib-1.0.jar", "1.0!")
	u.Set("/jars/lib-1.1.jar", "1.1!!")
	u.Set("/jars/lwjgl-natives-linux.jar", "so!")
	u.Set("/maven/org/maven/m/2.0/m-2.0.jar", "maven-jar")
	u.Set("/jars/client.jar", "client")

	descriptor := fmt.Sprintf(`{
		"id": %[1]q,
		"type": "release",
		"mainClass": "net.minecraft.client.main.Main",
		"assets": "legacy",
		"assetIndex": {"id": "legacy", "sha1": "x", "size": %[2]d, "totalSize": 12, "url": %[3]q},
		"downloads": {"client": {"sha1": "x", "size": 6, "url": %[4]q}},
		"minecraftArguments": "--username ${auth_player_name} --assetsDir ${game_assets}",
		"libraries": [
			{"name": "org.example:lib:1.0", "downloads": {"artifact": {"path": "org/example/lib/1.0/lib-1.0.jar", "sha1": "x", "size": 4, "url": %[5]q}}},
			{"name": "org.lwjgl:lwjgl-platform:2.9", "natives": {"linux": "natives-linux"},
			 "extract": {"exclude": ["META-INF/"]},
			 "downloads": {"classifiers": {"natives-linux": {"path": "org/lwjgl/lwjgl-platform/2.9/lwjgl-platform-2.9-natives-linux.jar", "sha1": "x", "size": 3, "url": %[6]q}}}},
			{"name": "org.example:lib:1.1", "downloads": {"artifact": {"path": "org/example/lib/1.1/lib-1.1.jar", "sha1": "x", "size": 5, "url": %[7]q}}},
			{"name": "org.maven:m:2.0", "url": %[8]q}
		]
	}`,
		testVersion, len(assetIndex), u.URL("/indexes/legacy.json"), u.URL("/jars/client.jar"),
		u.URL("/jars/lib-1.0.jar"), u.URL("/jars/lwjgl-natives-linux.jar"), u.URL("/jars/lib-1.1.jar"),
		u.URL("/maven/"),
	)
	u.Set("/v/"+testVersion+".json", descriptor)
	u.Set("/manifest.json", fmt.Sprintf(`{
		"latest": {"release": %[1]q, "snapshot": %[1]q},
		"versions": [{"id": %[1]q, "type": "release", "url": %[2]q, "time": "t", "releaseTime": "t"}]
	}`, testVersion, u.URL("/v/"+testVersion+".json")))
}

func newTestPipeline(t *testing.T, u *testutil.Upstream, opts ...PipelineOption) *Pipeline {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	cfg.Apply(
		WithManifestURL(u.URL("/manifest.json")),
		WithResourcesURL(u.URL("/resources")),
		WithMaxConcurrentFetches(4),
	)
	return New(cfg, fetch.NewClient(), opts...)
}

func TestProvision_EndToEnd(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	publish(u, false)
	p := newTestPipeline(t, u)

	// One of the three assets is already cached with the right size.
	cached := assetHash("icons/icon_16x16.png")
	cachedPath := filepath.Join(p.Layout().ObjectsDir(), cached[:2], cached)
	testutil.WriteSized(t, cachedPath, 2)

	res, err := p.Provision(context.Background(), testVersion, Options{OS: platform.OSLinux})
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}
	if res == nil {
		t.Fatal("Provision() result = nil")
	}

	if got := u.Count(http.MethodGet, "/jars/lib-1.0.jar"); got != 0 {
		t.Errorf("superseded lib-1.0 fetched %d times", got)
	}
	if got := u.Count(http.MethodGet, "/jars/lib-1.1.jar"); got != 1 {
		t.Errorf("lib-1.1 fetched %d times, want 1", got)
	}
	if got := u.Count(http.MethodGet, "/jars/lwjgl-natives-linux.jar"); got != 1 {
		t.Errorf("native fetched %d times, want 1", got)
	}
	if got := u.Count(http.MethodHead, "/maven/org/maven/m/2.0/m-2.0.jar"); got != 1 {
		t.Errorf("maven jar measured %d times, want 1", got)
	}
	if got := u.Total(http.MethodGet, "/resources/"); got != 2 {
		t.Errorf("assets fetched %d times, want 2", got)
	}
	if got := u.Count(http.MethodGet, "/resources/"+cached[:2]+"/"+cached); got != 0 {
		t.Errorf("cached asset refetched %d times", got)
	}

	wantLibs := []string{
		filepath.Join(p.Layout().LibrariesDir(), "org", "example", "lib", "1.1", "lib-1.1.jar"),
		filepath.Join(p.Layout().LibrariesDir(), "org", "maven", "m", "2.0", "m-2.0.jar"),
	}
	if !slices.Equal(res.Paths.Libraries, wantLibs) {
		t.Errorf("Paths.Libraries = %v, want %v", res.Paths.Libraries, wantLibs)
	}
	if len(res.Natives) != 1 || len(res.Paths.Natives) != 1 {
		t.Fatalf("natives = %d/%d, want 1", len(res.Natives), len(res.Paths.Natives))
	}
	if ex := res.Paths.Natives[0].Exclude; len(ex) != 1 || ex[0] != "META-INF/" {
		t.Errorf("native excludes = %v", ex)
	}
	if res.Paths.ClientJar != p.Layout().ClientJarPath(testVersion) {
		t.Errorf("ClientJar = %q", res.Paths.ClientJar)
	}
	if _, err := os.Stat(res.Paths.ClientJar); err != nil {
		t.Errorf("client jar not on disk: %v", err)
	}
	if res.GameAssets != p.Layout().AssetsDir() {
		t.Errorf("GameAssets = %q, want assets root for a flat index", res.GameAssets)
	}

	store, err := metadata.Load(p.Layout().MetadataPath())
	if err != nil {
		t.Fatalf("metadata.Load() error = %v", err)
	}
	if size, ok := store.KnownSize("org.maven:m:2.0"); !ok || size != int64(len("maven-jar")) {
		t.Errorf("KnownSize(maven) = %d, %v", size, ok)
	}
	if len(store.ClientArtifacts) != 1 {
		t.Errorf("client artifacts = %d, want 1", len(store.ClientArtifacts))
	}
}

func TestProvision_SecondRunIsIdempotent(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	publish(u, false)
	p := newTestPipeline(t, u)
	ctx := context.Background()

	if _, err := p.Provision(ctx, testVersion, Options{OS: platform.OSLinux}); err != nil {
		t.Fatalf("first Provision() error = %v", err)
	}
	getsBefore, headsBefore := u.Total(http.MethodGet, "/"), u.Total(http.MethodHead, "/")

	res, err := p.Provision(ctx, testVersion, Options{OS: platform.OSLinux})
	if err != nil {
		t.Fatalf("second Provision() error = %v", err)
	}
	if got := u.Total(http.MethodGet, "/") - getsBefore; got != 0 {
		t.Errorf("second run issued %d GETs, want 0", got)
	}
	if got := u.Total(http.MethodHead, "/") - headsBefore; got != 0 {
		t.Errorf("second run issued %d HEADs, want 0", got)
	}
	for _, r := range res.Reports {
		if r.Fetched != 0 {
			t.Errorf("batch %q fetched %d items on a warm cache", r.Batch, r.Fetched)
		}
	}

	store, err := metadata.Load(p.Layout().MetadataPath())
	if err != nil {
		t.Fatal(err)
	}
	if len(store.ClientArtifacts) != 1 {
		t.Errorf("client artifacts after two runs = %d, want 1", len(store.ClientArtifacts))
	}
}

func TestProvision_VirtualAssets(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	publish(u, true)
	p := newTestPipeline(t, u)

	res, err := p.Provision(context.Background(), testVersion, Options{OS: platform.OSLinux})
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}
	virtual := p.Layout().VirtualDir("legacy")
	if res.GameAssets != virtual {
		t.Errorf("GameAssets = %q, want %q", res.GameAssets, virtual)
	}
	got, err := os.ReadFile(filepath.Join(virtual, "minecraft", "sounds", "b.ogg"))
	if err != nil {
		t.Fatalf("virtual asset missing: %v", err)
	}
	if string(got) != "bbbbbb" {
		t.Errorf("virtual asset = %q", got)
	}

	h := assetHash("minecraft/sounds/b.ogg")
	if _, err := os.Stat(filepath.Join(p.Layout().ObjectsDir(), h[:2], h)); err != nil {
		t.Errorf("virtual index object missing from the object store: %v", err)
	}
	if got := u.Total(http.MethodGet, "/resources/"); got != 2*len(testAssets) {
		t.Errorf("assets fetched %d times, want %d (one transfer per destination)", got, 2*len(testAssets))
	}
}

func TestProvision_MissingVersion(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	publish(u, false)
	p := newTestPipeline(t, u)

	res, err := p.Provision(context.Background(), "9.9", Options{OS: platform.OSLinux})
	if err != nil {
		t.Fatalf("Provision() error = %v, want nil for a missing version", err)
	}
	if res != nil {
		t.Fatalf("Provision() result = %+v, want nil", res)
	}
	// The cached index is refreshed once before giving up.
	if got := u.Count(http.MethodGet, "/manifest.json"); got != 2 {
		t.Errorf("index fetched %d times, want 2", got)
	}
}

func TestProvision_FetchFailureAbortsRun(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	publish(u, false)
	u.Remove("/jars/lib-1.1.jar")
	p := newTestPipeline(t, u)

	_, err := p.Provision(context.Background(), testVersion, Options{OS: platform.OSLinux})
	if !errors.Is(err, cache.ErrFetch) {
		t.Fatalf("Provision() error = %v, want ErrFetch", err)
	}
	var fe *cache.FetchError
	if !errors.As(err, &fe) || fe.Batch != BatchLibraries {
		t.Errorf("error = %v, want libraries FetchError", err)
	}
	if got := u.Total(http.MethodGet, "/resources/"); got != 0 {
		t.Errorf("assets fetched %d times after a failed batch", got)
	}
}

func TestProvision_RejectsInvalidOS(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	p := newTestPipeline(t, u)
	_, err := p.Provision(context.Background(), testVersion, Options{OS: "beos"})
	if !errors.Is(err, platform.ErrUnsupportedOS) {
		t.Errorf("Provision() error = %v, want ErrUnsupportedOS", err)
	}
}

func TestIndex_UsesCacheUnlessRefreshed(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	publish(u, false)
	p := newTestPipeline(t, u)
	ctx := context.Background()

	for range 2 {
		idx, err := p.Index(ctx, false)
		if err != nil {
			t.Fatalf("Index() error = %v", err)
		}
		if idx.Latest.Release != testVersion {
			t.Errorf("Latest.Release = %q", idx.Latest.Release)
		}
	}
	if got := u.Count(http.MethodGet, "/manifest.json"); got != 1 {
		t.Errorf("index fetched %d times, want 1", got)
	}
	if _, err := p.Index(ctx, true); err != nil {
		t.Fatalf("Index(refresh) error = %v", err)
	}
	if got := u.Count(http.MethodGet, "/manifest.json"); got != 2 {
		t.Errorf("index fetched %d times after refresh, want 2", got)
	}
}

func TestDescriptor_MalformedDownloadIsNotCached(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	publish(u, false)
	u.Set("/v/"+testVersion+".json", `{"id": "truncated`)
	p := newTestPipeline(t, u)
	ctx := context.Background()

	if _, err := p.Descriptor(ctx, testVersion); !errors.Is(err, manifest.ErrParse) {
		t.Fatalf("Descriptor() error = %v, want ErrParse", err)
	}
	if _, err := os.Stat(p.Layout().DescriptorPath(testVersion)); !os.IsNotExist(err) {
		t.Fatalf("malformed descriptor was cached (stat err = %v)", err)
	}

	publish(u, false)
	d, err := p.Descriptor(ctx, testVersion)
	if err != nil {
		t.Fatalf("Descriptor() after upstream fix error = %v", err)
	}
	if d == nil || d.ID != testVersion {
		t.Errorf("Descriptor() = %+v, want %s", d, testVersion)
	}
}

func TestDescriptor_UnreadableCacheIsRefetched(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	publish(u, false)
	p := newTestPipeline(t, u)
	testutil.MustWriteFile(t, p.Layout().DescriptorPath(testVersion), []byte("{"))

	d, err := p.Descriptor(context.Background(), testVersion)
	if err != nil {
		t.Fatalf("Descriptor() error = %v", err)
	}
	if d == nil || d.ID != testVersion {
		t.Errorf("Descriptor() = %+v, want %s", d, testVersion)
	}
	if got := u.Count(http.MethodGet, "/v/"+testVersion+".json"); got != 1 {
		t.Errorf("descriptor fetched %d times, want 1", got)
	}
}

type captureRunner struct {
	inv launch.Invocation
}

func (c *captureRunner) Run(_ context.Context, inv launch.Invocation) (int, error) {
	c.inv = inv
	return 7, nil
}

type nopExtractor struct{}

func (nopExtractor) Extract(string, string, []string) error { return nil }

func TestLaunch(t *testing.T) {
	t.Parallel()

	u := testutil.NewUpstream(t)
	publish(u, false)
	p := newTestPipeline(t, u, WithExtractor(nopExtractor{}))
	ctx := context.Background()

	res, err := p.Provision(ctx, testVersion, Options{OS: platform.OSLinux})
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}
	acct, err := account.Offline("Steve")
	if err != nil {
		t.Fatal(err)
	}

	runner := &captureRunner{}
	code, err := p.Launch(ctx, res, acct, runner)
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}

	inv := runner.inv
	if inv.Java != launch.DefaultJava || inv.MainClass != "net.minecraft.client.main.Main" {
		t.Errorf("invocation = %+v", inv)
	}
	if inv.Dir != launch.GameDir(res.InstanceDir) {
		t.Errorf("Dir = %q", inv.Dir)
	}
	wantGame := []string{"--username", "Steve", "--assetsDir", res.GameAssets}
	if !slices.Equal(inv.GameArgs, wantGame) {
		t.Errorf("GameArgs = %q, want %q", inv.GameArgs, wantGame)
	}
	cp := inv.JVMArgs[len(inv.JVMArgs)-1]
	if !strings.HasSuffix(cp, ":"+res.Paths.ClientJar) {
		t.Errorf("classpath %q does not end with the client jar", cp)
	}
}
