// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"fmt"
	"strings"

	"github.com/ducklauncher/duck/pkg/manifest"
	"github.com/ducklauncher/duck/pkg/resolve"
)

// DefaultResourcesURL is the content-addressed asset host.
const DefaultResourcesURL = "https://resources.download.minecraft.net"

// LibraryRequirements plans the main jar of every resolved library that has one.
// Maven-derived jars take their size from sizes, keyed by raw coordinate.
func LibraryRequirements(l Layout, set *resolve.Set, sizes map[string]int64) ([]Requirement, error) {
	var reqs []Requirement
	for _, e := range set.Entries() {
		if e.Library.Source == nil {
			continue
		}
		loc := e.Library.Source.Location()
		size := loc.Size
		if _, ok := e.Library.Source.(manifest.MavenCoordinate); ok {
			measured, known := sizes[e.Library.Coordinate]
			if !known {
				return nil, fmt.Errorf("%s: %w", e.Library.Coordinate, ErrSizeUnknown)
			}
			size = measured
		}
		local, err := l.LibraryPath(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Library.Coordinate, err)
		}
		reqs = append(reqs, Requirement{
			Name:         e.Library.Coordinate,
			LocalPath:    local,
			RemoteURL:    loc.URL,
			ExpectedSize: size,
		})
	}
	return reqs, nil
}

// NativeRequirements plans the selected native jars.
// The result is index-aligned with natives.
func NativeRequirements(l Layout, natives []resolve.Native) ([]Requirement, error) {
	reqs := make([]Requirement, 0, len(natives))
	for _, n := range natives {
		name := n.Coordinate.String() + ":" + n.Classifier
		local, err := l.LibraryPath(NativePath(n))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		reqs = append(reqs, Requirement{
			Name:         name,
			LocalPath:    local,
			RemoteURL:    n.Artifact.URL,
			ExpectedSize: n.Artifact.Size,
		})
	}
	return reqs, nil
}

// NativePath is the repository-relative path of a native jar.
func NativePath(n resolve.Native) string {
	if n.Artifact.Path != "" {
		return n.Artifact.Path
	}
	return n.Coordinate.ClassifierPath(n.Classifier)
}

// ClientRequirement plans the client jar. ok is false when the descriptor
// declares none.
func ClientRequirement(l Layout, d *manifest.VersionDescriptor) (Requirement, bool) {
	if d.Downloads.Client == nil {
		return Requirement{}, false
	}
	return Requirement{
		Name:         d.ID + " client",
		LocalPath:    l.ClientJarPath(d.ID),
		RemoteURL:    d.Downloads.Client.URL,
		ExpectedSize: d.Downloads.Client.Size,
	}, true
}

// ServerRequirement plans the server jar. ok is false when the descriptor
// declares none.
func ServerRequirement(l Layout, d *manifest.VersionDescriptor) (Requirement, bool) {
	if d.Downloads.Server == nil {
		return Requirement{}, false
	}
	return Requirement{
		Name:         d.ID + " server",
		LocalPath:    l.ServerJarPath(d.ID),
		RemoteURL:    d.Downloads.Server.URL,
		ExpectedSize: d.Downloads.Server.Size,
	}, true
}

// AssetIndexRequirement plans the asset index document.
func AssetIndexRequirement(l Layout, d *manifest.VersionDescriptor) Requirement {
	return Requirement{
		Name:         "asset index " + d.AssetIndex.ID,
		LocalPath:    l.AssetIndexPath(d.AssetIndex.ID),
		RemoteURL:    d.AssetIndex.URL,
		ExpectedSize: d.AssetIndex.Size,
	}
}

// AssetRequirements plans every object of idx into the flat object store.
// Virtual indexes also lay each object out by logical path under the assets
// id's virtual tree. Both copies are fetched from <resourcesURL>/<hash[0:2]>/<hash>.
// Objects sharing a hash are planned once per local path.
func AssetRequirements(l Layout, assetsID string, idx *manifest.AssetIndex, resourcesURL string) ([]Requirement, error) {
	host := strings.TrimRight(resourcesURL, "/")
	reqs := make([]Requirement, 0, len(idx.Objects))
	seen := make(map[string]bool, len(idx.Objects))
	add := func(name, local string, obj manifest.AssetObject) {
		if seen[local] {
			return
		}
		seen[local] = true
		reqs = append(reqs, Requirement{
			Name:         name,
			LocalPath:    local,
			RemoteURL:    host + "/" + obj.ObjectPath(),
			ExpectedSize: obj.Size,
		})
	}

	for _, logical := range idx.LogicalPaths() {
		obj := idx.Objects[logical]
		object, err := SafeJoin(l.ObjectsDir(), obj.ObjectPath())
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", logical, err)
		}
		add(logical, object, obj)
		if !idx.Virtual {
			continue
		}
		virtual, err := l.VirtualPath(assetsID, logical)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", logical, err)
		}
		add(logical, virtual, obj)
	}
	return reqs, nil
}
