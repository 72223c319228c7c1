// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"path/filepath"
	"strings"
)

// Layout resolves cache locations under a data directory:
//
//	meta/com/mojang/minecraft/version_manifest.json
//	meta/com/mojang/minecraft/<id>/<id>.json
//	libraries/<maven path>
//	libraries/com/mojang/minecraft/<id>/<id>.jar
//	libraries/libraries_metadata.json
//	assets/indexes/<index id>.json
//	assets/objects/<hash[0:2]>/<hash>
//	assets/virtual/<assets id>/<logical path>
//	instances/<id>/
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at dir.
func NewLayout(dir string) Layout {
	return Layout{Root: dir}
}

// MetaDir is the directory holding the manifest index and version descriptors.
func (l Layout) MetaDir() string {
	return filepath.Join(l.Root, "meta", "com", "mojang", "minecraft")
}

// IndexPath is the cached version manifest index.
func (l Layout) IndexPath() string {
	return filepath.Join(l.MetaDir(), "version_manifest.json")
}

// DescriptorPath is the cached descriptor of version id.
func (l Layout) DescriptorPath(id string) string {
	return filepath.Join(l.MetaDir(), id, id+".json")
}

// LibrariesDir is the root of the Maven-layout library store.
func (l Layout) LibrariesDir() string {
	return filepath.Join(l.Root, "libraries")
}

// LibraryPath maps a repository-relative path into the library store. Paths
// that resolve outside the store are rejected with an *UnsafePathError.
func (l Layout) LibraryPath(rel string) (string, error) {
	return SafeJoin(l.LibrariesDir(), rel)
}

// ClientJarPath is the client jar of version id.
func (l Layout) ClientJarPath(id string) string {
	return filepath.Join(l.LibrariesDir(), "com", "mojang", "minecraft", id, id+".jar")
}

// ServerJarPath is the server jar of version id.
func (l Layout) ServerJarPath(id string) string {
	return filepath.Join(l.LibrariesDir(), "com", "mojang", "minecraft", id, id+"-server.jar")
}

// MetadataPath is the cumulative library metadata file.
func (l Layout) MetadataPath() string {
	return filepath.Join(l.LibrariesDir(), "libraries_metadata.json")
}

// AssetsDir is the assets root handed to the game.
func (l Layout) AssetsDir() string {
	return filepath.Join(l.Root, "assets")
}

// AssetIndexPath is the cached asset index with the given id.
func (l Layout) AssetIndexPath(id string) string {
	return filepath.Join(l.AssetsDir(), "indexes", id+".json")
}

// ObjectsDir is the flat content-addressed object store.
func (l Layout) ObjectsDir() string {
	return filepath.Join(l.AssetsDir(), "objects")
}

// VirtualDir is the per-version virtual asset tree.
func (l Layout) VirtualDir(assetsID string) string {
	return filepath.Join(l.AssetsDir(), "virtual", assetsID)
}

// VirtualPath maps a logical asset path into the virtual tree of assetsID.
func (l Layout) VirtualPath(assetsID, logical string) (string, error) {
	return SafeJoin(l.VirtualDir(assetsID), logical)
}

// InstanceDir is the per-version instance directory.
func (l Layout) InstanceDir(id string) string {
	return filepath.Join(l.Root, "instances", id)
}

// SafeJoin joins the slash-separated rel onto base and fails with an
// *UnsafePathError when the result is not inside base.
func SafeJoin(base, rel string) (string, error) {
	target := filepath.Join(base, filepath.FromSlash(rel))
	inner, err := filepath.Rel(base, target)
	if err != nil || inner == ".." || strings.HasPrefix(inner, ".."+string(filepath.Separator)) {
		return "", &UnsafePathError{Base: base, Path: rel}
	}
	return target, nil
}
