// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"slices"
	"testing"

	"github.com/ducklauncher/duck/pkg/manifest"
	"github.com/ducklauncher/duck/pkg/platform"
)

func lib(coord string) manifest.LibraryEntry {
	return manifest.LibraryEntry{
		Coordinate: coord,
		Source:     manifest.DirectArtifact{Artifact: manifest.Artifact{Path: coord, Size: 1}},
	}
}

func coordinates(s *Set) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Library.Coordinate)
	}
	return out
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "highest version wins",
			input: []string{"a:b:1.0.0", "a:b:2.0.0", "a:b:1.5.0"},
			want:  []string{"a:b:2.0.0"},
		},
		{
			name:  "short versions compare semantically",
			input: []string{"a:b:1.0", "a:b:1.1"},
			want:  []string{"a:b:1.1"},
		},
		{
			name:  "distinct artifacts are independent",
			input: []string{"x:y:1.0", "a:b:1.0", "x:y:0.9", "x:z:0.1"},
			want:  []string{"x:y:1.0", "a:b:1.0", "x:z:0.1"},
		},
		{
			name:  "equal versions keep the earlier entry",
			input: []string{"a:b:1.0", "a:b:1.0.0"},
			want:  []string{"a:b:1.0"},
		},
		{
			name:  "identical coordinates collapse",
			input: []string{"a:b:1.0", "a:b:1.0"},
			want:  []string{"a:b:1.0"},
		},
		{
			name:  "unparseable versions are kept",
			input: []string{"a:b:1.0", "a:b:not_a.version!", "a:b:2.0"},
			want:  []string{"a:b:not_a.version!", "a:b:2.0"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			libs := make([]manifest.LibraryEntry, 0, len(tt.input))
			for _, c := range tt.input {
				libs = append(libs, lib(c))
			}

			set, err := Resolve(libs)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := coordinates(set); !slices.Equal(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_RejectsMalformedCoordinate(t *testing.T) {
	t.Parallel()

	_, err := Resolve([]manifest.LibraryEntry{lib("a:b:1.0"), lib("org.lwjgl:lwjgl:3.3.1:natives-linux")})
	if !errors.Is(err, manifest.ErrParse) {
		t.Fatalf("Resolve() error = %v, want ErrParse", err)
	}
	var ce *manifest.CoordinateParseError
	if !errors.As(err, &ce) || ce.Coordinate != "org.lwjgl:lwjgl:3.3.1:natives-linux" {
		t.Errorf("expected *CoordinateParseError naming the entry, got %v", err)
	}
}

func TestResolve_FoldsJarAndNativesEntries(t *testing.T) {
	t.Parallel()

	jar := lib("org.lwjgl:lwjgl:3.1.6")
	natives := manifest.LibraryEntry{
		Coordinate:        "org.lwjgl:lwjgl:3.1.6",
		NativeClassifiers: map[string]manifest.Artifact{"natives-linux": {Path: "n.jar", Size: 2}},
	}

	set, err := Resolve([]manifest.LibraryEntry{jar, natives})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	e, ok := set.Lookup("org.lwjgl", "lwjgl")
	if !ok {
		t.Fatal("Lookup() missed")
	}
	if e.Library.Source == nil || !e.Library.HasNatives() {
		t.Errorf("folded entry lost data: %+v", e.Library)
	}
}

func TestSelectNatives(t *testing.T) {
	t.Parallel()

	classifiers := map[string]manifest.Artifact{
		"natives-windows": {Path: "w.jar", Size: 1},
		"natives-linux":   {Path: "l.jar", Size: 2},
		"natives-macos":   {Path: "m.jar", Size: 3},
	}
	set, err := Resolve([]manifest.LibraryEntry{
		{Coordinate: "org.lwjgl:lwjgl-platform:2.9.4", NativeClassifiers: classifiers},
		lib("com.google:gson:2.8.0"),
		{Coordinate: "net.java:jinput-platform:2.0.5", NativeClassifiers: map[string]manifest.Artifact{"natives-windows": {Path: "j.jar"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		os   platform.OS
		want []string
	}{
		{platform.OSLinux, []string{"l.jar"}},
		{platform.OSMacOS, []string{"m.jar"}},
		{platform.OSWindows, []string{"w.jar", "j.jar"}},
	}

	for _, tt := range tests {
		t.Run(tt.os.String(), func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, n := range SelectNatives(set, tt.os) {
				if n.Classifier != tt.os.NativesKey() {
					t.Errorf("classifier = %q, want %q", n.Classifier, tt.os.NativesKey())
				}
				got = append(got, n.Artifact.Path)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("SelectNatives(%s) = %v, want %v", tt.os, got, tt.want)
			}
		})
	}
}
