// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ducklauncher/duck/pkg/platform"
)

const descriptorJSON = `{
  "id": "1.12.2",
  "type": "release",
  "mainClass": "net.minecraft.client.main.Main",
  "assets": "1.12",
  "assetIndex": {"id": "1.12", "sha1": "abc", "size": 169014, "totalSize": 1000, "url": "https://example.invalid/1.12.json"},
  "downloads": {
    "client": {"sha1": "c", "size": 10180113, "url": "https://example.invalid/client.jar"},
    "server": {"sha1": "s", "size": 30222121, "url": "https://example.invalid/server.jar"}
  },
  "minecraftArguments": "--username ${auth_player_name} --version ${version_name}",
  "libraries": [
    {
      "name": "com.mojang:patchy:1.1",
      "downloads": {"artifact": {"path": "com/mojang/patchy/1.1/patchy-1.1.jar", "sha1": "x", "size": 15817, "url": "https://libraries.example.invalid/com/mojang/patchy/1.1/patchy-1.1.jar"}}
    },
    {
      "name": "org.lwjgl.lwjgl:lwjgl-platform:2.9.4",
      "natives": {"linux": "natives-linux", "windows": "natives-windows", "osx": "natives-osx"},
      "extract": {"exclude": ["META-INF/"]},
      "rules": [{"action": "allow"}, {"action": "disallow", "os": {"name": "osx"}}],
      "downloads": {"classifiers": {
        "natives-linux": {"path": "org/lwjgl/lwjgl-platform-natives-linux.jar", "size": 578680, "url": "https://example.invalid/l.jar"},
        "natives-windows": {"path": "org/lwjgl/lwjgl-platform-natives-windows.jar", "size": 613748, "url": "https://example.invalid/w.jar"}
      }}
    },
    {
      "name": "net.fabricmc:tiny-mappings-parser:0.3.0",
      "url": "https://maven.example.invalid/"
    }
  ]
}`

func TestParseDescriptor(t *testing.T) {
	t.Parallel()

	d, err := ParseDescriptor([]byte(descriptorJSON), "1.12.2.json")
	if err != nil {
		t.Fatalf("ParseDescriptor() error = %v", err)
	}

	if d.ID != "1.12.2" || d.MainClass != "net.minecraft.client.main.Main" {
		t.Errorf("unexpected identity: id=%q mainClass=%q", d.ID, d.MainClass)
	}
	if d.AssetsID() != "1.12" {
		t.Errorf("AssetsID() = %q, want 1.12", d.AssetsID())
	}
	if d.Downloads.Client == nil || d.Downloads.Client.Size != 10180113 {
		t.Errorf("client download not decoded: %+v", d.Downloads.Client)
	}
	if len(d.Libraries) != 3 {
		t.Fatalf("len(Libraries) = %d, want 3", len(d.Libraries))
	}

	direct, ok := d.Libraries[0].Source.(DirectArtifact)
	if !ok {
		t.Fatalf("library 0 source = %T, want DirectArtifact", d.Libraries[0].Source)
	}
	if direct.Size != 15817 || direct.Path != "com/mojang/patchy/1.1/patchy-1.1.jar" {
		t.Errorf("unexpected direct artifact: %+v", direct)
	}

	natives := d.Libraries[1]
	if natives.Source != nil {
		t.Errorf("natives-only library should have no source, got %T", natives.Source)
	}
	if !natives.HasNatives() || len(natives.NativeClassifiers) != 2 {
		t.Errorf("expected 2 native classifiers, got %d", len(natives.NativeClassifiers))
	}
	if natives.Natives["osx"] != "natives-osx" {
		t.Errorf("natives table not decoded: %v", natives.Natives)
	}
	if natives.Extract == nil || len(natives.Extract.Exclude) != 1 {
		t.Errorf("extract rules not decoded: %+v", natives.Extract)
	}

	maven, ok := d.Libraries[2].Source.(MavenCoordinate)
	if !ok {
		t.Fatalf("library 2 source = %T, want MavenCoordinate", d.Libraries[2].Source)
	}
	wantPath := "net/fabricmc/tiny-mappings-parser/0.3.0/tiny-mappings-parser-0.3.0.jar"
	if maven.Path != wantPath {
		t.Errorf("maven path = %q, want %q", maven.Path, wantPath)
	}
	if maven.URL != "https://maven.example.invalid/"+wantPath {
		t.Errorf("maven url = %q", maven.URL)
	}
	if maven.Location().Size != UnknownSize {
		t.Errorf("maven size = %d, want UnknownSize", maven.Location().Size)
	}
}

func TestParseDescriptor_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseDescriptor([]byte(`{"id": 12`), "broken.json")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("error = %v, want ErrParse", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Source != "broken.json" {
		t.Errorf("expected *ParseError with source, got %#v", err)
	}
}

func TestParseDescriptor_MavenLibraryWithBadCoordinate(t *testing.T) {
	t.Parallel()

	_, err := ParseDescriptor([]byte(`{"id":"x","libraries":[{"name":"only:two","url":"https://m.invalid/"}]}`), "")
	var ce *CoordinateParseError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *CoordinateParseError", err)
	}
	if ce.Segments != 2 {
		t.Errorf("Segments = %d, want 2", ce.Segments)
	}
}

func TestMavenLibraryDefaultsToMojangRepository(t *testing.T) {
	t.Parallel()

	var l LibraryEntry
	if err := json.Unmarshal([]byte(`{"name":"a.b:c:1"}`), &l); err != nil {
		t.Fatal(err)
	}
	m, ok := l.Source.(MavenCoordinate)
	if !ok {
		t.Fatalf("source = %T, want MavenCoordinate", l.Source)
	}
	if m.URL != "https://libraries.minecraft.net/a/b/c/1/c-1.jar" {
		t.Errorf("URL = %q", m.URL)
	}
}

func TestParseCoordinate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Coordinate
		wantErr bool
	}{
		{"a:b:1.0.0", Coordinate{"a", "b", "1.0.0"}, false},
		{"org.lwjgl:lwjgl:3.3.1", Coordinate{"org.lwjgl", "lwjgl", "3.3.1"}, false},
		{"a:b", Coordinate{}, true},
		{"a:b:c:d", Coordinate{}, true},
		{"a::1", Coordinate{}, true},
		{"", Coordinate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCoordinate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrParse) {
					t.Fatalf("ParseCoordinate(%q) error = %v, want ErrParse", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCoordinate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCoordinate(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestArgumentTokenDecoding(t *testing.T) {
	t.Parallel()

	const args = `{"game": [
		"--username", "${auth_player_name}",
		{"rules": [{"action": "allow", "features": {"is_demo_user": true}}], "value": "--demo"},
		{"rules": [{"action": "allow", "os": {"name": "osx"}}], "value": ["-XstartOnFirstThread", "-Xdock:name=x"]}
	], "jvm": []}`

	var a Arguments
	if err := json.Unmarshal([]byte(args), &a); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(a.Game) != 4 {
		t.Fatalf("len(Game) = %d, want 4", len(a.Game))
	}
	if a.Game[1].Value[0] != "${auth_player_name}" || len(a.Game[1].Rules) != 0 {
		t.Errorf("plain token decoded wrong: %+v", a.Game[1])
	}
	if len(a.Game[2].Value) != 1 || a.Game[2].Value[0] != "--demo" {
		t.Errorf("single-value object decoded wrong: %+v", a.Game[2])
	}
	if len(a.Game[3].Value) != 2 || a.Game[3].Rules[0].OS.Name != "osx" {
		t.Errorf("list-value object decoded wrong: %+v", a.Game[3])
	}
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	linux := Environment{OS: platform.OSLinux, Arch: "x86_64"}
	mac := Environment{OS: platform.OSMacOS, Arch: "x86_64", OSVersion: "10.5.2"}

	tests := []struct {
		name  string
		rules []Rule
		env   Environment
		want  bool
	}{
		{"no rules", nil, linux, true},
		{"allow all but osx on linux", []Rule{{Action: ActionAllow}, {Action: ActionDisallow, OS: &OSRule{Name: "osx"}}}, linux, true},
		{"allow all but osx on mac", []Rule{{Action: ActionAllow}, {Action: ActionDisallow, OS: &OSRule{Name: "osx"}}}, mac, false},
		{"only osx on linux", []Rule{{Action: ActionAllow, OS: &OSRule{Name: "osx"}}}, linux, false},
		{"os version match", []Rule{{Action: ActionAllow, OS: &OSRule{Name: "osx", Version: `^10\.5\.\d$`}}}, mac, true},
		{"arch mismatch", []Rule{{Action: ActionAllow, OS: &OSRule{Arch: "x86"}}}, linux, false},
		{"feature not enabled", []Rule{{Action: ActionAllow, Features: map[string]bool{"is_demo_user": true}}}, linux, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Allowed(tt.rules, tt.env); got != tt.want {
				t.Errorf("Allowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseAssetIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		doc         string
		wantVirtual bool
	}{
		{"flat", `{"objects": {"a/b.ogg": {"hash": "ab12", "size": 3}}}`, false},
		{"virtual", `{"virtual": true, "objects": {"a/b.ogg": {"hash": "ab12", "size": 3}}}`, true},
		{"map_to_resources synonym", `{"map_to_resources": true, "objects": {"a/b.ogg": {"hash": "ab12", "size": 3}}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idx, err := ParseAssetIndex([]byte(tt.doc), "")
			if err != nil {
				t.Fatalf("ParseAssetIndex() error = %v", err)
			}
			if idx.Virtual != tt.wantVirtual {
				t.Errorf("Virtual = %v, want %v", idx.Virtual, tt.wantVirtual)
			}
			obj := idx.Objects["a/b.ogg"]
			if obj.ObjectPath() != "ab/ab12" {
				t.Errorf("ObjectPath() = %q, want ab/ab12", obj.ObjectPath())
			}
		})
	}
}

func TestIndexFindAndFilter(t *testing.T) {
	t.Parallel()

	idx, err := ParseIndex([]byte(`{
		"latest": {"release": "1.12.2", "snapshot": "17w50a"},
		"versions": [
			{"id": "17w50a", "type": "snapshot", "url": "u1"},
			{"id": "1.12.2", "type": "release", "url": "u2"},
			{"id": "b1.7.3", "type": "old_beta", "url": "u3"}
		]}`), "")
	if err != nil {
		t.Fatalf("ParseIndex() error = %v", err)
	}

	stub, ok := idx.Find("1.12.2")
	if !ok || stub.URL != "u2" {
		t.Errorf("Find(1.12.2) = %+v, %v", stub, ok)
	}
	if _, ok := idx.Find("9.9"); ok {
		t.Error("Find(9.9) should miss")
	}
	if got := idx.Filter(TypeRelease, TypeOldBeta); len(got) != 2 || got[0].ID != "1.12.2" {
		t.Errorf("Filter() = %+v", got)
	}
	if got := idx.Filter(); len(got) != 3 {
		t.Errorf("Filter() with no types returned %d stubs, want 3", len(got))
	}
}

func TestCoordinatePaths(t *testing.T) {
	t.Parallel()

	c := Coordinate{Group: "org.lwjgl.lwjgl", Artifact: "lwjgl", Version: "2.9.4"}
	if got, want := c.MavenPath(), "org/lwjgl/lwjgl/lwjgl/2.9.4/lwjgl-2.9.4.jar"; got != want {
		t.Errorf("MavenPath() = %q, want %q", got, want)
	}
	if got, want := c.ClassifierPath("natives-linux"), "org/lwjgl/lwjgl/lwjgl/2.9.4/lwjgl-2.9.4-natives-linux.jar"; got != want {
		t.Errorf("ClassifierPath() = %q, want %q", got, want)
	}
	if c.Key() != "org.lwjgl.lwjgl:lwjgl" {
		t.Errorf("Key() = %q", c.Key())
	}
}
