package manifest

import (
	"context"
	"errors"
	"testing"

	"github.com/indaco/depflip/internal/core"
)

const sampleManifest = `[package]
name = "nucypher-core-python"
version = "1.2.3"
edition = "2021"

# The main crate lives next to this one during development.
[dependencies]
nucypher-core = { path = "../nucypher-core" }
other-pkg = { path = "../nucypher-core" }
`

func loadManifest(t *testing.T, content string) *Manifest {
	t.Helper()
	fs := core.NewMockFileSystem()
	fs.SetFile("Cargo.toml", []byte(content))

	m, err := Load(context.Background(), fs, "Cargo.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return m
}

func TestLoad_MissingFile(t *testing.T) {
	fs := core.NewMockFileSystem()

	_, err := Load(context.Background(), fs, "Cargo.toml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestManifest_Version(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "version among other lines",
			content: "name = \"pkg\"\nversion = \"1.2.3\"\nedition = \"2021\"\n",
			want:    "1.2.3",
		},
		{
			name:    "first of multiple version lines wins",
			content: "version = \"1.0.0\"\nversion = \"2.0.0\"\n",
			want:    "1.0.0",
		},
		{
			name:    "crlf line endings",
			content: "version = \"4.5.6\"\r\n",
			want:    "4.5.6",
		},
		{
			name:    "no version line",
			content: "name = \"pkg\"\n",
			wantErr: true,
		},
		{
			name:    "indented version line does not match",
			content: "  version = \"1.2.3\"\n",
			wantErr: true,
		},
		{
			name:    "pre-release version does not match",
			content: "version = \"1.2.3-alpha.1\"\n",
			wantErr: true,
		},
		{
			name:    "version with trailing content does not match",
			content: "version = \"1.2.3\" # comment\n",
			wantErr: true,
		},
		{
			name:    "mid-line occurrence does not match",
			content: "some = { version = \"1.2.3\" }\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadManifest(t, tt.content)

			got, err := m.Version()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrVersionNotFound) {
					t.Errorf("error = %v, want ErrVersionNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Version() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Version() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManifest_VersionLineCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"none", "name = \"pkg\"\n", 0},
		{"one", "version = \"1.2.3\"\n", 1},
		{"two", "version = \"1.2.3\"\nversion = \"4.5.6\"\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadManifest(t, tt.content)
			if got := m.VersionLineCount(); got != tt.want {
				t.Errorf("VersionLineCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestManifest_ToPublished(t *testing.T) {
	dep := NewDependency("nucypher-core")

	t.Run("rewrites the dependency line", func(t *testing.T) {
		m := loadManifest(t, "version = \"1.2.3\"\nnucypher-core = { path = \"../nucypher-core\" }\n")

		if err := m.ToPublished(dep); err != nil {
			t.Fatalf("ToPublished() error = %v", err)
		}

		want := "version = \"1.2.3\"\nnucypher-core = { version = \"1.2.3\" }\n"
		if got := string(m.Bytes()); got != want {
			t.Errorf("Bytes() = %q, want %q", got, want)
		}
	})

	t.Run("leaves all other lines untouched", func(t *testing.T) {
		m := loadManifest(t, sampleManifest)

		if err := m.ToPublished(dep); err != nil {
			t.Fatalf("ToPublished() error = %v", err)
		}

		want := `[package]
name = "nucypher-core-python"
version = "1.2.3"
edition = "2021"

# The main crate lives next to this one during development.
[dependencies]
nucypher-core = { version = "1.2.3" }
other-pkg = { path = "../nucypher-core" }
`
		if got := string(m.Bytes()); got != want {
			t.Errorf("Bytes() mismatch:\ngot:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("only the first matching line is rewritten", func(t *testing.T) {
		m := loadManifest(t, "version = \"1.2.3\"\n"+
			"nucypher-core = { path = \"../nucypher-core\" }\n"+
			"nucypher-core = { path = \"../nucypher-core\", default-features = false }\n")

		if err := m.ToPublished(dep); err != nil {
			t.Fatalf("ToPublished() error = %v", err)
		}

		want := "version = \"1.2.3\"\n" +
			"nucypher-core = { version = \"1.2.3\" }\n" +
			"nucypher-core = { path = \"../nucypher-core\", default-features = false }\n"
		if got := string(m.Bytes()); got != want {
			t.Errorf("Bytes() = %q, want %q", got, want)
		}
	})

	t.Run("other package with same path is not a match", func(t *testing.T) {
		m := loadManifest(t, "version = \"1.2.3\"\nother-pkg = { path = \"../nucypher-core\" }\n")

		err := m.ToPublished(dep)
		if !errors.Is(err, ErrDependencyNotFound) {
			t.Fatalf("error = %v, want ErrDependencyNotFound", err)
		}
	})

	t.Run("missing dependency leaves manifest unchanged", func(t *testing.T) {
		content := "version = \"1.2.3\"\nserde = { version = \"1\" }\n"
		m := loadManifest(t, content)

		err := m.ToPublished(dep)
		if !errors.Is(err, ErrDependencyNotFound) {
			t.Fatalf("error = %v, want ErrDependencyNotFound", err)
		}
		if got := string(m.Bytes()); got != content {
			t.Errorf("manifest mutated on failure: %q", got)
		}
	})

	t.Run("missing version aborts before dependency search", func(t *testing.T) {
		m := loadManifest(t, "nucypher-core = { path = \"../nucypher-core\" }\n")

		err := m.ToPublished(dep)
		if !errors.Is(err, ErrVersionNotFound) {
			t.Fatalf("error = %v, want ErrVersionNotFound", err)
		}
	})
}

func TestManifest_ToRelative(t *testing.T) {
	dep := NewDependency("nucypher-core")

	t.Run("rewrites the dependency line", func(t *testing.T) {
		m := loadManifest(t, "version = \"1.2.3\"\nnucypher-core = { version = \"1.2.3\" }\n")

		if err := m.ToRelative(dep); err != nil {
			t.Fatalf("ToRelative() error = %v", err)
		}

		want := "version = \"1.2.3\"\nnucypher-core = { path = \"../nucypher-core\" }\n"
		if got := string(m.Bytes()); got != want {
			t.Errorf("Bytes() = %q, want %q", got, want)
		}
	})

	t.Run("different pinned version is not a match", func(t *testing.T) {
		content := "version = \"1.2.3\"\nnucypher-core = { version = \"9.9.9\" }\n"
		m := loadManifest(t, content)

		err := m.ToRelative(dep)
		if !errors.Is(err, ErrDependencyNotFound) {
			t.Fatalf("error = %v, want ErrDependencyNotFound", err)
		}
		if got := string(m.Bytes()); got != content {
			t.Errorf("manifest mutated on failure: %q", got)
		}
	})
}

func TestManifest_RoundTrip(t *testing.T) {
	dep := NewDependency("nucypher-core")
	m := loadManifest(t, sampleManifest)

	if err := m.ToPublished(dep); err != nil {
		t.Fatalf("ToPublished() error = %v", err)
	}
	if err := m.ToRelative(dep); err != nil {
		t.Fatalf("ToRelative() error = %v", err)
	}

	if got := string(m.Bytes()); got != sampleManifest {
		t.Errorf("round trip is not byte-identical:\ngot:\n%s\nwant:\n%s", got, sampleManifest)
	}
}

func TestManifest_Save(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("Cargo.toml", []byte(sampleManifest))

	m, err := Load(context.Background(), fs, "Cargo.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := m.ToPublished(NewDependency("nucypher-core")); err != nil {
		t.Fatalf("ToPublished() error = %v", err)
	}
	if err := m.Save(context.Background(), fs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, ok := fs.GetFile("Cargo.toml")
	if !ok {
		t.Fatal("manifest file missing after Save")
	}
	if string(data) != string(m.Bytes()) {
		t.Errorf("saved contents differ from in-memory manifest")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single line with newline", "a\n", []string{"a\n"}},
		{"no trailing newline", "a\nb", []string{"a\n", "b"}},
		{"blank lines kept", "a\n\nb\n", []string{"a\n", "\n", "b\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines([]byte(tt.input))
			if len(got) != len(tt.want) {
				t.Fatalf("splitLines(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestManifest_NoTrailingNewlinePreserved(t *testing.T) {
	content := "version = \"1.2.3\"\nnucypher-core = { path = \"../nucypher-core\" }"
	m := loadManifest(t, content)

	if err := m.ToPublished(NewDependency("nucypher-core")); err != nil {
		t.Fatalf("ToPublished() error = %v", err)
	}

	want := "version = \"1.2.3\"\nnucypher-core = { version = \"1.2.3\" }"
	if got := string(m.Bytes()); got != want {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}
}
