package check

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/routes"
	"github.com/broady/routes/cmd/routes/internal/scan"
)

func TestRun(t *testing.T) {
	t.Setenv("GOWORK", "off")

	tests := []struct {
		name    string
		files   map[string]string
		want    string
		wantErr error
	}{
		{
			name: "counts handlers and routes",
			files: map[string]string{
				"api/api.go": `package api

//route:path /users
type Users struct{}

//route:get
//route:post
func (Users) Root() {}

type Health struct{}

//route:head
//route:path /healthz
func (Health) Probe() {}

type Plain struct{}

func (Plain) Get() {}
`,
			},
			want: "✓ 2 handler types, 3 routes",
		},
		{
			name: "path markers alone make a handler",
			files: map[string]string{
				"api/api.go": `package api

type Sub struct{}

//route:path nested
func (Sub) Nested() {}
`,
			},
			want: "✓ 1 handler types, 0 routes",
		},
		{
			name: "marker error",
			files: map[string]string{
				"api/api.go": `package api

//route:get
type Bad struct{}
`,
			},
			wantErr: &routes.MarkerReadError{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.files["go.mod"] = "module example.com/app\n\ngo 1.21\n"
			for name, content := range tt.files {
				path := filepath.Join(dir, name)
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			cmd := &Cmd{Flags: scan.Flags{Scan: "example.com/app", Dir: dir}}
			var stdout, stderr bytes.Buffer
			err := cmd.run(&stdout, &stderr)

			if tt.wantErr != nil {
				var mre *routes.MarkerReadError
				if !errors.As(err, &mre) {
					t.Fatalf("expected *routes.MarkerReadError, got %v", err)
				}
				if stdout.Len() != 0 {
					t.Errorf("expected no output on error, got %q", stdout.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("expected output containing %q, got %q", tt.want, stdout.String())
			}
		})
	}
}
