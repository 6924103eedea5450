package sanity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/google/go-cmp/cmp"
)

var borderlands2 = &Games[0]

// writeTestBinary creates a sparse file large enough to hold game's check
// locations and fills them using contents.
func writeTestBinary(t *testing.T, game *Game, contents func(Check) []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), game.BinaryName)

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test binary: %v", err)
	}
	defer file.Close()

	var size int64
	for _, check := range game.Checks() {
		if end := check.Offset + int64(len(check.Original)) + 0x100; end > size {
			size = end
		}
	}
	if err := file.Truncate(size); err != nil {
		t.Fatalf("failed to size test binary: %v", err)
	}
	for _, check := range game.Checks() {
		if _, err := file.WriteAt(contents(check), check.Offset); err != nil {
			t.Fatalf("failed to seed test binary: %v", err)
		}
	}
	return path
}

func readAt(t *testing.T, path string, offset int64, n int) []byte {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open test binary: %v", err)
	}
	defer file.Close()

	b := make([]byte, n)
	if _, err := file.ReadAt(b, offset); err != nil {
		t.Fatalf("failed to read test binary: %v", err)
	}
	return b
}

func TestClassify(t *testing.T) {
	expected := []byte{0xE8, 0xA9, 0x24, 0x17, 0x00}
	tests := []struct {
		name     string
		contents []byte
		offset   int64
		want     State
	}{
		{
			name:     "original bytes",
			contents: []byte{0x00, 0xE8, 0xA9, 0x24, 0x17, 0x00, 0x00},
			offset:   1,
			want:     StateStock,
		},
		{
			name:     "filler run",
			contents: []byte{0x00, 0x90, 0x90, 0x90, 0x90, 0x90, 0x00},
			offset:   1,
			want:     StatePatched,
		},
		{
			name:     "one byte off",
			contents: []byte{0x00, 0xE8, 0xA9, 0x24, 0x17, 0x01, 0x00},
			offset:   1,
			want:     StateUnknown,
		},
		{
			name:     "partially patched",
			contents: []byte{0x00, 0x90, 0x90, 0x90, 0x90, 0x00, 0x00},
			offset:   1,
			want:     StateUnknown,
		},
		{
			name:     "other filler byte",
			contents: []byte{0x00, 0xCC, 0xCC, 0xCC, 0xCC, 0xCC, 0x00},
			offset:   1,
			want:     StateUnknown,
		},
		{
			name:     "short read at end of file",
			contents: []byte{0x00, 0xE8, 0xA9, 0x24},
			offset:   1,
			want:     StateUnknown,
		},
		{
			name:     "offset past end of file",
			contents: []byte{0xE8, 0xA9, 0x24, 0x17, 0x00},
			offset:   64,
			want:     StateUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "binary")
			if err := os.WriteFile(path, tt.contents, 0644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			got, err := Classify(path, tt.offset, expected)
			if err != nil {
				t.Fatalf("Classify() returned unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_MissingFile(t *testing.T) {
	got, err := Classify(filepath.Join(t.TempDir(), "missing"), 0, []byte{0x90})
	if err == nil {
		t.Error("Classify() on a missing file want error, got nil")
	}
	if got != StateUnknown {
		t.Errorf("Classify() = %v, want %v", got, StateUnknown)
	}
}

func TestWriteAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary")
	if err := os.WriteFile(path, make([]byte, 8), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if err := WriteAt(path, 2, []byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("WriteAt() returned unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read test file: %v", err)
	}
	expected := []byte{0x00, 0x00, 0x01, 0x02, 0x03, 0x00, 0x00, 0x00}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("WriteAt() wrote the wrong bytes; diff:\n%s", diff)
	}
}

func TestWriteAt_DoesNotCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	if err := WriteAt(path, 0, []byte{0x90}); err == nil {
		t.Error("WriteAt() on a missing file want error, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("WriteAt() created %s", path)
	}
}

func TestBinary_EndToEnd(t *testing.T) {
	path := writeTestBinary(t, borderlands2, func(c Check) []byte { return c.Original })
	binary := NewBinary(borderlands2, path, nil)

	status, err := binary.Status()
	if err != nil {
		t.Fatalf("Status() returned unexpected error: %v", err)
	}
	if diff := deep.Equal(status, Status{Item: StateStock, Weapon: StateStock}); diff != nil {
		t.Errorf("Status() of a stock binary: %v", diff)
	}

	status, err = binary.Disable()
	if err != nil {
		t.Fatalf("Disable() returned unexpected error: %v", err)
	}
	if diff := deep.Equal(status, Status{Item: StatePatched, Weapon: StatePatched}); diff != nil {
		t.Errorf("Disable() status: %v", diff)
	}
	nops := []byte{0x90, 0x90, 0x90, 0x90, 0x90}
	if diff := cmp.Diff(nops, readAt(t, path, 0xD267F0, 5)); diff != "" {
		t.Errorf("Disable() item location; diff:\n%s", diff)
	}
	if diff := cmp.Diff(nops, readAt(t, path, 0xD26870, 5)); diff != "" {
		t.Errorf("Disable() weapon location; diff:\n%s", diff)
	}

	status, err = binary.Enable()
	if err != nil {
		t.Fatalf("Enable() returned unexpected error: %v", err)
	}
	if diff := deep.Equal(status, Status{Item: StateStock, Weapon: StateStock}); diff != nil {
		t.Errorf("Enable() status: %v", diff)
	}
	if diff := cmp.Diff([]byte{0xE8, 0xA9, 0x24, 0x17, 0x00}, readAt(t, path, 0xD267F0, 5)); diff != "" {
		t.Errorf("Enable() item location; diff:\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0xE8, 0xF7, 0x23, 0x17, 0x00}, readAt(t, path, 0xD26870, 5)); diff != "" {
		t.Errorf("Enable() weapon location; diff:\n%s", diff)
	}
}

func TestBinary_Idempotent(t *testing.T) {
	for _, game := range Games {
		game := game
		t.Run(game.Key, func(t *testing.T) {
			path := writeTestBinary(t, &game, func(c Check) []byte { return c.Filler() })
			binary := NewBinary(&game, path, nil)

			steps := []func() (Status, error){binary.Enable, binary.Disable, binary.Enable, binary.Enable}
			var status Status
			for _, step := range steps {
				var err error
				if status, err = step(); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			if diff := deep.Equal(status, Status{Item: StateStock, Weapon: StateStock}); diff != nil {
				t.Errorf("final status: %v", diff)
			}
		})
	}
}

func TestBinary_MixedState(t *testing.T) {
	path := writeTestBinary(t, borderlands2, func(c Check) []byte {
		if c.Name == "Item" {
			return c.Filler()
		}
		return c.Original
	})
	binary := NewBinary(borderlands2, path, nil)

	status, err := binary.Status()
	if err != nil {
		t.Fatalf("Status() returned unexpected error: %v", err)
	}
	if !status.CanEnable() || !status.CanDisable() || status.HasUnknown() {
		t.Errorf("Status() = %+v, want both enable and disable offered", status)
	}

	if status, err = binary.Disable(); err != nil {
		t.Fatalf("Disable() returned unexpected error: %v", err)
	}
	if diff := deep.Equal(status, Status{Item: StatePatched, Weapon: StatePatched}); diff != nil {
		t.Errorf("Disable() status: %v", diff)
	}
}

func TestBinary_RefusesUnknown(t *testing.T) {
	garbage := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	path := writeTestBinary(t, borderlands2, func(c Check) []byte {
		if c.Name == "Weapon" {
			return garbage
		}
		return c.Original
	})
	binary := NewBinary(borderlands2, path, nil)

	for name, op := range map[string]func() (Status, error){"Enable": binary.Enable, "Disable": binary.Disable} {
		status, err := op()
		if !errors.Is(err, ErrUnknownState) {
			t.Errorf("%s() error = %v, want %v", name, err, ErrUnknownState)
		}
		if diff := deep.Equal(status, Status{Item: StateStock, Weapon: StateUnknown}); diff != nil {
			t.Errorf("%s() status: %v", name, diff)
		}
	}

	if diff := cmp.Diff(garbage, readAt(t, path, borderlands2.Weapon.Offset, 5)); diff != "" {
		t.Errorf("weapon location was modified; diff:\n%s", diff)
	}
	if diff := cmp.Diff(borderlands2.Item.Original, readAt(t, path, borderlands2.Item.Offset, 5)); diff != "" {
		t.Errorf("item location was modified; diff:\n%s", diff)
	}
}

func TestBinary_MissingFile(t *testing.T) {
	binary := NewBinary(borderlands2, filepath.Join(t.TempDir(), "gone"), nil)
	if _, err := binary.Disable(); err == nil {
		t.Error("Disable() on a missing binary want error, got nil")
	}
}
