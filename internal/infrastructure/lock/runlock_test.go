package lock

import (
	"path/filepath"
	"testing"
)

func TestTryAcquireIsExclusive(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.lock")
	first := NewRunLock(path)
	second := NewRunLock(path)

	release, ok, err := first.TryAcquire()
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	if _, ok, err := second.TryAcquire(); err != nil || ok {
		t.Fatalf("second acquire should be refused: ok=%v err=%v", ok, err)
	}

	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	release, ok, err = second.TryAcquire()
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
	_ = release()
}
