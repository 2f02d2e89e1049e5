package ptycoupler

import (
	"bytes"
	"os/exec"
	"testing"
	"time"
)

// TestCatRoundTrip spawns `cat` on a PTY and checks that bytes written to
// the coupler come back out unchanged, the property spec §8 calls for as
// the PTY coupler's basic correctness test.
func TestCatRoundTrip(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available in PATH")
	}

	c, err := Start(Options{Command: exec.Command("cat"), Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Close()

	want := "round trip me\n"
	if _, err := c.Write([]byte(want)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, len(want))
	deadline := time.Now().Add(5 * time.Second)
	got := bytes.Buffer{}
	for got.Len() < len(want) && time.Now().Before(deadline) {
		n, err := c.Read(buf)
		got.Write(buf[:n])
		if err != nil {
			break
		}
	}

	if got.String() != want {
		t.Fatalf("round trip mismatch: got %q, want %q", got.String(), want)
	}
}

// TestResize exercises Resize against a live PTY; a successful call is the
// observable contract here since reading back the kernel's winsize needs
// ioctl plumbing this package doesn't expose.
func TestResize(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available in PATH")
	}

	c, err := Start(Options{Command: exec.Command("cat"), Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Close()

	if err := c.Resize(Size{Rows: 40, Cols: 120}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
}

// TestExitReaping checks that Done/Wait unblock once the child exits on its
// own (no kill from Close needed).
func TestExitReaping(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available in PATH")
	}

	c, err := Start(Options{Command: exec.Command("true"), Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Close()

	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit within timeout")
	}

	if err := c.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}
