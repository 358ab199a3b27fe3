package ipc

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "test.sock")
	server := NewServer(socketPath)
	if err := server.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(server.Close)
	return server
}

func readWithDeadline(t *testing.T, conn net.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(buf[:n])
}

func TestBroadcastReachesClient(t *testing.T) {
	server := startServer(t)

	conn, err := net.Dial("unix", server.socketPath)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Give the accept loop a moment to register the client.
	time.Sleep(50 * time.Millisecond)

	server.Broadcast("hello line")
	if got := readWithDeadline(t, conn); got != "hello line" {
		t.Errorf("expected broadcast payload, got %q", got)
	}
}

func TestLateJoinerGetsLastPayload(t *testing.T) {
	server := startServer(t)
	server.Broadcast("current line")

	conn, err := net.Dial("unix", server.socketPath)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if got := readWithDeadline(t, conn); got != "current line" {
		t.Errorf("expected replayed payload, got %q", got)
	}
}

func TestBroadcastMirrorsToSideFile(t *testing.T) {
	server := startServer(t)
	server.Broadcast("mirrored")

	content, err := os.ReadFile(server.lineFilePath)
	if err != nil {
		t.Fatalf("side file not written: %v", err)
	}
	if string(content) != "mirrored\n" {
		t.Errorf("unexpected side file content %q", content)
	}
}
