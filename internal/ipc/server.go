// Package ipc broadcasts player/lyric updates to rendering clients over a
// unix socket. A PID lock file guards against a second daemon instance.
package ipc

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Server owns the listening socket and the connected client set. The last
// broadcast payload is replayed to late-joining clients.
type Server struct {
	socketPath      string
	lineFilePath    string
	listener        net.Listener
	clientConns     map[net.Conn]string // conn -> client id
	clientConnsLock sync.Mutex
	lastPayload     string
	payloadLock     sync.Mutex
	lockFile        *os.File
	lockFilePath    string
}

// NewServer creates a server bound to socketPath once Start is called.
func NewServer(socketPath string) *Server {
	return &Server{
		socketPath:   socketPath,
		lineFilePath: socketPath + ".line",
		clientConns:  make(map[net.Conn]string),
		lockFilePath: socketPath + ".lock",
	}
}

func (s *Server) checkAndCleanOldLock() error {
	if _, err := os.Stat(s.lockFilePath); os.IsNotExist(err) {
		return nil
	}

	content, err := os.ReadFile(s.lockFilePath)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read lock file, removing it")
		os.Remove(s.lockFilePath)
		return nil
	}

	pidStr := strings.TrimSpace(string(content))
	if pidStr == "" {
		log.Warn().Msg("Lock file is empty, removing it")
		os.Remove(s.lockFilePath)
		return nil
	}

	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		log.Warn().Err(err).Str("pid_str", pidStr).Msg("Invalid PID in lock file, removing it")
		os.Remove(s.lockFilePath)
		return nil
	}

	if !s.isProcessRunning(pid) {
		log.Info().Int("old_pid", pid).Msg("Process in lock file is not running, removing lock file")
		os.Remove(s.lockFilePath)
		return nil
	}

	log.Info().Int("existing_pid", pid).Msg("Another process is still running")
	return nil
}

// isProcessRunning probes pid with signal 0.
func (s *Server) isProcessRunning(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil
}

func (s *Server) acquireLock() error {
	if err := s.checkAndCleanOldLock(); err != nil {
		log.Warn().Err(err).Msg("Failed to clean old lock file")
	}

	file, err := os.OpenFile(s.lockFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	err = syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		file.Close()
		if err == syscall.EWOULDBLOCK {
			return fmt.Errorf("another player-backend instance is already running")
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	_, err = file.WriteString(fmt.Sprintf("%d\n", os.Getpid()))
	if err != nil {
		syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		file.Close()
		return fmt.Errorf("failed to write PID to lock file: %w", err)
	}

	s.lockFile = file
	log.Info().Str("lock_file", s.lockFilePath).Int("pid", os.Getpid()).Msg("Acquired process lock")
	return nil
}

func (s *Server) releaseLock() {
	if s.lockFile != nil {
		syscall.Flock(int(s.lockFile.Fd()), syscall.LOCK_UN)
		s.lockFile.Close()
		os.Remove(s.lockFilePath)
		log.Info().Str("lock_file", s.lockFilePath).Msg("Released process lock")
		s.lockFile = nil
	}
}

// Start acquires the instance lock and begins accepting clients.
func (s *Server) Start() error {
	if err := s.acquireLock(); err != nil {
		return err
	}

	if err := os.RemoveAll(s.socketPath); err != nil {
		s.releaseLock()
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		s.releaseLock()
		return err
	}
	s.listener = listener

	log.Info().Str("socket_path", s.socketPath).Msg("IPC server listening")

	go s.acceptConnections()

	return nil
}

func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			log.Error().Err(err).Msg("Failed to accept IPC connection")
			return
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	clientID := uuid.New().String()

	s.clientConnsLock.Lock()
	s.clientConns[conn] = clientID
	s.clientConnsLock.Unlock()

	log.Info().Str("client", clientID).Msg("Render client connected")

	s.payloadLock.Lock()
	_, err := conn.Write([]byte(s.lastPayload))
	s.payloadLock.Unlock()
	if err != nil {
		log.Error().Err(err).Str("client", clientID).Msg("Failed to send initial payload")
	}

	// Block until the client hangs up; clients never send data.
	buf := make([]byte, 1)
	for {
		_, err := conn.Read(buf)
		if err != nil {
			break
		}
	}

	s.clientConnsLock.Lock()
	delete(s.clientConns, conn)
	s.clientConnsLock.Unlock()
	conn.Close()
	log.Info().Str("client", clientID).Msg("Render client disconnected")
}

// Broadcast sends payload to every connected client and mirrors it to the
// side file for pull-based consumers (status bars).
func (s *Server) Broadcast(payload string) {
	if payload != "" {
		os.WriteFile(s.lineFilePath, []byte(payload+"\n"), 0644)
	}
	s.payloadLock.Lock()
	s.lastPayload = payload
	s.payloadLock.Unlock()

	s.clientConnsLock.Lock()
	defer s.clientConnsLock.Unlock()

	payloadBytes := []byte(payload)
	for conn, clientID := range s.clientConns {
		_, err := conn.Write(payloadBytes)
		if err != nil {
			log.Error().Err(err).Str("client", clientID).Msg("Failed to write to client, removing")
			conn.Close()
			delete(s.clientConns, conn)
		}
	}
}

// Close stops accepting clients and releases the instance lock.
func (s *Server) Close() {
	if s.listener != nil {
		s.listener.Close()
	}
	s.releaseLock()
}
