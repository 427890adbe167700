package store

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Backend names accepted by the service
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Service opens the configured KV backend for the lifetime of the process
type Service struct {
	backend string
	dataDir string

	mu   sync.Mutex
	kv   KV
	docs *Documents
}

// NewService creates an unopened store service
func NewService(backend, dataDir string) *Service {
	return &Service{backend: backend, dataDir: dataDir}
}

// Name implements service.Service
func (s *Service) Name() string { return "store" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return nil }

// Init implements service.Service; opens the backend
func (s *Service) Init(...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv != nil {
		return nil
	}
	kv, err := Open(s.backend, s.dataDir)
	if err != nil {
		return err
	}
	s.kv = kv
	s.docs = NewDocuments(kv)
	return nil
}

// Start implements service.Service
func (s *Service) Start() error { return nil }

// Stop implements service.Service; idempotent
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv == nil {
		return nil
	}
	err := s.kv.Close()
	s.kv = nil
	return err
}

// Documents returns the document accessor; nil before Init
func (s *Service) Documents() *Documents {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs
}

// Open constructs a KV backend by name
func Open(backend, dataDir string) (KV, error) {
	switch backend {
	case BackendFile, "":
		return OpenFileStore(filepath.Join(dataDir, "state"))
	case BackendSQLite:
		return OpenSQLiteStore(filepath.Join(dataDir, "clipdeck.db"))
	case BackendMemory:
		return NewMemStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}
