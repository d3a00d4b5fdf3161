package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shashiranjanraj/shopfront/config"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
)

// Manager holds the configured disks and knows which one is the default.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultName string
}

func NewManager(defaultName string) *Manager {
	return &Manager{disks: map[string]Disk{}, defaultName: defaultName}
}

// Connect boots the local disk and, when S3_BUCKET is set, the S3 disk.
// A failing S3 setup disables that disk; if it was the default, local
// takes over.
func Connect(ctx context.Context) (*Manager, error) {
	m := NewManager(config.StorageDefault())

	local, err := NewLocal(config.StorageLocalRoot(), config.StorageURL())
	if err != nil {
		return nil, err
	}
	m.Register(local)

	if config.StorageS3Bucket() != "" {
		d, err := NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.Register(d)
		}
	}

	if _, err := m.Disk(m.defaultName); err != nil {
		logger.Warn("storage: default disk unavailable, using local", "disk", m.defaultName)
		m.defaultName = local.Name()
	}
	return m, nil
}

// Register adds or replaces a disk under its own name.
func (m *Manager) Register(d Disk) {
	m.mu.Lock()
	m.disks[d.Name()] = d
	m.mu.Unlock()
}

func (m *Manager) Disk(name string) (Disk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk named by STORAGE_DISK.
func (m *Manager) Default() Disk {
	d, err := m.Disk(m.defaultName)
	if err != nil {
		panic(err)
	}
	return d
}

// Names lists the configured disks.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.disks))
	for n := range m.disks {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
