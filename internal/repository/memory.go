package repository

import "sync"

// MemoryRepository keeps packages and installed records in memory
type MemoryRepository struct {
	mu        sync.RWMutex
	packages  map[string]*Package
	available []string
	installed []InstalledRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		packages: make(map[string]*Package),
	}
}

// AddPackage registers a package as available, replacing any previous one with that name
func (m *MemoryRepository) AddPackage(pkg Package) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.packages[pkg.Name]; !ok {
		m.available = append(m.available, pkg.Name)
	}
	p := pkg
	m.packages[pkg.Name] = &p
}

// AddInstalled marks a package as installed. The package itself need not be available.
func (m *MemoryRepository) AddInstalled(rec InstalledRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.installed {
		if m.installed[i].Name == rec.Name {
			m.installed[i] = rec
			return
		}
	}
	m.installed = append(m.installed, rec)
}

// RemoveInstalled drops the installed record of name, reporting whether one existed
func (m *MemoryRepository) RemoveInstalled(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.installed {
		if m.installed[i].Name == name {
			m.installed = append(m.installed[:i], m.installed[i+1:]...)
			return true
		}
	}
	return false
}

func (m *MemoryRepository) GetPackage(name string) (*Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pkg, ok := m.packages[name]
	if !ok {
		return nil, ErrPackageNotFound
	}
	p := *pkg
	return &p, nil
}

func (m *MemoryRepository) GetInstalled() ([]InstalledRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]InstalledRecord(nil), m.installed...), nil
}

func (m *MemoryRepository) GetInstalledByName(name string) (*InstalledRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.installed {
		if rec.Name == name {
			r := rec
			return &r, nil
		}
	}
	return nil, ErrPackageNotFound
}

func (m *MemoryRepository) GetAvailable() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.available...), nil
}

func (m *MemoryRepository) FormatVersion(record InstalledRecord) string {
	return FormatVersion(record)
}
