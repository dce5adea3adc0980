package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/iancoleman/orderedmap"
)

/**
 * Repository backed by two JSON files
 * @description
 * - index file: {"packages": {"<name>": {"<version>": Version}}}, listing order is file order
 * - installed file: composer installed.json, either a list or {"packages": [...]}
 * - Files are re-read when their size or modification time changes
 * - A missing installed file means nothing is installed
 */
type FileRepository struct {
	indexPath     string
	installedPath string

	mu             sync.RWMutex
	indexStamp     fileStamp
	names          []string
	packages       map[string]map[string]Version
	installedStamp fileStamp
	installed      []InstalledRecord
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

type indexDocument struct {
	Packages json.RawMessage `json:"packages"`
}

type installedReference struct {
	Reference string `json:"reference"`
}

type installedEntry struct {
	Name              string              `json:"name"`
	Version           string              `json:"version"`
	VersionNormalized string              `json:"version_normalized"`
	Source            *installedReference `json:"source"`
	Dist              *installedReference `json:"dist"`
}

func NewFileRepository(indexPath, installedPath string) *FileRepository {
	return &FileRepository{
		indexPath:     indexPath,
		installedPath: installedPath,
	}
}

func (s fileStamp) same(o fileStamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}

func statFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, nil
}

func (r *FileRepository) loadIndex() error {
	stamp, err := statFile(r.indexPath)
	if err != nil {
		return fmt.Errorf("stat package index '%s': %w", r.indexPath, err)
	}
	r.mu.RLock()
	fresh := r.packages != nil && stamp.same(r.indexStamp)
	r.mu.RUnlock()
	if fresh {
		return nil
	}

	data, err := os.ReadFile(r.indexPath)
	if err != nil {
		return fmt.Errorf("read package index '%s': %w", r.indexPath, err)
	}
	names, packages, err := parseIndex(data)
	if err != nil {
		return fmt.Errorf("parse package index '%s': %w", r.indexPath, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexStamp = stamp
	r.names = names
	r.packages = packages
	return nil
}

func parseIndex(data []byte) ([]string, map[string]map[string]Version, error) {
	var doc indexDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	if len(doc.Packages) == 0 {
		return []string{}, map[string]map[string]Version{}, nil
	}

	// orderedmap keeps the file order of package names
	order := orderedmap.New()
	if err := json.Unmarshal(doc.Packages, order); err != nil {
		return nil, nil, err
	}
	packages := make(map[string]map[string]Version)
	if err := json.Unmarshal(doc.Packages, &packages); err != nil {
		return nil, nil, err
	}
	for name, versions := range packages {
		for key, v := range versions {
			if v.Name == "" {
				v.Name = name
				versions[key] = v
			}
		}
	}
	return order.Keys(), packages, nil
}

func (r *FileRepository) loadInstalled() error {
	stamp, err := statFile(r.installedPath)
	if errors.Is(err, os.ErrNotExist) {
		r.mu.Lock()
		r.installedStamp = fileStamp{}
		r.installed = []InstalledRecord{}
		r.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat installed list '%s': %w", r.installedPath, err)
	}
	r.mu.RLock()
	fresh := r.installed != nil && stamp.same(r.installedStamp)
	r.mu.RUnlock()
	if fresh {
		return nil
	}

	data, err := os.ReadFile(r.installedPath)
	if err != nil {
		return fmt.Errorf("read installed list '%s': %w", r.installedPath, err)
	}
	installed, err := parseInstalled(data)
	if err != nil {
		return fmt.Errorf("parse installed list '%s': %w", r.installedPath, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.installedStamp = stamp
	r.installed = installed
	return nil
}

func parseInstalled(data []byte) ([]InstalledRecord, error) {
	var entries []installedEntry
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc struct {
			Packages []installedEntry `json:"packages"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		entries = doc.Packages
	} else if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
	}

	records := make([]InstalledRecord, 0, len(entries))
	for _, e := range entries {
		rec := InstalledRecord{
			Name:          e.Name,
			Version:       e.VersionNormalized,
			PrettyVersion: e.Version,
		}
		if rec.Version == "" {
			rec.Version = e.Version
		}
		if e.Source != nil && e.Source.Reference != "" {
			rec.Reference = e.Source.Reference
		} else if e.Dist != nil {
			rec.Reference = e.Dist.Reference
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *FileRepository) GetPackage(name string) (*Package, error) {
	if err := r.loadIndex(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions, ok := r.packages[name]
	if !ok {
		return nil, ErrPackageNotFound
	}
	pkg := &Package{Name: name, Versions: make(map[string]Version, len(versions))}
	for k, v := range versions {
		pkg.Versions[k] = v
	}
	return pkg, nil
}

func (r *FileRepository) GetInstalled() ([]InstalledRecord, error) {
	if err := r.loadInstalled(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]InstalledRecord(nil), r.installed...), nil
}

func (r *FileRepository) GetInstalledByName(name string) (*InstalledRecord, error) {
	installed, err := r.GetInstalled()
	if err != nil {
		return nil, err
	}
	for _, rec := range installed {
		if rec.Name == name {
			found := rec
			return &found, nil
		}
	}
	return nil, ErrPackageNotFound
}

func (r *FileRepository) GetAvailable() ([]string, error) {
	if err := r.loadIndex(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...), nil
}

func (r *FileRepository) FormatVersion(record InstalledRecord) string {
	return FormatVersion(record)
}
