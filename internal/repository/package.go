package repository

import (
	"encoding/json"
	"strings"
)

// Author of a published version
type Author struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Homepage string `json:"homepage,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Licenses accepts both the string and the list form found in composer metadata
type Licenses []string

func (l *Licenses) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = Licenses{}
		} else {
			*l = Licenses{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

/**
 * One published version of a package
 * @property {string} name - Package name, identical for every version of a package
 * @property {string} version - Version string as published, e.g. "1.2.0" or "dev-master"
 * @property {string} time - Release time as published, parsed by consumers
 * @property {map} extra - Free-form extra metadata
 */
type Version struct {
	Name              string         `json:"name"`
	Version           string         `json:"version"`
	VersionNormalized string         `json:"version_normalized,omitempty"`
	Description       string         `json:"description"`
	License           Licenses       `json:"license"`
	Authors           []Author       `json:"authors"`
	Time              string         `json:"time"`
	Type              string         `json:"type,omitempty"`
	Extra             map[string]any `json:"extra,omitempty"`
}

// Package groups all published versions under their version string
type Package struct {
	Name     string             `json:"name"`
	Versions map[string]Version `json:"versions"`
}

// VersionKeys returns the keys of the version mapping in no particular order
func (p *Package) VersionKeys() []string {
	keys := make([]string, 0, len(p.Versions))
	for k := range p.Versions {
		keys = append(keys, k)
	}
	return keys
}

/**
 * Installed package record
 * @property {string} version - Normalized installed version
 * @property {string} prettyVersion - Version as written by the installer, compared with the latest version
 * @property {string} reference - Source or dist reference of the installed build
 */
type InstalledRecord struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	PrettyVersion string `json:"prettyVersion"`
	Reference     string `json:"reference,omitempty"`
}

// IsDev reports whether the record points at a development branch
func (r InstalledRecord) IsDev() bool {
	return strings.HasPrefix(r.PrettyVersion, "dev-") || strings.HasSuffix(r.PrettyVersion, "-dev")
}

/**
 * Format an installed record for display
 * @param {InstalledRecord} r - Installed record
 * @returns {string} Pretty version, dev builds get the short reference appended
 * @example
 * FormatVersion(InstalledRecord{PrettyVersion: "dev-master", Reference: "a1b2c3d4e5f6"}) // "dev-master a1b2c3d"
 */
func FormatVersion(r InstalledRecord) string {
	if !r.IsDev() || r.Reference == "" {
		return r.PrettyVersion
	}
	ref := r.Reference
	if len(ref) > 7 {
		ref = ref[:7]
	}
	return r.PrettyVersion + " " + ref
}
