package repository

import "errors"

var ErrPackageNotFound = errors.New("package not found")

/**
 * Package repository consumed by the module facade
 * @description
 * - GetPackage and GetInstalledByName return ErrPackageNotFound for unknown names
 * - GetInstalled and GetAvailable preserve the backend's listing order
 */
type Repository interface {
	GetPackage(name string) (*Package, error)
	GetInstalled() ([]InstalledRecord, error)
	GetInstalledByName(name string) (*InstalledRecord, error)
	GetAvailable() ([]string, error)
	FormatVersion(record InstalledRecord) string
}
