package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"module-keeper/internal/config"
	"module-keeper/internal/logger"
	"module-keeper/internal/models"
	"module-keeper/internal/repository"
	"module-keeper/internal/utils"
)

// UpdatedModelKey names the client-side store refreshed after an install or removal
const UpdatedModelKey = "modera.backend_module_bundle.module"

/**
 * Presentation settings of the module manager
 * @property {int} ClientPort - Port of the module-client daemon
 * @property {string} DefaultLogo - Logo reported for every module
 * @property {string} ExtraKey - Key of the module block in a version's extra metadata
 * @property {utils.LatestStrategy} Latest - Rule picking the latest version
 */
type ModuleOptions struct {
	ClientPort  int
	DefaultLogo string
	ExtraKey    string
	Latest      utils.LatestStrategy
}

// ModuleOptionsFromConfig maps the module section of the app config
func ModuleOptionsFromConfig(cfg *config.AppConfig) ModuleOptions {
	return ModuleOptions{
		ClientPort:  cfg.Module.ClientPort,
		DefaultLogo: cfg.Module.DefaultLogo,
		ExtraKey:    cfg.Module.ExtraKey,
		Latest:      utils.LatestStrategy(cfg.Module.LatestStrategy),
	}
}

/**
 * Module manager reshapes package repository data into module summaries,
 * details and module-client requests
 */
type ModuleManager struct {
	repo repository.Repository
	opts ModuleOptions
}

/**
 * Create module manager
 * @param {repository.Repository} repo - Package repository
 * @param {ModuleOptions} opts - Zero fields fall back to the built-in defaults
 * @returns {*ModuleManager} New module manager
 */
func NewModuleManager(repo repository.Repository, opts ModuleOptions) *ModuleManager {
	if opts.ClientPort == 0 {
		opts.ClientPort = config.DefaultClientPort
	}
	if opts.DefaultLogo == "" {
		opts.DefaultLogo = config.DefaultLogo
	}
	if opts.ExtraKey == "" {
		opts.ExtraKey = config.DefaultExtraKey
	}
	if opts.Latest == "" {
		opts.Latest = utils.LatestByKey
	}
	return &ModuleManager{repo: repo, opts: opts}
}

/**
 * Create module manager over the JSON file repository described by cfg
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {*ModuleManager} Module manager reading module.index_file and module.installed_file
 */
func OpenModuleManager(cfg *config.AppConfig) *ModuleManager {
	repo := repository.NewFileRepository(cfg.Module.IndexPath(), cfg.Module.InstalledPath())
	return NewModuleManager(repo, ModuleOptionsFromConfig(cfg))
}

// Repository returns the package repository the manager reads from
func (mm *ModuleManager) Repository() repository.Repository {
	return mm.repo
}

/**
 * Look up a package and its latest version
 * @returns {*repository.Version} Latest version, nil when the package is absent or has no versions
 * @throws
 * - Repository errors other than ErrPackageNotFound
 * @private
 */
func (mm *ModuleManager) latestVersion(name string) (*repository.Version, error) {
	pkg, err := mm.repo.GetPackage(name)
	if errors.Is(err, repository.ErrPackageNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get package '%s': %w", name, err)
	}
	key, ok := utils.LatestVersionKey(pkg.VersionKeys(), mm.opts.Latest)
	if !ok {
		logger.Warnf("Package '%s' has no versions, skipped", name)
		return nil, nil
	}
	latest := pkg.Versions[key]
	return &latest, nil
}

func (mm *ModuleManager) summarize(latest *repository.Version) (models.ModuleSummary, error) {
	summary := models.ModuleSummary{
		ID:          latest.Name,
		Logo:        mm.opts.DefaultLogo,
		Name:        latest.Name,
		Description: latest.Description,
		License:     []string(latest.License),
		LastVersion: latest.Version,
	}
	if summary.License == nil {
		summary.License = []string{}
	}

	installed, err := mm.repo.GetInstalledByName(latest.Name)
	if errors.Is(err, repository.ErrPackageNotFound) {
		return summary, nil
	}
	if err != nil {
		return summary, fmt.Errorf("get installed '%s': %w", latest.Name, err)
	}
	current := mm.repo.FormatVersion(*installed)
	summary.CurrentVersion = &current
	summary.Installed = true
	summary.UpdateAvailable = installed.PrettyVersion != latest.Version
	return summary, nil
}

/**
 * Resolve the summary of a module
 * @param {string} name - Package name
 * @returns {*models.ModuleSummary} Summary, nil when the package does not exist
 * @throws
 * - Repository read errors
 */
func (mm *ModuleManager) ResolvePackageSummary(name string) (*models.ModuleSummary, error) {
	latest, err := mm.latestVersion(name)
	if err != nil || latest == nil {
		return nil, err
	}
	summary, err := mm.summarize(latest)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

/**
 * Resolve the detail record of a module
 * @param {string} name - Package name
 * @returns {*models.ModuleDetail} Summary plus authors, createdAt, longDescription and screenshots,
 * nil when the package does not exist
 * @description
 * - A missing or malformed module block in extra metadata counts as empty
 * - An unparseable release time yields an empty createdAt
 */
func (mm *ModuleManager) ResolvePackageDetail(name string) (*models.ModuleDetail, error) {
	latest, err := mm.latestVersion(name)
	if err != nil || latest == nil {
		return nil, err
	}
	summary, err := mm.summarize(latest)
	if err != nil {
		return nil, err
	}

	extra := mm.moduleExtra(latest)
	detail := &models.ModuleDetail{
		ModuleSummary:   summary,
		Authors:         joinAuthors(latest.Authors),
		CreatedAt:       formatCreatedAt(latest.Name, latest.Time),
		LongDescription: utils.NormalizeLongDescription(extra["description"]),
		Screenshots:     normalizeScreenshots(extra["screenshots"]),
	}
	return detail, nil
}

func (mm *ModuleManager) moduleExtra(v *repository.Version) map[string]any {
	raw, ok := v.Extra[mm.opts.ExtraKey]
	if !ok {
		logger.Warnf("Package '%s' %s has no '%s' extra block", v.Name, v.Version, mm.opts.ExtraKey)
		return map[string]any{}
	}
	block, ok := raw.(map[string]any)
	if !ok {
		logger.Warnf("Package '%s' %s has a malformed '%s' extra block", v.Name, v.Version, mm.opts.ExtraKey)
		return map[string]any{}
	}
	return block
}

func joinAuthors(authors []repository.Author) *string {
	if len(authors) == 0 {
		return nil
	}
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Name)
	}
	joined := strings.Join(names, ", ")
	return &joined
}

var releaseTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// formatCreatedAt renders a release time like "Tue, 13 May 2014 12:00:00 +0000"
func formatCreatedAt(name, raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range releaseTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.RFC1123Z)
		}
	}
	logger.Warnf("Package '%s' has unparseable release time '%s'", name, raw)
	return ""
}

/**
 * Normalize screenshot entries
 * @param {any} raw - List of strings or {thumbnail, src} objects
 * @returns {[]models.Screenshot} Strings become {thumbnail: s, src: s}, pairs pass through
 */
func normalizeScreenshots(raw any) []models.Screenshot {
	screenshots := []models.Screenshot{}
	list, ok := raw.([]any)
	if !ok {
		return screenshots
	}
	for _, item := range list {
		switch v := item.(type) {
		case string:
			screenshots = append(screenshots, models.Screenshot{Thumbnail: v, Src: v})
		case map[string]any:
			thumb, _ := v["thumbnail"].(string)
			src, _ := v["src"].(string)
			screenshots = append(screenshots, models.Screenshot{Thumbnail: thumb, Src: src})
		}
	}
	return screenshots
}

/**
 * List summaries of all installed modules
 * @returns {[]models.ModuleSummary} Summaries in installed-list order, missing packages dropped
 * @description
 * - Per-module read errors are logged and the module skipped
 */
func (mm *ModuleManager) ListInstalledSummaries() ([]models.ModuleSummary, error) {
	installed, err := mm.repo.GetInstalled()
	if err != nil {
		return nil, fmt.Errorf("list installed packages: %w", err)
	}
	names := make([]string, 0, len(installed))
	for _, rec := range installed {
		names = append(names, rec.Name)
	}
	return mm.collectSummaries(names), nil
}

/**
 * List summaries of all available modules
 * @returns {[]models.ModuleSummary} Summaries in repository order, missing packages dropped
 */
func (mm *ModuleManager) ListAvailableSummaries() ([]models.ModuleSummary, error) {
	names, err := mm.repo.GetAvailable()
	if err != nil {
		return nil, fmt.Errorf("list available packages: %w", err)
	}
	return mm.collectSummaries(names), nil
}

func (mm *ModuleManager) collectSummaries(names []string) []models.ModuleSummary {
	result := make([]models.ModuleSummary, 0, len(names))
	for _, name := range names {
		summary, err := mm.ResolvePackageSummary(name)
		if err != nil {
			logger.Errorf("Resolve module '%s' failed: %v", name, err)
			continue
		}
		if summary == nil {
			continue
		}
		result = append(result, *summary)
	}
	return result
}

// RemoteUrls builds the module-client endpoints for the host at baseURL
func (mm *ModuleManager) RemoteUrls(baseURL string) models.RemoteUrls {
	base := fmt.Sprintf("%s:%d", baseURL, mm.opts.ClientPort)
	return models.RemoteUrls{
		Call:   base + "/call",
		Status: base + "/status",
	}
}

/**
 * Build the module-client request installing the latest version of a module
 * @param {string} id - Package name
 * @param {string} baseURL - Scheme and host of the module client, without port
 * @returns {models.RequestResponse} success=false with empty params when the package is unknown,
 * urls are always filled
 */
func (mm *ModuleManager) BuildRequireRequest(id, baseURL string) (models.RequestResponse, error) {
	response := models.RequestResponse{
		Success: false,
		Params:  models.RequestParams{},
		Urls:    mm.RemoteUrls(baseURL),
	}
	latest, err := mm.latestVersion(id)
	if err != nil {
		return response, err
	}
	if latest != nil {
		response.Success = true
		response.Params = models.RequestParams{
			Method:  "require",
			Name:    latest.Name,
			Version: latest.Version,
		}
	}
	return response, nil
}

/**
 * Build the module-client request removing a module
 * @description
 * - Always succeeds, the module client decides whether the module exists
 */
func (mm *ModuleManager) BuildRemoveRequest(id, baseURL string) models.RequestResponse {
	return models.RequestResponse{
		Success: true,
		Params: models.RequestParams{
			Method: "remove",
			Name:   id,
		},
		Urls: mm.RemoteUrls(baseURL),
	}
}

// BuildCheckResponse acknowledges a finished operation on module id
func (mm *ModuleManager) BuildCheckResponse(id string) models.CheckResponse {
	return models.CheckResponse{
		Success: true,
		UpdatedModels: map[string][]string{
			UpdatedModelKey: {id},
		},
	}
}
