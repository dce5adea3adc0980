package models

/**
 * Module summary (serialized to JSON format)
 * @property {string} id - Package name
 * @property {string} logo - Logo asset path
 * @property {string} lastVersion - Version string of the latest published version
 * @property {*string} currentVersion - Formatted installed version, null when not installed
 * @property {bool} updateAvailable - Installed and the installed pretty version differs from lastVersion
 */
type ModuleSummary struct {
	ID              string   `json:"id"`
	Logo            string   `json:"logo"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	License         []string `json:"license"`
	LastVersion     string   `json:"lastVersion"`
	CurrentVersion  *string  `json:"currentVersion"`
	Installed       bool     `json:"installed"`
	UpdateAvailable bool     `json:"updateAvailable"`
}

// Screenshot is a thumbnail/full-size image pair shown on the module detail page
type Screenshot struct {
	Thumbnail string `json:"thumbnail"`
	Src       string `json:"src"`
}

// ModuleDetail extends the summary with fields shown on the detail page
type ModuleDetail struct {
	ModuleSummary
	Authors         *string      `json:"authors"`
	CreatedAt       string       `json:"createdAt"`
	LongDescription string       `json:"longDescription"`
	Screenshots     []Screenshot `json:"screenshots"`
}

// RemoteUrls are the module-client daemon endpoints the browser talks to
type RemoteUrls struct {
	Call   string `json:"call"`
	Status string `json:"status"`
}

// RequestParams is the command forwarded to the module client; empty encodes as {}
type RequestParams struct {
	Method  string `json:"method,omitempty"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// RequestResponse answers the require and remove actions
type RequestResponse struct {
	Success bool          `json:"success"`
	Params  RequestParams `json:"params"`
	Urls    RemoteUrls    `json:"urls"`
}

// CheckResponse acknowledges a finished operation and names the models to refresh
type CheckResponse struct {
	Success       bool                `json:"success"`
	UpdatedModels map[string][]string `json:"updated_models"`
}

// ModuleParams carries the module id of detail and check actions
type ModuleParams struct {
	ID string `json:"id" validate:"required"`
}

// TargetParams carries the module id and the base URL of the module client host
type TargetParams struct {
	ID  string `json:"id" validate:"required"`
	URL string `json:"url" validate:"required"`
}

// EmptyParams is the input of the list actions
type EmptyParams struct{}

// ActionsPath is the route prefix of the module action API
const ActionsPath = "/backend/module/api/v1/actions"
