package services

import (
	"encoding/json"
	"errors"
	"testing"

	"module-keeper/internal/models"
	"module-keeper/internal/repository"
	"module-keeper/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository() *repository.MemoryRepository {
	repo := repository.NewMemoryRepository()
	repo.AddPackage(repository.Package{
		Name: "modera/foo-module",
		Versions: map[string]repository.Version{
			"1.0": {Name: "modera/foo-module", Version: "1.0", Description: "Old foo"},
			"2.0": {
				Name:        "modera/foo-module",
				Version:     "2.0",
				Description: "Foo module",
				License:     repository.Licenses{"MIT"},
				Authors:     []repository.Author{{Name: "Jane Doe"}, {Name: "John Roe"}},
				Time:        "2014-05-13T12:00:00+00:00",
				Extra: map[string]any{
					"modera-module": map[string]any{
						"description": []any{"line1", "<b>line2</b>"},
						"screenshots": []any{
							"a.png",
							map[string]any{"thumbnail": "t", "src": "s"},
						},
					},
				},
			},
		},
	})
	repo.AddPackage(repository.Package{
		Name: "modera/bar-module",
		Versions: map[string]repository.Version{
			"9.0":  {Name: "modera/bar-module", Version: "9.0"},
			"10.0": {Name: "modera/bar-module", Version: "10.0"},
		},
	})
	repo.AddPackage(repository.Package{
		Name: "modera/empty-module",
	})
	return repo
}

func newTestManager(repo repository.Repository) *ModuleManager {
	return NewModuleManager(repo, ModuleOptions{})
}

func TestResolvePackageSummary_LatestIsLastSortedKey(t *testing.T) {
	mm := newTestManager(newTestRepository())

	summary, err := mm.ResolvePackageSummary("modera/foo-module")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "2.0", summary.LastVersion)
	assert.Equal(t, "Foo module", summary.Description)

	// "9.0" sorts after "10.0" byte-wise
	bar, err := mm.ResolvePackageSummary("modera/bar-module")
	require.NoError(t, err)
	assert.Equal(t, "9.0", bar.LastVersion)
}

func TestResolvePackageSummary_SemverStrategy(t *testing.T) {
	mm := NewModuleManager(newTestRepository(), ModuleOptions{Latest: utils.LatestBySemver})

	bar, err := mm.ResolvePackageSummary("modera/bar-module")
	require.NoError(t, err)
	assert.Equal(t, "10.0", bar.LastVersion)
}

func TestResolvePackageSummary_NotInstalled(t *testing.T) {
	mm := newTestManager(newTestRepository())

	summary, err := mm.ResolvePackageSummary("modera/foo-module")
	require.NoError(t, err)
	assert.Equal(t, models.ModuleSummary{
		ID:              "modera/foo-module",
		Logo:            "/bundles/moderabackendmodule/images/default.png",
		Name:            "modera/foo-module",
		Description:     "Foo module",
		License:         []string{"MIT"},
		LastVersion:     "2.0",
		CurrentVersion:  nil,
		Installed:       false,
		UpdateAvailable: false,
	}, *summary)
}

func TestResolvePackageSummary_Absent(t *testing.T) {
	mm := newTestManager(newTestRepository())

	summary, err := mm.ResolvePackageSummary("modera/unknown")
	assert.NoError(t, err)
	assert.Nil(t, summary)

	empty, err := mm.ResolvePackageSummary("modera/empty-module")
	assert.NoError(t, err)
	assert.Nil(t, empty, "a package without versions is absent")
}

func TestResolvePackageSummary_UpdateAvailable(t *testing.T) {
	cases := []struct {
		name          string
		prettyVersion string
		reference     string
		wantUpdate    bool
		wantCurrent   string
	}{
		{"up to date", "2.0", "", false, "2.0"},
		{"older installed", "1.0", "", true, "1.0"},
		{"dev branch", "dev-master", "0123456789", true, "dev-master 0123456"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			repo := newTestRepository()
			repo.AddInstalled(repository.InstalledRecord{
				Name:          "modera/foo-module",
				PrettyVersion: c.prettyVersion,
				Reference:     c.reference,
			})
			mm := newTestManager(repo)

			summary, err := mm.ResolvePackageSummary("modera/foo-module")
			require.NoError(t, err)
			assert.True(t, summary.Installed)
			assert.Equal(t, c.wantUpdate, summary.UpdateAvailable)
			require.NotNil(t, summary.CurrentVersion)
			assert.Equal(t, c.wantCurrent, *summary.CurrentVersion)
		})
	}
}

func TestResolvePackageDetail(t *testing.T) {
	mm := newTestManager(newTestRepository())

	detail, err := mm.ResolvePackageDetail("modera/foo-module")
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, "2.0", detail.LastVersion)
	require.NotNil(t, detail.Authors)
	assert.Equal(t, "Jane Doe, John Roe", *detail.Authors)
	assert.Equal(t, "Tue, 13 May 2014 12:00:00 +0000", detail.CreatedAt)
	assert.Equal(t, "line1<br />line2", detail.LongDescription)
	assert.Equal(t, []models.Screenshot{
		{Thumbnail: "a.png", Src: "a.png"},
		{Thumbnail: "t", Src: "s"},
	}, detail.Screenshots)
}

func TestResolvePackageDetail_MissingExtraBlock(t *testing.T) {
	mm := newTestManager(newTestRepository())

	detail, err := mm.ResolvePackageDetail("modera/bar-module")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Nil(t, detail.Authors)
	assert.Equal(t, "", detail.CreatedAt)
	assert.Equal(t, "", detail.LongDescription)
	assert.Empty(t, detail.Screenshots)

	data, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"authors":null`)
	assert.Contains(t, string(data), `"screenshots":[]`)
	assert.Contains(t, string(data), `"id":"modera/bar-module"`)
}

func TestResolvePackageDetail_Absent(t *testing.T) {
	mm := newTestManager(newTestRepository())

	detail, err := mm.ResolvePackageDetail("modera/unknown")
	assert.NoError(t, err)
	assert.Nil(t, detail)
}

func TestListInstalledSummaries_DropsMissingPackages(t *testing.T) {
	repo := newTestRepository()
	repo.AddInstalled(repository.InstalledRecord{Name: "modera/bar-module", PrettyVersion: "9.0"})
	repo.AddInstalled(repository.InstalledRecord{Name: "modera/gone-module", PrettyVersion: "1.0"})
	repo.AddInstalled(repository.InstalledRecord{Name: "modera/foo-module", PrettyVersion: "1.0"})
	mm := newTestManager(repo)

	list, err := mm.ListInstalledSummaries()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "modera/bar-module", list[0].ID)
	assert.False(t, list[0].UpdateAvailable)
	assert.Equal(t, "modera/foo-module", list[1].ID)
	assert.True(t, list[1].UpdateAvailable)
}

func TestListAvailableSummaries(t *testing.T) {
	mm := newTestManager(newTestRepository())

	list, err := mm.ListAvailableSummaries()
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"modera/foo-module", "modera/bar-module"}, ids)
}

type failingRepository struct {
	*repository.MemoryRepository
}

var errBroken = errors.New("index unreadable")

func (f failingRepository) GetPackage(name string) (*repository.Package, error) {
	if name == "modera/broken-module" {
		return nil, errBroken
	}
	return f.MemoryRepository.GetPackage(name)
}

func (f failingRepository) GetAvailable() ([]string, error) {
	names, _ := f.MemoryRepository.GetAvailable()
	return append([]string{"modera/broken-module"}, names...), nil
}

func TestListAvailableSummaries_SkipsBrokenEntries(t *testing.T) {
	mm := newTestManager(failingRepository{newTestRepository()})

	list, err := mm.ListAvailableSummaries()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = mm.ResolvePackageSummary("modera/broken-module")
	assert.ErrorIs(t, err, errBroken)
}

func TestBuildRequireRequest(t *testing.T) {
	mm := newTestManager(newTestRepository())

	resp, err := mm.BuildRequireRequest("modera/foo-module", "http://localhost")
	require.NoError(t, err)
	assert.Equal(t, models.RequestResponse{
		Success: true,
		Params:  models.RequestParams{Method: "require", Name: "modera/foo-module", Version: "2.0"},
		Urls: models.RemoteUrls{
			Call:   "http://localhost:8021/call",
			Status: "http://localhost:8021/status",
		},
	}, resp)
}

func TestBuildRequireRequest_Unknown(t *testing.T) {
	mm := newTestManager(newTestRepository())

	resp, err := mm.BuildRequireRequest("modera/unknown", "http://localhost")
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"params": {},
		"urls": {"call": "http://localhost:8021/call", "status": "http://localhost:8021/status"}
	}`, string(data))
}

func TestBuildRemoveRequest_CustomPort(t *testing.T) {
	mm := NewModuleManager(newTestRepository(), ModuleOptions{ClientPort: 9000})

	resp := mm.BuildRemoveRequest("modera/whatever", "http://host")
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"params": {"method": "remove", "name": "modera/whatever"},
		"urls": {"call": "http://host:9000/call", "status": "http://host:9000/status"}
	}`, string(data))
}

func TestBuildCheckResponse(t *testing.T) {
	mm := newTestManager(newTestRepository())

	data, err := json.Marshal(mm.BuildCheckResponse("x"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"updated_models":{"modera.backend_module_bundle.module":["x"]}}`, string(data))
}
