package widgetcfg

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"NovaChat/entity"
	"NovaChat/internal/lib/api/response"
)

type fakeCore struct {
	global   *entity.WidgetConfig
	byTenant map[string]*entity.WidgetConfig
	byOrigin map[string]*entity.WidgetConfig
	err      error
}

func (f *fakeCore) GetGlobalConfig(context.Context) (*entity.WidgetConfig, error) {
	return f.global, f.err
}

func (f *fakeCore) GetConfig(_ context.Context, tenantID string) (*entity.WidgetConfig, error) {
	return f.byTenant[tenantID], f.err
}

func (f *fakeCore) GetConfigByOrigin(_ context.Context, origin string) (*entity.WidgetConfig, error) {
	return f.byOrigin[origin], f.err
}

func (f *fakeCore) SaveConfig(_ context.Context, conf entity.WidgetConfig) error {
	if f.byTenant == nil {
		f.byTenant = map[string]*entity.WidgetConfig{}
	}
	f.byTenant[conf.TenantID] = &conf
	return f.err
}

func serve(t *testing.T, handler Core, target string, origin string) *entity.WidgetConfig {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	Bootstrap(slog.New(slog.NewTextHandler(io.Discard, nil)), handler)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var resp response.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	var conf entity.WidgetConfig
	if err := json.Unmarshal(raw, &conf); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return &conf
}

func TestBootstrapByTenant(t *testing.T) {
	core := &fakeCore{byTenant: map[string]*entity.WidgetConfig{
		"tenant-1": {TenantID: "tenant-1", PrimaryColor: "#FF0000"},
	}}

	conf := serve(t, core, "/api/v1/widget/bootstrap?tenant_id=tenant-1", "")
	if conf.PrimaryColor != "#FF0000" {
		t.Errorf("got %q", conf.PrimaryColor)
	}
}

func TestBootstrapGlobalMode(t *testing.T) {
	core := &fakeCore{
		global:   &entity.WidgetConfig{Global: true, LauncherText: "Talk to us"},
		byTenant: map[string]*entity.WidgetConfig{"tenant-1": {TenantID: "tenant-1"}},
	}

	conf := serve(t, core, "/api/v1/widget/bootstrap?mode=global&tenant_id=tenant-1", "")
	if !conf.Global || conf.LauncherText != "Talk to us" {
		t.Errorf("global config not served: %+v", conf)
	}
}

func TestBootstrapByOrigin(t *testing.T) {
	core := &fakeCore{byOrigin: map[string]*entity.WidgetConfig{
		"https://shop.example.com": {TenantID: "tenant-2"},
	}}

	conf := serve(t, core, "/api/v1/widget/bootstrap", "https://shop.example.com")
	if conf.TenantID != "tenant-2" {
		t.Errorf("got tenant %q", conf.TenantID)
	}
}

func TestBootstrapFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		core Core
	}{
		{name: "nil core", core: nil},
		{name: "lookup error", core: &fakeCore{err: errors.New("mongo down")}},
		{name: "unknown tenant", core: &fakeCore{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf := serve(t, tc.core, "/api/v1/widget/bootstrap?tenant_id=nope", "")
			if conf.PrimaryColor != entity.DefaultPrimaryColor {
				t.Errorf("expected defaults, got %+v", conf)
			}
		})
	}
}
