package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMaintenanceFollowsFlagFile(t *testing.T) {
	flag := filepath.Join(t.TempDir(), "maintenance")
	svc := NewSystemService(nil, flag)

	if svc.Maintenance(context.Background()) {
		t.Error("maintenance must be off while the flag file is absent")
	}

	if err := os.WriteFile(flag, nil, 0o644); err != nil {
		t.Fatalf("write flag file: %v", err)
	}
	if !svc.Maintenance(context.Background()) {
		t.Error("maintenance must be on while the flag file exists")
	}

	if err := os.Remove(flag); err != nil {
		t.Fatalf("remove flag file: %v", err)
	}
	if svc.Maintenance(context.Background()) {
		t.Error("maintenance must clear when the flag file is removed")
	}
}

func TestMaintenanceWithoutConfiguredFile(t *testing.T) {
	svc := NewSystemService(nil, "")
	if svc.Maintenance(context.Background()) {
		t.Error("no configured flag file means never in maintenance")
	}
}
