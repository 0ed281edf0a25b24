package service_test

import (
	"testing"

	"github.com/ndewijer/fund-ledger/internal/testutil"
	"github.com/ndewijer/fund-ledger/internal/version"
)

func TestSystemService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	if err := svc.CheckHealth(); err != nil {
		t.Errorf("Expected healthy database, got %v", err)
	}

	info, err := svc.CheckVersion()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if info.AppVersion != version.Version {
		t.Errorf("Expected app version %s, got %s", version.Version, info.AppVersion)
	}
	if info.DbVersion != "2" {
		t.Errorf("Expected db version 2, got %s", info.DbVersion)
	}

	db.Close()
	if err := svc.CheckHealth(); err == nil {
		t.Error("Expected error from closed database")
	}
}
