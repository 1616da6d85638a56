package factory

import (
	"path/filepath"
	"strings"
	"testing"

	"finance-tracker/internal/config"
	"finance-tracker/internal/store/jsonstore"
	"finance-tracker/internal/store/sqlstore"
)

func TestOpen(t *testing.T) {
	cases := []struct {
		driver string
		file   string
		check  func(t *testing.T, s any)
	}{
		{config.DriverJSON, "db.json", func(t *testing.T, s any) {
			if _, ok := s.(*jsonstore.Store); !ok {
				t.Fatalf("json driver opened %T", s)
			}
		}},
		{"", "db.json", func(t *testing.T, s any) {
			if _, ok := s.(*jsonstore.Store); !ok {
				t.Fatalf("empty driver opened %T", s)
			}
		}},
		{config.DriverSQLite, "tracker.db", func(t *testing.T, s any) {
			if _, ok := s.(*sqlstore.Store); !ok {
				t.Fatalf("sqlite driver opened %T", s)
			}
		}},
	}
	for _, tc := range cases {
		t.Run("driver="+tc.driver, func(t *testing.T) {
			cfg := config.StoreConfig{Driver: tc.driver, Path: filepath.Join(t.TempDir(), tc.file)}
			// a nil logger falls back to the default one
			s, err := Open(cfg, nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()
			tc.check(t, s)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.StoreConfig{Driver: "postgres", Path: "x"}, nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported store driver: postgres") {
		t.Fatalf("err = %v", err)
	}
}
