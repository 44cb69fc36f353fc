package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestProcessDefaults(t *testing.T) {
	got, err := Process()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Config{
		Port:          "8080",
		Prefix:        "/",
		DataPath:      "tabua.json",
		Location:      "Porto de Cabedelo - PB",
		Zone:          "America/Fortaleza",
		Embark:        true,
		CacheTTL:      time.Hour,
		SessionKey:    "deadbeef",
		EncryptionKey: "deadbeef",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("incorrect defaults (-want,+got):\n%s", diff)
	}
}

func TestProcessEnv(t *testing.T) {
	t.Setenv("TABUA_DATA_PATH", "/data/tabua-2026.json")
	t.Setenv("TABUA_EMBARK", "false")
	t.Setenv("TABUA_CACHE_TTL", "5m")
	t.Setenv("TABUA_ZONE", "UTC")

	got, err := Process()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DataPath != "/data/tabua-2026.json" || got.Embark || got.CacheTTL != 5*time.Minute {
		t.Errorf("environment not applied: %+v", got)
	}
	if loc, err := got.TimeZone(); err != nil || loc != time.UTC {
		t.Errorf("TimeZone() = %v, %v", loc, err)
	}
}

func TestProcessBadZone(t *testing.T) {
	t.Setenv("TABUA_ZONE", "Mars/Olympus_Mons")
	if _, err := Process(); err == nil {
		t.Errorf("expected error for unknown zone")
	}
}
