package keyring

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/tracklit/internal/constants"
)

func TestSetGetDelete(t *testing.T) {
	keyring.MockInit()

	const connStr = "postgres://me@localhost/tracklit"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString failed: %v", err)
	}
	got, err := GetConnectionString()
	if err != nil || got != connStr {
		t.Errorf("GetConnectionString() = %q, %v", got, err)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	keyring.MockInit()
	if err := SetConnectionString("  "); err == nil {
		t.Error("expected error for empty connection string")
	}
}

func TestResolveConnectionString(t *testing.T) {
	keyring.MockInit()

	t.Setenv(constants.EnvDBConnection, "")
	if _, _, err := ResolveConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound with nothing configured, got %v", err)
	}

	if err := SetConnectionString("host=db"); err != nil {
		t.Fatal(err)
	}
	got, src, err := ResolveConnectionString()
	if err != nil || got != "host=db" || src != SourceKeyring {
		t.Errorf("keyring resolve = %q, %q, %v", got, src, err)
	}

	t.Setenv(constants.EnvDBConnection, "host=env")
	got, src, _ = ResolveConnectionString()
	if got != "host=env" || src != SourceEnv {
		t.Errorf("environment should win, got %q from %q", got, src)
	}
}

func TestUnavailableKeyring(t *testing.T) {
	keyring.MockInitWithError(errors.New("no dbus"))
	defer keyring.MockInit()

	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("expected ErrKeyringUnavailable, got %v", err)
	}
	if IsAvailable() {
		t.Error("IsAvailable should be false when the keyring errors")
	}
}
