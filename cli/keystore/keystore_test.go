package keystore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func newTestKeystore(t *testing.T, master string) (*FileKeystore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.enc")
	ks, err := NewFileKeystore(path, StaticMasterKey(master))
	if err != nil {
		t.Fatalf("NewFileKeystore() error = %v", err)
	}
	return ks, path
}

func TestFileKeystoreSetGetDelete(t *testing.T) {
	ks, _ := newTestKeystore(t, "master-1")

	if err := ks.Set("yandex-vision", "AQVN-test-key"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, err := ks.Get("yandex-vision")
	if err != nil || value != "AQVN-test-key" {
		t.Fatalf("Get() = %q, %v", value, err)
	}

	if err := ks.Set("yandex-vision", "AQVN-rotated"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if value, _ := ks.Get("yandex-vision"); value != "AQVN-rotated" {
		t.Errorf("Get() after overwrite = %q", value)
	}

	if err := ks.Delete("yandex-vision"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	var notFound *ErrKeyNotFound
	if _, err := ks.Get("yandex-vision"); !errors.As(err, &notFound) || notFound.Name != "yandex-vision" {
		t.Errorf("Get() after delete error = %v, want *ErrKeyNotFound", err)
	}
	if err := ks.Delete("yandex-vision"); !errors.As(err, &notFound) {
		t.Errorf("Delete() missing error = %v, want *ErrKeyNotFound", err)
	}
}

func TestFileKeystoreList(t *testing.T) {
	ks, _ := newTestKeystore(t, "master-1")

	names, err := ks.List()
	if err != nil || len(names) != 0 {
		t.Fatalf("List() on empty keystore = %v, %v", names, err)
	}

	for _, name := range []string{"work", "home", "ci"} {
		if err := ks.Set(name, "v-"+name); err != nil {
			t.Fatal(err)
		}
	}
	names, err = ks.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"ci", "home", "work"}) {
		t.Errorf("List() = %v, want sorted names", names)
	}
}

func TestFileKeystorePersistenceAndEncryption(t *testing.T) {
	ks, path := newTestKeystore(t, "master-1")
	if err := ks.Set("yandex-vision", "AQVN-secret-value"); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(raw, []byte(magicHeader)) {
		t.Error("keystore file lacks the magic header")
	}
	if bytes.Contains(raw, []byte("AQVN-secret-value")) {
		t.Error("keystore file contains the plaintext secret")
	}

	reopened, err := NewFileKeystore(path, StaticMasterKey("master-1"))
	if err != nil {
		t.Fatal(err)
	}
	if value, err := reopened.Get("yandex-vision"); err != nil || value != "AQVN-secret-value" {
		t.Errorf("Get() after reopen = %q, %v", value, err)
	}

	wrong, err := NewFileKeystore(path, StaticMasterKey("master-2"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wrong.Get("yandex-vision"); !errors.Is(err, ErrCorrupted) {
		t.Errorf("Get() with wrong master key error = %v, want ErrCorrupted", err)
	}
}

func TestFileKeystoreRejectsForeignFile(t *testing.T) {
	ks, path := newTestKeystore(t, "master-1")
	if err := os.WriteFile(path, []byte("not a keystore at all, just text"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ks.List(); !errors.Is(err, ErrCorrupted) {
		t.Errorf("List() error = %v, want ErrCorrupted", err)
	}
}

func TestFileKeystoreFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions are not enforced on Windows")
	}

	dir := filepath.Join(t.TempDir(), "nested", "dir")
	path := filepath.Join(dir, "keys.enc")
	ks, err := NewFileKeystore(path, StaticMasterKey("master-1"))
	if err != nil {
		t.Fatal(err)
	}
	if err := ks.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file permissions = %o, want 600", perm)
	}
	if ks.Path() != path {
		t.Errorf("Path() = %q", ks.Path())
	}
}

func TestMasterKeySources(t *testing.T) {
	t.Setenv(MasterKeyEnv, "from-env")
	key, err := EnvMasterKey().MasterKey()
	if err != nil || string(key) != "from-env" {
		t.Errorf("EnvMasterKey() = %q, %v", key, err)
	}

	t.Setenv(MasterKeyEnv, "")
	key, err = EnvMasterKey().MasterKey()
	if err != nil || len(key) != 32 {
		t.Errorf("EnvMasterKey() fallback = %d bytes, %v", len(key), err)
	}

	if _, err := NewFileKeystore("unused", StaticMasterKey("")); err == nil {
		t.Error("NewFileKeystore() with an empty master key should fail")
	}
}

func TestDefaultKeystorePath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("USERPROFILE", "/home/tester")

	if got := DefaultKeystorePath(); got != filepath.Join("/home/tester", ".yvision", "keys.enc") {
		t.Errorf("DefaultKeystorePath() = %q", got)
	}
}

func TestErrKeyNotFoundError(t *testing.T) {
	err := &ErrKeyNotFound{Name: "work"}
	if err.Error() != "key not found: work" {
		t.Errorf("Error() = %q", err.Error())
	}
}
