package cas_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chip/internal/adapters/cas"
	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func openStore(t *testing.T, path string) (*cas.Store, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	store := cas.NewStore(log)
	require.NoError(t, store.Open(path))
	return store, log
}

func TestStore_OpenMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", "cache.json")

	store, _ := openStore(t, path)

	assert.Equal(t, 0, store.Len())
	_, ok := store.Get("repo/js/a.ts")
	assert.False(t, ok)
	assert.NoFileExists(t, path)
}

func TestStore_PutPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", "cache.json")
	record := domain.CacheRecord{SourceFingerprint: "sha256:abc", OutputTimestamp: 42}

	store, _ := openStore(t, path)
	require.NoError(t, store.Put("repo/js/a.ts", record))
	require.FileExists(t, path)

	reopened, _ := openStore(t, path)
	got, ok := reopened.Get("repo/js/a.ts")
	require.True(t, ok)
	assert.Equal(t, record, *got)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	store, _ := openStore(t, path)
	require.NoError(t, store.Put("a.ts", domain.CacheRecord{SourceFingerprint: "sha256:abc", OutputTimestamp: 1}))

	got, ok := store.Get("a.ts")
	require.True(t, ok)
	got.OutputTimestamp = 99

	again, _ := store.Get("a.ts")
	assert.Equal(t, int64(1), again.OutputTimestamp)
}

func TestStore_CorruptDocumentStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"repo/js/a.ts": {`), domain.FilePerm))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	store := cas.NewStore(log)
	require.NoError(t, store.Open(path))
	assert.Equal(t, 0, store.Len())

	require.NoError(t, store.Put("repo/js/b.ts", domain.CacheRecord{SourceFingerprint: "sha256:b", OutputTimestamp: 7}))

	reopened, _ := openStore(t, path)
	_, ok := reopened.Get("repo/js/b.ts")
	assert.True(t, ok)
}

func TestStore_EmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, nil, domain.FilePerm))

	store, _ := openStore(t, path)
	assert.Equal(t, 0, store.Len())
}

func TestStore_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	store, _ := openStore(t, path)
	require.NoError(t, store.Remove("missing.ts"))
	assert.NoFileExists(t, path, "removing an absent key must not write")

	require.NoError(t, store.Put("a.ts", domain.CacheRecord{SourceFingerprint: "sha256:a"}))
	require.NoError(t, store.Put("b.ts", domain.CacheRecord{SourceFingerprint: "sha256:b"}))
	require.NoError(t, store.Remove("a.ts"))

	reopened, _ := openStore(t, path)
	_, ok := reopened.Get("a.ts")
	assert.False(t, ok)
	_, ok = reopened.Get("b.ts")
	assert.True(t, ok)
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	store, _ := openStore(t, path)
	require.NoError(t, store.Put("a.ts", domain.CacheRecord{SourceFingerprint: "sha256:a"}))
	require.NoError(t, store.Clear())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
	assert.Equal(t, 0, store.Len())
}

func TestStore_Paths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	store, _ := openStore(t, path)
	for _, p := range []string{"sim/js/c.ts", "brand/phet/a.ts", "sim/js/b.js"} {
		require.NoError(t, store.Put(p, domain.CacheRecord{SourceFingerprint: "sha256:" + p}))
	}

	paths := slices.Collect(store.Paths())
	assert.Equal(t, []string{"brand/phet/a.ts", "sim/js/b.js", "sim/js/c.ts"}, paths)

	// Removing while iterating works on the snapshot.
	for p := range store.Paths() {
		require.NoError(t, store.Remove(p))
	}
	assert.Equal(t, 0, store.Len())
}

func TestStore_LeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	store, _ := openStore(t, path)
	for i := range 5 {
		require.NoError(t, store.Put("a.ts", domain.CacheRecord{SourceFingerprint: "sha256:a", OutputTimestamp: int64(i)}))
	}
	require.NoError(t, store.Flush())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache.json", entries[0].Name())
}

func TestStore_NotOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := cas.NewStore(mocks.NewMockLogger(ctrl))

	require.ErrorIs(t, store.Put("a.ts", domain.CacheRecord{}), domain.ErrStoreNotOpen)
	require.ErrorIs(t, store.Remove("a.ts"), domain.ErrStoreNotOpen)
	require.ErrorIs(t, store.Clear(), domain.ErrStoreNotOpen)
	require.ErrorIs(t, store.Flush(), domain.ErrStoreNotOpen)
}

func TestStore_DocumentFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	store, _ := openStore(t, path)
	require.NoError(t, store.Put("sim/js/Main.ts", domain.CacheRecord{
		SourceFingerprint: "sha256:2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae",
		OutputTimestamp:   1700000000000000000,
	}))
	require.NoError(t, store.Put("brand/phet/js/Brand.js", domain.CacheRecord{
		SourceFingerprint: "sha256:fcde2b2edba56bf408601fb721fe9b5c338d10ee429ea04fae5511b68fbf8fb9",
		OutputTimestamp:   1700000000500000000,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "cache_document", data)
}

func TestStore_FailedWriteKeepsMemoryInSyncWithDisk(t *testing.T) {
	dist := filepath.Join(t.TempDir(), "dist")
	path := filepath.Join(dist, "cache.json")
	original := domain.CacheRecord{SourceFingerprint: "sha256:abc", OutputTimestamp: 1}

	store, _ := openStore(t, path)
	require.NoError(t, store.Put("repo/js/a.ts", original))

	// Replace the document directory with a file so every write fails.
	require.NoError(t, os.RemoveAll(dist))
	require.NoError(t, os.WriteFile(dist, nil, 0o600))

	err := store.Put("repo/js/b.ts", domain.CacheRecord{SourceFingerprint: "sha256:def"})
	require.ErrorContains(t, err, domain.ErrStoreCreateFailed.Error())
	_, ok := store.Get("repo/js/b.ts")
	assert.False(t, ok, "a new record is dropped")

	require.Error(t, store.Put("repo/js/a.ts", domain.CacheRecord{SourceFingerprint: "sha256:new", OutputTimestamp: 2}))
	got, ok := store.Get("repo/js/a.ts")
	require.True(t, ok)
	assert.Equal(t, original, *got, "an overwritten record is restored")

	require.Error(t, store.Remove("repo/js/a.ts"))
	_, ok = store.Get("repo/js/a.ts")
	assert.True(t, ok, "a removed record is restored")

	require.Error(t, store.Clear())
	assert.Equal(t, 1, store.Len(), "cleared records are restored")
}
