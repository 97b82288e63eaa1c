package archive_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andres9890/iagitbetter/internal/archive"
	"github.com/Andres9890/iagitbetter/internal/domain/entities"
)

// stubItemRepository records upload calls and answers from canned state.
type stubItemRepository struct {
	exists    bool
	existsErr error
	failKeys  map[string]bool

	uploads  []string
	metadata map[string]map[string]string
	derived  []string
}

func newStubItemRepository() *stubItemRepository {
	return &stubItemRepository{
		failKeys: map[string]bool{},
		metadata: map[string]map[string]string{},
	}
}

func (s *stubItemRepository) Exists(_ context.Context, _ string) (bool, error) {
	return s.exists, s.existsErr
}

func (s *stubItemRepository) Upload(_ context.Context, _, key, _ string, metadata map[string]string, queueDerive bool) error {
	if s.failKeys[key] {
		return errors.New("simulated failure")
	}
	s.uploads = append(s.uploads, key)
	s.metadata[key] = metadata
	if queueDerive {
		s.derived = append(s.derived, key)
	}
	return nil
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	t.Run("should be deterministic for identical inputs", func(t *testing.T) {
		t.Parallel()

		// given
		ts := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

		// when
		first := archive.Identifier("octo", "repo", ts)
		second := archive.Identifier("octo", "repo", ts)

		// then
		assert.Equal(t, "octo-repo-20240315103045", first)
		assert.Equal(t, first, second)
	})
}

func TestIdentifierTime(t *testing.T) {
	t.Parallel()

	t.Run("should use the first commit date when history exists", func(t *testing.T) {
		t.Parallel()

		// given
		firstCommit := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		repo := &entities.Repository{TotalCommits: 10, FirstCommitDate: firstCommit}

		// when
		got := archive.IdentifierTime(repo, time.Now())

		// then
		assert.Equal(t, firstCommit, got)
	})

	t.Run("should fall back to the archive time for an empty history", func(t *testing.T) {
		t.Parallel()

		// given
		archivedAt := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)

		// when
		got := archive.IdentifierTime(&entities.Repository{}, archivedAt)

		// then
		assert.Equal(t, archivedAt, got)
	})
}

func TestUploaderRun(t *testing.T) {
	t.Parallel()

	manifest := func() *entities.UploadManifest {
		return &entities.UploadManifest{
			Identifier: "octo-repo-20240315103045",
			Title:      "octo - repo",
			Metadata:   map[string]string{"title": "octo - repo"},
			Files: map[string]string{
				"octo-repo.bundle": "/tmp/w/octo-repo.bundle",
				"repo.json":        "/tmp/w/repo.json",
				"README.md":        "/tmp/w/README.md",
				"src/main.go":      "/tmp/w/src/main.go",
			},
		}
	}
	infoKeys := []string{"octo-repo.bundle", "repo.json"}

	t.Run("should short-circuit when the item already exists", func(t *testing.T) {
		t.Parallel()

		// given
		stub := newStubItemRepository()
		stub.exists = true

		// when
		report, err := archive.NewUploader(stub).Run(context.Background(), manifest(), infoKeys)

		// then
		require.NoError(t, err)
		assert.True(t, report.AlreadyArchived)
		assert.Empty(t, stub.uploads)
	})

	t.Run("should attach metadata only to the first info upload", func(t *testing.T) {
		t.Parallel()

		// given
		stub := newStubItemRepository()

		// when
		report, err := archive.NewUploader(stub).Run(context.Background(), manifest(), infoKeys)

		// then
		require.NoError(t, err)
		assert.True(t, report.InfoUploaded)
		assert.Equal(t, 2, report.ContentUploaded)
		assert.Len(t, stub.uploads, 4)
		// info batch comes first, sorted
		assert.Equal(t, "octo-repo.bundle", stub.uploads[0])
		assert.NotNil(t, stub.metadata["octo-repo.bundle"])
		assert.Nil(t, stub.metadata["repo.json"])
		assert.Nil(t, stub.metadata["README.md"])
	})

	t.Run("should queue the derive only on the final upload", func(t *testing.T) {
		t.Parallel()

		// given
		stub := newStubItemRepository()

		// when
		_, err := archive.NewUploader(stub).Run(context.Background(), manifest(), infoKeys)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"src/main.go"}, stub.derived)
	})

	t.Run("should queue the derive on the info batch when there is no content", func(t *testing.T) {
		t.Parallel()

		// given
		stub := newStubItemRepository()
		bundleOnly := &entities.UploadManifest{
			Identifier: "octo-repo-20240315103045",
			Metadata:   map[string]string{"title": "octo - repo"},
			Files: map[string]string{
				"octo-repo.bundle": "/tmp/w/octo-repo.bundle",
				"repo.json":        "/tmp/w/repo.json",
			},
		}

		// when
		_, err := archive.NewUploader(stub).Run(context.Background(), bundleOnly, infoKeys)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"repo.json"}, stub.derived)
	})

	t.Run("should fail the existence check hard", func(t *testing.T) {
		t.Parallel()

		// given
		stub := newStubItemRepository()
		stub.existsErr = errors.New("metadata endpoint down")

		// when
		_, err := archive.NewUploader(stub).Run(context.Background(), manifest(), infoKeys)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "existence check")
	})

	t.Run("should collect content failures and keep going", func(t *testing.T) {
		t.Parallel()

		// given
		stub := newStubItemRepository()
		stub.failKeys["README.md"] = true

		// when
		report, err := archive.NewUploader(stub).Run(context.Background(), manifest(), infoKeys)

		// then
		require.Error(t, err)
		assert.Equal(t, []string{"README.md"}, report.Failed)
		assert.Equal(t, 1, report.ContentUploaded)
		assert.True(t, report.InfoUploaded)
	})

	t.Run("should stop after the info batch fails entirely", func(t *testing.T) {
		t.Parallel()

		// given
		stub := newStubItemRepository()
		stub.failKeys["octo-repo.bundle"] = true
		stub.failKeys["repo.json"] = true

		// when
		report, err := archive.NewUploader(stub).Run(context.Background(), manifest(), infoKeys)

		// then
		require.Error(t, err)
		assert.False(t, report.InfoUploaded)
		assert.Zero(t, report.ContentUploaded)
	})
}

func TestBuildManifest(t *testing.T) {
	t.Parallel()

	t.Run("should assemble the canonical metadata keys", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &entities.Repository{
			URL:             "https://github.com/octo/repo",
			Owner:           "octo",
			Name:            "repo",
			GitSite:         "github",
			DefaultBranch:   "main",
			Branches:        []string{"main"},
			TotalCommits:    42,
			FirstCommitDate: time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC),
			Metadata: entities.RepoMetadata{
				Language: "Go",
				Stars:    10,
				License:  "MIT License",
				Topics:   []string{"archiving"},
			},
		}

		// when
		manifest := archive.BuildManifest(repo, "octo-repo-20210203040506", "desc", nil, time.Now(), nil)

		// then
		assert.Equal(t, "octo - repo", manifest.Title)
		assert.Equal(t, "software", manifest.Metadata["mediatype"])
		assert.Equal(t, "opensource_media", manifest.Metadata["collection"])
		assert.Equal(t, "2021-02-03", manifest.Metadata["date"])
		assert.Equal(t, "2021", manifest.Metadata["year"])
		assert.Equal(t, "octo", manifest.Metadata["creator"])
		assert.Equal(t, "42", manifest.Metadata["totalcommits"])
		assert.Equal(t, "Go", manifest.Metadata["language"])
		assert.Equal(t, "main", manifest.Metadata["branch"])
		assert.Equal(t, "10", manifest.Metadata["stars"])
		assert.Equal(t, "MIT License", manifest.Metadata["license"])
		assert.Equal(t, "https://opensource.org/licenses/MIT", manifest.Metadata["licenseurl"])
		assert.Contains(t, manifest.Metadata["subject"], "git;code;github")
		assert.Contains(t, manifest.Metadata["subject"], "archiving")
		assert.Contains(t, manifest.Metadata["scanner"], "iagitbetter")
	})

	t.Run("should list branches when more than one was archived", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &entities.Repository{
			Owner:    "octo",
			Name:     "repo",
			Branches: []string{"main", "dev"},
		}

		// when
		manifest := archive.BuildManifest(repo, "id", "", nil, time.Now(), nil)

		// then
		assert.Equal(t, "2", manifest.Metadata["branches"])
		assert.Equal(t, "main;dev", manifest.Metadata["branchlist"])
		assert.Empty(t, manifest.Metadata["branch"])
	})

	t.Run("should default the language to Unknown", func(t *testing.T) {
		t.Parallel()

		// when
		manifest := archive.BuildManifest(&entities.Repository{Owner: "o", Name: "r"}, "id", "", nil, time.Now(), nil)

		// then
		assert.Equal(t, "Unknown", manifest.Metadata["language"])
	})

	t.Run("should let custom metadata override computed keys", func(t *testing.T) {
		t.Parallel()

		// given
		custom := map[string]string{"collection": "test_collection", "extra": "value"}

		// when
		manifest := archive.BuildManifest(&entities.Repository{Owner: "o", Name: "r"}, "id", "", nil, time.Now(), custom)

		// then
		assert.Equal(t, "test_collection", manifest.Metadata["collection"])
		assert.Equal(t, "value", manifest.Metadata["extra"])
	})
}
