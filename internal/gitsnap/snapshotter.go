// Package gitsnap drives the cloned repository: commit history summary,
// per-branch tree materialization, and bundle packaging.
package gitsnap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	cp "github.com/otiai10/copy"
	logger "github.com/sirupsen/logrus"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
)

const (
	latestCommitCount = 5

	// BranchesDir is the container for materialized branch trees.
	BranchesDir = "branches"
	// ReleasesDir is the container for downloaded releases.
	ReleasesDir = "releases"
)

// CloneOptions restrict what is cloned.
type CloneOptions struct {
	Branch      string // single-branch restriction, empty for the default
	AllBranches bool
}

// Snapshot is a cloned working copy plus its repository handle.
type Snapshot struct {
	Path          string
	DefaultBranch string

	repo *git.Repository
}

// Clone clones the repository into dest and returns the snapshot. A clone
// failure is fatal to the pipeline.
func Clone(ctx context.Context, url, dest string, opts CloneOptions) (*Snapshot, error) {
	cloneOpts := &git.CloneOptions{URL: url}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, dest, false, cloneOpts)
	if err != nil {
		return nil, fmt.Errorf("cloning %s: %w", url, err)
	}

	snap := &Snapshot{Path: dest, repo: repo}

	head, err := repo.Head()
	if err == nil && head.Name().IsBranch() {
		snap.DefaultBranch = head.Name().Short()
	}
	return snap, nil
}

// Summarize derives the commit history summary: first/last commit dates,
// total count, and the latest commits with provider web links. An empty
// repository yields the current time and a zero count.
func (s *Snapshot) Summarize(repo *entities.Repository) {
	iter, err := s.repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		logger.Warnf("Could not walk commit history: %v", err)
		repo.FirstCommitDate = time.Now()
		repo.LastCommitDate = repo.FirstCommitDate
		return
	}

	var (
		total  int
		first  time.Time
		last   time.Time
		latest []entities.CommitRecord
	)
	_ = iter.ForEach(func(c *object.Commit) error {
		when := c.Committer.When
		if first.IsZero() || when.Before(first) {
			first = when
		}
		if when.After(last) {
			last = when
		}
		if total < latestCommitCount {
			latest = append(latest, commitRecord(repo, c))
		}
		total++
		return nil
	})

	if total == 0 {
		repo.FirstCommitDate = time.Now()
		repo.LastCommitDate = repo.FirstCommitDate
		repo.TotalCommits = 0
		return
	}

	repo.FirstCommitDate = first
	repo.LastCommitDate = last
	repo.TotalCommits = total
	repo.LatestCommits = latest
}

func commitRecord(repo *entities.Repository, c *object.Commit) entities.CommitRecord {
	rec := entities.CommitRecord{
		SHA:           c.Hash.String(),
		Author:        c.Author.Name,
		AuthorEmail:   c.Author.Email,
		AuthorDate:    c.Author.When,
		Committer:     c.Committer.Name,
		CommitterDate: c.Committer.When,
		Message:       strings.TrimSpace(c.Message),
		WebURL:        CommitURL(repo, c.Hash.String()),
	}
	for _, parent := range c.ParentHashes {
		rec.Parents = append(rec.Parents, parent.String())
	}
	if stats, err := c.Stats(); err == nil {
		rec.FilesChanged = len(stats)
		for _, fs := range stats {
			rec.Additions += fs.Addition
			rec.Deletions += fs.Deletion
		}
	}
	return rec
}

// CommitURL builds the provider's web link for a commit. GitLab uses a
// /-/commit/ path and Bitbucket uses /commits/; everything else follows the
// /commit/ convention.
func CommitURL(repo *entities.Repository, sha string) string {
	base := repo.Metadata.HTMLURL
	if base == "" {
		base = fmt.Sprintf("https://%s/%s/%s", repo.Domain, repo.Owner, repo.Name)
	}
	base = strings.TrimSuffix(base, "/")

	switch repo.GitSite {
	case "gitlab":
		return fmt.Sprintf("%s/-/commit/%s", base, sha)
	case "bitbucket":
		return fmt.Sprintf("%s/commits/%s", base, sha)
	default:
		return fmt.Sprintf("%s/commit/%s", base, sha)
	}
}

// MaterializeBranches writes every non-default remote branch into
// branches/<sanitized>/ by checking the branch out and copying the working
// tree. A failure on one branch is logged and the rest continue; a failure
// listing branches degrades to single-branch. The default branch is always
// re-checked-out afterwards so the repository root reflects its content.
func (s *Snapshot) MaterializeBranches(repo *entities.Repository) {
	branches, err := s.remoteBranches()
	if err != nil {
		logger.Warnf("Could not list remote branches, treating repository as single-branch: %v", err)
		repo.Branches = []string{s.DefaultBranch}
		return
	}
	repo.Branches = branchNames(branches, s.DefaultBranch)

	worktree, err := s.repo.Worktree()
	if err != nil {
		logger.Warnf("Could not open worktree: %v", err)
		return
	}
	defer s.restoreDefault(worktree)

	for name, hash := range branches {
		if name == s.DefaultBranch {
			continue
		}
		if matErr := s.materializeOne(worktree, name, hash); matErr != nil {
			logger.Warnf("Skipping branch %q: %v", name, matErr)
		}
	}
}

func (s *Snapshot) materializeOne(worktree *git.Worktree, name string, hash plumbing.Hash) error {
	localRef := plumbing.NewBranchReferenceName(name)
	checkoutOpts := &git.CheckoutOptions{Branch: localRef, Force: true}
	if _, refErr := s.repo.Reference(localRef, false); refErr != nil {
		checkoutOpts.Create = true
		checkoutOpts.Hash = hash
	}
	if err := worktree.Checkout(checkoutOpts); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	dest := filepath.Join(s.Path, BranchesDir, SanitizeBranchName(name))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	err := cp.Copy(s.Path, dest, cp.Options{
		Skip: func(_ os.FileInfo, src, _ string) (bool, error) {
			rel, relErr := filepath.Rel(s.Path, src)
			if relErr != nil {
				return true, nil
			}
			return skipInMaterialization(rel), nil
		},
	})
	if err != nil {
		return fmt.Errorf("copying tree: %w", err)
	}
	logger.Infof("Materialized branch %q", name)
	return nil
}

// skipInMaterialization excludes version-control internals, the branches
// container itself, release subtrees, and generated info files from branch
// copies, which would otherwise recurse indefinitely.
func skipInMaterialization(rel string) bool {
	slashed := filepath.ToSlash(rel)
	first, _, nested := strings.Cut(slashed, "/")
	switch first {
	case git.GitDirName, BranchesDir, ReleasesDir:
		return true
	}
	if !nested && (strings.HasSuffix(first, ".bundle") || strings.HasSuffix(first, ".json")) {
		return true
	}
	return false
}

func (s *Snapshot) restoreDefault(worktree *git.Worktree) {
	if s.DefaultBranch == "" {
		return
	}
	err := worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(s.DefaultBranch),
		Force:  true,
	})
	if err != nil {
		logger.Warnf("Could not restore default branch %q: %v", s.DefaultBranch, err)
	}
}

// remoteBranches maps branch name to commit hash for every remote branch of
// origin, excluding the symbolic HEAD.
func (s *Snapshot) remoteBranches() (map[string]plumbing.Hash, error) {
	refs, err := s.repo.References()
	if err != nil {
		return nil, err
	}

	const remotePrefix = "refs/remotes/origin/"
	branches := map[string]plumbing.Hash{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if !strings.HasPrefix(name, remotePrefix) || ref.Type() != plumbing.HashReference {
			return nil
		}
		short := strings.TrimPrefix(name, remotePrefix)
		if short == "HEAD" {
			return nil
		}
		branches[short] = ref.Hash()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}

func branchNames(branches map[string]plumbing.Hash, defaultBranch string) []string {
	names := make([]string, 0, len(branches)+1)
	if defaultBranch != "" {
		names = append(names, defaultBranch)
	}
	for name := range branches {
		if name != defaultBranch {
			names = append(names, name)
		}
	}
	return names
}

// SanitizeBranchName maps a branch name to a filesystem-safe directory name.
// Path separators and the characters Windows rejects become hyphens;
// leading and trailing dots and spaces are stripped. The function is
// idempotent.
func SanitizeBranchName(name string) string {
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '<', '>', ':', '"', '|', '?', '*':
			return '-'
		default:
			return r
		}
	}, name)
	return strings.Trim(replaced, ". ")
}
