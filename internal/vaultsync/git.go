package vaultsync

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"lorekeeper/internal/logging"
	"lorekeeper/pkg/fileops"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
)

// DirectoryStatus classifies what occupies the target clone directory.
type DirectoryStatus int

const (
	// DirectoryStatusEmpty means the directory is missing or empty and a
	// clone can proceed.
	DirectoryStatusEmpty DirectoryStatus = iota
	// DirectoryStatusSameRepo means the directory already holds a clone
	// of the configured remote and a fetch is enough.
	DirectoryStatusSameRepo
	// DirectoryStatusDifferentRepo means the directory holds some other
	// git repository and must be resolved by the user.
	DirectoryStatusDifferentRepo
	// DirectoryStatusConflict means the directory holds non-git content.
	DirectoryStatusConflict
	// DirectoryStatusError means the status could not be determined.
	DirectoryStatusError
)

func (ds DirectoryStatus) String() string {
	switch ds {
	case DirectoryStatusEmpty:
		return "empty or doesn't exist"
	case DirectoryStatusSameRepo:
		return "same git repository"
	case DirectoryStatusDifferentRepo:
		return "different git repository"
	case DirectoryStatusConflict:
		return "contains non-git content"
	case DirectoryStatusError:
		return "validation error"
	default:
		return "unknown status"
	}
}

// GitSource is a vault hosted in a Git repository. It clones on first
// use and fetches on later syncs, keeping a read-only local mirror.
//
// Authentication is tried public-first; private repositories fall back to
// a GitHub Personal Access Token from the OS credential store. SSH URLs
// are converted to HTTPS so a single token-based auth path covers both.
type GitSource struct {
	RemoteURL string  // repository URL, HTTPS or SSH form
	Branch    *string // nil means the remote's default branch
	Path      string  // local directory for the mirror
}

func NewGitSource(remoteURL string, branch *string, localPath string) GitSource {
	return GitSource{
		RemoteURL: remoteURL,
		Branch:    branch,
		Path:      localPath,
	}
}

// Prepare clones or fetches the repository and returns the mirror path.
// A dirty working tree skips the fetch rather than discarding changes.
func (gs GitSource) Prepare(logger *logging.AppLogger) (string, SyncInfo, error) {
	if logger != nil {
		logger.Info("Preparing git vault source",
			"remoteURL", gs.RemoteURL,
			"branch", gs.Branch,
			"localPath", gs.Path)
	}

	if err := gs.validateInputs(); err != nil {
		return "", SyncInfo{}, err
	}

	normalizedURL, err := gs.normalizeRemoteURL()
	if err != nil {
		return "", SyncInfo{}, fmt.Errorf("invalid remote URL: %w", err)
	}

	cleanPath, err := gs.validateLocalPath()
	if err != nil {
		return "", SyncInfo{}, err
	}

	dirStatus, err := gs.validateCloneDirectory(cleanPath, normalizedURL)
	if dirStatus == DirectoryStatusConflict || dirStatus == DirectoryStatusDifferentRepo {
		return "", SyncInfo{}, fmt.Errorf("directory conflict at %s (%s): remove or relocate the existing directory",
			cleanPath, dirStatus)
	}
	if err != nil {
		return "", SyncInfo{}, err
	}

	var info SyncInfo
	switch dirStatus {
	case DirectoryStatusEmpty:
		if err := gs.performCloneWithAuth(cleanPath, normalizedURL, logger); err != nil {
			return "", SyncInfo{}, err
		}
		info = SyncInfo{Cloned: true, Message: "Vault cloned"}

	case DirectoryStatusSameRepo:
		dirty, err := gs.performFetchWithAuth(cleanPath, logger)
		if err != nil {
			return "", SyncInfo{}, err
		}
		if dirty {
			info = SyncInfo{Dirty: true, Message: "Vault has local changes, sync skipped"}
		} else {
			info = SyncInfo{Updated: true, Message: "Vault updated"}
		}

	default:
		return "", SyncInfo{}, fmt.Errorf("unexpected directory status: %s", dirStatus)
	}

	if logger != nil {
		logger.Info("Git vault prepared", "localPath", cleanPath)
	}
	return cleanPath, info, nil
}

func (gs GitSource) validateInputs() error {
	if strings.TrimSpace(gs.RemoteURL) == "" {
		return fmt.Errorf("remote URL cannot be empty")
	}
	if strings.TrimSpace(gs.Path) == "" {
		return fmt.Errorf("local path cannot be empty")
	}
	return nil
}

// normalizeRemoteURL rewrites the configured URL as HTTPS with a .git
// suffix so SSH and HTTPS spellings of the same repository compare equal.
func (gs GitSource) normalizeRemoteURL() (string, error) {
	info, err := ParseGitURL(strings.TrimSpace(gs.RemoteURL))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s/%s/%s.git", info.Host, info.Owner, info.Repo), nil
}

func (gs GitSource) validateLocalPath() (string, error) {
	clean := filepath.Clean(fileops.ExpandPath(gs.Path))
	if err := fileops.ValidateStoragePath(clean); err != nil {
		return "", fmt.Errorf("invalid local path: %w", err)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("cannot resolve absolute path: %w", err)
	}
	return abs, nil
}

// getAuthentication returns PAT credentials when a token is stored, or
// nil auth so public access can be attempted.
func (gs GitSource) getAuthentication(logger *logging.AppLogger) (*http.BasicAuth, error) {
	credMgr := NewCredentialManager()
	if !credMgr.HasGitHubToken() {
		return nil, nil
	}

	token, err := credMgr.GetGitHubToken()
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Debug("Using GitHub Personal Access Token for authentication")
	}
	// GitHub PAT auth uses "token" as the username.
	return &http.BasicAuth{Username: "token", Password: token}, nil
}

func (gs GitSource) performCloneWithAuth(localPath, remoteURL string, logger *logging.AppLogger) error {
	// Public access first, credentials only when the remote demands them.
	err := gs.performClone(localPath, remoteURL, nil, logger)
	if err == nil {
		return nil
	}

	if gs.isAuthenticationError(err) {
		if logger != nil {
			logger.Debug("Public access failed, trying with authentication")
		}
		auth, authErr := gs.getAuthentication(logger)
		if authErr != nil {
			return fmt.Errorf("GitHub authentication failed: %w", authErr)
		}
		if auth == nil {
			return fmt.Errorf("GitHub authentication required - store a Personal Access Token with 'lorekeeper sync --token'")
		}
		return gs.performClone(localPath, remoteURL, auth, logger)
	}

	return err
}

func (gs GitSource) performClone(localPath, remoteURL string, auth *http.BasicAuth, logger *logging.AppLogger) error {
	if logger != nil {
		logger.Info("Cloning vault repository", "remoteURL", remoteURL, "localPath", localPath)
	}

	parentDir := filepath.Dir(localPath)
	if err := fileops.ValidateStoragePath(parentDir); err != nil {
		return fmt.Errorf("parent directory failed validation: %w", err)
	}
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	cloneOpts := &git.CloneOptions{
		URL: remoteURL,
	}
	if auth != nil {
		cloneOpts.Auth = auth
	}
	if gs.Branch != nil && *gs.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(*gs.Branch)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.PlainClone(localPath, cloneOpts); err != nil {
		return gs.translateCloneError(err)
	}

	if logger != nil {
		logger.Info("Vault repository cloned", "localPath", localPath)
	}
	return nil
}

// performFetchWithAuth fetches updates into an existing clone, trying
// public access first. Returns dirty=true when local changes blocked the
// sync.
func (gs GitSource) performFetchWithAuth(localPath string, logger *logging.AppLogger) (bool, error) {
	dirty, err := gs.performFetch(localPath, nil, logger)
	if err == nil {
		return dirty, nil
	}

	if gs.isAuthenticationError(err) {
		if logger != nil {
			logger.Debug("Public fetch failed, trying with authentication")
		}
		auth, authErr := gs.getAuthentication(logger)
		if authErr != nil {
			return false, fmt.Errorf("GitHub authentication failed: %w", authErr)
		}
		if auth == nil {
			return false, fmt.Errorf("GitHub authentication required - store a Personal Access Token with 'lorekeeper sync --token'")
		}
		return gs.performFetch(localPath, auth, logger)
	}

	return false, err
}

func (gs GitSource) performFetch(localPath string, auth *http.BasicAuth, logger *logging.AppLogger) (bool, error) {
	if logger != nil {
		logger.Info("Fetching vault updates", "localPath", localPath)
	}

	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return false, fmt.Errorf("failed to open existing repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get working tree status: %w", err)
	}

	// Local edits win. The user resolves them, not us.
	if !status.IsClean() {
		if logger != nil {
			logger.Warn("Vault working tree has uncommitted changes, skipping sync")
		}
		return true, nil
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return false, fmt.Errorf("failed to get origin remote: %w", err)
	}

	err = remote.Fetch(&git.FetchOptions{
		Auth:  auth,
		Force: true, // handle force-pushed campaign repos
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return false, gs.translateFetchError(err)
	}

	if logger != nil {
		if err == git.NoErrAlreadyUpToDate {
			logger.Debug("Vault already up to date")
		} else {
			logger.Info("Vault updated")
		}
	}

	if gs.Branch != nil && *gs.Branch != "" {
		if err := gs.checkoutBranch(repo, worktree, *gs.Branch, logger); err != nil {
			// A bad branch config should not make the vault unreadable.
			if logger != nil {
				logger.Warn("Failed to checkout configured branch",
					"branch", *gs.Branch,
					"error", err)
			}
		}
	}

	return false, nil
}

// IsDirty reports whether the local clone has uncommitted changes.
func IsDirty(repoPath string) (bool, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return false, fmt.Errorf("failed to open repository: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get working tree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get repository status: %w", err)
	}
	return !status.IsClean(), nil
}

func (gs GitSource) translateCloneError(err error) error {
	errMsg := err.Error()
	errStr := strings.ToLower(errMsg)

	if gs.containsAuthErrorPatterns(errMsg) {
		if strings.Contains(errStr, "403") || strings.Contains(errStr, "forbidden") {
			return fmt.Errorf("GitHub token lacks required permissions - ensure 'repo' scope is enabled")
		}
		return fmt.Errorf("GitHub authentication failed - update your Personal Access Token")
	}
	if strings.Contains(errStr, "404") || strings.Contains(errStr, "not found") {
		return fmt.Errorf("repository not found - check the URL or ensure you have access: %s", gs.RemoteURL)
	}
	if strings.Contains(errStr, "network") || strings.Contains(errStr, "connection") || strings.Contains(errStr, "timeout") {
		return fmt.Errorf("network error during clone - check your connection and try again: %w", err)
	}
	return fmt.Errorf("failed to clone vault repository: %w", err)
}

func (gs GitSource) translateFetchError(err error) error {
	errMsg := err.Error()
	errStr := strings.ToLower(errMsg)

	if gs.containsAuthErrorPatterns(errMsg) {
		return fmt.Errorf("GitHub token has expired or is invalid - update your Personal Access Token")
	}
	if strings.Contains(errStr, "network") || strings.Contains(errStr, "connection") || strings.Contains(errStr, "timeout") {
		return fmt.Errorf("network error during fetch - vault will use cached version: %w", err)
	}
	return fmt.Errorf("failed to fetch vault updates: %w", err)
}

func (gs GitSource) isAuthenticationError(err error) bool {
	if err == nil {
		return false
	}
	return gs.containsAuthErrorPatterns(err.Error())
}

func (gs GitSource) containsAuthErrorPatterns(errMsg string) bool {
	errStr := strings.ToLower(errMsg)
	authPatterns := []string{
		"authentication required",
		"401",
		"unauthorized",
		"403",
		"forbidden",
	}
	for _, pattern := range authPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// GitURLInfo holds the parsed components of a repository URL.
type GitURLInfo struct {
	Host  string
	Owner string
	Repo  string // without .git suffix
}

// ParseGitURL extracts host, owner and repo from an SSH
// (git@host:owner/repo.git) or HTTPS (https://host/owner/repo.git) URL.
func ParseGitURL(gitURL string) (GitURLInfo, error) {
	gitURL = strings.TrimSpace(gitURL)

	sshPattern := regexp.MustCompile(`^git@([^:]+):([^/]+)/(.+?)(?:\.git)?$`)
	if matches := sshPattern.FindStringSubmatch(gitURL); matches != nil {
		return GitURLInfo{
			Host:  matches[1],
			Owner: matches[2],
			Repo:  matches[3],
		}, nil
	}

	parsedURL, err := url.Parse(gitURL)
	if err != nil {
		return GitURLInfo{}, fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Host == "" {
		return GitURLInfo{}, fmt.Errorf("URL missing host component")
	}

	pathParts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	if len(pathParts) < 2 {
		return GitURLInfo{}, fmt.Errorf("URL path should contain owner/repo: %s", parsedURL.Path)
	}

	owner := pathParts[0]
	repo := strings.TrimSuffix(pathParts[1], ".git")
	if owner == "" || repo == "" {
		return GitURLInfo{}, fmt.Errorf("could not extract owner/repo from URL path: %s", parsedURL.Path)
	}

	return GitURLInfo{
		Host:  parsedURL.Host,
		Owner: owner,
		Repo:  repo,
	}, nil
}

// validateCloneDirectory decides whether clonePath can take a clone of
// expectedRemoteURL: missing or empty directories can, an existing clone
// of the same remote can be fetched, anything else needs the user.
func (gs GitSource) validateCloneDirectory(clonePath, expectedRemoteURL string) (DirectoryStatus, error) {
	info, err := os.Stat(clonePath)
	if os.IsNotExist(err) {
		return DirectoryStatusEmpty, nil
	}
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot access directory %s: %w", clonePath, err)
	}
	if !info.IsDir() {
		return DirectoryStatusError, fmt.Errorf("path exists but is not a directory: %s", clonePath)
	}

	isEmpty, err := fileops.IsDirEmpty(clonePath)
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot check if directory is empty: %w", err)
	}
	if isEmpty {
		return DirectoryStatusEmpty, nil
	}

	currentRemote, err := gs.getGitRemoteURL(clonePath)
	if err != nil {
		if strings.Contains(err.Error(), "not a git repository") {
			return DirectoryStatusConflict, fmt.Errorf("directory contains non-git content: %s", clonePath)
		}
		return DirectoryStatusError, fmt.Errorf("cannot get current git remote URL: %w", err)
	}

	if gs.normalizeGitURL(currentRemote) == gs.normalizeGitURL(expectedRemoteURL) {
		return DirectoryStatusSameRepo, nil
	}
	return DirectoryStatusDifferentRepo, fmt.Errorf("directory contains different git repository (current: %s, expected: %s)", currentRemote, expectedRemoteURL)
}

func (gs GitSource) getGitRemoteURL(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return "", fmt.Errorf("directory is not a git repository: %s", repoPath)
		}
		return "", fmt.Errorf("cannot open git repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("cannot get origin remote: %w", err)
	}

	config := remote.Config()
	if config == nil || len(config.URLs) == 0 {
		return "", fmt.Errorf("no URLs configured for origin remote")
	}
	return config.URLs[0], nil
}

// normalizeGitURL reduces SSH and HTTPS spellings of the same repository
// to a common host/owner/repo form for comparison.
func (gs GitSource) normalizeGitURL(gitURL string) string {
	gitURL = strings.TrimSpace(gitURL)
	gitURL = strings.TrimSuffix(gitURL, ".git")

	sshPattern := regexp.MustCompile(`^git@([^:]+):(.+)$`)
	if matches := sshPattern.FindStringSubmatch(gitURL); matches != nil {
		return matches[1] + "/" + matches[2]
	}

	if after, found := strings.CutPrefix(gitURL, "https://"); found {
		return after
	}
	if after, found := strings.CutPrefix(gitURL, "http://"); found {
		return after
	}
	return gitURL
}

// checkoutBranch switches the worktree to branchName, creating the local
// branch from origin when it does not exist yet.
func (gs GitSource) checkoutBranch(repo *git.Repository, worktree *git.Worktree, branchName string, logger *logging.AppLogger) error {
	if logger != nil {
		logger.Debug("Checking out branch", "branch", branchName)
	}

	head, err := repo.Head()
	if err != nil && err != plumbing.ErrReferenceNotFound {
		return fmt.Errorf("failed to get current branch: %w", err)
	}
	if head != nil && head.Name().Short() == branchName {
		return nil
	}

	localBranchRef := plumbing.NewBranchReferenceName(branchName)
	remoteBranchRef := plumbing.NewRemoteReferenceName("origin", branchName)

	if _, err := repo.Reference(remoteBranchRef, true); err != nil {
		return fmt.Errorf("branch '%s' does not exist on remote 'origin'", branchName)
	}

	_, err = repo.Reference(localBranchRef, true)
	if err == plumbing.ErrReferenceNotFound {
		remoteRef, err := repo.Reference(remoteBranchRef, true)
		if err != nil {
			return fmt.Errorf("failed to get remote branch reference: %w", err)
		}
		newRef := plumbing.NewHashReference(localBranchRef, remoteRef.Hash())
		if err := repo.Storer.SetReference(newRef); err != nil {
			return fmt.Errorf("failed to create local branch: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to get local branch reference: %w", err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Branch: localBranchRef}); err != nil {
		return fmt.Errorf("failed to checkout branch: %w", err)
	}

	if logger != nil {
		logger.Info("Checked out branch", "branch", branchName)
	}
	return nil
}
