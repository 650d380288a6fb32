package gitrepo_test

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gitmaster/internal/gitrepo"
)

const (
	testWorkingTreeBranchConstant = "trunk"
	testWorkingTreeOriginConstant = "https://github.com/octocat/hello.git"
)

func initializeTestRepository(testInstance *testing.T, originURL string) string {
	testInstance.Helper()
	repositoryDirectory := testInstance.TempDir()
	repository, initError := git.PlainInitWithOptions(repositoryDirectory, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(testWorkingTreeBranchConstant)},
	})
	require.NoError(testInstance, initError)

	if len(originURL) > 0 {
		_, remoteError := repository.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{originURL}})
		require.NoError(testInstance, remoteError)
	}
	return repositoryDirectory
}

func TestWorkingTreeInspectorReportsBranchAndOrigin(testInstance *testing.T) {
	repositoryDirectory := initializeTestRepository(testInstance, testWorkingTreeOriginConstant)
	nestedDirectory := filepath.Join(repositoryDirectory, ".")

	summary, inspectError := gitrepo.NewWorkingTreeInspector().Inspect(nestedDirectory)
	require.NoError(testInstance, inspectError)
	require.Equal(testInstance, testWorkingTreeBranchConstant, summary.BranchName)
	require.False(testInstance, summary.DetachedHead)
	require.Equal(testInstance, testWorkingTreeOriginConstant, summary.OriginURL)
	require.NotNil(testInstance, summary.OriginReference)
	require.Equal(testInstance, gitrepo.RepositoryRef{Owner: "octocat", Name: "hello"}, *summary.OriginReference)
}

func TestWorkingTreeInspectorWithoutOrigin(testInstance *testing.T) {
	repositoryDirectory := initializeTestRepository(testInstance, "")

	summary, inspectError := gitrepo.NewWorkingTreeInspector().Inspect(repositoryDirectory)
	require.NoError(testInstance, inspectError)
	require.Equal(testInstance, testWorkingTreeBranchConstant, summary.BranchName)
	require.Empty(testInstance, summary.OriginURL)
	require.Nil(testInstance, summary.OriginReference)
}

func TestWorkingTreeInspectorOutsideRepository(testInstance *testing.T) {
	_, inspectError := gitrepo.NewWorkingTreeInspector().Inspect(testInstance.TempDir())
	require.ErrorIs(testInstance, inspectError, gitrepo.ErrNotARepository)
}
