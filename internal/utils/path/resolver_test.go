package pathutils_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/gitmaster/internal/utils/path"
)

func TestResolverResolve(testInstance *testing.T) {
	homeDirectory := filepath.Join(string(filepath.Separator), "home", "octocat")
	environment := map[string]string{"CONFIG_ROOT": "/etc/gitmaster"}
	expandEnvironment := func(value string) string {
		for name, replacement := range environment {
			value = strings.ReplaceAll(value, "$"+name, replacement)
		}
		return value
	}

	testCases := []struct {
		name         string
		homeError    error
		candidate    string
		expectedPath string
	}{
		{name: "blank", candidate: "  ", expectedPath: ""},
		{name: "absolute", candidate: "/var/log/gitmaster_log.txt", expectedPath: "/var/log/gitmaster_log.txt"},
		{name: "relative", candidate: "gitmaster_log.txt", expectedPath: "gitmaster_log.txt"},
		{name: "home_only", candidate: "~", expectedPath: homeDirectory},
		{name: "home_prefix", candidate: "~/.gitmaster/github_config.yaml", expectedPath: filepath.Join(homeDirectory, ".gitmaster", "github_config.yaml")},
		{name: "environment_variable", candidate: "$CONFIG_ROOT/credentials.yaml", expectedPath: "/etc/gitmaster/credentials.yaml"},
		{name: "other_user_unsupported", candidate: "~octocat/file", expectedPath: "~octocat/file"},
		{name: "home_unavailable", homeError: errors.New("no home"), candidate: "~/file", expectedPath: "~/file"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolver := pathutils.NewResolverWithProviders(func() (string, error) {
				return homeDirectory, testCase.homeError
			}, expandEnvironment)
			require.Equal(testInstance, testCase.expectedPath, resolver.Resolve(testCase.candidate))
		})
	}
}

func TestNilResolverReturnsTrimmedInput(testInstance *testing.T) {
	var resolver *pathutils.Resolver
	require.Equal(testInstance, "~/file", resolver.Resolve(" ~/file "))
}
