package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutConstant = "~"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// EnvironmentExpander substitutes $VARIABLE references in a path.
type EnvironmentExpander func(string) string

// Resolver turns configured file locations into usable paths.
// It expands a leading "~" to the home directory and $VARIABLE references from the environment.
type Resolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	environmentExpander   EnvironmentExpander
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewResolver constructs a Resolver backed by the operating system.
func NewResolver() *Resolver {
	return NewResolverWithProviders(os.UserHomeDir, os.ExpandEnv)
}

// NewResolverWithProviders constructs a Resolver with custom home and environment lookups.
func NewResolverWithProviders(homeProvider HomeDirectoryProvider, environmentExpander EnvironmentExpander) *Resolver {
	if homeProvider == nil {
		homeProvider = os.UserHomeDir
	}
	if environmentExpander == nil {
		environmentExpander = os.ExpandEnv
	}
	return &Resolver{homeDirectoryProvider: homeProvider, environmentExpander: environmentExpander}
}

// Resolve expands candidatePath. Blank input stays blank; an unresolvable home directory leaves "~" untouched.
func (resolver *Resolver) Resolve(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if resolver == nil || len(trimmedPath) == 0 {
		return trimmedPath
	}

	expandedPath := resolver.environmentExpander(trimmedPath)
	if !strings.HasPrefix(expandedPath, homeShortcutConstant) {
		return expandedPath
	}

	remainder := strings.TrimPrefix(expandedPath, homeShortcutConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		// "~user" forms are not supported.
		return expandedPath
	}

	homeDirectory := resolver.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return expandedPath
	}
	return filepath.Join(homeDirectory, remainder)
}

func (resolver *Resolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
