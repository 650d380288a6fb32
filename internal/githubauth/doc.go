// Package githubauth resolves a GitHub token from the environment when no credential has been saved.
package githubauth
