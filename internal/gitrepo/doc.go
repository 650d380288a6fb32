// Package gitrepo describes repositories by owner and name.
//
// It parses owner/name identifiers into RepositoryRef values, converts them to
// and from clone URLs, and inspects the local working tree with go-git so the
// presentation layer can show the current branch and origin repository.
package gitrepo
