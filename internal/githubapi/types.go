package githubapi

// EntryKind distinguishes files from directories in a listing.
type EntryKind string

// Directory entry kinds.
const (
	EntryKindFile      EntryKind = EntryKind("file")
	EntryKindDirectory EntryKind = EntryKind("directory")
)

// DirectoryEntry is one item of a repository directory listing.
type DirectoryEntry struct {
	Name    string
	Path    string
	Kind    EntryKind
	Content *string
}

// IsDirectory reports whether the entry can be navigated into.
func (entry DirectoryEntry) IsDirectory() bool {
	return entry.Kind == EntryKindDirectory
}

// AccountIdentity identifies the authenticated account.
type AccountIdentity struct {
	Login string
}

// CreateFileRequest describes a single-file commit.
type CreateFileRequest struct {
	Path          string
	Content       []byte
	Branch        string
	CommitMessage string
}
