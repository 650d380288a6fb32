package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	httpsProtocolPrefixConstant         = "https://"
	gitUserPrefixConstant               = "git@"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
	sshRemoteTemplateConstant           = "git@%s:%s/%s.git"
	httpsRemoteTemplateConstant         = "https://%s/%s/%s.git"
)

// DefaultRemoteHost is the host used when formatting clone URLs without an explicit host.
const DefaultRemoteHost = "github.com"

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL represents a git remote pointing at a hosted repository.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Repository RepositoryRef
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates the provided protocol cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteURL converts an ssh or https remote into its host and repository.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseSSHRemote(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, gitUserPrefixConstant):
		return parseSSHRemote(trimmedRemote)
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHTTPSRemote(strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant))
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

func parseSSHRemote(remote string) (RemoteURL, error) {
	_, hostAndPath, userFound := strings.Cut(remote, sshUserDelimiterConstant)
	if !userFound {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	host, repositoryPath, pathFound := strings.Cut(hostAndPath, sshPathDelimiterConstant)
	if !pathFound {
		host, repositoryPath, pathFound = strings.Cut(hostAndPath, repositoryReferenceSeparatorConstant)
	}
	if !pathFound || len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	reference, referenceError := parseRemoteRepositoryPath(remote, repositoryPath)
	if referenceError != nil {
		return RemoteURL{}, referenceError
	}
	return RemoteURL{Protocol: RemoteProtocolSSH, Host: host, Repository: reference}, nil
}

func parseHTTPSRemote(remote string) (RemoteURL, error) {
	host, repositoryPath, pathFound := strings.Cut(remote, repositoryReferenceSeparatorConstant)
	if !pathFound || len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	reference, referenceError := parseRemoteRepositoryPath(remote, repositoryPath)
	if referenceError != nil {
		return RemoteURL{}, referenceError
	}
	return RemoteURL{Protocol: RemoteProtocolHTTPS, Host: host, Repository: reference}, nil
}

func parseRemoteRepositoryPath(remote string, repositoryPath string) (RepositoryRef, error) {
	normalizedPath := strings.TrimSuffix(strings.TrimSuffix(repositoryPath, repositoryReferenceSeparatorConstant), gitSuffixConstant)
	reference, referenceError := ParseRepositoryRef(normalizedPath)
	if referenceError != nil {
		return RepositoryRef{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	return reference, nil
}

// FormatRemoteURL renders a clone URL for the remote.
func FormatRemoteURL(remote RemoteURL) (string, error) {
	host := strings.TrimSpace(remote.Host)
	if len(host) == 0 {
		return "", RemoteURLParseError{Input: remote.Host, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(remote.Repository.Owner)) == 0 || len(strings.TrimSpace(remote.Repository.Name)) == 0 {
		return "", RemoteURLParseError{Input: remote.Repository.String(), Message: requiredValueMessageConstant}
	}

	switch remote.Protocol {
	case RemoteProtocolSSH:
		return fmt.Sprintf(sshRemoteTemplateConstant, host, remote.Repository.Owner, remote.Repository.Name), nil
	case RemoteProtocolHTTPS:
		return fmt.Sprintf(httpsRemoteTemplateConstant, host, remote.Repository.Owner, remote.Repository.Name), nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}
