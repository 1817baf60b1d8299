package facade

import "errors"

var (
	// ErrNoRepository is returned by operations on a facade with no bound
	// repository collaborator.
	ErrNoRepository = errors.New("no repository bound")

	// ErrBadConfigFile marks a repository whose configuration file cannot
	// be read or parsed.
	ErrBadConfigFile = errors.New("bad repository configuration file")

	// ErrOutsideWorkingTree marks an operation issued against a directory
	// that is not the repository root.
	ErrOutsideWorkingTree = errors.New("directory is not the repository root")

	// ErrNoRemote marks a remote operation against a repository with no
	// remotes configured.
	ErrNoRemote = errors.New("no remote repository configured")

	// ErrNotFoundAtRevision marks a content read for a path that does not
	// exist at the requested revision (or in the working tree).
	ErrNotFoundAtRevision = errors.New("path not found at revision")
)
