package gitrepo

type Config struct {
	// Path is the working directory the collaborator is bound to.
	Path string

	// Commit author identity. Defaults are applied when empty.
	AuthorName  string
	AuthorEmail string

	// DefaultRemote is used by fetch/pull/push when the caller does not
	// name one.
	DefaultRemote string
}

func (c Config) remote(name string) string {
	if name != "" {
		return name
	}
	if c.DefaultRemote != "" {
		return c.DefaultRemote
	}
	return "origin"
}
