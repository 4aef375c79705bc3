// Package remotefs defines the capability contract shared by every protocol
// backend: a flat set of file operations against a remote server, plus the
// RemoteFile value returned by directory listings.
package remotefs

import (
	"context"
	"errors"
	"time"
)

// Error kinds surfaced by backends. Callers match them with errors.Is;
// transport and local filesystem failures are returned wrapped without a
// sentinel.
var (
	// ErrAuth means the server rejected the configured credentials.
	ErrAuth = errors.New("authentication rejected")

	// ErrNotFound means the remote path does not exist.
	ErrNotFound = errors.New("remote path not found")

	// ErrToolMissing means a backend requires an external tool that is not
	// installed on this machine.
	ErrToolMissing = errors.New("required tool not found")

	// ErrNotConfigured means the client configuration is missing a required
	// field, typically the password.
	ErrNotConfigured = errors.New("server connection not configured")
)

// RemoteFile describes one remote directory entry. Values are only valid for
// the listing call that produced them.
type RemoteFile struct {
	Name     string    // final path segment, no separators
	Path     string    // absolute remote path, '/' separated
	Size     int64     // bytes; 0 for directories
	Modified time.Time // approximate for FTP/SMB listings
	IsDir    bool
}

// Client is the uniform remote-filesystem capability. The FTP, SMB and SFTP
// backends all satisfy it; call sites never depend on the concrete protocol.
//
// Implementations open a fresh protocol session inside every operation, so a
// single Client is safe for concurrent use.
type Client interface {
	// Connect validates reachability with the configured credentials.
	Connect(ctx context.Context) error

	// Disconnect releases any long-lived state. Always succeeds for
	// session-per-operation backends.
	Disconnect(ctx context.Context) error

	// List returns the children of an absolute directory path. A trailing
	// slash is tolerated. Entries "." and ".." are never returned and the
	// order is unspecified.
	List(ctx context.Context, path string) ([]RemoteFile, error)

	// Download copies a remote file to a local path, creating the parent
	// directory if needed and overwriting any existing file.
	Download(ctx context.Context, remotePath, localPath string) error

	// Upload copies a local file to a remote path, creating or overwriting.
	Upload(ctx context.Context, localPath, remotePath string) error

	Mkdir(ctx context.Context, path string) error
	Delete(ctx context.Context, path string) error

	// Size returns the byte size of a remote file, ErrNotFound if absent.
	Size(ctx context.Context, path string) (int64, error)
}

// joinRemote composes a child path under base using '/' separators, the way
// every backend reports listing entries.
func joinRemote(base, name string) string {
	if base == "/" {
		return "/" + name
	}
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + "/" + name
}
