package remotefs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const sftpDialTimeout = 10 * time.Second

// SFTPClient is the last link in the fallback chain, for hosts that expose
// SSH instead of (or in addition to) SMB and FTP. Like the other backends it
// runs session-per-operation so a shared handle needs no locking.
type SFTPClient struct {
	host     string // host:port
	username string
	password string
}

func NewSFTPClient(host, username, password string) *SFTPClient {
	return &SFTPClient{host: host, username: username, password: password}
}

type sftpSession struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (s *sftpSession) close() {
	s.sftp.Close()
	s.ssh.Close()
}

func (s *SFTPClient) dial(ctx context.Context) (*sftpSession, error) {
	cfg := &ssh.ClientConfig{
		User:    s.username,
		Auth:    []ssh.AuthMethod{ssh.Password(s.password)},
		Timeout: sftpDialTimeout,
		// Runs unattended (sync from cron); accept the key but leave an
		// audit trail of what was trusted.
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			slog.Debug("sftp host key accepted", "host", hostname, "fingerprint", ssh.FingerprintSHA256(key))
			return nil
		},
	}

	conn, err := ssh.Dial("tcp", s.host, cfg)
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") {
			return nil, fmt.Errorf("sftp dial %s: %w: %v", s.host, ErrAuth, err)
		}
		return nil, fmt.Errorf("sftp dial %s: %w", s.host, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("sftp subsystem: %w", err)
	}

	return &sftpSession{ssh: conn, sftp: client}, nil
}

func (s *SFTPClient) Connect(ctx context.Context) error {
	sess, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	if _, err := sess.sftp.Stat("/"); err != nil {
		return sftpError("stat /", err)
	}
	return nil
}

func (s *SFTPClient) Disconnect(ctx context.Context) error {
	return nil
}

func (s *SFTPClient) List(ctx context.Context, path string) ([]RemoteFile, error) {
	sess, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.close()

	entries, err := sess.sftp.ReadDir(path)
	if err != nil {
		return nil, sftpError("list "+path, err)
	}

	files := make([]RemoteFile, 0, len(entries))
	for _, entry := range entries {
		size := entry.Size()
		if entry.IsDir() {
			size = 0
		}
		files = append(files, RemoteFile{
			Name:     entry.Name(),
			Path:     joinRemote(path, entry.Name()),
			Size:     size,
			Modified: entry.ModTime(),
			IsDir:    entry.IsDir(),
		})
	}
	return files, nil
}

func (s *SFTPClient) Download(ctx context.Context, remotePath, localPath string) error {
	sess, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	src, err := sess.sftp.Open(remotePath)
	if err != nil {
		return sftpError("open "+remotePath, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (s *SFTPClient) Upload(ctx context.Context, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	sess, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	dst, err := sess.sftp.Create(remotePath)
	if err != nil {
		return sftpError("create "+remotePath, err)
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (s *SFTPClient) Mkdir(ctx context.Context, path string) error {
	sess, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer sess.close()
	if err := sess.sftp.Mkdir(path); err != nil {
		return sftpError("mkdir "+path, err)
	}
	return nil
}

func (s *SFTPClient) Delete(ctx context.Context, path string) error {
	sess, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer sess.close()
	if err := sess.sftp.Remove(path); err != nil {
		return sftpError("delete "+path, err)
	}
	return nil
}

func (s *SFTPClient) Size(ctx context.Context, path string) (int64, error) {
	sess, err := s.dial(ctx)
	if err != nil {
		return 0, err
	}
	defer sess.close()

	info, err := sess.sftp.Stat(path)
	if err != nil {
		return 0, sftpError("stat "+path, err)
	}
	return info.Size(), nil
}

func sftpError(op string, err error) error {
	if os.IsNotExist(err) {
		return fmt.Errorf("sftp %s: %w", op, ErrNotFound)
	}
	if os.IsPermission(err) {
		return fmt.Errorf("sftp %s: %w", op, ErrAuth)
	}
	return fmt.Errorf("sftp %s: %w", op, err)
}
