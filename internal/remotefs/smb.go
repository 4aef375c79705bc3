package remotefs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	smbTool      = "smbclient"
	DefaultShare = "share"

	// smbclient pads the name column to a fixed width in `ls` output.
	smbNameWidth = 35
)

// SMBClient drives a remote SMB share through the local smbclient binary.
// Each operation spawns one child process with both output streams collected
// in memory; the listings in scope are small.
type SMBClient struct {
	host     string
	username string
	password string
	share    string
}

func NewSMBClient(host, username, password, share string) *SMBClient {
	if share == "" {
		share = DefaultShare
	}
	return &SMBClient{host: host, username: username, password: password, share: share}
}

func (s *SMBClient) uncPath() string {
	return fmt.Sprintf("//%s/%s", s.host, s.share)
}

// run executes one smbclient command against the share and returns its
// stdout. A non-zero exit surfaces the captured stderr, mapped onto the
// shared error kinds where the NT status is recognizable.
func (s *SMBClient) run(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, smbTool,
		s.uncPath(),
		"-U", s.username+"%"+s.password,
		"-N",
		"-c", command,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", smbError(command, err, stderr.String(), stdout.String())
	}

	// smbclient reports some failures on stdout with a zero exit code.
	if status := ntStatus(stdout.String()); status != nil {
		return "", fmt.Errorf("smb %q: %w", command, status)
	}
	return stdout.String(), nil
}

func smbError(command string, err error, stderr, stdout string) error {
	for _, out := range []string{stderr, stdout} {
		if status := ntStatus(out); status != nil {
			return fmt.Errorf("smb %q: %w", command, status)
		}
	}
	detail := strings.TrimSpace(stderr)
	if detail == "" {
		detail = err.Error()
	}
	return fmt.Errorf("smb %q failed: %s", command, detail)
}

func ntStatus(out string) error {
	switch {
	case strings.Contains(out, "NT_STATUS_LOGON_FAILURE"),
		strings.Contains(out, "NT_STATUS_ACCESS_DENIED"):
		return ErrAuth
	case strings.Contains(out, "NT_STATUS_OBJECT_NAME_NOT_FOUND"),
		strings.Contains(out, "NT_STATUS_NO_SUCH_FILE"),
		strings.Contains(out, "NT_STATUS_OBJECT_PATH_NOT_FOUND"):
		return ErrNotFound
	}
	return nil
}

// Connect verifies the tool is installed, then validates credentials and
// reachability by listing the share root.
func (s *SMBClient) Connect(ctx context.Context) error {
	if _, err := exec.LookPath(smbTool); err != nil {
		return fmt.Errorf("%w: %s (install the samba client package)", ErrToolMissing, smbTool)
	}
	if err := exec.CommandContext(ctx, smbTool, "--version").Run(); err != nil {
		return fmt.Errorf("%w: %s --version failed: %v", ErrToolMissing, smbTool, err)
	}

	_, err := s.run(ctx, "ls")
	return err
}

// Disconnect is a no-op: every command is a separate child process.
func (s *SMBClient) Disconnect(ctx context.Context) error {
	return nil
}

func (s *SMBClient) List(ctx context.Context, path string) ([]RemoteFile, error) {
	command := "ls"
	if clean := strings.TrimPrefix(path, "/"); clean != "" {
		command = fmt.Sprintf("cd %s; ls", clean)
	}

	out, err := s.run(ctx, command)
	if err != nil {
		return nil, err
	}

	var files []RemoteFile
	for _, line := range strings.Split(out, "\n") {
		if file, ok := parseSMBListLine(line, path); ok {
			files = append(files, file)
		}
	}
	return files, nil
}

func (s *SMBClient) Download(ctx context.Context, remotePath, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	command := fmt.Sprintf("get %s %s", strings.TrimPrefix(remotePath, "/"), localPath)
	_, err := s.run(ctx, command)
	return err
}

func (s *SMBClient) Upload(ctx context.Context, localPath, remotePath string) error {
	command := fmt.Sprintf("put %s %s", localPath, strings.TrimPrefix(remotePath, "/"))
	_, err := s.run(ctx, command)
	return err
}

func (s *SMBClient) Mkdir(ctx context.Context, path string) error {
	_, err := s.run(ctx, fmt.Sprintf("mkdir %s", strings.TrimPrefix(path, "/")))
	return err
}

func (s *SMBClient) Delete(ctx context.Context, path string) error {
	_, err := s.run(ctx, fmt.Sprintf("del %s", strings.TrimPrefix(path, "/")))
	return err
}

// Size lists the parent directory and scans for the final path segment; the
// protocol tool has no direct stat command.
func (s *SMBClient) Size(ctx context.Context, path string) (int64, error) {
	parent := "/"
	if idx := strings.LastIndex(path, "/"); idx > 0 {
		parent = path[:idx]
	}
	name := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		name = path[idx+1:]
	}

	files, err := s.List(ctx, parent)
	if err != nil {
		return 0, err
	}
	for _, file := range files {
		if file.Name == name {
			return file.Size, nil
		}
	}
	return 0, fmt.Errorf("smb size %s: %w", path, ErrNotFound)
}

// parseSMBListLine decodes one line of smbclient `ls` output:
//
//	  filename                          D        0  Wed Dec 25 10:30:45 2024
//	  filename                         AH     1234  Wed Dec 25 10:30:45 2024
//
// The first 35 characters hold the space-padded name; the remainder carries
// the attribute token and, for files, the size. Empty lines, the trailing
// "blocks of size" summary and the dot entries are skipped.
func parseSMBListLine(line, basePath string) (RemoteFile, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.Contains(trimmed, "blocks of size") {
		return RemoteFile{}, false
	}
	if len(line) < smbNameWidth+1 {
		return RemoteFile{}, false
	}

	name := strings.TrimSpace(line[:smbNameWidth])
	if name == "." || name == ".." {
		return RemoteFile{}, false
	}

	rest := strings.Fields(line[smbNameWidth:])
	if len(rest) == 0 {
		return RemoteFile{}, false
	}

	isDir := strings.Contains(rest[0], "D")
	var size int64
	if len(rest) > 1 && !isDir {
		if parsed, err := strconv.ParseUint(rest[1], 10, 63); err == nil {
			size = int64(parsed)
		}
	}

	return RemoteFile{
		Name:     name,
		Path:     joinRemote(basePath, name),
		Size:     size,
		Modified: time.Now(),
		IsDir:    isDir,
	}, true
}
