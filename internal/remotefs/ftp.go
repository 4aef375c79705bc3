package remotefs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

const ftpDialTimeout = 10 * time.Second

// FTPClient talks plaintext FTP. Every operation opens a fresh control
// connection, authenticates, does its work and quits: the surrounding engine
// shares one handle across workers, and session-per-call keeps the backend
// stateless between operations.
type FTPClient struct {
	host     string // host:port
	username string
	password string
}

func NewFTPClient(host, username, password string) *FTPClient {
	return &FTPClient{host: host, username: username, password: password}
}

func (f *FTPClient) dial(ctx context.Context) (*ftp.ServerConn, error) {
	conn, err := ftp.Dial(f.host, ftp.DialWithContext(ctx), ftp.DialWithTimeout(ftpDialTimeout))
	if err != nil {
		return nil, fmt.Errorf("ftp dial %s: %w", f.host, err)
	}
	if err := conn.Login(f.username, f.password); err != nil {
		conn.Quit()
		return nil, ftpError("login", err)
	}
	return conn, nil
}

func (f *FTPClient) Connect(ctx context.Context) error {
	conn, err := f.dial(ctx)
	if err != nil {
		return err
	}
	return conn.Quit()
}

// Disconnect is a no-op: there is no connection held between operations.
func (f *FTPClient) Disconnect(ctx context.Context) error {
	return nil
}

func (f *FTPClient) List(ctx context.Context, path string) ([]RemoteFile, error) {
	lines, err := f.rawList(ctx, path)
	if err != nil {
		return nil, err
	}

	files := make([]RemoteFile, 0, len(lines))
	for _, line := range lines {
		file, ok := parseFTPListLine(line)
		if !ok {
			continue
		}
		file.Path = joinRemote(path, file.Name)
		files = append(files, file)
	}
	return files, nil
}

func (f *FTPClient) Download(ctx context.Context, remotePath, localPath string) error {
	conn, err := f.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Quit()

	resp, err := conn.Retr(remotePath)
	if err != nil {
		return ftpError("retr", err)
	}
	defer resp.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp)
	return err
}

func (f *FTPClient) Upload(ctx context.Context, localPath, remotePath string) error {
	in, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer in.Close()

	conn, err := f.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Quit()

	if err := conn.Stor(remotePath, in); err != nil {
		return ftpError("stor", err)
	}
	return nil
}

func (f *FTPClient) Mkdir(ctx context.Context, path string) error {
	conn, err := f.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Quit()
	if err := conn.MakeDir(path); err != nil {
		return ftpError("mkdir", err)
	}
	return nil
}

func (f *FTPClient) Delete(ctx context.Context, path string) error {
	conn, err := f.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Quit()
	if err := conn.Delete(path); err != nil {
		return ftpError("delete", err)
	}
	return nil
}

func (f *FTPClient) Size(ctx context.Context, path string) (int64, error) {
	conn, err := f.dial(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Quit()

	size, err := conn.FileSize(path)
	if err != nil {
		return 0, ftpError("size", err)
	}
	return size, nil
}

// parseFTPListLine parses one long-form listing line by whitespace. Lines
// with fewer than nine tokens are rejected; the first character of the
// permission token marks directories; token 4 is the size; tokens 8 onward,
// joined by single spaces, form the name so that names containing spaces
// survive. Timestamps from the listing are not parsed.
func parseFTPListLine(line string) (RemoteFile, bool) {
	parts := strings.Fields(line)
	if len(parts) < 9 {
		return RemoteFile{}, false
	}

	size, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		size = 0
	}

	name := strings.Join(parts[8:], " ")
	return RemoteFile{
		Name:     name,
		Path:     name,
		Size:     size,
		Modified: time.Now(),
		IsDir:    strings.HasPrefix(parts[0], "d"),
	}, true
}

// ftpError maps protocol reply codes onto the shared error kinds.
func ftpError(op string, err error) error {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		switch {
		case proto.Code == ftp.StatusNotLoggedIn:
			return fmt.Errorf("ftp %s: %w: %s", op, ErrAuth, proto.Msg)
		case proto.Code == ftp.StatusFileUnavailable:
			return fmt.Errorf("ftp %s: %w: %s", op, ErrNotFound, proto.Msg)
		}
	}
	return fmt.Errorf("ftp %s: %w", op, err)
}

// rawList fetches the unparsed long-form listing over a dedicated control
// and data session. The library client parses listings internally, but the
// line format handling here (token floor, silent skips) needs the raw text.
func (f *FTPClient) rawList(ctx context.Context, dir string) ([]string, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", f.host)
	if err != nil {
		return nil, fmt.Errorf("ftp dial %s: %w", f.host, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	ctrl := textproto.NewConn(conn)
	defer ctrl.Close()

	if _, _, err := ctrl.ReadResponse(ftp.StatusReady); err != nil {
		return nil, fmt.Errorf("ftp greeting: %w", err)
	}
	if err := f.login(ctrl); err != nil {
		return nil, err
	}

	dataAddr, err := enterPassive(ctrl)
	if err != nil {
		return nil, err
	}
	data, err := d.DialContext(ctx, "tcp", dataAddr)
	if err != nil {
		return nil, fmt.Errorf("ftp data dial %s: %w", dataAddr, err)
	}
	defer data.Close()
	if deadline, ok := ctx.Deadline(); ok {
		data.SetDeadline(deadline)
	}

	if err := ctrl.PrintfLine("LIST %s", dir); err != nil {
		return nil, err
	}
	if code, msg, err := ctrl.ReadResponse(1); err != nil {
		if code == ftp.StatusFileUnavailable {
			return nil, fmt.Errorf("ftp list %s: %w: %s", dir, ErrNotFound, msg)
		}
		return nil, fmt.Errorf("ftp list %s: %w", dir, err)
	}

	var lines []string
	scanner := bufio.NewScanner(data)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ftp list read: %w", err)
	}
	data.Close()

	if _, _, err := ctrl.ReadResponse(2); err != nil {
		return nil, fmt.Errorf("ftp list close: %w", err)
	}
	ctrl.PrintfLine("QUIT")
	return lines, nil
}

func (f *FTPClient) login(ctrl *textproto.Conn) error {
	if err := ctrl.PrintfLine("USER %s", f.username); err != nil {
		return err
	}
	code, msg, err := ctrl.ReadResponse(0)
	if err != nil {
		return fmt.Errorf("ftp user: %w", err)
	}
	switch code {
	case ftp.StatusLoggedIn:
		return nil
	case ftp.StatusUserOK:
		// password required
	default:
		return fmt.Errorf("ftp user: %w: %s", ErrAuth, msg)
	}

	if err := ctrl.PrintfLine("PASS %s", f.password); err != nil {
		return err
	}
	if code, msg, err = ctrl.ReadResponse(2); err != nil {
		return fmt.Errorf("ftp pass: %w: %s", ErrAuth, msg)
	}
	return nil
}

// enterPassive issues PASV and decodes the (h1,h2,h3,h4,p1,p2) reply.
func enterPassive(ctrl *textproto.Conn) (string, error) {
	if err := ctrl.PrintfLine("PASV"); err != nil {
		return "", err
	}
	_, msg, err := ctrl.ReadResponse(ftp.StatusPassiveMode)
	if err != nil {
		return "", fmt.Errorf("ftp pasv: %w", err)
	}
	return parsePassiveAddr(msg)
}

// parsePassiveAddr decodes the (h1,h2,h3,h4,p1,p2) tuple of a 227 reply.
func parsePassiveAddr(msg string) (string, error) {
	start := strings.Index(msg, "(")
	end := strings.Index(msg, ")")
	if start < 0 || end < start {
		return "", fmt.Errorf("ftp pasv: malformed reply %q", msg)
	}
	parts := strings.Split(msg[start+1:end], ",")
	if len(parts) != 6 {
		return "", fmt.Errorf("ftp pasv: malformed reply %q", msg)
	}
	p1, err1 := strconv.Atoi(strings.TrimSpace(parts[4]))
	p2, err2 := strconv.Atoi(strings.TrimSpace(parts[5]))
	if err1 != nil || err2 != nil {
		return "", fmt.Errorf("ftp pasv: malformed port in %q", msg)
	}
	host := strings.Join(parts[:4], ".")
	return net.JoinHostPort(host, strconv.Itoa(p1*256+p2)), nil
}
