package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// EnsurePassword prompts for the password when the loaded configuration does
// not carry one. Input is hidden when stdin is a terminal.
func (c *Config) EnsurePassword() error {
	if c.Password != "" {
		return nil
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	c.Password = password
	return nil
}

// InteractiveSetup walks the user through first-run configuration and saves
// the result.
func (c *Config) InteractiveSetup() error {
	fmt.Println()
	fmt.Println("Welcome to the Comfy file server CLI!")
	fmt.Println("Let's configure your connection settings.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	server, err := promptLine(reader, "Server IP address: ")
	if err != nil {
		return err
	}
	c.ServerIP = server

	username, err := promptLine(reader, "Username: ")
	if err != nil {
		return err
	}
	c.Username = username

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	c.Password = password

	choice, err := promptLine(reader, "Preferred protocol (1=SMB, 2=FTP) [default: 1]: ")
	if err != nil {
		return err
	}
	if choice == "2" {
		c.DefaultProtocol = ProtocolFTP
	} else {
		c.DefaultProtocol = ProtocolSMB
	}

	c.Configured = true
	if err := c.Save(); err != nil {
		return err
	}

	if path, err := Path(); err == nil {
		fmt.Printf("\nConfiguration saved to %s\n", path)
	}
	fmt.Println("Reconfigure at any time with: comfy-fs config")
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	// piped input (tests, scripts)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
