package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comfy-org/comfy-fs/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the server configuration",
	Long: "With no flags, config runs the interactive setup. Flags update individual\n" +
		"settings in place. Passwords are prompted per session and never stored.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if show, _ := cmd.Flags().GetBool("show"); show {
			fmt.Printf("Server:   %s\n", cfg.ServerIP)
			fmt.Printf("Username: %s\n", cfg.Username)
			fmt.Printf("Protocol: %s\n", cfg.DefaultProtocol)
			return nil
		}

		server, _ := cmd.Flags().GetString("server")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		protocol, _ := cmd.Flags().GetString("protocol")

		if server == "" && username == "" && password == "" && protocol == "" {
			return cfg.InteractiveSetup()
		}

		if server != "" {
			cfg.ServerIP = server
		}
		if username != "" {
			cfg.Username = username
		}
		if password != "" {
			cfg.Password = password
			fmt.Println("note: passwords are not stored; this one lasts for the current invocation only")
		}
		if protocol != "" {
			p, err := config.ParseProtocol(protocol)
			if err != nil {
				return err
			}
			cfg.DefaultProtocol = p
		}
		cfg.Configured = true

		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("%s configuration saved\n", green("✓"))
		return nil
	},
}

func init() {
	configCmd.Flags().String("server", "", "server IP or hostname")
	configCmd.Flags().String("username", "", "account username")
	configCmd.Flags().String("password", "", "account password (never written to disk)")
	configCmd.Flags().String("protocol", "", "preferred protocol: ftp, smb or sftp")
	configCmd.Flags().Bool("show", false, "print the current configuration")
}
