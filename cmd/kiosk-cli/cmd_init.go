package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reymarksuan121298-max/kiosk-mapping/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInitCmd() *cobra.Command {
	var (
		initURL     string
		initToken   string
		initProfile string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up kiosk CLI configuration",
		Long:  "Interactive setup wizard that creates ~/.kiosk/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			nonInteractive := initURL != "" || initToken != ""
			return runInit(initURL, initToken, initProfile, nonInteractive)
		},
	}

	cmd.Flags().StringVar(&initURL, "url", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&initToken, "token", "", "Dashboard token (non-interactive mode)")
	cmd.Flags().StringVar(&initProfile, "profile", "default", "Profile name to write")
	return cmd
}

func runInit(url, token, profile string, nonInteractive bool) error {
	if !nonInteractive {
		fmt.Println("\n  Kiosk Setup")
		fmt.Println("  ───────────")
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("  Server URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			url = line
		}

		fmt.Print("  Dashboard token (blank for kiosk-only use): ")
		tokenLine, _ := reader.ReadString('\n')
		token = strings.TrimSpace(tokenLine)
	}

	if url == "" {
		url = defaultURL
	}

	if !nonInteractive {
		fmt.Print("\n  Testing connection... ")
	}

	ver, err := testConnection(url)
	if err != nil {
		if !nonInteractive {
			fmt.Println("✗")
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	if !nonInteractive {
		fmt.Printf("✓ Connected (v%s)\n", ver)
	}

	cfgPath, err := writeConfig(profile, url, token)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if nonInteractive {
		fmt.Printf("Config saved to %s\n", cfgPath)
	} else {
		fmt.Printf("\n  ✓ Config saved to %s\n", cfgPath)
		fmt.Println()
		fmt.Println("  Next steps:")
		fmt.Println("    kiosk doctor        # Full diagnostic check")
		fmt.Println("    kiosk on-duty       # Who is on duty today")
		fmt.Println("    kiosk --help        # See all commands")
		fmt.Println()
	}

	return nil
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if health.Version == "" {
		return "unknown", nil
	}
	return health.Version, nil
}

// writeConfig stores url and token under profile, keeping other profiles in
// an existing file, and makes profile active.
func writeConfig(profile, url, token string) (string, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}

	cfg := &configFile{}
	if _, existing, err := loadConfigFile(); err == nil {
		cfg = existing
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]configProfile{}
	}
	if profile == "" {
		profile = "default"
	}
	cfg.Profiles[profile] = configProfile{URL: url, Token: token}
	cfg.ActiveProfile = profile

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
