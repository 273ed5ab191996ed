package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reymarksuan121298-max/kiosk-mapping/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Build-time variables set via ldflags.
var (
	version   = "1.0.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:5000"

var (
	apiClient *client.Client
	flagURL   string
	flagToken string
	flagFmt   string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("kiosk version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("kiosk version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "kiosk",
		Short:   "Kiosk CLI for attendance scans and the supervisor dashboard",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagToken != "" {
				opts = append(opts, client.WithToken(flagToken))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Kiosk server URL (env: KIOSK_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Dashboard bearer token (env: KIOSK_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup
	doctorCmd := newDoctorCmd()
	doctorCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newClockCmd())
	rootCmd.AddCommand(newLastCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newOnDutyCmd())
	rootCmd.AddCommand(newDailyMapCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newEmployeeCmd())
	rootCmd.AddCommand(newAuditCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".kiosk", "config.yaml"), nil
}

func loadConfigFile() (string, *configFile, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, nil, err
	}
	return cfgPath, &cfg, nil
}

// resolve returns the URL and token from the flat fields, overridden by the
// active profile when one exists.
func (cfg *configFile) resolve() (url, token string) {
	url, token = cfg.URL, cfg.Token
	if cfg.Profiles == nil {
		return url, token
	}
	name := cfg.ActiveProfile
	if name == "" {
		name = "default"
	}
	if p, ok := cfg.Profiles[name]; ok {
		if p.URL != "" {
			url = p.URL
		}
		if p.Token != "" {
			token = p.Token
		}
	}
	return url, token
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("KIOSK_URL"); v != "" {
			flagURL = v
		}
	}
	if flagToken == "" {
		flagToken = os.Getenv("KIOSK_TOKEN")
	}

	_, cfg, err := loadConfigFile()
	if err != nil {
		return
	}
	resolvedURL, resolvedToken := cfg.resolve()
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagToken == "" && resolvedToken != "" {
		flagToken = resolvedToken
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Distance != nil && apiErr.AllowedRadius != nil {
		fmt.Fprintf(os.Stderr, "  %dm from base location, allowed radius %dm\n", *apiErr.Distance, *apiErr.AllowedRadius)
	}
	os.Exit(1)
}
