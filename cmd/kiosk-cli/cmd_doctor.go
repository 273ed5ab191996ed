package main

import (
	"context"
	"fmt"
	"time"

	"github.com/reymarksuan121298-max/kiosk-mapping/client"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, server, database and auth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor() error {
	fmt.Println("\nKiosk Doctor")
	fmt.Println("============")

	results := doctorChecks()

	fmt.Println()
	allPassed := true
	for _, r := range results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Printf("%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("%s %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("   Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("❌ Some checks failed.")
		return fmt.Errorf("doctor found issues")
	}
	fmt.Println("✅ All checks passed!")
	return nil
}

func doctorChecks() []checkResult {
	var results []checkResult

	cfgPath, _, cfgErr := loadConfigFile()
	if cfgErr != nil {
		results = append(results, checkResult{Name: "Config file", Detail: cfgPath, Hint: "Run: kiosk init"})
	} else {
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: fmt.Sprintf("found (%s)", cfgPath)})
	}

	resolveConfig()
	results = append(results, checkResult{Name: "Server URL", Passed: true, Detail: flagURL})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := client.New(flagURL, client.WithToken(flagToken))

	health, err := c.Health(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name:   "Server reachable",
			Detail: flagURL,
			Hint:   fmt.Sprintf("Is kioskd running? Error: %v", err),
		})
		return results
	}
	results = append(results, checkResult{Name: "Server reachable", Passed: true, Detail: "v" + health.Version})

	if ready, err := c.Ready(ctx); err != nil {
		results = append(results, checkResult{Name: "Database", Hint: fmt.Sprintf("Check DATABASE_URL and migrations. Error: %v", err)})
	} else {
		results = append(results, checkResult{Name: "Database", Passed: true, Detail: ready.Status})
	}

	if flagToken == "" {
		results = append(results, checkResult{
			Name: "Dashboard token",
			Hint: "Set --token, KIOSK_TOKEN, or run kiosk init. Kiosk clock-ins work without one.",
		})
		return results
	}

	if _, err := c.Monitoring.History(ctx, 1); err != nil {
		results = append(results, checkResult{Name: "Authentication", Hint: fmt.Sprintf("Check your token. Error: %v", err)})
	} else {
		results = append(results, checkResult{Name: "Authentication", Passed: true, Detail: "valid"})
	}

	return results
}
