package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/reymarksuan121298-max/kiosk-mapping/client"
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient.Health(context.Background())
			if err != nil {
				fatal("health", err)
			}
			output(resp, resp.Status)
		},
	}
}

func newAuditCmd() *cobra.Command {
	var action, userID, table, since string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query audit logs",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.AuditQueryOptions{
				Action:    action,
				UserID:    userID,
				TableName: table,
				Limit:     limit,
				Offset:    offset,
			}
			if since != "" {
				t, err := parseSince(since, time.Now())
				if err != nil {
					fatal("audit query", err)
				}
				opts.Since = &t
			}
			entries, total, err := apiClient.Audit.Query(context.Background(), opts)
			if err != nil {
				fatal("audit query", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "ACTION", "TABLE", "RECORD", "USER", "CREATED_AT"}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(e.ID, 10), e.Action, e.TableName,
						orDash(e.RecordID), orDash(e.UserID), e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					})
				}
				formatTable(headers, rows)
				fmt.Printf("\n%d of %d entries\n", len(entries), total)
				return
			}
			output(map[string]any{"logs": entries, "total": total}, strconv.Itoa(total))
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "Filter by action (e.g. SCAN, PUBLIC_TIMEIN_ALERT)")
	cmd.Flags().StringVar(&userID, "user", "", "Filter by user ID")
	cmd.Flags().StringVar(&table, "table", "", "Filter by table: attendance|employees")
	cmd.Flags().StringVar(&since, "since", "", "Only entries after this RFC3339 time or duration ago (e.g. 24h)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")

	cmd.AddCommand(auditGetCmd())
	cmd.AddCommand(auditClearCmd())
	cmd.AddCommand(auditPurgeCmd())
	return cmd
}

// parseSince accepts an RFC3339 timestamp or a duration counted back from now.
func parseSince(v string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return time.Time{}, fmt.Errorf("--since must be an RFC3339 time or a positive duration, got %q", v)
	}
	return now.Add(-d), nil
}

func auditGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one audit entry",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fatal("audit get", fmt.Errorf("invalid id %q", args[0]))
			}
			entry, err := apiClient.Audit.Get(context.Background(), id)
			if err != nil {
				fatal("audit get", err)
			}
			output(entry, entry.Action)
		},
	}
}

func auditClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every audit entry (admin)",
		Run: func(cmd *cobra.Command, args []string) {
			if !yes {
				fatal("audit clear", fmt.Errorf("refusing to clear audit logs without --yes"))
			}
			deleted, err := apiClient.Audit.Clear(context.Background())
			if err != nil {
				fatal("audit clear", err)
			}
			output(map[string]int{"deleted": deleted}, strconv.Itoa(deleted))
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing the audit log")
	return cmd
}

func auditPurgeCmd() *cobra.Command {
	var retentionDays int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Purge old audit entries (admin)",
		Run: func(cmd *cobra.Command, args []string) {
			deleted, err := apiClient.Audit.Purge(context.Background(), retentionDays)
			if err != nil {
				fatal("audit purge", err)
			}
			output(map[string]int{"deleted": deleted}, strconv.Itoa(deleted))
		},
	}
	cmd.Flags().IntVar(&retentionDays, "retention-days", 90, "Delete entries older than N days")
	return cmd
}
