package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/reymarksuan121298-max/kiosk-mapping/client"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var (
		loc     locationFlags
		qr      string
		status  string
		remarks string
	)
	cmd := &cobra.Command{
		Use:   "scan [employee-id]",
		Short: "Record a supervisor monitoring scan",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := employeeIDArg(args, qr)
			if err != nil {
				fatal("scan", err)
			}
			req := &client.ScanRequest{EmployeeID: id, Status: status}
			req.Latitude, req.Longitude = loc.values(cmd)
			if remarks != "" {
				req.Remarks = &remarks
			}

			resp, err := apiClient.Monitoring.Scan(context.Background(), req)
			if err != nil {
				fatal("scan", err)
			}
			if flagFmt == "table" {
				formatTable(
					[]string{"EMPLOYEE", "NAME", "STATE", "DISTANCE", "ALERT"},
					[][]string{{resp.Employee.EmployeeID, resp.Employee.FullName, resp.Attendance.State, meters(resp.Distance), orDash(resp.Alert)}},
				)
				return
			}
			output(resp, strconv.FormatInt(resp.Attendance.ID, 10))
		},
	}
	loc.register(cmd)
	cmd.Flags().StringVar(&qr, "qr", "", "Raw QR code payload")
	cmd.Flags().StringVar(&status, "status", "", "Duty status (Active or Inactive)")
	cmd.Flags().StringVar(&remarks, "remarks", "", "Free-text remarks")
	return cmd
}

func viewRows(views []client.AttendanceView) [][]string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.Employee.EmployeeID,
			v.Employee.FullName,
			v.Status,
			v.Source,
			v.ScanTime.Local().Format("2006-01-02 15:04:05"),
			meters(v.Distance),
			orDash(v.AlertType),
		})
	}
	return rows
}

var viewHeaders = []string{"EMPLOYEE", "NAME", "STATUS", "SOURCE", "SCANNED_AT", "DISTANCE", "ALERT"}

func newOnDutyCmd() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "on-duty",
		Short: "List employees currently on duty today",
		Run: func(cmd *cobra.Command, args []string) {
			views, err := apiClient.Monitoring.OnDuty(context.Background(), source)
			if err != nil {
				fatal("on-duty", err)
			}
			switch flagFmt {
			case "table":
				formatTable(viewHeaders, viewRows(views))
			case "quiet":
				for _, v := range views {
					fmt.Println(v.Employee.EmployeeID)
				}
			default:
				output(views, "")
			}
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Filter by source: employee_attendance|kiosk_monitoring")
	return cmd
}

func newDailyMapCmd() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "daily-map",
		Short: "Show today's map status for every rostered employee",
		Run: func(cmd *cobra.Command, args []string) {
			locs, err := apiClient.Monitoring.DailyMap(context.Background(), source)
			if err != nil {
				fatal("daily-map", err)
			}
			switch flagFmt {
			case "table":
				rows := make([][]string, 0, len(locs))
				for _, l := range locs {
					scanned, dist := "-", "-"
					if l.Attendance != nil {
						scanned = coords(l.Attendance.Latitude, l.Attendance.Longitude)
						dist = meters(l.Attendance.Distance)
					}
					rows = append(rows, []string{
						l.Employee.EmployeeID, l.Employee.FullName, l.MapStatus,
						coords(l.BaseLatitude, l.BaseLongitude), scanned, dist,
					})
				}
				formatTable([]string{"EMPLOYEE", "NAME", "MAP_STATUS", "BASE", "SCANNED", "DISTANCE"}, rows)
			case "quiet":
				for _, l := range locs {
					fmt.Printf("%s\t%s\n", l.Employee.EmployeeID, l.MapStatus)
				}
			default:
				output(locs, "")
			}
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Filter by source: employee_attendance|kiosk_monitoring")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scans, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 {
				fatal("history", fmt.Errorf("--limit must be non-negative"))
			}
			views, err := apiClient.Monitoring.History(context.Background(), limit)
			if err != nil {
				fatal("history", err)
			}
			if flagFmt == "table" {
				formatTable(viewHeaders, viewRows(views))
				return
			}
			output(views, "")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")
	return cmd
}
