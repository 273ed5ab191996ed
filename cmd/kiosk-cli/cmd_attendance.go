package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/reymarksuan121298-max/kiosk-mapping/client"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
	"github.com/spf13/cobra"
)

// locationFlags holds optional --lat/--lng flags. Unset flags mean no GPS fix.
type locationFlags struct {
	lat, lng float64
}

func (f *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "Latitude of the scanning device")
	cmd.Flags().Float64Var(&f.lng, "lng", 0, "Longitude of the scanning device")
	cmd.MarkFlagsRequiredTogether("lat", "lng")
}

func (f *locationFlags) values(cmd *cobra.Command) (lat, lng *float64) {
	if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
		return nil, nil
	}
	return &f.lat, &f.lng
}

// employeeIDArg resolves the employee ID from the positional arg or from a
// raw QR payload passed with --qr.
func employeeIDArg(args []string, qr string) (string, error) {
	if qr != "" {
		if id := models.ExtractEmployeeID(qr); id != "" {
			return id, nil
		}
		return "", fmt.Errorf("no employee ID found in QR payload")
	}
	if len(args) == 0 {
		return "", fmt.Errorf("employee ID or --qr is required")
	}
	return args[0], nil
}

func newClockCmd() *cobra.Command {
	var (
		loc locationFlags
		qr  string
		out bool
	)
	cmd := &cobra.Command{
		Use:   "clock [employee-id]",
		Short: "Record a Time In (or Time Out with --out) from a kiosk",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := employeeIDArg(args, qr)
			if err != nil {
				fatal("clock", err)
			}
			req := &client.ClockRequest{EmployeeID: id, Type: client.TimeIn}
			if out {
				req.Type = client.TimeOut
			}
			req.Latitude, req.Longitude = loc.values(cmd)

			resp, err := apiClient.Attendance.ClockIn(context.Background(), req)
			if err != nil {
				fatal("clock", err)
			}
			if flagFmt == "table" {
				formatTable(
					[]string{"EMPLOYEE", "NAME", "ACTION", "DISTANCE", "ALERT"},
					[][]string{{resp.Employee.EmployeeID, resp.Employee.FullName, resp.Type, meters(resp.Distance), orDash(resp.Alert)}},
				)
				return
			}
			output(resp, strconv.FormatInt(resp.Attendance.ID, 10))
		},
	}
	loc.register(cmd)
	cmd.Flags().StringVar(&qr, "qr", "", "Raw QR code payload")
	cmd.Flags().BoolVar(&out, "out", false, "Record a Time Out instead of a Time In")
	return cmd
}

func newLastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "last <employee-id>",
		Short: "Show an employee's most recent attendance event",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ev, err := apiClient.Attendance.Last(context.Background(), args[0])
			if err != nil {
				fatal("last attendance", err)
			}
			output(ev, ev.Status)
		},
	}
}
