package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/reymarksuan121298-max/kiosk-mapping/client"
	"github.com/spf13/cobra"
)

func newEmployeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employee",
		Aliases: []string{"employees"},
		Short:   "Manage the employee registry",
	}
	cmd.AddCommand(employeeListCmd())
	cmd.AddCommand(employeeGetCmd())
	cmd.AddCommand(employeeCreateCmd())
	cmd.AddCommand(employeeUpdateCmd())
	cmd.AddCommand(employeeDeleteCmd())
	cmd.AddCommand(employeeStatsCmd())
	return cmd
}

func employeeListCmd() *cobra.Command {
	var status, search string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 || offset < 0 {
				fatal("list employees", fmt.Errorf("--limit and --offset must be non-negative"))
			}
			employees, err := apiClient.Employees.List(context.Background(), &client.EmployeeListOptions{
				Status: status,
				Search: search,
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				fatal("list employees", err)
			}
			switch flagFmt {
			case "table":
				rows := make([][]string, 0, len(employees))
				for _, e := range employees {
					rows = append(rows, []string{
						e.EmployeeID, e.FullName, e.Role, e.Area, e.Status,
						coords(e.Latitude, e.Longitude), strconv.Itoa(e.RadiusMeters),
					})
				}
				formatTable([]string{"EMPLOYEE", "NAME", "ROLE", "AREA", "STATUS", "BASE", "RADIUS"}, rows)
			case "quiet":
				for _, e := range employees {
					fmt.Println(e.ID)
				}
			default:
				output(employees, "")
			}
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: Active|Deactive|all")
	cmd.Flags().StringVar(&search, "search", "", "Match name, employee ID or role")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func employeeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an employee by internal ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e, err := apiClient.Employees.Get(context.Background(), args[0])
			if err != nil {
				fatal("get employee", err)
			}
			output(e, e.ID)
		},
	}
}

// employeeFields are the shared create/update flags.
type employeeFields struct {
	fullName, role, spvr, address, franchise, area, status string
	lat, lng                                               float64
	radius                                                 int
}

func (f *employeeFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&f.role, "role", "", "Role")
	cmd.Flags().StringVar(&f.spvr, "spvr", "", "Supervisor")
	cmd.Flags().StringVar(&f.address, "address", "", "Address")
	cmd.Flags().StringVar(&f.franchise, "franchise", "", "Franchise")
	cmd.Flags().StringVar(&f.area, "area", "", "Area")
	cmd.Flags().StringVar(&f.status, "status", "", "Active or Deactive")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "Base latitude")
	cmd.Flags().Float64Var(&f.lng, "lng", 0, "Base longitude")
	cmd.Flags().IntVar(&f.radius, "radius", 0, "Geofence radius in meters")
}

// changed returns a pointer to v when the named flag was set.
func changed[T any](cmd *cobra.Command, name string, v T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func employeeCreateCmd() *cobra.Command {
	var f employeeFields
	cmd := &cobra.Command{
		Use:   "create <employee-id>",
		Short: "Register an employee (admin)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateEmployeeRequest{
				EmployeeID:   args[0],
				FullName:     f.fullName,
				Role:         f.role,
				Spvr:         changed(cmd, "spvr", f.spvr),
				Address:      changed(cmd, "address", f.address),
				Franchise:    changed(cmd, "franchise", f.franchise),
				Latitude:     changed(cmd, "lat", f.lat),
				Longitude:    changed(cmd, "lng", f.lng),
				Area:         f.area,
				Status:       f.status,
				RadiusMeters: f.radius,
			}
			e, err := apiClient.Employees.Create(context.Background(), req)
			if err != nil {
				fatal("create employee", err)
			}
			output(e, e.ID)
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func employeeUpdateCmd() *cobra.Command {
	var f employeeFields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an employee (admin)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateEmployeeRequest{
				FullName:     changed(cmd, "name", f.fullName),
				Role:         changed(cmd, "role", f.role),
				Spvr:         changed(cmd, "spvr", f.spvr),
				Address:      changed(cmd, "address", f.address),
				Franchise:    changed(cmd, "franchise", f.franchise),
				Area:         changed(cmd, "area", f.area),
				Status:       changed(cmd, "status", f.status),
				Latitude:     changed(cmd, "lat", f.lat),
				Longitude:    changed(cmd, "lng", f.lng),
				RadiusMeters: changed(cmd, "radius", f.radius),
			}
			e, err := apiClient.Employees.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update employee", err)
			}
			output(e, e.ID)
		},
	}
	f.register(cmd)
	return cmd
}

func employeeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee (admin)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Employees.Delete(context.Background(), args[0]); err != nil {
				fatal("delete employee", err)
			}
			fmt.Println("deleted")
		},
	}
}

func employeeStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show registry counts",
		Run: func(cmd *cobra.Command, args []string) {
			s, err := apiClient.Employees.Stats(context.Background())
			if err != nil {
				fatal("employee stats", err)
			}
			if flagFmt == "table" {
				formatTable(
					[]string{"METRIC", "VALUE"},
					[][]string{
						{"Total", strconv.Itoa(s.Total)},
						{"Active", strconv.Itoa(s.Active)},
						{"Inactive", strconv.Itoa(s.Inactive)},
						{"With GPS", strconv.Itoa(s.WithGPS)},
					},
				)
				return
			}
			output(s, strconv.Itoa(s.Total))
		},
	}
}
