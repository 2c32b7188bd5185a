package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/console"
)

func (c *cli) newEmployeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Manage the employees of your company (admins only)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			employees, err := console.NewEmployeeDirectory(c.client).List(cmd.Context())
			if err != nil {
				return err
			}
			return printEmployees(c.out, employees)
		},
	}

	var req dto.EmployeeCreateRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			employee, err := console.NewEmployeeDirectory(c.client).Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created employee #%d (%s).\n", employee.ID, employee.Email)
			return nil
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "employee name")
	create.Flags().StringVar(&req.Email, "email", "", "employee email")
	create.Flags().StringVar(&req.Role, "role", "", "job role")
	create.Flags().StringVar(&req.Department, "department", "", "department")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an employee and their tickets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return &console.ValidationError{Field: "id", Err: err}
			}
			if err := console.NewEmployeeDirectory(c.client).Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted employee #%d.\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}
