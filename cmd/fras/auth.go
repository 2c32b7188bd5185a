package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/console"
	"github.com/spec-kit/fras-portal/internal/domain"
)

func (c *cli) newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin or an employee",
	}

	var email, password string
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Log in with admin email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := console.NewAuthAPI(c.client).LoginAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return c.printUser(user)
		},
	}
	admin.Flags().StringVar(&email, "email", "", "admin email")
	admin.Flags().StringVar(&password, "password", "", "admin password")
	_ = admin.MarkFlagRequired("email")
	_ = admin.MarkFlagRequired("password")

	var id int64
	var employeeEmail, company string
	employee := &cobra.Command{
		Use:   "employee",
		Short: "Log in with employee id, email and company",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := console.NewAuthAPI(c.client).LoginEmployee(cmd.Context(), id, employeeEmail, company)
			if err != nil {
				return err
			}
			return c.printUser(user)
		},
	}
	employee.Flags().Int64Var(&id, "id", 0, "employee id")
	employee.Flags().StringVar(&employeeEmail, "email", "", "employee email")
	employee.Flags().StringVar(&company, "company", "", "company name")
	_ = employee.MarkFlagRequired("id")
	_ = employee.MarkFlagRequired("email")
	_ = employee.MarkFlagRequired("company")

	cmd.AddCommand(admin, employee)
	return cmd
}

func (c *cli) newRegisterAdminCmd() *cobra.Command {
	var req dto.AdminRegisterRequest
	var role string
	cmd := &cobra.Command{
		Use:   "register-admin",
		Short: "Create an admin account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Role = domain.AdminRole(role)
			user, err := console.NewAuthAPI(c.client).RegisterAdmin(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.printUser(user)
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "admin name")
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&req.Company, "company", "", "company name")
	cmd.Flags().StringVar(&role, "role", string(domain.AdminRoleAdmin), "admin, manager or hr")
	for _, name := range []string{"name", "email", "password", "company"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (c *cli) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := console.NewAuthAPI(c.client).Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out.")
			return nil
		},
	}
}

func (c *cli) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(*cobra.Command, []string) error {
			user, ok := c.session.User()
			if !ok {
				return console.ErrNotLoggedIn
			}
			return c.printUser(user)
		},
	}
}

func (c *cli) printUser(user console.User) error {
	w := newTable(c.out)
	fmt.Fprintf(w, "User\t%s #%d\n", user.Type, user.ID)
	fmt.Fprintf(w, "Company\t%s\n", user.Company)
	if !user.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "Expires\t%s\n", user.ExpiresAt.Local().Format(time.RFC1123))
	}
	return w.Flush()
}
