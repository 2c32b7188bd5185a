package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/console"
	"github.com/spec-kit/fras-portal/internal/domain"
)

const timeLayout = "2006-01-02 15:04"

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printTickets(out io.Writer, tickets []domain.Ticket, withEmployee bool) error {
	if len(tickets) == 0 {
		_, err := fmt.Fprintln(out, "No tickets.")
		return err
	}
	w := newTable(out)
	if withEmployee {
		fmt.Fprintln(w, "ID\tSTATUS\tEMPLOYEE\tCREATED\tUPDATED\tMESSAGE\tACTIONS")
	} else {
		fmt.Fprintln(w, "ID\tSTATUS\tCREATED\tUPDATED\tMESSAGE")
	}
	for _, t := range tickets {
		if withEmployee {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Status, employeeLabel(t), formatTime(t.CreatedAt), formatOptionalTime(t.UpdatedAt), t.Message, actionList(t))
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			t.ID, t.Status, formatTime(t.CreatedAt), formatOptionalTime(t.UpdatedAt), t.Message)
	}
	return w.Flush()
}

func printCounts(out io.Writer, counts console.StatusCounts) error {
	_, err := fmt.Fprintf(out, "\nTotal %d  Pending %d  In progress %d  Solved %d\n",
		counts.Total, counts.Pending, counts.InProgress, counts.Solved)
	return err
}

func printEmployees(out io.Writer, employees []dto.EmployeeResponse) error {
	if len(employees) == 0 {
		_, err := fmt.Fprintln(out, "No employees.")
		return err
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tDEPARTMENT")
	for _, e := range employees {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Email, e.Role, e.Department)
	}
	return w.Flush()
}

func employeeLabel(t domain.Ticket) string {
	if t.EmployeeName != nil && *t.EmployeeName != "" {
		return *t.EmployeeName
	}
	return fmt.Sprintf("#%d", t.EmployeeID)
}

func actionList(t domain.Ticket) string {
	label := ""
	for i, transition := range console.AvailableActions(t) {
		if i > 0 {
			label += ", "
		}
		label += string(transition.Action)
	}
	return label
}

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}
