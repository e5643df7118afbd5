package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"attendance.bot/internal/core"
	"attendance.bot/internal/export"
)

var departments = []string{"Engineering", "Sales", "HR", "Operations"}

func (b *Bot) adminMenuScene() *Scene {
	return &Scene{
		Name: sceneAdminMenu,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			return "", b.sender.SendKeyboard(sess.ChatID, "Choose an action:", [][]string{
				{btnSetOffice},
				{btnStatsToday},
				{btnStatsWeek},
				{btnStatsMonth},
				{btnShowAdmins},
				{btnAddAdmin},
				{btnShowEmployees},
				{btnAddEmployee},
			})
		},
	}
}

func (b *Bot) setOfficeLocationScene() *Scene {
	return &Scene{
		Name: sceneSetOfficeLocation,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			prompt := "Let's set the office zone. <b>Press the button to share a location.</b>\n" +
				"⚠️ Use a phone to share the location ⚠️"
			if err := b.sender.SendHTML(sess.ChatID, prompt); err != nil {
				return "", err
			}
			return "", b.sender.SendLocationRequest(sess.ChatID, "Waiting for the office location:", "Send location")
		},
		OnLocation: func(ctx context.Context, sess *Session, lat, lon float64) (string, error) {
			if err := b.repo.SetOfficeLocation(ctx, lat, lon); err != nil {
				return "", fmt.Errorf("storing office location: %w", err)
			}
			confirm := fmt.Sprintf(
				"Office zone set ✅\nEmployees must be within %.0f meters of this point to mark attendance 📍",
				b.radiusMeters)
			if err := b.sender.SendText(sess.ChatID, confirm); err != nil {
				return "", err
			}
			return sceneAdminMenu, nil
		},
	}
}

// addEmployeeScene walks the admin through the employee draft one field at a
// time. Progress is an explicit step enum; input of the wrong kind for the
// current step is dropped so the chain cannot be reordered.
func (b *Bot) addEmployeeScene() *Scene {
	return &Scene{
		Name: sceneAddEmployee,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			sess.Step = AwaitingUsername
			return "", b.sender.SendHTML(sess.ChatID, "Enter the employee's <b>username</b> (without @):")
		},
		OnText: func(ctx context.Context, sess *Session, text string) (string, error) {
			value := strings.TrimSpace(text)
			if value == "" {
				return "", nil
			}

			switch sess.Step {
			case AwaitingUsername:
				sess.Draft.Username = strings.TrimPrefix(value, "@")
				sess.Step = AwaitingFullname
				return "", b.sender.SendText(sess.ChatID, "Enter the employee's full name:")
			case AwaitingFullname:
				sess.Draft.FullName = value
				sess.Step = AwaitingPosition
				return "", b.sender.SendText(sess.ChatID, "Enter the employee's position:")
			case AwaitingPosition:
				sess.Draft.Position = value
				sess.Step = AwaitingDepartment
				row := make([]Button, 0, len(departments))
				for _, d := range departments {
					row = append(row, Button{Label: d, Data: "dept:" + d})
				}
				return "", b.sender.SendInlineButtons(sess.ChatID, "Pick a department:", [][]Button{row})
			default:
				// Text while a button step is pending: ignored.
				return "", nil
			}
		},
		OnCallback: func(ctx context.Context, sess *Session, data string) (string, error) {
			switch {
			case sess.Step == AwaitingDepartment && strings.HasPrefix(data, "dept:"):
				sess.Draft.Department = strings.TrimPrefix(data, "dept:")
				sess.Step = AwaitingAdminFlag
				return "", b.sender.SendInlineButtons(sess.ChatID, "Grant administrator rights?", [][]Button{{
					{Label: "Yes", Data: "admin:yes"},
					{Label: "No", Data: "admin:no"},
				}})
			case sess.Step == AwaitingAdminFlag && strings.HasPrefix(data, "admin:"):
				sess.Draft.IsAdmin = data == "admin:yes"
				if _, err := b.repo.CreateEmployee(ctx, sess.Draft); err != nil {
					return "", fmt.Errorf("creating employee: %w", err)
				}
				if err := b.sender.SendText(sess.ChatID, "Employee added ✅"); err != nil {
					return "", err
				}
				return sceneAdminMenu, nil
			default:
				return "", nil
			}
		},
	}
}

func (b *Bot) showEmployeesScene() *Scene {
	return &Scene{
		Name: sceneShowEmployees,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			employees, err := b.repo.ListEmployees(ctx)
			if err != nil {
				return "", fmt.Errorf("listing employees: %w", err)
			}
			if len(employees) == 0 {
				if err := b.sender.SendText(sess.ChatID, "The roster is empty."); err != nil {
					return "", err
				}
				return sceneAdminMenu, nil
			}

			for _, emp := range employees {
				id := strconv.FormatInt(emp.ID, 10)
				rows := [][]Button{
					{{Label: "Attendance for today", Data: "emp:today:" + id}},
					{{Label: "Attendance for the week", Data: "emp:week:" + id}},
					{{Label: "Attendance for the month", Data: "emp:month:" + id}},
					{{Label: "Export month to Excel 📊", Data: "emp:export:" + id}},
					{{Label: "Remove employee ❌", Data: "emp:delete:" + id}},
				}
				if err := b.sender.SendInlineButtons(sess.ChatID, emp.Username, rows); err != nil {
					return "", err
				}
			}
			return "", nil
		},
		OnCallback: b.handleEmployeeCallback,
	}
}

func (b *Bot) handleEmployeeCallback(ctx context.Context, sess *Session, data string) (string, error) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 || parts[0] != "emp" {
		return "", nil
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", nil
	}

	switch parts[1] {
	case "today":
		rows, err := b.reports.TodayFor(ctx, id)
		if err != nil {
			return b.replyForReport(sess, err)
		}
		row := rows[0]
		text := fmt.Sprintf("<b>Employee:</b> %s\n\nArrived: %s\n\nLeft: %s",
			html.EscapeString(row.EmployeeName), row.Arrival, row.Departure)
		return "", b.sender.SendHTML(sess.ChatID, text)

	case "week":
		rows, err := b.reports.Week(ctx, id)
		if err != nil {
			return b.replyForReport(sess, err)
		}
		table := core.RenderTable("Day", rows)
		return "", b.sender.SendHTML(sess.ChatID, "<pre>"+html.EscapeString(table)+"</pre>")

	case "month":
		rows, err := b.reports.Month(ctx, id)
		if err != nil {
			return b.replyForReport(sess, err)
		}
		table := core.RenderTable("Date", rows)
		return "", b.sender.SendHTML(sess.ChatID, "<pre>"+html.EscapeString(table)+"</pre>")

	case "export":
		rows, err := b.reports.Month(ctx, id)
		if err != nil {
			return b.replyForReport(sess, err)
		}
		header, cells := core.ExportRows(rows)
		workbook, err := export.Workbook(header, cells)
		if err != nil {
			return "", fmt.Errorf("building workbook: %w", err)
		}
		return "", b.sender.SendDocument(sess.ChatID, export.Filename("month", b.cal.Today()), workbook)

	case "delete":
		deleted, err := b.repo.DeleteEmployee(ctx, id)
		if err != nil {
			return "", fmt.Errorf("deleting employee: %w", err)
		}
		reply := "Employee removed ✅"
		if !deleted {
			reply = "Employee not found."
		}
		if err := b.sender.SendText(sess.ChatID, reply); err != nil {
			return "", err
		}
		return sceneAdminMenu, nil
	}
	return "", nil
}

func (b *Bot) replyForReport(sess *Session, err error) (string, error) {
	if errors.Is(err, core.ErrEmployeeNotFound) {
		return "", b.sender.SendText(sess.ChatID, "Employee not found.")
	}
	return "", err
}

func (b *Bot) showAdminsScene() *Scene {
	return &Scene{
		Name: sceneShowAdmins,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			admins, err := b.repo.ListAdmins(ctx)
			if err != nil {
				return "", fmt.Errorf("listing admins: %w", err)
			}
			if len(admins) == 0 {
				if err := b.sender.SendText(sess.ChatID, "There are no administrators."); err != nil {
					return "", err
				}
				return sceneAdminMenu, nil
			}

			for _, admin := range admins {
				rows := [][]Button{{
					{Label: "Revoke admin ❌", Data: "adm:del:" + strconv.FormatInt(admin.ID, 10)},
				}}
				if err := b.sender.SendInlineButtons(sess.ChatID, admin.Username, rows); err != nil {
					return "", err
				}
			}
			return "", nil
		},
		OnCallback: func(ctx context.Context, sess *Session, data string) (string, error) {
			idStr, ok := strings.CutPrefix(data, "adm:del:")
			if !ok {
				return "", nil
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				return "", nil
			}
			if _, err := b.repo.DeleteAdmin(ctx, id); err != nil {
				return "", fmt.Errorf("revoking admin: %w", err)
			}
			if err := b.sender.SendText(sess.ChatID, "Administrator removed ✅"); err != nil {
				return "", err
			}
			return sceneAdminMenu, nil
		},
	}
}

func (b *Bot) addAdminScene() *Scene {
	return &Scene{
		Name: sceneAddAdmin,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			return "", b.sender.SendHTML(sess.ChatID, "Enter the <b>username</b> to grant admin rights (without @):")
		},
		OnText: func(ctx context.Context, sess *Session, text string) (string, error) {
			username := strings.TrimPrefix(strings.TrimSpace(text), "@")
			if username == "" {
				return "", nil
			}
			if _, err := b.repo.CreateAdmin(ctx, username); err != nil {
				return "", fmt.Errorf("creating admin: %w", err)
			}
			if err := b.sender.SendText(sess.ChatID, "Administrator added ✅"); err != nil {
				return "", err
			}
			return sceneAdminMenu, nil
		},
	}
}

func (b *Bot) statsTodayScene() *Scene {
	return &Scene{
		Name: sceneStatsToday,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			if err := b.sender.SendText(sess.ChatID, "Attendance stats for today"); err != nil {
				return "", err
			}
			rows, err := b.reports.Today(ctx)
			if err != nil {
				return "", fmt.Errorf("building today report: %w", err)
			}
			table := core.RenderTable("Employee", rows)
			if err := b.sender.SendHTML(sess.ChatID, "<pre>"+html.EscapeString(table)+"</pre>"); err != nil {
				return "", err
			}
			return "", b.sender.SendInlineButtons(sess.ChatID, "Need a spreadsheet?", [][]Button{{
				{Label: "Export to Excel 📊", Data: "stats:export"},
			}})
		},
		OnCallback: func(ctx context.Context, sess *Session, data string) (string, error) {
			if data != "stats:export" {
				return "", nil
			}
			rows, err := b.reports.Today(ctx)
			if err != nil {
				return "", fmt.Errorf("building today report: %w", err)
			}
			header, cells := core.ExportRows(rows)
			workbook, err := export.Workbook(header, cells)
			if err != nil {
				return "", fmt.Errorf("building workbook: %w", err)
			}
			if err := b.sender.SendDocument(sess.ChatID, export.Filename("today", b.cal.Today()), workbook); err != nil {
				return "", err
			}
			return sceneAdminMenu, nil
		},
	}
}
