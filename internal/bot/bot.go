package bot

import (
	"context"
	"errors"
	"fmt"

	"attendance.bot/internal/core"
	"attendance.bot/internal/ports/repository"
	"attendance.bot/pkg/logger"
	"attendance.bot/pkg/telemetry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// Scene names.
const (
	sceneUserMenu          = "userMenu"
	sceneMarkArrival       = "markArrival"
	sceneMarkLeaving       = "markLeaving"
	sceneAdminMenu         = "adminMenu"
	sceneSetOfficeLocation = "setOfficeLocation"
	sceneAddEmployee       = "addEmployee"
	sceneShowEmployees     = "showEmployees"
	sceneShowAdmins        = "showAdmins"
	sceneAddAdmin          = "addAdmin"
	sceneStatsToday        = "statsToday"
)

// Menu button texts. These double as the global bindings that enter scenes.
const (
	btnArrive        = "I'm here ✌️"
	btnLeave         = "I'm leaving 👋"
	btnSetOffice     = "Set office zone"
	btnStatsToday    = "Attendance stats for today"
	btnStatsWeek     = "Attendance stats for the week"
	btnStatsMonth    = "Attendance stats for the month"
	btnShowAdmins    = "List admins"
	btnAddAdmin      = "Add admin"
	btnShowEmployees = "List employees"
	btnAddEmployee   = "Add employee"
)

// Bot glues the conversation state machine to the attendance engine and the
// report aggregator. Scene handlers hold no business logic of their own; they
// orchestrate calls into the core services and pick reply messages.
type Bot struct {
	machine      *Machine
	sender       Sender
	repo         repository.Repository
	marking      *core.MarkingService
	reports      *core.ReportService
	cal          *core.Calendar
	radiusMeters float64
}

// New builds the bot: registers every scene, the menu bindings and the slash
// commands.
func New(sender Sender, repo repository.Repository, marking *core.MarkingService, reports *core.ReportService, cal *core.Calendar, radiusMeters float64) *Bot {
	b := &Bot{
		machine:      NewMachine(sender),
		sender:       sender,
		repo:         repo,
		marking:      marking,
		reports:      reports,
		cal:          cal,
		radiusMeters: radiusMeters,
	}

	b.machine.Register(b.userMenuScene())
	b.machine.Register(b.markArrivalScene())
	b.machine.Register(b.markLeavingScene())
	b.machine.Register(b.adminMenuScene())
	b.machine.Register(b.setOfficeLocationScene())
	b.machine.Register(b.addEmployeeScene())
	b.machine.Register(b.showEmployeesScene())
	b.machine.Register(b.showAdminsScene())
	b.machine.Register(b.addAdminScene())
	b.machine.Register(b.statsTodayScene())

	b.machine.Bind(btnArrive, sceneMarkArrival, false)
	b.machine.Bind(btnLeave, sceneMarkLeaving, false)
	b.machine.Bind(btnSetOffice, sceneSetOfficeLocation, true)
	b.machine.Bind(btnStatsToday, sceneStatsToday, true)
	// Week and month stats are per-employee; both buttons lead to the
	// employee list where the stat buttons live.
	b.machine.Bind(btnStatsWeek, sceneShowEmployees, true)
	b.machine.Bind(btnStatsMonth, sceneShowEmployees, true)
	b.machine.Bind(btnShowAdmins, sceneShowAdmins, true)
	b.machine.Bind(btnAddAdmin, sceneAddAdmin, true)
	b.machine.Bind(btnShowEmployees, sceneShowEmployees, true)
	b.machine.Bind(btnAddEmployee, sceneAddEmployee, true)

	b.machine.Command("start", b.handleStart)
	b.machine.Command("info", b.handleInfo)

	return b
}

// HandleUpdate converts one Telegram update into an event and dispatches it.
// Each update is one logical unit of work with its own span and chat-scoped
// logger.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ev, ok := toEvent(update)
	if !ok {
		return
	}

	ctx, span := telemetry.StartUpdateSpan(ctx, string(ev.Kind), ev.ChatID, ev.Username)
	defer span.End()
	ctx = logger.EnrichContextWithLogger(ctx)
	ctx = logger.WithChat(ctx, ev.ChatID, ev.Username)

	log.Ctx(ctx).Debug().Str("kind", string(ev.Kind)).Msg("Dispatching update")
	b.machine.Dispatch(ctx, ev)
}

func toEvent(update tgbotapi.Update) (Event, bool) {
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return Event{
			Kind:     EventCallback,
			ChatID:   update.CallbackQuery.Message.Chat.ID,
			Username: update.CallbackQuery.From.UserName,
			Text:     update.CallbackQuery.Data,
		}, true
	}

	msg := update.Message
	if msg == nil {
		return Event{}, false
	}

	ev := Event{ChatID: msg.Chat.ID}
	if msg.From != nil {
		ev.Username = msg.From.UserName
	}

	switch {
	case msg.IsCommand():
		ev.Kind = EventCommand
		ev.Text = msg.Command()
	case msg.Location != nil:
		ev.Kind = EventLocation
		ev.Latitude = msg.Location.Latitude
		ev.Longitude = msg.Location.Longitude
	case msg.Text != "":
		ev.Kind = EventText
		ev.Text = msg.Text
	default:
		return Event{}, false
	}
	return ev, true
}

// handleStart resolves the user against the roster and fans out to the admin
// or user root menu. Unknown users get a rejection and no active scene.
func (b *Bot) handleStart(ctx context.Context, sess *Session) (string, error) {
	emp, err := b.marking.Roster(ctx, sess.Username)
	if errors.Is(err, core.ErrNotAnEmployee) {
		sess.IsAdmin = false
		if err := b.sender.SendText(sess.ChatID, "You are not on the employee roster."); err != nil {
			return "", err
		}
		return SceneExit, nil
	}
	if err != nil {
		return "", err
	}

	sess.IsAdmin = emp.IsAdmin
	// Best effort: remember which chat the employee talks from.
	if err := b.repo.SetEmployeeChatID(ctx, emp.ID, sess.ChatID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to record chat id")
	}

	if emp.IsAdmin {
		greeting := fmt.Sprintf("Welcome <b>%s</b>\nYou have administrator rights.", sess.Username)
		if err := b.sender.SendHTML(sess.ChatID, greeting); err != nil {
			return "", err
		}
		return sceneAdminMenu, nil
	}

	if err := b.sender.SendText(sess.ChatID, "Welcome"); err != nil {
		return "", err
	}
	return sceneUserMenu, nil
}

func (b *Bot) handleInfo(ctx context.Context, sess *Session) (string, error) {
	return "", b.sender.SendText(sess.ChatID,
		"Welcome, this bot tracks office attendance: mark your arrival and leaving, and admins get the reports.")
}
