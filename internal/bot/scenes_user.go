package bot

import (
	"context"
	"errors"
	"strings"

	"attendance.bot/internal/core"
	"attendance.bot/internal/core/model"
)

func (b *Bot) userMenuScene() *Scene {
	return &Scene{
		Name: sceneUserMenu,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			return "", b.sender.SendKeyboard(sess.ChatID, "Choose an action:", [][]string{
				{btnArrive, btnLeave},
			})
		},
	}
}

func (b *Bot) markArrivalScene() *Scene {
	return &Scene{
		Name: sceneMarkArrival,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			rec, err := b.marking.TodayRecord(ctx, sess.Username)
			if errors.Is(err, core.ErrNotAnEmployee) {
				if err := b.sender.SendText(sess.ChatID, "You are not on the employee roster."); err != nil {
					return "", err
				}
				return SceneExit, nil
			}
			if err != nil {
				return "", err
			}

			if rec != nil {
				if err := b.sender.SendText(sess.ChatID, "You have already marked your arrival today ✅"); err != nil {
					return "", err
				}
				return sceneUserMenu, nil
			}

			prompt := "You haven't marked arrival today. Send your location to confirm you are at the office 📍\n" +
				"Working off-site? Reply with a short reason instead."
			return "", b.sender.SendLocationRequest(sess.ChatID, prompt, "Send location")
		},
		OnLocation: func(ctx context.Context, sess *Session, lat, lon float64) (string, error) {
			err := b.marking.CheckIn(ctx, sess.Username, &model.GeoPoint{Latitude: lat, Longitude: lon}, "")
			return b.replyForCheckIn(sess, err, "You are checked in ✅")
		},
		OnText: func(ctx context.Context, sess *Session, text string) (string, error) {
			reason := strings.TrimSpace(text)
			if reason == "" {
				return "", nil
			}
			err := b.marking.CheckIn(ctx, sess.Username, nil, reason)
			return b.replyForCheckIn(sess, err, "Your off-site day is recorded 📝")
		},
	}
}

// replyForCheckIn turns a marking result into the user-facing reply. Domain
// errors are expected outcomes and never propagate further.
func (b *Bot) replyForCheckIn(sess *Session, err error, success string) (string, error) {
	var reply string
	switch {
	case err == nil:
		reply = success
	case errors.Is(err, core.ErrOutOfRange):
		reply = "You are far from the office, try again when you are at the office 📍"
	case errors.Is(err, core.ErrAlreadyCheckedIn):
		reply = "You have already marked your arrival today ✅"
	case errors.Is(err, core.ErrLocationNotConfigured):
		reply = "The office zone has not been set yet, ask an administrator to set it first ⚠️"
	case errors.Is(err, core.ErrNotAnEmployee):
		reply = "You are not on the employee roster."
	default:
		return "", err
	}

	if sendErr := b.sender.SendText(sess.ChatID, reply); sendErr != nil {
		return "", sendErr
	}
	return sceneUserMenu, nil
}

func (b *Bot) markLeavingScene() *Scene {
	return &Scene{
		Name: sceneMarkLeaving,
		OnEnter: func(ctx context.Context, sess *Session) (string, error) {
			err := b.marking.CheckOut(ctx, sess.Username)

			var reply string
			switch {
			case err == nil:
				reply = "You marked your leaving, thank you and have a nice day ✅"
			case errors.Is(err, core.ErrNotAnEmployee):
				reply = "You are not on the employee roster."
			case errors.Is(err, core.ErrNoCheckInToday):
				reply = "You haven't marked arrival today, mark your arrival first ⚠️"
			case errors.Is(err, core.ErrAlreadyCheckedOut):
				reply = "You have already marked your leaving, have a nice day ✅"
			default:
				return "", err
			}

			if sendErr := b.sender.SendText(sess.ChatID, reply); sendErr != nil {
				return "", sendErr
			}
			return sceneUserMenu, nil
		},
	}
}
