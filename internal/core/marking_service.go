package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/repository"
)

// MarkingService decides whether a check-in or check-out is allowed and
// records it. All "today" decisions are made in the office timezone.
type MarkingService struct {
	repo         repository.Repository
	cal          *Calendar
	radiusMeters float64
}

// NewMarkingService wires the eligibility engine up with its repository,
// the office calendar and the configured geofence radius.
func NewMarkingService(repo repository.Repository, cal *Calendar, radiusMeters float64) *MarkingService {
	return &MarkingService{
		repo:         repo,
		cal:          cal,
		radiusMeters: radiusMeters,
	}
}

// Roster resolves a chat username to a roster entry, or ErrNotAnEmployee.
func (s *MarkingService) Roster(ctx context.Context, username string) (*model.Employee, error) {
	emp, err := s.repo.FindEmployeeByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("looking up employee %q: %w", username, err)
	}
	if emp == nil {
		return nil, ErrNotAnEmployee
	}
	return emp, nil
}

// TodayRecord returns the employee's attendance record for the current office
// day, or nil when they have not marked arrival yet.
func (s *MarkingService) TodayRecord(ctx context.Context, username string) (*model.AttendanceRecord, error) {
	emp, err := s.Roster(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAttendanceOn(ctx, emp.ID, s.cal.Today())
}

// CheckIn validates and records an arrival. With a location it enforces the
// geofence; with a non-empty reason the geofence is skipped and the reason is
// stored (off-site justification). Exactly one record is created on success,
// none on failure.
func (s *MarkingService) CheckIn(ctx context.Context, username string, loc *model.GeoPoint, reason string) error {
	emp, err := s.Roster(ctx, username)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	today := s.cal.DayKey(now)

	existing, err := s.repo.FindAttendanceOn(ctx, emp.ID, today)
	if err != nil {
		return fmt.Errorf("checking today's attendance: %w", err)
	}
	if existing != nil {
		return ErrAlreadyCheckedIn
	}

	var storedReason *string
	if reason == "" {
		if loc == nil {
			return ErrLocationRequired
		}
		office, err := s.repo.GetOfficeLocation(ctx)
		if err != nil {
			return fmt.Errorf("loading office location: %w", err)
		}
		if office == nil {
			return ErrLocationNotConfigured
		}
		distance := DistanceMeters(office.Latitude, office.Longitude, loc.Latitude, loc.Longitude)
		if distance > s.radiusMeters {
			return ErrOutOfRange
		}
	} else {
		storedReason = &reason
	}

	_, err = s.repo.InsertCheckIn(ctx, emp.ID, now, today, storedReason)
	if errors.Is(err, repository.ErrDuplicateCheckIn) {
		// Lost the race against a concurrent check-in for the same day.
		return ErrAlreadyCheckedIn
	}
	if err != nil {
		return fmt.Errorf("recording check-in: %w", err)
	}
	return nil
}

// CheckOut sets the leaving time on today's record. The record is mutated at
// most once; a repeat check-out is rejected.
func (s *MarkingService) CheckOut(ctx context.Context, username string) error {
	emp, err := s.Roster(ctx, username)
	if err != nil {
		return err
	}

	rec, err := s.repo.FindAttendanceOn(ctx, emp.ID, s.cal.Today())
	if err != nil {
		return fmt.Errorf("checking today's attendance: %w", err)
	}
	if rec == nil {
		return ErrNoCheckInToday
	}
	if rec.LeavingTime != nil {
		return ErrAlreadyCheckedOut
	}

	updated, err := s.repo.SetCheckOutTime(ctx, rec.ID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording check-out: %w", err)
	}
	if !updated {
		// A concurrent check-out got there first.
		return ErrAlreadyCheckedOut
	}
	return nil
}
