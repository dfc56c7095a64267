package service

import (
	"context"
	"errors"
	"testing"

	"prezz/internal/dto"
	"prezz/internal/engine"
	pkgerrors "prezz/pkg/errors"
)

func TestAttendance_SavePayload(t *testing.T) {
	h := newHarness(t)

	_, err := h.att.Save(context.Background(), student(), []dto.SaveAttendanceItem{
		{ClassID: 100, Date: "2025-01-13T10:00:00+05:30", Status: "present", Reason: "ignored"},
		{ClassID: 200, Date: "2025-01-08", Status: "absent", Reason: "  Health Issue  "},
		{ClassID: 200, Date: "2025-01-15", Status: ""},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(h.src.saved) != 1 {
		t.Fatalf("expected one upstream call, got %d", len(h.src.saved))
	}
	sent := h.src.saved[0]
	if len(sent) != 2 {
		t.Fatalf("expected the unmarked item to be skipped, got %+v", sent)
	}
	if sent[0].Date != "2025-01-13" || sent[0].Reason != nil {
		t.Errorf("expected normalised date and no reason on present, got %+v", sent[0])
	}
	if sent[1].Reason == nil || *sent[1].Reason != "Health Issue" {
		t.Errorf("expected trimmed reason on absent, got %+v", sent[1])
	}
}

func TestAttendance_SaveRecomputesFromEcho(t *testing.T) {
	h := newHarness(t)

	res, err := h.att.Save(context.Background(), student(), []dto.SaveAttendanceItem{
		{ClassID: 100, Date: "2025-01-13", Status: "present"},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(res.Saved) != 1 || res.Saved[0].Date != "2025-01-13" || res.Saved[0].Status != engine.StatusPresent {
		t.Errorf("expected the normalised echo, got %+v", res.Saved)
	}
	math := findStats(t, res.Stats, engine.SubjectOwner(mathID))
	if math.Attended != 2 || math.Percentage != 100 {
		t.Errorf("expected Math 2/2 after the save, got %d/%d", math.Attended, math.Held)
	}
}

func TestAttendance_EchoIsAuthoritative(t *testing.T) {
	h := newHarness(t)
	// the backend stored something other than what was sent
	h.src.echo = []dto.AttendanceRecord{{ClassID: 200, Date: "2025-01-08T18:30:00.000Z", Status: "present"}}

	res, err := h.att.Save(context.Background(), student(), []dto.SaveAttendanceItem{
		{ClassID: 100, Date: "2025-01-13", Status: "present"},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	math := findStats(t, res.Stats, engine.SubjectOwner(mathID))
	if math.Attended != 1 {
		t.Errorf("expected Math unchanged at 1 attended, got %d", math.Attended)
	}
	// 18:30Z on the 8th is 00:00 IST on the 9th, which is not a Physics date
	physics := findStats(t, res.Stats, engine.SubjectOwner(physicsID))
	if physics.Attended != 0 {
		t.Errorf("expected Physics unchanged, got %d", physics.Attended)
	}
	if len(res.Saved) != 1 || res.Saved[0].Date != "2025-01-09" {
		t.Errorf("expected the echo normalised to 2025-01-09, got %+v", res.Saved)
	}
}

func TestAttendance_SaveUpdatesCachedSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.att.Save(ctx, student(), []dto.SaveAttendanceItem{
		{ClassID: 200, Date: "2025-01-15", Status: "present"},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	view, err := h.dash.ClassesOn(ctx, student(), "2025-01-15")
	if err != nil {
		t.Fatalf("ClassesOn: %v", err)
	}
	if len(view.Classes) != 1 || view.Classes[0].Status != engine.StatusPresent {
		t.Errorf("expected the saved mark, got %+v", view.Classes)
	}
	if n := h.src.count("ListAttendance"); n != 1 {
		t.Errorf("expected the merged snapshot to be served from cache, got %d fetches", n)
	}
}

func TestAttendance_SaveValidation(t *testing.T) {
	cases := []struct {
		name  string
		items []dto.SaveAttendanceItem
		want  error
	}{
		{"all unmarked", []dto.SaveAttendanceItem{{ClassID: 100, Date: "2025-01-13"}}, ErrNoMarks},
		{"empty", nil, ErrNoMarks},
		{"bad status", []dto.SaveAttendanceItem{{ClassID: 100, Date: "2025-01-13", Status: "late"}}, ErrInvalidStatus},
		{"bad date", []dto.SaveAttendanceItem{{ClassID: 100, Date: "13/01/2025", Status: "present"}}, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			if _, err := h.att.Save(context.Background(), student(), tc.items); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if h.src.count("SaveAttendance") != 0 {
				t.Error("expected nothing sent upstream")
			}
		})
	}
}

func TestAttendance_SaveStudentOnly(t *testing.T) {
	h := newHarness(t)
	items := []dto.SaveAttendanceItem{{ClassID: 100, Date: "2025-01-13", Status: "present"}}
	if _, err := h.att.Save(context.Background(), classRep(), items); !errors.Is(err, ErrStudentOnly) {
		t.Errorf("expected ErrStudentOnly, got %v", err)
	}
}

func TestAttendance_SaveUpstreamFailure(t *testing.T) {
	h := newHarness(t)
	h.src.errs["SaveAttendance"] = pkgerrors.ErrUpstreamRejected

	_, err := h.att.Save(context.Background(), student(), []dto.SaveAttendanceItem{
		{ClassID: 100, Date: "2025-01-13", Status: "present"},
	})
	if !errors.Is(err, pkgerrors.ErrUpstreamRejected) {
		t.Errorf("expected ErrUpstreamRejected, got %v", err)
	}

	// nothing optimistic reached the snapshot
	view, _ := h.dash.ClassesOn(context.Background(), student(), "2025-01-13")
	if len(view.Classes) != 1 || view.Classes[0].Status != engine.StatusAbsent {
		t.Errorf("expected the stored absence to remain, got %+v", view.Classes)
	}
}
