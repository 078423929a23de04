package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/campdir/backend/internal/domain"
	"github.com/campdir/backend/internal/repo"
)

// Lifecycle owns the cascade that keeps courses from outliving their camp.
type Lifecycle struct {
	courses       repo.CourseRepo
	courseService *CourseService
	log           *slog.Logger
}

// NewLifecycle constructs the coordinator. Courses are removed through
// courseService so each removal runs the average cost recompute.
func NewLifecycle(courses repo.CourseRepo, courseService *CourseService, log *slog.Logger) *Lifecycle {
	return &Lifecycle{courses: courses, courseService: courseService, log: log}
}

// OnCampRemove deletes every course referencing campID and reports how many
// were removed. It must run before the camp row is deleted.
//
// Courses are removed one by one; a course already deleted by a concurrent
// request is skipped. A final sweep catches courses created while the
// cascade was running. None of this is atomic: if the process dies part way,
// the camp survives with some of its courses gone.
func (l *Lifecycle) OnCampRemove(ctx context.Context, campID uuid.UUID) (int, error) {
	courses, err := l.courses.ListByCampID(ctx, campID)
	if err != nil {
		return 0, fmt.Errorf("service.Lifecycle.OnCampRemove: %w", err)
	}

	removed := 0
	for _, c := range courses {
		err := l.courseService.remove(ctx, c)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("service.Lifecycle.OnCampRemove: course %s: %w", c.ID, err)
		}
		removed++
	}

	swept, err := l.courses.DeleteByCampID(ctx, campID)
	if err != nil {
		return removed, fmt.Errorf("service.Lifecycle.OnCampRemove: sweep: %w", err)
	}
	if swept > 0 {
		l.log.WarnContext(ctx, "removed courses created during camp removal",
			"camp_id", campID, "count", swept)
		l.courseService.afterRemove(ctx, campID)
	}

	l.log.InfoContext(ctx, "camp courses removed", "camp_id", campID, "count", removed+int(swept))
	return removed + int(swept), nil
}
