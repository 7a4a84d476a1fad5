package service

import (
	"context"
	"errors"
	"strings"
	"time"

	dom "taskstore/internal/domain"
	"taskstore/internal/repo"
	"taskstore/internal/utils"

	"github.com/rs/zerolog"
)

// CreateTaskInput carries the client fields of a new task. Nil means absent or null.
type CreateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *string
	DueTime     *string
	Status      *string
}

// UpdateTaskInput carries the keys present in a partial update.
type UpdateTaskInput struct {
	Title       dom.Optional[*string]
	Description dom.Optional[*string]
	Priority    dom.Optional[*string]
	DueDate     dom.Optional[*string]
	DueTime     dom.Optional[*string]
	IsDone      dom.Optional[bool]
	Status      dom.Optional[*string]
}

type TaskService struct {
	repo repo.TaskRepo
	log  zerolog.Logger
	now  func() time.Time
}

func NewTaskService(r repo.TaskRepo, log zerolog.Logger) *TaskService {
	return &TaskService{repo: r, log: log, now: time.Now}
}

func (s *TaskService) List(ctx context.Context, sortBy, order string) ([]dom.Task, error) {
	sort := dom.ResolveSort(sortBy, order)
	list, err := s.repo.List(ctx, sort)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("column", string(sort.Column)).
		Str("direction", sort.Direction()).
		Int("count", len(list)).
		Msg("listed tasks")
	return list, nil
}

func (s *TaskService) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Task{}, s.storeErr(err)
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (dom.Task, error) {
	title := strings.TrimSpace(deref(in.Title))
	if title == "" {
		return dom.Task{}, invalid(msgTitleRequired)
	}
	priority := dom.PriorityMid
	if p := deref(in.Priority); p != "" {
		priority = dom.Priority(p)
		if !priority.Valid() {
			return dom.Task{}, invalid(msgPriorityInvalid)
		}
	}
	// status is stored unchecked on create; only the table constraint applies.
	status := dom.StatusOngoing
	if in.Status != nil {
		status = dom.Status(*in.Status)
	}

	t, err := s.repo.Create(ctx, dom.Task{
		Title:       title,
		Description: nonEmpty(in.Description),
		Priority:    priority,
		DueDate:     nonEmpty(in.DueDate),
		DueTime:     nonEmpty(in.DueTime),
		IsDone:      false,
		Status:      status,
		CreatedAt:   s.now().UTC().Format(dom.CreatedAtLayout),
	})
	if err != nil {
		return dom.Task{}, s.storeErr(err)
	}
	s.log.Info().Int64("task_id", t.ID).Msg("created task")
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, id int64, in UpdateTaskInput) (dom.Task, error) {
	var patch dom.TaskPatch

	if in.Title.Set {
		title := strings.TrimSpace(deref(in.Title.Value))
		if title == "" {
			return dom.Task{}, invalid(msgTitleEmpty)
		}
		patch.Title = dom.Some(title)
	}
	if in.Description.Set {
		patch.Description = dom.Some(nonEmpty(in.Description.Value))
	}
	if in.Priority.Set {
		p := dom.Priority(deref(in.Priority.Value))
		if in.Priority.Value == nil || !p.Valid() {
			return dom.Task{}, invalid(msgPriorityInvalid)
		}
		patch.Priority = dom.Some(p)
	}
	if in.DueDate.Set {
		patch.DueDate = dom.Some(nonEmpty(in.DueDate.Value))
	}
	if in.DueTime.Set {
		patch.DueTime = dom.Some(nonEmpty(in.DueTime.Value))
	}
	if in.IsDone.Set {
		patch.IsDone = dom.Some(in.IsDone.Value)
	}
	if in.Status.Set {
		st := dom.Status(deref(in.Status.Value))
		if in.Status.Value == nil || !st.Valid() {
			return dom.Task{}, invalid(msgStatusInvalid)
		}
		patch.Status = dom.Some(st)
	}
	if patch.Empty() {
		return dom.Task{}, invalid(msgNothingToUpdate)
	}

	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return dom.Task{}, s.storeErr(err)
	}
	s.log.Info().
		Int64("task_id", t.ID).
		Int("fields", len(patch.Assignments())).
		Msg("updated task")
	return t, nil
}

// Delete removes the task and returns it as it was just before deletion.
func (s *TaskService) Delete(ctx context.Context, id int64) (dom.Task, error) {
	t, err := s.repo.Delete(ctx, id)
	if err != nil {
		return dom.Task{}, s.storeErr(err)
	}
	s.log.Info().Int64("task_id", t.ID).Msg("deleted task")
	return t, nil
}

func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *TaskService) storeErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrNoRows):
		return ErrNotFound
	case utils.IsCheckViolation(err):
		s.log.Warn().Err(err).Msg("store rejected task")
		return invalid(msgConstraint)
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonEmpty maps nil and "" to nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
