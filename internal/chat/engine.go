package chat

import (
	"context"
	"strings"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine drives the requirement questionnaires against a Store. It holds no
// per-conversation state.
type Engine struct {
	store    Store
	editMode EditMode
}

type Options struct {
	EditMode EditMode
}

func NewEngine(store Store, opts Options) *Engine {
	mode := opts.EditMode
	if mode == "" {
		mode = EditHeuristic
	}
	return &Engine{store: store, editMode: mode}
}

// Start loads what is already persisted for the project and positions the
// session at the first unanswered step, even when later steps are answered.
func (e *Engine) Start(ctx context.Context, projectID, userID uuid.UUID, flow Flow) (Session, string, error) {
	logger.L().Info("chat start", zap.String("project_id", projectID.String()), zap.String("user_id", userID.String()), zap.String("flow", string(flow)))

	if _, err := ParseFlow(string(flow)); err != nil {
		return Session{}, "", err
	}
	s := Session{ProjectID: projectID, UserID: userID, Flow: flow}

	var err error
	if flow == FlowDesign {
		err = e.loadDesign(ctx, &s)
	} else {
		err = e.loadFunctional(ctx, &s)
	}
	if err != nil {
		return Session{}, "", err
	}

	s.Step = StepAdditional
	for _, f := range flow.fields() {
		if !f.filled(&s.Data) {
			s.Step = f.step
			break
		}
	}
	if s.Step == StepAdditional && flow == FlowDesign && s.Data.AdditionalRequirements != "" {
		s.Step = StepComplete
	}

	logger.L().Info("chat resumed", zap.String("project_id", projectID.String()), zap.String("step", string(s.Step)))
	return s, Prompt(flow, s.Step), nil
}

func (e *Engine) loadFunctional(ctx context.Context, s *Session) error {
	p, err := e.store.GetProject(ctx, s.ProjectID)
	if err != nil {
		return err
	}
	s.Data.Name = p.Name
	s.Data.Description = p.Description
	s.Data.Audience = p.Audience
	s.Data.Appendix = p.HasAppendixTab
	s.Data.MetricLogic = p.HasMetricLogicTab

	fr, err := e.store.GetFunctional(ctx, s.ProjectID)
	if err != nil {
		return err
	}
	if fr != nil {
		s.Data.DataSources = []string(fr.DataSources)
		s.Data.Metrics = []string(fr.Metrics)
	}

	tabs, err := e.store.ListTabs(ctx, s.ProjectID)
	if err != nil {
		return err
	}
	for _, t := range tabs {
		s.Data.Tabs = append(s.Data.Tabs, t.Name)
	}

	filters, err := e.store.ListGlobalFilters(ctx, s.ProjectID)
	if err != nil {
		return err
	}
	for _, f := range filters {
		s.Data.Filters = append(s.Data.Filters, f.Name)
	}
	return nil
}

func (e *Engine) loadDesign(ctx context.Context, s *Session) error {
	if _, err := e.store.GetProject(ctx, s.ProjectID); err != nil {
		return err
	}
	dr, err := e.store.GetDesign(ctx, s.ProjectID)
	if err != nil {
		return err
	}
	if dr != nil {
		s.Data.DashboardSize = dr.DashboardSize
		s.Data.ColorPalette = []string(dr.ColorPalette)
		s.Data.Fonts = []string(dr.Fonts)
		s.Data.LogoURL = dr.LogoURL
		s.Data.LogoLocation = dr.LogoLocation
		s.Data.AdditionalRequirements = dr.AdditionalRequirements
	}
	return nil
}

// Submit feeds one line of input to the session and returns the updated
// session with the reply to show. On a persistence error the session comes
// back unchanged.
func (e *Engine) Submit(ctx context.Context, s Session, input string) (Session, string, error) {
	input = strings.TrimSpace(input)
	if s.Step == StepAdditional || s.Step == StepComplete {
		return e.tail(ctx, s, input)
	}

	f, ok := s.Flow.field(s.Step)
	if !ok {
		return s, "", appErr.Newf(appErr.CodeInvalid, "step %q is not part of the %s flow", s.Step, s.Flow)
	}
	v, ok := f.parse(input)
	if !ok {
		return s, Prompt(s.Flow, s.Step), nil
	}
	if err := e.save(ctx, s, f, v); err != nil {
		return s, "", err
	}
	f.apply(&s.Data, v)
	s.Step = s.Flow.next(s.Step)
	return s, Prompt(s.Flow, s.Step), nil
}

func (e *Engine) save(ctx context.Context, s Session, f field, v value) error {
	if err := f.save(ctx, e.store, s, v); err != nil {
		logger.L().Error("chat save failed",
			zap.String("project_id", s.ProjectID.String()),
			zap.String("flow", string(s.Flow)),
			zap.String("step", string(f.step)),
			zap.Error(err))
		return err
	}
	return nil
}

// tail handles the open-ended additional and complete steps.
func (e *Engine) tail(ctx context.Context, s Session, input string) (Session, string, error) {
	lower := strings.ToLower(input)
	switch {
	case input == "":
		return s, Prompt(s.Flow, s.Step), nil
	case s.Flow == FlowFunctional && lower == "done":
		s.Step = StepComplete
		return s, Prompt(s.Flow, StepComplete), nil
	case lower == "help" || lower == "?":
		return s, Help(s.Flow), nil
	case IsEditCommand(input, e.editMode):
		return e.interpret(ctx, s, input)
	}

	if s.Flow == FlowDesign {
		return e.designNote(ctx, s, input)
	}
	if err := e.store.AppendAdditional(ctx, s.ProjectID, models.CategoryFunctional, input); err != nil {
		logger.L().Error("append additional requirement failed", zap.String("project_id", s.ProjectID.String()), zap.Error(err))
		return s, "", err
	}
	return s, "Noted. Add another requirement, edit an answer, or type \"done\" to finish.", nil
}

// designNote stores a free design note as the additional requirements text,
// replacing any earlier note, and keeps it in the requirement log.
func (e *Engine) designNote(ctx context.Context, s Session, input string) (Session, string, error) {
	if err := e.store.UpsertDesign(ctx, s.ProjectID, map[string]any{"additional_requirements": input}); err != nil {
		logger.L().Error("save design note failed", zap.String("project_id", s.ProjectID.String()), zap.Error(err))
		return s, "", err
	}
	if err := e.store.AppendAdditional(ctx, s.ProjectID, models.CategoryDesign, input); err != nil {
		logger.L().Error("append additional requirement failed", zap.String("project_id", s.ProjectID.String()), zap.Error(err))
		return s, "", err
	}
	replaced := s.Data.AdditionalRequirements != ""
	s.Data.AdditionalRequirements = input
	s.Step = StepComplete
	if replaced {
		return s, "Additional design requirements updated.", nil
	}
	return s, Prompt(s.Flow, StepComplete), nil
}
