package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/logger"
	"github.com/futig/resource-assistant/internal/repository"
	"github.com/futig/resource-assistant/internal/usecase/recommendation"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// IntakeUsecase drives the guided intake conversation
type IntakeUsecase struct {
	sessionRepo repository.SessionRepository
	recommender Recommender
	locks       *sessionLocks
	now         func() time.Time
	logger      *zap.Logger
}

func NewUsecase(
	sessionRepo repository.SessionRepository,
	recommender Recommender,
	logger *zap.Logger,
) *IntakeUsecase {
	return &IntakeUsecase{
		sessionRepo: sessionRepo,
		recommender: recommender,
		locks:       newSessionLocks(),
		now:         time.Now,
		logger:      logger,
	}
}

// Start creates a session and asks the first question
func (uc *IntakeUsecase) Start(ctx context.Context) (*entity.StartChatResponse, error) {
	now := uc.now()
	session := &entity.Session{
		ID:          uuid.New().String(),
		CurrentStep: entity.IntakeStepInitial,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// The greeting goes out together with the first question
	session.CurrentStep = entity.IntakeStepEmergency

	if err := uc.sessionRepo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ctx = logger.AddFields(ctx, zap.String("session_id", session.ID))
	ctxzap.Info(ctx, "intake session started")

	return &entity.StartChatResponse{
		SessionID:    session.ID,
		Message:      welcomeMessage,
		NextQuestion: questionFor(session),
	}, nil
}

// Respond records the answer for the current question and moves the session on.
// Calls for the same session are serialized.
func (uc *IntakeUsecase) Respond(
	ctx context.Context,
	sessionID string,
	questionType string,
	answer entity.Answer,
) (*entity.RespondResponse, error) {
	unlock := uc.locks.Lock(sessionID)
	defer unlock()

	session, err := uc.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.CurrentStep == entity.IntakeStepComplete {
		return nil, entity.ErrSessionCompleted
	}

	step := session.CurrentStep
	if step == entity.IntakeStepInitial {
		step = entity.IntakeStepEmergency
		session.CurrentStep = step
	}

	if questionType != "" && entity.IntakeStep(questionType) != step {
		return nil, fmt.Errorf("%w: expected %s, got %s", entity.ErrUnexpectedQuestion, step, questionType)
	}

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("step", string(step)),
	)

	var resp *entity.RespondResponse
	switch step {
	case entity.IntakeStepEmergency:
		resp, err = uc.answerEmergency(session, answer)
	case entity.IntakeStepZipCode:
		resp, err = uc.answerZipCode(session, answer)
	case entity.IntakeStepNeeds:
		resp, err = uc.answerNeeds(session, answer)
	case entity.IntakeStepHouseholdSize:
		resp, err = uc.answerHouseholdSize(session, answer)
	case entity.IntakeStepIncome:
		resp, err = uc.answerIncome(ctx, session, answer)
	case entity.IntakeStepMoreInfo:
		resp, err = uc.answerMoreInfo(session, answer)
	case entity.IntakeStepResourceDetail:
		resp, err = uc.answerResourceDetail(ctx, session, answer)
	default:
		return nil, fmt.Errorf("%w: unknown step %s", entity.ErrInvalidSession, step)
	}
	if err != nil {
		return nil, err
	}

	session.UpdatedAt = uc.now()
	if err := uc.sessionRepo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "intake answer recorded", zap.String("next_step", string(session.CurrentStep)))

	return resp, nil
}

// GetResources builds the printable report of the session's generated resources
func (uc *IntakeUsecase) GetResources(ctx context.Context, sessionID string) (*entity.ResourceReport, error) {
	session, err := uc.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	report := &entity.ResourceReport{
		Title:    "Family Support Resources",
		UserInfo: session.UserInfo,
		Sections: make([]entity.ReportSection, 0, 3),
	}

	for _, bucket := range bucketsInOrder(session.Buckets) {
		report.Sections = append(report.Sections, entity.ReportSection{
			Priority:  bucket.priority,
			Title:     BucketTitle(bucket.priority),
			Resources: bucket.resources,
		})
	}

	return report, nil
}

func (uc *IntakeUsecase) answerEmergency(session *entity.Session, answer entity.Answer) (*entity.RespondResponse, error) {
	emergency, err := parseYesNo(answer)
	if err != nil {
		return nil, err
	}

	session.UserInfo.Emergency = &emergency
	session.CurrentStep = entity.IntakeStepZipCode

	message := nonEmergencyAck
	if emergency {
		message = emergencyAck
	}

	return uc.next(session, message), nil
}

func (uc *IntakeUsecase) answerZipCode(session *entity.Session, answer entity.Answer) (*entity.RespondResponse, error) {
	zip, err := parseZipCode(answer)
	if err != nil {
		return nil, err
	}

	session.UserInfo.ZipCode = zip
	session.CurrentStep = entity.IntakeStepNeeds

	return uc.next(session, fmt.Sprintf(zipCodeAck, zip)), nil
}

func (uc *IntakeUsecase) answerNeeds(session *entity.Session, answer entity.Answer) (*entity.RespondResponse, error) {
	needs, err := parseNeeds(answer)
	if err != nil {
		return nil, err
	}

	session.UserInfo.Needs = needs
	session.CurrentStep = entity.IntakeStepHouseholdSize

	return uc.next(session, needsAck), nil
}

func (uc *IntakeUsecase) answerHouseholdSize(session *entity.Session, answer entity.Answer) (*entity.RespondResponse, error) {
	size, err := parseOption(answer, HouseholdSizeOptions)
	if err != nil {
		return nil, err
	}

	session.UserInfo.HouseholdSize = size
	session.CurrentStep = entity.IntakeStepIncome

	return uc.next(session, householdSizeAck), nil
}

// answerIncome records the last intake field and runs the single bulk generation.
// A failed generation leaves the session with no resources.
func (uc *IntakeUsecase) answerIncome(ctx context.Context, session *entity.Session, answer entity.Answer) (*entity.RespondResponse, error) {
	income, err := parseOption(answer, IncomeOptions)
	if err != nil {
		return nil, err
	}
	session.UserInfo.Income = income

	result := uc.recommender.GenerateResources(ctx, session.UserInfo)
	if !result.OK() {
		ctxzap.Warn(ctx, "continuing intake without resources",
			zap.String("status", string(result.Status)),
			zap.Error(result.Err),
		)
	}

	session.AllResources = result.Resources
	session.Buckets = recommendation.SplitByPriority(result.Resources)
	session.CurrentStep = entity.IntakeStepMoreInfo

	intro := resourcesFound
	if len(result.Resources) == 0 {
		intro = resourcesMissing
	}

	messages := []entity.BotMessage{{Type: entity.BotMessageText, Text: intro}}
	for _, bucket := range bucketsInOrder(session.Buckets) {
		messages = append(messages, entity.BotMessage{
			Type:      entity.BotMessageResources,
			Title:     BucketTitle(bucket.priority),
			Priority:  bucket.priority,
			Resources: bucket.resources,
		})
	}

	return &entity.RespondResponse{
		Messages:     messages,
		NextQuestion: questionFor(session),
	}, nil
}

func (uc *IntakeUsecase) answerMoreInfo(session *entity.Session, answer entity.Answer) (*entity.RespondResponse, error) {
	wantsMore, err := parseYesNo(answer)
	if err != nil {
		return nil, err
	}

	if !wantsMore {
		session.CurrentStep = entity.IntakeStepComplete
		return &entity.RespondResponse{Message: goodbyeMessage}, nil
	}

	if len(session.AllResources) == 0 {
		session.CurrentStep = entity.IntakeStepComplete
		return &entity.RespondResponse{Message: noResourcesToShow + " " + completeAfterEmpty}, nil
	}

	session.CurrentStep = entity.IntakeStepResourceDetail

	return &entity.RespondResponse{NextQuestion: questionFor(session)}, nil
}

// answerResourceDetail looks up the chosen resource. Unknown names re-ask the
// same question without leaving the step.
func (uc *IntakeUsecase) answerResourceDetail(ctx context.Context, session *entity.Session, answer entity.Answer) (*entity.RespondResponse, error) {
	resource, ok := findResource(session.AllResources, answer.Text())
	if !ok {
		return &entity.RespondResponse{
			Message:      unknownResource,
			NextQuestion: questionFor(session),
		}, nil
	}

	var message entity.BotMessage
	detail, found := uc.recommender.ResourceDetail(ctx, resource, session.UserInfo.ZipCode)
	if found {
		message = entity.BotMessage{
			Type:         entity.BotMessageResourceDetail,
			Text:         detail,
			ResourceName: resource.Name,
			URL:          resource.URL,
		}
	} else {
		message = entity.BotMessage{
			Type:         entity.BotMessageText,
			Text:         fmt.Sprintf(detailUnavailable, resource.Name, resource.URL),
			ResourceName: resource.Name,
			URL:          resource.URL,
		}
	}

	session.CurrentStep = entity.IntakeStepMoreInfo

	return &entity.RespondResponse{
		Messages:     []entity.BotMessage{message},
		NextQuestion: questionFor(session),
	}, nil
}

func (uc *IntakeUsecase) next(session *entity.Session, message string) *entity.RespondResponse {
	return &entity.RespondResponse{
		Message:      message,
		NextQuestion: questionFor(session),
	}
}

type bucket struct {
	priority  entity.ResourcePriority
	resources []entity.Resource
}

// bucketsInOrder returns the non-empty buckets, emergency first
func bucketsInOrder(b entity.ResourceBuckets) []bucket {
	all := []bucket{
		{priority: entity.PriorityEmergency, resources: b.Emergency},
		{priority: entity.PriorityPrimary, resources: b.Primary},
		{priority: entity.PriorityAdditional, resources: b.Additional},
	}

	nonEmpty := make([]bucket, 0, len(all))
	for _, bk := range all {
		if len(bk.resources) > 0 {
			nonEmpty = append(nonEmpty, bk)
		}
	}
	return nonEmpty
}
