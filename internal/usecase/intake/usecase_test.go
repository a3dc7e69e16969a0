package intake

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRecommender struct {
	result       entity.GenerationResult
	detail       string
	detailOK     bool
	bulkCalls    atomic.Int32
	detailCalls  atomic.Int32
	lastInfo     entity.UserInfo
	lastResource entity.Resource
	delay        time.Duration
}

func (f *fakeRecommender) GenerateResources(_ context.Context, info entity.UserInfo) entity.GenerationResult {
	f.bulkCalls.Add(1)
	f.lastInfo = info
	time.Sleep(f.delay)
	return f.result
}

func (f *fakeRecommender) ResourceDetail(_ context.Context, resource entity.Resource, _ string) (string, bool) {
	f.detailCalls.Add(1)
	f.lastResource = resource
	return f.detail, f.detailOK
}

var testResources = []entity.Resource{
	{Name: "SNAP", Category: "Food", URL: "https://snap.example", Priority: entity.PriorityPrimary},
	{Name: "Shelter Line", Category: "Housing", URL: "https://shelter.example", Priority: entity.PriorityEmergency},
	{Name: "Library", Category: "Education", URL: "https://library.example", Priority: entity.PriorityAdditional},
	{Name: "WIC", Category: "Food", URL: "https://wic.example", Priority: entity.PriorityPrimary},
	{Name: "snap", Category: "Food", URL: "https://duplicate.example", Priority: entity.PriorityAdditional},
}

func successResult() entity.GenerationResult {
	return entity.GenerationResult{Status: entity.GenerationSuccess, Resources: testResources}
}

func newTestUsecase(rec Recommender) *IntakeUsecase {
	return NewUsecase(repository.NewSessionCache(time.Minute, time.Minute), rec, zap.NewNop())
}

func respond(t *testing.T, uc *IntakeUsecase, sessionID string, step entity.IntakeStep, values ...string) *entity.RespondResponse {
	t.Helper()

	resp, err := uc.Respond(context.Background(), sessionID, string(step), entity.Answer{Values: values})
	require.NoError(t, err)
	return resp
}

// completeIntake answers every intake question and returns the income response
func completeIntake(t *testing.T, uc *IntakeUsecase) (string, *entity.RespondResponse) {
	t.Helper()

	start, err := uc.Start(context.Background())
	require.NoError(t, err)

	respond(t, uc, start.SessionID, entity.IntakeStepEmergency, "yes")
	respond(t, uc, start.SessionID, entity.IntakeStepZipCode, "94110")
	respond(t, uc, start.SessionID, entity.IntakeStepNeeds, "Food", "Housing")
	respond(t, uc, start.SessionID, entity.IntakeStepHouseholdSize, "3-4")
	resp := respond(t, uc, start.SessionID, entity.IntakeStepIncome, "Under $15,000")

	return start.SessionID, resp
}

func TestStart(t *testing.T) {
	uc := newTestUsecase(&fakeRecommender{})

	resp, err := uc.Start(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.Message)
	require.NotNil(t, resp.NextQuestion)
	assert.Equal(t, entity.IntakeStepEmergency, resp.NextQuestion.Type)
	assert.Equal(t, entity.InputTypeSingleChoice, resp.NextQuestion.InputType)
	assert.Equal(t, []string{"Yes", "No"}, resp.NextQuestion.Options)
}

func TestIntakeFlowQuestions(t *testing.T) {
	uc := newTestUsecase(&fakeRecommender{result: successResult()})

	start, err := uc.Start(context.Background())
	require.NoError(t, err)
	id := start.SessionID

	resp := respond(t, uc, id, entity.IntakeStepEmergency, "No")
	assert.Equal(t, entity.IntakeStepZipCode, resp.NextQuestion.Type)
	assert.Equal(t, entity.InputTypeText, resp.NextQuestion.InputType)

	resp = respond(t, uc, id, entity.IntakeStepZipCode, "94110-1234")
	assert.Equal(t, entity.IntakeStepNeeds, resp.NextQuestion.Type)
	assert.Equal(t, entity.InputTypeMultiSelect, resp.NextQuestion.InputType)
	assert.Equal(t, NeedOptions, resp.NextQuestion.Options)

	resp = respond(t, uc, id, entity.IntakeStepNeeds, "Food, Housing, Food")
	assert.Equal(t, entity.IntakeStepHouseholdSize, resp.NextQuestion.Type)
	assert.Equal(t, HouseholdSizeOptions, resp.NextQuestion.Options)

	resp = respond(t, uc, id, entity.IntakeStepHouseholdSize, "2")
	assert.Equal(t, entity.IntakeStepIncome, resp.NextQuestion.Type)
	assert.Equal(t, IncomeOptions, resp.NextQuestion.Options)

	session, err := uc.sessionRepo.GetSession(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, session.UserInfo.Emergency)
	assert.False(t, *session.UserInfo.Emergency)
	assert.Equal(t, "94110-1234", session.UserInfo.ZipCode)
	assert.Equal(t, []string{"Food", "Housing"}, session.UserInfo.Needs)
	assert.Equal(t, "2", session.UserInfo.HouseholdSize)
}

func TestIncomeTriggersSingleGeneration(t *testing.T) {
	rec := &fakeRecommender{result: successResult()}
	uc := newTestUsecase(rec)

	id, resp := completeIntake(t, uc)

	assert.Equal(t, int32(1), rec.bulkCalls.Load())
	assert.Equal(t, "94110", rec.lastInfo.ZipCode)
	assert.Equal(t, "Under $15,000", rec.lastInfo.Income)
	assert.Equal(t, []string{"Food", "Housing"}, rec.lastInfo.Needs)

	assert.Empty(t, resp.Message)
	require.Len(t, resp.Messages, 4)
	assert.Equal(t, entity.BotMessageText, resp.Messages[0].Type)

	assert.Equal(t, "Emergency Resources", resp.Messages[1].Title)
	assert.Equal(t, []string{"Shelter Line"}, names(resp.Messages[1].Resources))
	assert.Equal(t, "Recommended Resources", resp.Messages[2].Title)
	assert.Equal(t, []string{"SNAP", "WIC"}, names(resp.Messages[2].Resources))
	assert.Equal(t, "Additional Resources", resp.Messages[3].Title)
	assert.Equal(t, []string{"Library", "snap"}, names(resp.Messages[3].Resources))

	require.NotNil(t, resp.NextQuestion)
	assert.Equal(t, entity.IntakeStepMoreInfo, resp.NextQuestion.Type)

	session, err := uc.sessionRepo.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, testResources, session.AllResources)
}

func TestIncomeGenerationFailureContinues(t *testing.T) {
	rec := &fakeRecommender{result: entity.GenerationResult{
		Status: entity.GenerationUpstreamError,
		Err:    entity.ErrUpstreamFailure,
	}}
	uc := newTestUsecase(rec)

	id, resp := completeIntake(t, uc)

	require.Len(t, resp.Messages, 1)
	assert.Equal(t, resourcesMissing, resp.Messages[0].Text)
	assert.Equal(t, entity.IntakeStepMoreInfo, resp.NextQuestion.Type)

	resp = respond(t, uc, id, entity.IntakeStepMoreInfo, "Yes")
	assert.Nil(t, resp.NextQuestion)
	assert.Contains(t, resp.Message, noResourcesToShow)

	_, err := uc.Respond(context.Background(), id, "", entity.TextAnswer("Yes"))
	require.ErrorIs(t, err, entity.ErrSessionCompleted)
}

func TestResourceDetailLoop(t *testing.T) {
	rec := &fakeRecommender{result: successResult(), detail: "SNAP helps with groceries.", detailOK: true}
	uc := newTestUsecase(rec)

	id, _ := completeIntake(t, uc)

	resp := respond(t, uc, id, entity.IntakeStepMoreInfo, "Yes")
	require.NotNil(t, resp.NextQuestion)
	assert.Equal(t, entity.IntakeStepResourceDetail, resp.NextQuestion.Type)
	assert.Equal(t, []string{"SNAP", "Shelter Line", "Library", "WIC", "snap"}, resp.NextQuestion.Options)

	resp = respond(t, uc, id, entity.IntakeStepResourceDetail, "  snap ")
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, entity.BotMessageResourceDetail, resp.Messages[0].Type)
	assert.Equal(t, "SNAP helps with groceries.", resp.Messages[0].Text)
	assert.Equal(t, "https://snap.example", rec.lastResource.URL)
	assert.Equal(t, entity.IntakeStepMoreInfo, resp.NextQuestion.Type)

	resp = respond(t, uc, id, entity.IntakeStepMoreInfo, "no")
	assert.Nil(t, resp.NextQuestion)
	assert.Equal(t, goodbyeMessage, resp.Message)
}

func TestResourceDetailUnknownNameReprompts(t *testing.T) {
	rec := &fakeRecommender{result: successResult(), detailOK: true}
	uc := newTestUsecase(rec)

	id, _ := completeIntake(t, uc)
	respond(t, uc, id, entity.IntakeStepMoreInfo, "Yes")

	resp := respond(t, uc, id, entity.IntakeStepResourceDetail, "Unknown Program")
	assert.Equal(t, unknownResource, resp.Message)
	require.NotNil(t, resp.NextQuestion)
	assert.Equal(t, entity.IntakeStepResourceDetail, resp.NextQuestion.Type)
	assert.Equal(t, int32(0), rec.detailCalls.Load())
}

func TestResourceDetailDegrades(t *testing.T) {
	rec := &fakeRecommender{result: successResult(), detailOK: false}
	uc := newTestUsecase(rec)

	id, _ := completeIntake(t, uc)
	respond(t, uc, id, entity.IntakeStepMoreInfo, "Yes")

	resp := respond(t, uc, id, entity.IntakeStepResourceDetail, "WIC")
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, entity.BotMessageText, resp.Messages[0].Type)
	assert.Contains(t, resp.Messages[0].Text, "https://wic.example")
	assert.Equal(t, entity.IntakeStepMoreInfo, resp.NextQuestion.Type)
}

func TestRespondErrors(t *testing.T) {
	uc := newTestUsecase(&fakeRecommender{})

	_, err := uc.Respond(context.Background(), "missing", "", entity.TextAnswer("yes"))
	require.ErrorIs(t, err, entity.ErrInvalidSession)

	start, err := uc.Start(context.Background())
	require.NoError(t, err)

	_, err = uc.Respond(context.Background(), start.SessionID, "zip_code", entity.TextAnswer("94110"))
	require.ErrorIs(t, err, entity.ErrUnexpectedQuestion)

	_, err = uc.Respond(context.Background(), start.SessionID, "", entity.TextAnswer("maybe"))
	require.ErrorIs(t, err, entity.ErrInvalidAnswer)

	resp := respond(t, uc, start.SessionID, "", "y")
	assert.Equal(t, entity.IntakeStepZipCode, resp.NextQuestion.Type)

	_, err = uc.Respond(context.Background(), start.SessionID, "zip_code", entity.TextAnswer("ABCDE"))
	require.ErrorIs(t, err, entity.ErrInvalidAnswer)
}

func TestInvalidAnswersKeepStep(t *testing.T) {
	uc := newTestUsecase(&fakeRecommender{result: successResult()})

	start, err := uc.Start(context.Background())
	require.NoError(t, err)
	id := start.SessionID

	respond(t, uc, id, entity.IntakeStepEmergency, "no")
	respond(t, uc, id, entity.IntakeStepZipCode, "10001")

	_, err = uc.Respond(context.Background(), id, "needs", entity.Answer{Values: []string{" ", ""}})
	require.ErrorIs(t, err, entity.ErrInvalidAnswer)

	respond(t, uc, id, entity.IntakeStepNeeds, `["Food","Utilities"]`)

	_, err = uc.Respond(context.Background(), id, "household_size", entity.TextAnswer("twelve"))
	require.ErrorIs(t, err, entity.ErrInvalidAnswer)

	session, err := uc.sessionRepo.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.IntakeStepHouseholdSize, session.CurrentStep)
	assert.Equal(t, []string{"Food", "Utilities"}, session.UserInfo.Needs)
}

func TestConcurrentRespondSerialized(t *testing.T) {
	rec := &fakeRecommender{result: successResult(), delay: 20 * time.Millisecond}
	uc := newTestUsecase(rec)

	start, err := uc.Start(context.Background())
	require.NoError(t, err)
	id := start.SessionID

	respond(t, uc, id, entity.IntakeStepEmergency, "no")
	respond(t, uc, id, entity.IntakeStepZipCode, "10001")
	respond(t, uc, id, entity.IntakeStepNeeds, "Food")
	respond(t, uc, id, entity.IntakeStepHouseholdSize, "1")

	const callers = 5
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Respond(context.Background(), id, "income", entity.TextAnswer("Over $75,000"))
			if err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(1), rec.bulkCalls.Load())
	assert.Equal(t, 0, uc.locks.size())
}

func TestGetResources(t *testing.T) {
	uc := newTestUsecase(&fakeRecommender{result: successResult()})

	id, _ := completeIntake(t, uc)

	report, err := uc.GetResources(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, report.Sections, 3)
	assert.Equal(t, entity.PriorityEmergency, report.Sections[0].Priority)
	assert.Equal(t, "Recommended Resources", report.Sections[1].Title)
	assert.Equal(t, "94110", report.UserInfo.ZipCode)

	_, err = uc.GetResources(context.Background(), "missing")
	require.ErrorIs(t, err, entity.ErrInvalidSession)
}

func names(resources []entity.Resource) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.Name)
	}
	return out
}
