package controller

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/events"
	"github.com/avaliafacil/feedback/internal/feedback/models"
)

func TestAttendantCreate(t *testing.T) {
	repo := setupRepo(t)
	company := seedCompany(t, repo, "criacao", models.PlanGratis)
	producer := &capturingProducer{}
	svc := NewAttendantService(repo, producer, zaptest.NewLogger(t))

	attendant, err := svc.Create(context.Background(), company.ID, &AttendantInput{
		Name:   "  Roberta  ",
		Phone:  "+5511900001111",
		Sector: "Caixa",
		Notify: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Roberta", attendant.Name, "surrounding whitespace is trimmed")
	assert.True(t, attendant.Active)
	assert.True(t, attendant.Notify)

	producer.waitForEvent(t, events.AttendantCreated, 1)
}

func TestAttendantCreateValidation(t *testing.T) {
	repo := setupRepo(t)
	company := seedCompany(t, repo, "invalida", models.PlanGratis)
	svc := NewAttendantService(repo, &capturingProducer{}, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, company.ID, &AttendantInput{Name: "   "})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = svc.Create(ctx, uuid.New(), &AttendantInput{Name: "Alguém"})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestAttendantCreateDuplicateName(t *testing.T) {
	repo := setupRepo(t)
	company := seedCompany(t, repo, "duplicada", models.PlanGratis)
	svc := NewAttendantService(repo, &capturingProducer{}, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, company.ID, &AttendantInput{Name: "Igual"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, company.ID, &AttendantInput{Name: "Igual"})
	assert.ErrorIs(t, err, e.ErrDuplicateName)
}

func TestAttendantPlanCeilings(t *testing.T) {
	cases := []struct {
		plan    models.Plan
		allowed int
	}{
		{models.PlanGratis, 5},
		{models.PlanPequenas, 20},
		{models.Plan("LEGACY"), 5},
	}

	for _, tc := range cases {
		t.Run(string(tc.plan), func(t *testing.T) {
			repo := setupRepo(t)
			company := seedCompany(t, repo, "plano-"+string(tc.plan), tc.plan)
			svc := NewAttendantService(repo, &capturingProducer{}, zaptest.NewLogger(t))
			ctx := context.Background()

			for i := 0; i < tc.allowed; i++ {
				_, err := svc.Create(ctx, company.ID, &AttendantInput{Name: fmt.Sprintf("Atendente %d", i)})
				require.NoError(t, err, "creation %d must fit the plan", i)
			}

			_, err := svc.Create(ctx, company.ID, &AttendantInput{Name: "Um a mais"})
			assert.ErrorIs(t, err, e.ErrQuotaExceeded)

			count, err := repo.CountAttendants(ctx, company.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(tc.allowed), count, "the rejected creation must not persist")
		})
	}
}

func TestAttendantUnlimitedPlan(t *testing.T) {
	repo := setupRepo(t)
	company := seedCompany(t, repo, "ilimitada", models.PlanGrandes)
	svc := NewAttendantService(repo, &capturingProducer{}, zaptest.NewLogger(t))
	ctx := context.Background()

	// Well past the free-tier ceiling.
	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, company.ID, &AttendantInput{Name: fmt.Sprintf("Atendente %d", i)})
		require.NoError(t, err)
	}
}

func TestAttendantListAndDelete(t *testing.T) {
	repo := setupRepo(t)
	company := seedCompany(t, repo, "gestao", models.PlanPequenas)
	other := seedCompany(t, repo, "intrusa", models.PlanPequenas)
	svc := NewAttendantService(repo, &capturingProducer{}, zaptest.NewLogger(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, company.ID, &AttendantInput{Name: "Vai Embora"})
	require.NoError(t, err)

	roster, err := svc.List(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)

	err = svc.Delete(ctx, created.ID, other.ID)
	assert.ErrorIs(t, err, e.ErrNotFound, "deletion from another tenant must fail")

	require.NoError(t, svc.Delete(ctx, created.ID, company.ID))

	roster, err = svc.List(ctx, company.ID)
	require.NoError(t, err)
	assert.Empty(t, roster)
}
